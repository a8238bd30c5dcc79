package gorm

import "il2-rankmod/light/internal/constants"

// PlayerMigration marks a successor pilot id whose stats were already
// carried over from OldPilotID.
type PlayerMigration struct {
	OldPilotID int64  `gorm:"column:oldPilotId"`
	NewPilotID int64  `gorm:"column:newPilotId;primaryKey;autoIncrement:false"`
	MigratedOn string `gorm:"column:migratedOn"`
}

// TableName specifies the table name for GORM
func (PlayerMigration) TableName() string {
	return constants.TablePlayerMigrations
}
