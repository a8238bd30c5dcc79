package gorm

import "il2-rankmod/light/internal/constants"

type Mission struct {
	ID         int64   `gorm:"column:id;primaryKey" db:"id"`
	Date       *string `gorm:"column:date" db:"date"`
	SquadronID int64   `gorm:"column:squadronId" db:"squadronId"`
}

// TableName specifies the table name for GORM
func (Mission) TableName() string {
	return constants.TableMission
}
