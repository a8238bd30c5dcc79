package gorm

import "il2-rankmod/light/internal/constants"

// Squadron links a pilot's squadron row to its config (country*1000+unit)
// and to the career it belongs to.
type Squadron struct {
	ID       int64  `gorm:"column:id;primaryKey" db:"id"`
	ConfigID *int64 `gorm:"column:configId" db:"configId"`
	CareerID *int64 `gorm:"column:careerId" db:"careerId"`
}

// TableName specifies the table name for GORM
func (Squadron) TableName() string {
	return constants.TableSquadron
}
