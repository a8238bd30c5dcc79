package gorm

import "il2-rankmod/light/internal/constants"

// PromotionAttempt tracks the last player promotion roll per pilot.
// LastAttempt is a canonical YYYY.MM.DD date.
type PromotionAttempt struct {
	PilotID     int64  `gorm:"column:pilotId;primaryKey;autoIncrement:false" json:"pilot_id"`
	LastAttempt string `gorm:"column:last_attempt" json:"last_attempt"`
	LastSuccess bool   `gorm:"column:last_success" json:"last_success"`
	FailCount   int    `gorm:"column:fail_count" json:"fail_count"`
}

// TableName specifies the table name for GORM
func (PromotionAttempt) TableName() string {
	return constants.TablePromotionAttempts
}
