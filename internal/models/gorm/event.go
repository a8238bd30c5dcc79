package gorm

import "il2-rankmod/light/internal/constants"

// Event is a row of the game's career journal. Promotions written by the
// daemon use Type 6, MissionID -1, Ipar1 = new rank and Tpar1 = pilot name.
type Event struct {
	ID         int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Date       string `gorm:"column:date" json:"date"`
	Type       int    `gorm:"column:type" json:"type"`
	PilotID    int64  `gorm:"column:pilotId" json:"pilot_id"`
	RankID     int    `gorm:"column:rankId" json:"rank_id"`
	MissionID  int64  `gorm:"column:missionId" json:"mission_id"`
	SquadronID int64  `gorm:"column:squadronId" json:"squadron_id"`
	CareerID   int64  `gorm:"column:careerId" json:"career_id"`
	Ipar1      int64  `gorm:"column:ipar1" json:"ipar1"`
	Ipar2      int64  `gorm:"column:ipar2" json:"-"`
	Ipar3      int64  `gorm:"column:ipar3" json:"-"`
	Ipar4      int64  `gorm:"column:ipar4" json:"-"`
	Tpar1      string `gorm:"column:tpar1" json:"tpar1"`
	Tpar2      string `gorm:"column:tpar2" json:"-"`
	Tpar3      string `gorm:"column:tpar3" json:"-"`
	Tpar4      string `gorm:"column:tpar4" json:"-"`
	IsDeleted  bool   `gorm:"column:isDeleted" json:"-"`
}

// TableName specifies the table name for GORM
func (Event) TableName() string {
	return constants.TableEvent
}
