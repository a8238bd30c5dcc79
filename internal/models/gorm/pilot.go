package gorm

import (
	"strings"

	"il2-rankmod/light/internal/constants"
)

// Pilot is the game's pilot row. The game owns it; the daemon only writes
// rankId and, during a carry-over, the non-identity stat columns.
type Pilot struct {
	ID          int64   `gorm:"column:id;primaryKey" db:"id"`
	RankID      int     `gorm:"column:rankId" db:"rankId"`
	PCP         float64 `gorm:"column:pcp" db:"pcp"`
	Sorties     int     `gorm:"column:sorties" db:"sorties"`
	GoodSorties int     `gorm:"column:goodSorties" db:"goodSorties"`
	SquadronID  int64   `gorm:"column:squadronId" db:"squadronId"`
	PersonageID string  `gorm:"column:personageId" db:"personageId"`
	Name        string  `gorm:"column:name" db:"name"`
	LastName    string  `gorm:"column:lastName" db:"lastName"`
	Description string  `gorm:"column:description" db:"description"`
	IsDeleted   bool    `gorm:"column:isDeleted" db:"isDeleted"`
}

// TableName specifies the table name for GORM
func (Pilot) TableName() string {
	return constants.TablePilot
}

// FullName is the trimmed "name lastName" snapshot written into promotion events.
func (p Pilot) FullName() string {
	return strings.TrimSpace(p.Name + " " + p.LastName)
}
