package entities

// ManagedPilotRow is one pilot as scanned for a promotion pass. The stat
// columns stay untyped until the rule engine coerces them, because the game
// database does not enforce column types.
type ManagedPilotRow struct {
	ID          int64 `db:"id"`
	RankID      int   `db:"rankId"`
	PCP         any   `db:"pcp"`
	Sorties     any   `db:"sorties"`
	GoodSorties any   `db:"goodSorties"`
	SquadronID  int64 `db:"squadronId"`
}

// MissionRow is a mission as polled by the day-change monitor.
type MissionRow struct {
	ID         int64   `db:"id"`
	Date       *string `db:"date"`
	SquadronID int64   `db:"squadronId"`
}

// PilotColumn is one entry of PRAGMA table_info(pilot).
type PilotColumn struct {
	CID          int     `db:"cid"`
	Name         string  `db:"name"`
	Type         string  `db:"type"`
	NotNull      int     `db:"notnull"`
	DefaultValue *string `db:"dflt_value"`
	PK           int     `db:"pk"`
}

// PromotionEventRow is a promotion journal entry as served by the status API.
type PromotionEventRow struct {
	ID         int64  `db:"id" json:"id"`
	Date       string `db:"date" json:"date"`
	PilotID    int64  `db:"pilotId" json:"pilot_id"`
	RankID     int    `db:"rankId" json:"rank_id"`
	SquadronID int64  `db:"squadronId" json:"squadron_id"`
	CareerID   int64  `db:"careerId" json:"career_id"`
	NewRank    int    `db:"ipar1" json:"new_rank"`
	PilotName  string `db:"tpar1" json:"pilot_name"`
}
