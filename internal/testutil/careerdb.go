// Package testutil builds throwaway career databases shaped like the game's
// cp.db for repository, service and job tests.
package testutil

import (
	"path/filepath"
	"testing"

	"il2-rankmod/light/internal/db"

	"github.com/stretchr/testify/require"
)

const careerSchema = `
CREATE TABLE pilot (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	personageId TEXT,
	squadronId INTEGER,
	name TEXT,
	lastName TEXT,
	birthDay DATE,
	description TEXT,
	avatarPath TEXT,
	AILevel INTEGER DEFAULT 0,
	rankId INTEGER DEFAULT 0,
	pcp REAL DEFAULT 0,
	sorties INTEGER DEFAULT 0,
	goodSorties INTEGER DEFAULT 0,
	flights INTEGER DEFAULT 0,
	lastMissionDate DATE,
	commonStat TEXT,
	insDate DATETIME,
	isDeleted INTEGER DEFAULT 0
);
CREATE TABLE squadron (
	id INTEGER PRIMARY KEY,
	configId INTEGER,
	careerId INTEGER
);
CREATE TABLE mission (
	id INTEGER PRIMARY KEY,
	date DATE,
	squadronId INTEGER
);
CREATE TABLE event (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	date TEXT,
	type INTEGER,
	pilotId INTEGER,
	rankId INTEGER,
	missionId INTEGER,
	squadronId INTEGER,
	careerId INTEGER,
	ipar1 INTEGER,
	ipar2 INTEGER,
	ipar3 INTEGER,
	ipar4 INTEGER,
	tpar1 TEXT,
	tpar2 TEXT,
	tpar3 TEXT,
	tpar4 TEXT,
	isDeleted INTEGER DEFAULT 0
);
CREATE TABLE personage (
	id INTEGER PRIMARY KEY,
	maxRank INTEGER
);`

// Pilot is a seed row for the pilot table. Zero PersonageID means an AI pilot.
type Pilot struct {
	ID          int64
	PersonageID string
	SquadronID  int64
	Name        string
	LastName    string
	Description string
	RankID      int
	PCP         float64
	Sorties     int
	GoodSorties int
	Flights     int
	IsDeleted   bool
}

// NewCareerDB creates cp.db in a temp dir with the game tables and opens it
// the way the daemon does.
func NewCareerDB(t testing.TB) *db.CareerDB {
	t.Helper()

	cdb, err := db.OpenCareerDB(filepath.Join(t.TempDir(), "cp.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = cdb.Close() })

	_, err = cdb.SQL.Exec(careerSchema)
	require.NoError(t, err)

	return cdb
}

func Exec(t testing.TB, cdb *db.CareerDB, query string, args ...interface{}) {
	t.Helper()
	_, err := cdb.SQL.Exec(query, args...)
	require.NoError(t, err)
}

func InsertPilot(t testing.TB, cdb *db.CareerDB, p Pilot) {
	t.Helper()

	var personage interface{}
	if p.PersonageID != "" {
		personage = p.PersonageID
	}

	Exec(t, cdb, `
		INSERT INTO pilot (id, personageId, squadronId, name, lastName, description,
			rankId, pcp, sorties, goodSorties, flights, isDeleted, insDate)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, '2024-01-01 12:00:00')`,
		p.ID, personage, p.SquadronID, p.Name, p.LastName, p.Description,
		p.RankID, p.PCP, p.Sorties, p.GoodSorties, p.Flights, p.IsDeleted,
	)
}

// InsertSquadron seeds a squadron; nil ids are stored as NULL.
func InsertSquadron(t testing.TB, cdb *db.CareerDB, id int64, configID, careerID *int64) {
	t.Helper()
	Exec(t, cdb, `INSERT INTO squadron (id, configId, careerId) VALUES (?, ?, ?)`, id, configID, careerID)
}

func InsertMission(t testing.TB, cdb *db.CareerDB, id int64, date string, squadronID int64) {
	t.Helper()
	Exec(t, cdb, `INSERT INTO mission (id, date, squadronId) VALUES (?, ?, ?)`, id, date, squadronID)
}

// InsertMissionEvent seeds a journal entry tying a pilot to a mission.
func InsertMissionEvent(t testing.TB, cdb *db.CareerDB, pilotID, missionID int64) {
	t.Helper()
	Exec(t, cdb, `
		INSERT INTO event (date, type, pilotId, rankId, missionId, squadronId, careerId, isDeleted)
		VALUES ('1942.11.19 00:00:00', 1, ?, 0, ?, 0, 0, 0)`, pilotID, missionID)
}

func Int64(v int64) *int64 { return &v }

// RankOf reads a pilot's current rank.
func RankOf(t testing.TB, cdb *db.CareerDB, pilotID int64) int {
	t.Helper()
	var rank int
	require.NoError(t, cdb.SQL.Get(&rank, `SELECT rankId FROM pilot WHERE id = ?`, pilotID))
	return rank
}

// Count runs a COUNT(*) style query.
func Count(t testing.TB, cdb *db.CareerDB, query string, args ...interface{}) int {
	t.Helper()
	var n int
	require.NoError(t, cdb.SQL.Get(&n, query, args...))
	return n
}
