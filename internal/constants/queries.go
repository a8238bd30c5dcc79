package constants

// Owned-table DDL. Shapes match the tables earlier releases created so an
// existing cp.db keeps its attempt history.
const CreatePromotionAttemptsTable = `
CREATE TABLE IF NOT EXISTS promotion_attempts (
	pilotId INTEGER PRIMARY KEY,
	last_attempt TEXT,
	last_success INTEGER,
	fail_count INTEGER DEFAULT 0
)`

const CreatePlayerMigrationsTable = `
CREATE TABLE IF NOT EXISTS rankmod_player_migrations (
	oldPilotId INTEGER,
	newPilotId INTEGER PRIMARY KEY,
	migratedOn TEXT
)`

const DeleteOrphanedPromotionAttempts = `
DELETE FROM promotion_attempts
WHERE pilotId NOT IN (SELECT id FROM pilot)`

const CopyPromotionAttempt = `
INSERT INTO promotion_attempts (pilotId, last_attempt, last_success, fail_count)
SELECT ?, last_attempt, last_success, fail_count
FROM promotion_attempts
WHERE pilotId = ?
ON CONFLICT(pilotId) DO UPDATE SET
	last_attempt = excluded.last_attempt,
	last_success = excluded.last_success,
	fail_count = excluded.fail_count`

// InsertPromotionEventIfAbsent inserts a promotion event unless one already
// exists for the same pilot, rank and day.
const InsertPromotionEventIfAbsent = `
INSERT INTO event (
	date, type, pilotId, rankId, missionId,
	squadronId, careerId,
	ipar1, ipar2, ipar3, ipar4,
	tpar1, tpar2, tpar3, tpar4,
	isDeleted
)
SELECT
	?, ?, ?, ?, ?,
	?, ?,
	?, -1, -1, -1,
	?, '', '', '',
	0
WHERE NOT EXISTS (
	SELECT 1 FROM event
	WHERE type = ? AND pilotId = ? AND rankId = ? AND date = ? AND missionId = ?
)`

const SelectManagedPilots = `
SELECT id, COALESCE(rankId, 0) AS rankId, pcp, sorties, goodSorties,
	COALESCE(squadronId, -1) AS squadronId
FROM pilot
WHERE isDeleted = 0`

const SelectPilotByID = `
SELECT id, COALESCE(rankId, 0) AS rankId,
	COALESCE(squadronId, -1) AS squadronId,
	COALESCE(personageId, '') AS personageId,
	COALESCE(name, '') AS name,
	COALESCE(lastName, '') AS lastName,
	COALESCE(description, '') AS description,
	COALESCE(isDeleted, 0) AS isDeleted
FROM pilot
WHERE id = ?`

const SelectPreviousIdentity = `
SELECT id
FROM pilot
WHERE isDeleted = 0
	AND description = ?
	AND name = ?
	AND lastName = ?
	AND id < ?
ORDER BY id DESC
LIMIT 1`

const SelectPilotColumns = `PRAGMA table_info(pilot)`

const SelectSquadronCountries = `SELECT id, configId FROM squadron WHERE configId IS NOT NULL`

// Mission dates are read as text so the driver does not convert them.
const SelectLatestMission = `
SELECT id, CAST(date AS TEXT) AS date, COALESCE(squadronId, -1) AS squadronId
FROM mission
ORDER BY id DESC
LIMIT 1`

const SelectMissionsAfter = `
SELECT id, CAST(date AS TEXT) AS date, COALESCE(squadronId, -1) AS squadronId
FROM mission
WHERE id > ?
ORDER BY id ASC`

const SelectLatestMissionForSquadron = `SELECT id FROM mission WHERE squadronId = ? ORDER BY id DESC LIMIT 1`

const SelectRecentPromotionEvents = `
SELECT id, CAST(date AS TEXT) AS date, pilotId, rankId, squadronId, careerId,
	COALESCE(ipar1, -1) AS ipar1, COALESCE(tpar1, '') AS tpar1
FROM event
WHERE type = ? AND missionId = ? AND isDeleted = 0
ORDER BY id DESC
LIMIT ?`
