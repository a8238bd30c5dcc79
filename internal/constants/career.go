package constants

// Career database conventions shared with the game.
const (
	// EventTypePromotion is the event.type code the game renders as a promotion.
	EventTypePromotion = 6

	// NoMissionID marks events that are not attached to a flown mission.
	NoMissionID = -1

	// UnresolvedID is written when a squadron or career reference cannot be found.
	UnresolvedID = -1

	// ManagedRankFloor is the lowest rank the promotion policy manages.
	ManagedRankFloor = 4

	// DefaultMaxRank is the ceiling used for unknown countries and the
	// personage.maxRank value written at startup.
	DefaultMaxRank = 13

	// DefaultCountry is assumed when a pilot's squadron is not in the country map.
	DefaultCountry = 201

	// CountryDivisor turns squadron.configId into a country code.
	CountryDivisor = 1000

	// HostProcessName is the game executable watched by the daemon.
	HostProcessName = "il-2.exe"
)

// Table names in cp.db.
const (
	TablePilot             = "pilot"
	TableSquadron          = "squadron"
	TableMission           = "mission"
	TableEvent             = "event"
	TablePersonage         = "personage"
	TablePromotionAttempts = "promotion_attempts"
	TablePlayerMigrations  = "rankmod_player_migrations"
)

// Career folder layout relative to the game installation.
const (
	CareerDirRel   = "data/Career"
	CareerDBFile   = "cp.db"
	ConfigFileName = "promotion_config.json"
	LogFileName    = "promotion_debug.log"
)
