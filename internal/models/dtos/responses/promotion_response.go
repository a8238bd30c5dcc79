package responses

import (
	"il2-rankmod/light/internal/models/dtos"
	"il2-rankmod/light/internal/models/entities"
)

// PassSummaryResponse reports what one promotion pass did.
type PassSummaryResponse struct {
	RunID       string `json:"run_id"`
	Date        string `json:"date"`
	SquadronID  int64  `json:"squadron_id"`
	ActivePilot *int64 `json:"active_pilot_id,omitempty"`
	Migrated    bool   `json:"migrated"`
	Evaluated   int    `json:"evaluated"`
	Promoted    int    `json:"promoted"`
	Failed      int    `json:"failed"`
	Deferred    int    `json:"deferred"`
	Denied      int    `json:"denied"`
	Skipped     int    `json:"skipped"`
	Errors      int    `json:"errors"`
	Events      int    `json:"events"`
}

type CleanupResponse struct {
	Deleted int64 `json:"deleted"`
}

// AttemptResponse is a pilot's stored promotion attempt state.
type AttemptResponse struct {
	PilotID     int64  `json:"pilot_id"`
	HasAttempt  bool   `json:"has_attempt"`
	LastAttempt string `json:"last_attempt,omitempty"`
	LastSuccess bool   `json:"last_success"`
	FailCount   int    `json:"fail_count"`
}

// PromotionListResponse is served by GET /api/v1/promotions. Feed holds the
// newest notices from the Redis stream when the feed is enabled.
type PromotionListResponse struct {
	Events []entities.PromotionEventRow `json:"events"`
	Feed   []dtos.PromotionNotice       `json:"feed,omitempty"`
}
