package dtos

import "time"

// PromotionNotice is published to the promotion feed after an event row is
// written.
type PromotionNotice struct {
	PilotID    int64     `json:"pilot_id"`
	PilotName  string    `json:"pilot_name"`
	NewRank    int       `json:"new_rank"`
	Date       string    `json:"date"`
	SquadronID int64     `json:"squadron_id"`
	CareerID   int64     `json:"career_id"`
	RecordedAt time.Time `json:"recorded_at"`
}
