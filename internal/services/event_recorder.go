package services

import (
	"context"
	"time"

	"il2-rankmod/light/internal/common"
	"il2-rankmod/light/internal/constants"
	"il2-rankmod/light/internal/logging"
	"il2-rankmod/light/internal/metrics"
	"il2-rankmod/light/internal/models/dtos"
	"il2-rankmod/light/internal/models/gorm"
	"il2-rankmod/light/internal/providers"
)

// PilotDirectory looks pilots up by id. Returns nil when the row is missing.
type PilotDirectory interface {
	GetByID(ctx context.Context, pilotID int64) (*gorm.Pilot, error)
}

// EventWriter inserts promotion events with duplicate protection.
type EventWriter interface {
	InsertPromotionIfAbsent(ctx context.Context, ev *gorm.Event) (bool, error)
}

// EventRecorder writes the journal entry the game shows for a promotion.
type EventRecorder struct {
	pilots    PilotDirectory
	squadrons SquadronLookup
	events    EventWriter
	feed      providers.PromotionFeed
	metrics   *metrics.MetricsRegistry
	now       func() time.Time
}

func NewEventRecorder(
	pilots PilotDirectory,
	squadrons SquadronLookup,
	events EventWriter,
	feed providers.PromotionFeed,
	m *metrics.MetricsRegistry,
) *EventRecorder {
	if feed == nil {
		feed = providers.NoopFeed{}
	}
	return &EventRecorder{
		pilots:    pilots,
		squadrons: squadrons,
		events:    events,
		feed:      feed,
		metrics:   m,
		now:       time.Now,
	}
}

// RecordPromotion writes a type 6 event for pilotID reaching newRank on
// missionDate. Returns false when the pilot is gone or an identical event
// already exists.
func (r *EventRecorder) RecordPromotion(ctx context.Context, pilotID int64, newRank int, missionDate string) (bool, error) {
	promoDate, err := common.MidnightTimestamp(missionDate)
	if err != nil {
		return false, err
	}

	pilot, err := r.pilots.GetByID(ctx, pilotID)
	if err != nil {
		return false, err
	}
	if pilot == nil {
		logging.Warn("[EventRecorder] Pilot not found for event insert", "pilot_id", pilotID)
		return false, nil
	}

	squadron, found, err := r.squadrons.Resolve(ctx, pilot.SquadronID)
	if err != nil {
		return false, err
	}
	if !found {
		logging.Warn("[EventRecorder] No careerId on squadron, writing -1",
			"pilot_id", pilotID, "squadron_id", pilot.SquadronID)
	}

	fullName := pilot.FullName()

	ev := &gorm.Event{
		Date:       promoDate,
		Type:       constants.EventTypePromotion,
		PilotID:    pilotID,
		RankID:     newRank,
		MissionID:  constants.NoMissionID,
		SquadronID: squadron.ConfigID,
		CareerID:   squadron.CareerID,
		Ipar1:      int64(newRank),
		Ipar2:      -1,
		Ipar3:      -1,
		Ipar4:      -1,
		Tpar1:      fullName,
	}

	inserted, err := r.events.InsertPromotionIfAbsent(ctx, ev)
	if err != nil {
		return false, err
	}
	if !inserted {
		logging.Info("[EventRecorder] Duplicate promotion event skipped",
			"pilot_id", pilotID, "rank", newRank, "date", promoDate)
		return false, nil
	}

	r.metrics.IncEventsInserted()
	logging.Info("[EventRecorder] Promotion event inserted",
		"pilot_id", pilotID, "rank", newRank, "date", promoDate)

	notice := dtos.PromotionNotice{
		PilotID:    pilotID,
		PilotName:  fullName,
		NewRank:    newRank,
		Date:       promoDate,
		SquadronID: squadron.ConfigID,
		CareerID:   squadron.CareerID,
		RecordedAt: r.now().UTC(),
	}
	if err := r.feed.Publish(ctx, notice); err != nil {
		r.metrics.IncFeedErrors()
		logging.Warn("[EventRecorder] Failed to publish promotion notice", "pilot_id", pilotID, "error", err)
	}

	return true, nil
}
