package repositories

import (
	"context"
	"fmt"

	"il2-rankmod/light/internal/constants"
	"il2-rankmod/light/internal/models/entities"
	"il2-rankmod/light/internal/models/gorm"

	"github.com/jmoiron/sqlx"
	gormlib "gorm.io/gorm"
)

type EventRepo struct {
	db  *gormlib.DB
	sdb *sqlx.DB
}

func NewEventRepo(db *gormlib.DB, sdb *sqlx.DB) *EventRepo {
	return &EventRepo{db: db, sdb: sdb}
}

// InsertPromotionIfAbsent writes a promotion event unless an identical
// (pilot, rank, day, no mission) one exists. Reports whether a row was added.
func (r *EventRepo) InsertPromotionIfAbsent(ctx context.Context, ev *gorm.Event) (bool, error) {
	res := r.db.WithContext(ctx).Exec(constants.InsertPromotionEventIfAbsent,
		ev.Date, ev.Type, ev.PilotID, ev.RankID, ev.MissionID,
		ev.SquadronID, ev.CareerID,
		ev.Ipar1, ev.Tpar1,
		ev.Type, ev.PilotID, ev.RankID, ev.Date, ev.MissionID,
	)
	if res.Error != nil {
		return false, fmt.Errorf("failed to insert promotion event for pilot %d: %w", ev.PilotID, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// HasEventInMission reports whether the pilot has any journal entry for a mission
func (r *EventRepo) HasEventInMission(ctx context.Context, pilotID, missionID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&gorm.Event{}).
		Where("pilotId = ? AND missionId = ?", pilotID, missionID).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check events of pilot %d in mission %d: %w", pilotID, missionID, err)
	}
	return count > 0, nil
}

// RecentPromotions returns the newest daemon-written promotion events
func (r *EventRepo) RecentPromotions(ctx context.Context, limit int) ([]entities.PromotionEventRow, error) {
	rows := []entities.PromotionEventRow{}
	err := r.sdb.SelectContext(ctx, &rows, constants.SelectRecentPromotionEvents,
		constants.EventTypePromotion, constants.NoMissionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list promotion events: %w", err)
	}
	return rows, nil
}
