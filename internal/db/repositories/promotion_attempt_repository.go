package repositories

import (
	"context"
	"errors"
	"fmt"

	"il2-rankmod/light/internal/constants"
	"il2-rankmod/light/internal/models/gorm"

	gormlib "gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PromotionAttemptRepo handles the promotion_attempts table (one row per pilot)
type PromotionAttemptRepo struct {
	db *gormlib.DB
}

// NewPromotionAttemptRepo creates a new promotion attempt repository
func NewPromotionAttemptRepo(db *gormlib.DB) *PromotionAttemptRepo {
	return &PromotionAttemptRepo{db: db}
}

// WithTx returns a copy bound to an open transaction
func (r *PromotionAttemptRepo) WithTx(tx *gormlib.DB) *PromotionAttemptRepo {
	return &PromotionAttemptRepo{db: tx}
}

// EnsureSchema creates promotion_attempts if it does not exist yet
func (r *PromotionAttemptRepo) EnsureSchema(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Exec(constants.CreatePromotionAttemptsTable).Error; err != nil {
		return fmt.Errorf("failed to create promotion_attempts: %w", err)
	}
	return nil
}

// Get returns the attempt record for a pilot, or nil when none exists
func (r *PromotionAttemptRepo) Get(ctx context.Context, pilotID int64) (*gorm.PromotionAttempt, error) {
	var attempt gorm.PromotionAttempt

	err := r.db.WithContext(ctx).
		Where("pilotId = ?", pilotID).
		Take(&attempt).Error

	if err != nil {
		if errors.Is(err, gormlib.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch promotion attempt for pilot %d: %w", pilotID, err)
	}

	return &attempt, nil
}

// Upsert inserts or replaces the attempt record
// ON CONFLICT (pilotId) DO UPDATE
func (r *PromotionAttemptRepo) Upsert(ctx context.Context, attempt *gorm.PromotionAttempt) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "pilotId"}},
			DoUpdates: clause.AssignmentColumns([]string{"last_attempt", "last_success", "fail_count"}),
		}).
		Create(attempt).Error
	if err != nil {
		return fmt.Errorf("failed to upsert promotion attempt for pilot %d: %w", attempt.PilotID, err)
	}
	return nil
}

// CopyTo carries a pilot's attempt record over to another pilot id.
// No-op when the source pilot has no record.
func (r *PromotionAttemptRepo) CopyTo(ctx context.Context, fromPilotID, toPilotID int64) error {
	err := r.db.WithContext(ctx).
		Exec(constants.CopyPromotionAttempt, toPilotID, fromPilotID).Error
	if err != nil {
		return fmt.Errorf("failed to copy promotion attempt %d -> %d: %w", fromPilotID, toPilotID, err)
	}
	return nil
}

// DeleteOrphans removes records whose pilot no longer exists
func (r *PromotionAttemptRepo) DeleteOrphans(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Exec(constants.DeleteOrphanedPromotionAttempts)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete orphaned promotion attempts: %w", res.Error)
	}
	return res.RowsAffected, nil
}
