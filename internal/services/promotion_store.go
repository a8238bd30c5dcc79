package services

import (
	"context"

	"il2-rankmod/light/internal/db/repositories"
	"il2-rankmod/light/internal/models/gorm"

	gormlib "gorm.io/gorm"
)

// GormPromotionStore runs promotion writes in a gorm transaction on the
// career database.
type GormPromotionStore struct {
	db       *gormlib.DB
	attempts *repositories.PromotionAttemptRepo
	pilots   *repositories.PilotRepo
}

var _ PromotionStore = (*GormPromotionStore)(nil)

func NewGormPromotionStore(db *gormlib.DB, attempts *repositories.PromotionAttemptRepo, pilots *repositories.PilotRepo) *GormPromotionStore {
	return &GormPromotionStore{db: db, attempts: attempts, pilots: pilots}
}

func (s *GormPromotionStore) WithinTx(ctx context.Context, fn func(tx PromotionTx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gormlib.DB) error {
		return fn(&gormPromotionTx{
			attempts: s.attempts.WithTx(tx),
			pilots:   s.pilots.WithTx(tx),
		})
	})
}

type gormPromotionTx struct {
	attempts *repositories.PromotionAttemptRepo
	pilots   *repositories.PilotRepo
}

func (t *gormPromotionTx) GetAttempt(ctx context.Context, pilotID int64) (*gorm.PromotionAttempt, error) {
	return t.attempts.Get(ctx, pilotID)
}

func (t *gormPromotionTx) UpsertAttempt(ctx context.Context, attempt *gorm.PromotionAttempt) error {
	return t.attempts.Upsert(ctx, attempt)
}

func (t *gormPromotionTx) UpdateRank(ctx context.Context, pilotID int64, rank int) error {
	return t.pilots.UpdateRank(ctx, pilotID, rank)
}
