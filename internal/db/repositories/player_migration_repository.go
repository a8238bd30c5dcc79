package repositories

import (
	"context"
	"fmt"

	"il2-rankmod/light/internal/constants"
	"il2-rankmod/light/internal/models/gorm"

	gormlib "gorm.io/gorm"
)

// PlayerMigrationRepo records which successor pilots already received a
// stat carry-over.
type PlayerMigrationRepo struct {
	db *gormlib.DB
}

func NewPlayerMigrationRepo(db *gormlib.DB) *PlayerMigrationRepo {
	return &PlayerMigrationRepo{db: db}
}

func (r *PlayerMigrationRepo) WithTx(tx *gormlib.DB) *PlayerMigrationRepo {
	return &PlayerMigrationRepo{db: tx}
}

func (r *PlayerMigrationRepo) EnsureSchema(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Exec(constants.CreatePlayerMigrationsTable).Error; err != nil {
		return fmt.Errorf("failed to create %s: %w", constants.TablePlayerMigrations, err)
	}
	return nil
}

// Exists reports whether newPilotID has a migration marker
func (r *PlayerMigrationRepo) Exists(ctx context.Context, newPilotID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&gorm.PlayerMigration{}).
		Where("newPilotId = ?", newPilotID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check migration marker for pilot %d: %w", newPilotID, err)
	}
	return count > 0, nil
}

// Record inserts the migration marker
func (r *PlayerMigrationRepo) Record(ctx context.Context, marker *gorm.PlayerMigration) error {
	if err := r.db.WithContext(ctx).Create(marker).Error; err != nil {
		return fmt.Errorf("failed to record migration %d -> %d: %w", marker.OldPilotID, marker.NewPilotID, err)
	}
	return nil
}
