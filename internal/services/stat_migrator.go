package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"il2-rankmod/light/internal/db/repositories"
	"il2-rankmod/light/internal/logging"
	"il2-rankmod/light/internal/metrics"
	"il2-rankmod/light/internal/models/entities"
	"il2-rankmod/light/internal/models/gorm"

	gormlib "gorm.io/gorm"
)

// identityColumns are never carried from the previous pilot row.
var identityColumns = map[string]struct{}{
	"id":          {},
	"squadronId":  {},
	"name":        {},
	"lastName":    {},
	"birthDay":    {},
	"description": {},
	"commonStat":  {},
	"personageId": {},
	"avatarPath":  {},
	"AILevel":     {},
	"insDate":     {},
	"isDeleted":   {},
}

// errNothingToMigrate aborts the carry-over transaction without an error
// being reported to the caller.
var errNothingToMigrate = errors.New("nothing to migrate")

// StatMigrator copies career stats from a player's previous pilot row onto the
// row the game creates when the player moves to a new squadron.
type StatMigrator struct {
	db         *gormlib.DB
	pilots     *repositories.PilotRepo
	attempts   *repositories.PromotionAttemptRepo
	migrations *repositories.PlayerMigrationRepo
	metrics    *metrics.MetricsRegistry
	now        func() time.Time
}

func NewStatMigrator(
	db *gormlib.DB,
	pilots *repositories.PilotRepo,
	attempts *repositories.PromotionAttemptRepo,
	migrations *repositories.PlayerMigrationRepo,
	m *metrics.MetricsRegistry,
) *StatMigrator {
	return &StatMigrator{
		db:         db,
		pilots:     pilots,
		attempts:   attempts,
		migrations: migrations,
		metrics:    m,
		now:        time.Now,
	}
}

// CarryOverColumns filters the pilot table columns down to the ones copied
// during a migration.
func CarryOverColumns(cols []entities.PilotColumn) []entities.PilotColumn {
	out := make([]entities.PilotColumn, 0, len(cols))
	for _, c := range cols {
		if c.Name == "" {
			continue
		}
		if _, skip := identityColumns[c.Name]; skip {
			continue
		}
		out = append(out, c)
	}
	return out
}

// MigrateIfNeeded runs at most once per newPilotID. It returns true only when
// stats were copied and the marker was written in the same transaction.
func (m *StatMigrator) MigrateIfNeeded(ctx context.Context, newPilotID int64) (bool, error) {
	if err := m.migrations.EnsureSchema(ctx); err != nil {
		return false, err
	}

	done, err := m.migrations.Exists(ctx, newPilotID)
	if err != nil {
		return false, err
	}
	if done {
		return false, nil
	}

	pilot, err := m.pilots.GetByID(ctx, newPilotID)
	if err != nil {
		return false, err
	}
	if pilot == nil || pilot.IsDeleted || pilot.Description == "" {
		return false, nil
	}

	oldID, err := m.pilots.FindPreviousIdentity(ctx, pilot)
	if err != nil {
		return false, err
	}
	if oldID == nil {
		return false, nil
	}

	cols, err := m.pilots.Columns(ctx)
	if err != nil {
		return false, err
	}
	carry := CarryOverColumns(cols)
	if len(carry) == 0 {
		return false, nil
	}

	err = m.db.WithContext(ctx).Transaction(func(tx *gormlib.DB) error {
		pilots := m.pilots.WithTx(tx)

		oldRow, err := pilots.RowValues(ctx, *oldID, carry)
		if err != nil {
			return err
		}
		newRow, err := pilots.RowValues(ctx, newPilotID, carry)
		if err != nil {
			return err
		}
		if oldRow == nil || newRow == nil || !rowsDiffer(oldRow, newRow, carry) {
			return errNothingToMigrate
		}

		updates := make(map[string]interface{}, len(carry))
		for _, c := range carry {
			updates[c.Name] = oldRow[c.Name]
		}
		if err := pilots.UpdateColumns(ctx, newPilotID, updates); err != nil {
			return err
		}

		if err := m.attempts.WithTx(tx).CopyTo(ctx, *oldID, newPilotID); err != nil {
			return err
		}

		return m.migrations.WithTx(tx).Record(ctx, &gorm.PlayerMigration{
			OldPilotID: *oldID,
			NewPilotID: newPilotID,
			MigratedOn: m.now().UTC().Format("2006-01-02 15:04:05"),
		})
	})

	if errors.Is(err, errNothingToMigrate) {
		return false, nil
	}
	if err != nil {
		logging.Error("[StatMigrator] Carry-over failed, rolled back",
			"old_pilot_id", *oldID, "new_pilot_id", newPilotID, "error", err)
		return false, fmt.Errorf("carry-over %d -> %d: %w", *oldID, newPilotID, err)
	}

	m.metrics.IncMigrations()
	logging.Info("[StatMigrator] Player carry-over applied",
		"old_pilot_id", *oldID, "new_pilot_id", newPilotID, "columns", len(carry))
	return true, nil
}

func rowsDiffer(a, b map[string]interface{}, cols []entities.PilotColumn) bool {
	for _, c := range cols {
		if !sameValue(a[c.Name], b[c.Name]) {
			return true
		}
	}
	return false
}

// sameValue compares raw driver values. Text can come back as string or
// []byte depending on the driver path, so both are compared as strings.
func sameValue(a, b interface{}) bool {
	if ab, ok := a.([]byte); ok {
		a = string(ab)
	}
	if bb, ok := b.([]byte); ok {
		b = string(bb)
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a == b
}
