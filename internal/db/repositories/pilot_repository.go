package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"il2-rankmod/light/internal/constants"
	"il2-rankmod/light/internal/models/entities"
	"il2-rankmod/light/internal/models/gorm"

	"github.com/jmoiron/sqlx"
	gormlib "gorm.io/gorm"
)

// ErrPilotNotFound is returned when a write targets a pilot row that is gone.
var ErrPilotNotFound = errors.New("pilot not found")

// PilotRepo reads the game's pilot table and writes rank changes.
// Snapshot reads go through sqlx; writes go through gorm so they can join a
// transaction.
type PilotRepo struct {
	db  *gormlib.DB
	sdb *sqlx.DB
}

// NewPilotRepo creates a new pilot repository
func NewPilotRepo(db *gormlib.DB, sdb *sqlx.DB) *PilotRepo {
	return &PilotRepo{db: db, sdb: sdb}
}

// WithTx returns a copy whose writes join tx. Snapshot reads are not allowed
// on the copy.
func (r *PilotRepo) WithTx(tx *gormlib.DB) *PilotRepo {
	return &PilotRepo{db: tx}
}

// ListActive returns every non-deleted pilot with raw stat values
func (r *PilotRepo) ListActive(ctx context.Context) ([]entities.ManagedPilotRow, error) {
	var rows []entities.ManagedPilotRow
	if err := r.sdb.SelectContext(ctx, &rows, constants.SelectManagedPilots); err != nil {
		return nil, fmt.Errorf("failed to list pilots: %w", err)
	}
	return rows, nil
}

// GetByID returns a pilot's identity fields, or nil when the row is missing
func (r *PilotRepo) GetByID(ctx context.Context, pilotID int64) (*gorm.Pilot, error) {
	var pilot gorm.Pilot
	err := r.sdb.GetContext(ctx, &pilot, constants.SelectPilotByID, pilotID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch pilot %d: %w", pilotID, err)
	}
	return &pilot, nil
}

// FindPlayerCandidates returns ids of non-deleted pilots in a squadron that
// are bound to a personage, i.e. could be the human player.
func (r *PilotRepo) FindPlayerCandidates(ctx context.Context, squadronID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&gorm.Pilot{}).
		Where("isDeleted = 0 AND personageId <> '' AND squadronId = ?", squadronID).
		Order("id DESC").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find player candidates in squadron %d: %w", squadronID, err)
	}
	return ids, nil
}

// FindPreviousIdentity finds the closest lower pilot id with the same
// description, first and last name as the given pilot.
func (r *PilotRepo) FindPreviousIdentity(ctx context.Context, pilot *gorm.Pilot) (*int64, error) {
	var id int64
	err := r.db.WithContext(ctx).
		Raw(constants.SelectPreviousIdentity, pilot.Description, pilot.Name, pilot.LastName, pilot.ID).
		Row().
		Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find previous identity of pilot %d: %w", pilot.ID, err)
	}
	return &id, nil
}

// Columns lists the pilot table's columns as declared in the database
func (r *PilotRepo) Columns(ctx context.Context) ([]entities.PilotColumn, error) {
	var cols []entities.PilotColumn
	if err := r.sdb.SelectContext(ctx, &cols, constants.SelectPilotColumns); err != nil {
		return nil, fmt.Errorf("failed to read pilot columns: %w", err)
	}
	return cols, nil
}

// RowValues reads the given columns of one non-deleted pilot as raw driver
// values. Returns nil when the pilot is missing.
func (r *PilotRepo) RowValues(ctx context.Context, pilotID int64, cols []entities.PilotColumn) (map[string]interface{}, error) {
	rows, err := r.db.WithContext(ctx).
		Raw(selectColumnsQuery(cols), pilotID).
		Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to read pilot %d: %w", pilotID, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}

	values := make(map[string]interface{}, len(cols))
	if err := sqlx.MapScan(rows, values); err != nil {
		return nil, fmt.Errorf("failed to scan pilot %d: %w", pilotID, err)
	}
	return values, nil
}

// UpdateRank sets a pilot's rank
func (r *PilotRepo) UpdateRank(ctx context.Context, pilotID int64, rank int) error {
	res := r.db.WithContext(ctx).
		Model(&gorm.Pilot{}).
		Where("id = ?", pilotID).
		Update("rankId", rank)
	if res.Error != nil {
		return fmt.Errorf("failed to update rank of pilot %d: %w", pilotID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update rank of pilot %d: %w", pilotID, ErrPilotNotFound)
	}
	return nil
}

// UpdateColumns overwrites the given columns of a pilot row
func (r *PilotRepo) UpdateColumns(ctx context.Context, pilotID int64, values map[string]interface{}) error {
	res := r.db.WithContext(ctx).
		Table(constants.TablePilot).
		Where("id = ?", pilotID).
		Updates(values)
	if res.Error != nil {
		return fmt.Errorf("failed to update pilot %d: %w", pilotID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update pilot %d: %w", pilotID, ErrPilotNotFound)
	}
	return nil
}
