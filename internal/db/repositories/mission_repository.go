package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"il2-rankmod/light/internal/constants"
	"il2-rankmod/light/internal/models/entities"

	"github.com/jmoiron/sqlx"
)

// MissionRepo reads the game's mission table. Read-only.
type MissionRepo struct {
	sdb *sqlx.DB
}

func NewMissionRepo(sdb *sqlx.DB) *MissionRepo {
	return &MissionRepo{sdb: sdb}
}

// Latest returns the newest mission, or nil when the career has none
func (r *MissionRepo) Latest(ctx context.Context) (*entities.MissionRow, error) {
	var mission entities.MissionRow
	err := r.sdb.GetContext(ctx, &mission, constants.SelectLatestMission)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch latest mission: %w", err)
	}
	return &mission, nil
}

// After returns missions with id greater than afterID, oldest first
func (r *MissionRepo) After(ctx context.Context, afterID int64) ([]entities.MissionRow, error) {
	var missions []entities.MissionRow
	if err := r.sdb.SelectContext(ctx, &missions, constants.SelectMissionsAfter, afterID); err != nil {
		return nil, fmt.Errorf("failed to list missions after %d: %w", afterID, err)
	}
	return missions, nil
}

// LatestIDForSquadron returns the newest mission id flown by a squadron
func (r *MissionRepo) LatestIDForSquadron(ctx context.Context, squadronID int64) (*int64, error) {
	var id int64
	err := r.sdb.GetContext(ctx, &id, constants.SelectLatestMissionForSquadron, squadronID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch latest mission of squadron %d: %w", squadronID, err)
	}
	return &id, nil
}
