package repositories

import (
	"context"
	"errors"
	"fmt"

	"il2-rankmod/light/internal/constants"
	"il2-rankmod/light/internal/models/gorm"

	"github.com/jmoiron/sqlx"
	gormlib "gorm.io/gorm"
)

type SquadronRepo struct {
	db  *gormlib.DB
	sdb *sqlx.DB
}

func NewSquadronRepo(db *gormlib.DB, sdb *sqlx.DB) *SquadronRepo {
	return &SquadronRepo{db: db, sdb: sdb}
}

// Get returns the squadron row, or nil when it does not exist
func (r *SquadronRepo) Get(ctx context.Context, squadronID int64) (*gorm.Squadron, error) {
	var squadron gorm.Squadron
	err := r.db.WithContext(ctx).
		Where("id = ?", squadronID).
		Take(&squadron).Error
	if err != nil {
		if errors.Is(err, gormlib.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch squadron %d: %w", squadronID, err)
	}
	return &squadron, nil
}

// CountryMap maps squadron id to country code (configId / 1000)
func (r *SquadronRepo) CountryMap(ctx context.Context) (map[int64]int, error) {
	var rows []gorm.Squadron
	if err := r.sdb.SelectContext(ctx, &rows, constants.SelectSquadronCountries); err != nil {
		return nil, fmt.Errorf("failed to load squadron countries: %w", err)
	}

	countries := make(map[int64]int, len(rows))
	for _, row := range rows {
		if row.ConfigID == nil {
			continue
		}
		countries[row.ID] = int(*row.ConfigID / constants.CountryDivisor)
	}
	return countries, nil
}
