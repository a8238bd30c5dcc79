package repositories

import (
	"context"
	"fmt"

	"il2-rankmod/light/internal/constants"

	gormlib "gorm.io/gorm"
)

type PersonageRepo struct {
	db *gormlib.DB
}

func NewPersonageRepo(db *gormlib.DB) *PersonageRepo {
	return &PersonageRepo{db: db}
}

// RaiseMaxRank sets personage.maxRank on every row so the game accepts ranks
// up to maxRank. Returns the number of rows touched.
func (r *PersonageRepo) RaiseMaxRank(ctx context.Context, maxRank int) (int64, error) {
	res := r.db.WithContext(ctx).Table(constants.TablePersonage).Where("1 = 1").Update("maxRank", maxRank)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to set personage max rank: %w", res.Error)
	}
	return res.RowsAffected, nil
}
