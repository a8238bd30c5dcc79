package services

import (
	"context"
	"errors"
	"testing"

	"il2-rankmod/light/internal/db/repositories"
	"il2-rankmod/light/internal/models/gorm"
	"il2-rankmod/light/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormPromotionStore_CommitAndRollback(t *testing.T) {
	cdb := testutil.NewCareerDB(t)
	ctx := context.Background()
	attempts := repositories.NewPromotionAttemptRepo(cdb.Gorm)
	require.NoError(t, attempts.EnsureSchema(ctx))
	store := NewGormPromotionStore(cdb.Gorm, attempts, repositories.NewPilotRepo(cdb.Gorm, cdb.SQL))

	testutil.InsertPilot(t, cdb, testutil.Pilot{ID: 1, PersonageID: "p", RankID: 4, PCP: 250})

	engine := NewPromotionEngine(testPolicy(), store, &seqRandom{values: []float64{0.5}})
	d, err := engine.TryPromote(ctx, 1, qualified, 4, "1942.11.19", false)
	require.NoError(t, err)
	assert.Equal(t, OutcomePromoted, d.Outcome)
	assert.Equal(t, 5, testutil.RankOf(t, cdb, 1))

	a, err := attempts.Get(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.True(t, a.LastSuccess)
	assert.Equal(t, "1942.11.19", a.LastAttempt)

	// the attempt write is undone when the rank write fails
	err = store.WithinTx(ctx, func(tx PromotionTx) error {
		if err := tx.UpsertAttempt(ctx, &gorm.PromotionAttempt{PilotID: 404, LastAttempt: "1942.11.19", FailCount: 1}); err != nil {
			return err
		}
		return tx.UpdateRank(ctx, 404, 5)
	})
	assert.True(t, errors.Is(err, repositories.ErrPilotNotFound))

	a, err = attempts.Get(ctx, 404)
	require.NoError(t, err)
	assert.Nil(t, a)
}
