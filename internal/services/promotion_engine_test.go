package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"il2-rankmod/light/internal/common"
	"il2-rankmod/light/internal/config"
	"il2-rankmod/light/internal/models/gorm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore stages writes per transaction and keeps them only on commit.
type memStore struct {
	attempts  map[int64]gorm.PromotionAttempt
	ranks     map[int64]int
	failRank  error
	getCalls  int
	committed int
}

func newMemStore() *memStore {
	return &memStore{attempts: map[int64]gorm.PromotionAttempt{}, ranks: map[int64]int{}}
}

func (s *memStore) WithinTx(ctx context.Context, fn func(tx PromotionTx) error) error {
	tx := &memTx{store: s, attempts: map[int64]gorm.PromotionAttempt{}, ranks: map[int64]int{}}
	if err := fn(tx); err != nil {
		return err
	}
	for id, a := range tx.attempts {
		s.attempts[id] = a
	}
	for id, r := range tx.ranks {
		s.ranks[id] = r
	}
	s.committed++
	return nil
}

type memTx struct {
	store    *memStore
	attempts map[int64]gorm.PromotionAttempt
	ranks    map[int64]int
}

func (t *memTx) GetAttempt(ctx context.Context, pilotID int64) (*gorm.PromotionAttempt, error) {
	t.store.getCalls++
	a, ok := t.store.attempts[pilotID]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (t *memTx) UpsertAttempt(ctx context.Context, attempt *gorm.PromotionAttempt) error {
	t.attempts[attempt.PilotID] = *attempt
	return nil
}

func (t *memTx) UpdateRank(ctx context.Context, pilotID int64, rank int) error {
	if t.store.failRank != nil {
		return t.store.failRank
	}
	t.ranks[pilotID] = rank
	return nil
}

// seqRandom returns the given values in order and counts draws.
type seqRandom struct {
	values []float64
	draws  int
}

func (r *seqRandom) Float64() float64 {
	v := r.values[r.draws%len(r.values)]
	r.draws++
	return v
}

func testPolicy() config.PromotionPolicy {
	return config.PromotionPolicy{
		Thresholds:    config.DefaultThresholds(),
		CooldownDays:  2,
		FailThreshold: 3,
		ManagedFloor:  4,
	}
}

// qualified meets the rank 4 threshold by PCP.
var qualified = PilotStats{PCP: 250.0, Sorties: int64(10), GoodSorties: int64(10)}

func TestChanceForTier(t *testing.T) {
	assert.InDelta(t, 0.9, ChanceForTier(0), 1e-9)
	assert.InDelta(t, 0.8, ChanceForTier(2), 1e-9)
	assert.InDelta(t, 0.5, ChanceForTier(8), 1e-9)
	assert.InDelta(t, 0.25, ChanceForTier(13), 1e-9)
	assert.InDelta(t, 0.25, ChanceForTier(40), 1e-9)
}

func TestFailureRate(t *testing.T) {
	assert.Equal(t, 1.0, FailureRate(0, 0))
	assert.Equal(t, 0.1, FailureRate(80, 72))
	assert.Equal(t, 0.0, FailureRate(10, 10))
}

func TestEvaluate_Denied(t *testing.T) {
	engine := NewPromotionEngine(testPolicy(), newMemStore(), &seqRandom{values: []float64{0}})

	d, err := engine.Evaluate(1, qualified, 3, nil, "1942.11.19", false)
	require.NoError(t, err)
	assert.Equal(t, OutcomeDenied, d.Outcome)
	assert.Equal(t, ReasonUnmanagedRank, d.Reason)

	d, err = engine.Evaluate(1, qualified, 13, nil, "1942.11.19", false)
	require.NoError(t, err)
	assert.Equal(t, ReasonUnmanagedRank, d.Reason)

	low := PilotStats{PCP: 100.0, Sorties: int64(79), GoodSorties: int64(79)}
	d, err = engine.Evaluate(1, low, 4, nil, "1942.11.19", true)
	require.NoError(t, err)
	assert.Equal(t, OutcomeDenied, d.Outcome)
	assert.Equal(t, ReasonBelowThreshold, d.Reason)
	assert.False(t, d.Writes())
}

func TestEvaluate_SortieRoute(t *testing.T) {
	engine := NewPromotionEngine(testPolicy(), newMemStore(), nil)

	// 80 sorties at exactly 10% failure qualifies for rank 4
	d, err := engine.Evaluate(1, PilotStats{PCP: "0", Sorties: "80", GoodSorties: int64(72)}, 4, nil, "1942.11.19", true)
	require.NoError(t, err)
	assert.Equal(t, OutcomePromoted, d.Outcome)
	assert.Equal(t, 5, d.NewRank)

	d, err = engine.Evaluate(1, PilotStats{PCP: nil, Sorties: int64(80), GoodSorties: int64(71)}, 4, nil, "1942.11.19", true)
	require.NoError(t, err)
	assert.Equal(t, OutcomeDenied, d.Outcome)
}

func TestEvaluate_BadDate(t *testing.T) {
	engine := NewPromotionEngine(testPolicy(), newMemStore(), nil)

	_, err := engine.Evaluate(1, qualified, 4, nil, "19/11/1942", true)
	var fe *common.FormatError
	assert.True(t, errors.As(err, &fe))
}

func TestEvaluate_Cooldown(t *testing.T) {
	rng := &seqRandom{values: []float64{0.1}}
	engine := NewPromotionEngine(testPolicy(), newMemStore(), rng)

	failedYesterday := &gorm.PromotionAttempt{PilotID: 1, LastAttempt: "1942.11.18", LastSuccess: false, FailCount: 1}
	d, err := engine.Evaluate(1, qualified, 4, failedYesterday, "1942-11-19", false)
	require.NoError(t, err)
	assert.Equal(t, OutcomeDeferred, d.Outcome)
	assert.Equal(t, 1, d.DaysSince)
	assert.Equal(t, 0, rng.draws)

	d, err = engine.Evaluate(1, qualified, 4, failedYesterday, "1942.11.20", false)
	require.NoError(t, err)
	assert.Equal(t, OutcomePromoted, d.Outcome)

	// a success does not start a cooldown
	promotedToday := &gorm.PromotionAttempt{PilotID: 1, LastAttempt: "1942.11.19", LastSuccess: true}
	d, err = engine.Evaluate(1, qualified, 4, promotedToday, "1942.11.19", false)
	require.NoError(t, err)
	assert.Equal(t, OutcomePromoted, d.Outcome)
}

func TestEvaluate_UnreadableAttemptDateSkipsCooldown(t *testing.T) {
	engine := NewPromotionEngine(testPolicy(), newMemStore(), &seqRandom{values: []float64{0.2}})

	d, err := engine.Evaluate(1, qualified, 4, &gorm.PromotionAttempt{LastAttempt: "garbage"}, "1942.11.19", false)
	require.NoError(t, err)
	assert.Equal(t, OutcomePromoted, d.Outcome)
}

func TestEvaluate_RollAndForced(t *testing.T) {
	rng := &seqRandom{values: []float64{0.95}}
	engine := NewPromotionEngine(testPolicy(), newMemStore(), rng)

	d, err := engine.Evaluate(1, qualified, 4, nil, "1942.11.19", false)
	require.NoError(t, err)
	assert.Equal(t, OutcomeFailed, d.Outcome)
	assert.Equal(t, 1, d.FailCount)
	assert.InDelta(t, 0.9, d.Chance, 1e-9)

	// roll equal to chance promotes
	rng.values = []float64{0.9}
	d, err = engine.Evaluate(1, qualified, 4, nil, "1942.11.19", false)
	require.NoError(t, err)
	assert.Equal(t, OutcomePromoted, d.Outcome)
	assert.False(t, d.Forced)

	draws := rng.draws
	stuck := &gorm.PromotionAttempt{LastAttempt: "1942.11.10", FailCount: 3}
	d, err = engine.Evaluate(1, qualified, 4, stuck, "1942.11.19", false)
	require.NoError(t, err)
	assert.Equal(t, OutcomePromoted, d.Outcome)
	assert.True(t, d.Forced)
	assert.Equal(t, draws, rng.draws)
}

func TestTryPromote_AI(t *testing.T) {
	store := newMemStore()
	engine := NewPromotionEngine(testPolicy(), store, &seqRandom{values: []float64{0.99}})

	d, err := engine.TryPromote(context.Background(), 20, qualified, 4, "1942.11.19", true)
	require.NoError(t, err)
	assert.Equal(t, OutcomePromoted, d.Outcome)
	assert.Equal(t, 5, store.ranks[20])
	assert.Empty(t, store.attempts)
	assert.Equal(t, 0, store.getCalls)
}

func TestTryPromote_PlayerFailThenForced(t *testing.T) {
	store := newMemStore()
	rng := &seqRandom{values: []float64{0.99}}
	policy := testPolicy()
	policy.CooldownDays = 0
	engine := NewPromotionEngine(policy, store, rng)
	ctx := context.Background()

	for i, day := range []string{"1942.11.19", "1942.11.20", "1942.11.21"} {
		d, err := engine.TryPromote(ctx, 1, qualified, 4, day, false)
		require.NoError(t, err)
		assert.Equal(t, OutcomeFailed, d.Outcome)
		assert.Equal(t, gorm.PromotionAttempt{PilotID: 1, LastAttempt: day, FailCount: i + 1}, store.attempts[1])
	}
	_, promoted := store.ranks[1]
	assert.False(t, promoted)

	d, err := engine.TryPromote(ctx, 1, qualified, 4, "1942-11-22 08:00:00", false)
	require.NoError(t, err)
	assert.True(t, d.Forced)
	assert.Equal(t, 5, store.ranks[1])
	assert.Equal(t, gorm.PromotionAttempt{PilotID: 1, LastAttempt: "1942.11.22", LastSuccess: true, FailCount: 0}, store.attempts[1])
}

func TestTryPromote_DeferredWritesNothing(t *testing.T) {
	store := newMemStore()
	store.attempts[1] = gorm.PromotionAttempt{PilotID: 1, LastAttempt: "1942.11.19", FailCount: 1}
	engine := NewPromotionEngine(testPolicy(), store, &seqRandom{values: []float64{0}})

	d, err := engine.TryPromote(context.Background(), 1, qualified, 4, "1942.11.19", false)
	require.NoError(t, err)
	assert.Equal(t, OutcomeDeferred, d.Outcome)
	assert.Equal(t, gorm.PromotionAttempt{PilotID: 1, LastAttempt: "1942.11.19", FailCount: 1}, store.attempts[1])
	assert.Empty(t, store.ranks)
}

func TestTryPromote_WriteFailureRollsBack(t *testing.T) {
	store := newMemStore()
	store.failRank = errors.New("database is locked")
	engine := NewPromotionEngine(testPolicy(), store, &seqRandom{values: []float64{0}})

	d, err := engine.TryPromote(context.Background(), 1, qualified, 4, "1942.11.19", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pilot 1 not applied")
	assert.Equal(t, OutcomePromoted, d.Outcome)
	assert.Empty(t, store.attempts)
	assert.Empty(t, store.ranks)
	assert.Equal(t, 0, store.committed)
}

func TestEvaluate_Monotonic(t *testing.T) {
	engine := NewPromotionEngine(testPolicy(), newMemStore(), nil)
	thresholds := config.DefaultThresholds()

	outcome := func(t *testing.T, rank int, pcp float64, sorties int64) Outcome {
		t.Helper()
		stats := PilotStats{PCP: pcp, Sorties: sorties, GoodSorties: sorties}
		d, err := engine.Evaluate(1, stats, rank, nil, "1942.11.19", true)
		require.NoError(t, err)
		return d.Outcome
	}

	for tier := range thresholds {
		rank := 4 + tier
		t.Run(fmt.Sprintf("rank %d", rank), func(t *testing.T) {
			for sorties := int64(0); sorties <= 700; sorties += 25 {
				promoted := false
				for pcp := 0.0; pcp <= 900; pcp += 10 {
					got := outcome(t, rank, pcp, sorties)
					if promoted {
						require.Equal(t, OutcomePromoted, got, "pcp %.0f sorties %d", pcp, sorties)
					}
					promoted = got == OutcomePromoted
				}
			}

			for pcp := 0.0; pcp <= 900; pcp += 50 {
				promoted := false
				for sorties := int64(0); sorties <= 700; sorties += 5 {
					got := outcome(t, rank, pcp, sorties)
					if promoted {
						require.Equal(t, OutcomePromoted, got, "pcp %.0f sorties %d", pcp, sorties)
					}
					promoted = got == OutcomePromoted
				}
			}

			// the top of the sweep clears every tier
			assert.Equal(t, OutcomePromoted, outcome(t, rank, 900, 700))
		})
	}
}

func TestEvaluate_ScoreBranchScenario(t *testing.T) {
	// rank 5 needs 260 pcp or 100 sorties at 10%; 50 sorties alone would not do
	stats := PilotStats{PCP: 300.0, Sorties: int64(50), GoodSorties: int64(48)}

	engine := NewPromotionEngine(testPolicy(), newMemStore(), nil)
	d, err := engine.Evaluate(7, stats, 5, nil, "1942.11.19", true)
	require.NoError(t, err)
	assert.Equal(t, OutcomePromoted, d.Outcome)
	assert.Equal(t, 6, d.NewRank)

	rng := &seqRandom{values: []float64{0.5}}
	engine = NewPromotionEngine(testPolicy(), newMemStore(), rng)
	d, err = engine.Evaluate(7, stats, 5, nil, "1942.11.19", false)
	require.NoError(t, err)
	assert.Equal(t, OutcomePromoted, d.Outcome)
	assert.Equal(t, 6, d.NewRank)
	assert.InDelta(t, 0.85, d.Chance, 1e-9)

	noScore := PilotStats{PCP: 250.0, Sorties: int64(50), GoodSorties: int64(48)}
	d, err = engine.Evaluate(7, noScore, 5, nil, "1942.11.19", true)
	require.NoError(t, err)
	assert.Equal(t, OutcomeDenied, d.Outcome)
	assert.Equal(t, ReasonBelowThreshold, d.Reason)
}
