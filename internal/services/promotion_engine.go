package services

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"il2-rankmod/light/internal/common"
	"il2-rankmod/light/internal/config"
	"il2-rankmod/light/internal/logging"
	"il2-rankmod/light/internal/models/gorm"
)

// Outcome is the kind of decision the rule engine reached for one pilot.
type Outcome string

const (
	OutcomePromoted Outcome = "promoted"
	OutcomeDenied   Outcome = "denied"
	OutcomeDeferred Outcome = "deferred"
	OutcomeFailed   Outcome = "failed"
)

const (
	ReasonUnmanagedRank  = "unmanaged rank"
	ReasonBelowThreshold = "below threshold"
	ReasonCooldown       = "cooldown"
)

const (
	baseChance        = 0.9
	chanceStepPerTier = 0.05
	minChance         = 0.25
)

// Decision is the result of evaluating one pilot. Only the fields relevant to
// Outcome are set.
type Decision struct {
	Outcome   Outcome
	NewRank   int
	Forced    bool
	Roll      float64
	Chance    float64
	FailCount int
	DaysSince int
	Reason    string
}

// Writes reports whether the decision has to be persisted.
func (d Decision) Writes() bool {
	return d.Outcome == OutcomePromoted || d.Outcome == OutcomeFailed
}

// PilotStats carries stat columns exactly as read from the database.
type PilotStats struct {
	PCP         any
	Sorties     any
	GoodSorties any
}

// RandomSource yields values in [0, 1).
type RandomSource interface {
	Float64() float64
}

type defaultRandom struct{}

func (defaultRandom) Float64() float64 { return rand.Float64() }

// PromotionTx is the set of writes a promotion needs inside one transaction.
type PromotionTx interface {
	GetAttempt(ctx context.Context, pilotID int64) (*gorm.PromotionAttempt, error)
	UpsertAttempt(ctx context.Context, attempt *gorm.PromotionAttempt) error
	UpdateRank(ctx context.Context, pilotID int64, rank int) error
}

// PromotionStore runs fn in a transaction that commits when fn returns nil
// and rolls back otherwise.
type PromotionStore interface {
	WithinTx(ctx context.Context, fn func(tx PromotionTx) error) error
}

type PromotionEngine struct {
	policy config.PromotionPolicy
	store  PromotionStore
	rng    RandomSource
}

// NewPromotionEngine builds an engine. A nil rng uses math/rand/v2.
func NewPromotionEngine(policy config.PromotionPolicy, store PromotionStore, rng RandomSource) *PromotionEngine {
	if rng == nil {
		rng = defaultRandom{}
	}
	if policy.ManagedFloor == 0 {
		policy.ManagedFloor = 4
	}
	return &PromotionEngine{policy: policy, store: store, rng: rng}
}

func (e *PromotionEngine) Policy() config.PromotionPolicy {
	return e.policy
}

// FailureRate is the share of sorties that were not good, or 1 when the
// pilot has flown none.
func FailureRate(sorties, good int) float64 {
	if sorties <= 0 {
		return 1.0
	}
	return float64(sorties-good) / float64(sorties)
}

// ChanceForTier is the player's promotion probability at a tier.
func ChanceForTier(tier int) float64 {
	return math.Max(baseChance-chanceStepPerTier*float64(tier), minChance)
}

// Evaluate decides what happens to a pilot of the given rank on currentDate.
// attempt is the stored record for players (nil when none); it is ignored
// for AI pilots.
func (e *PromotionEngine) Evaluate(
	pilotID int64,
	stats PilotStats,
	rank int,
	attempt *gorm.PromotionAttempt,
	currentDate string,
	isAI bool,
) (Decision, error) {
	currentDay, err := common.ParseMissionDay(currentDate)
	if err != nil {
		return Decision{}, err
	}

	pcp := common.CoerceFloat(stats.PCP)
	sorties := common.CoerceInt(stats.Sorties)
	good := common.CoerceInt(stats.GoodSorties)
	failure := FailureRate(sorties, good)

	tier := rank - e.policy.ManagedFloor
	threshold, ok := e.policy.Thresholds.At(tier)
	if !ok {
		return Decision{Outcome: OutcomeDenied, Reason: ReasonUnmanagedRank}, nil
	}

	eligible := pcp >= threshold.RequiredPCP ||
		(sorties >= threshold.RequiredSorties && failure <= threshold.MaxFailureRate)
	if !eligible {
		logging.Debug("[PromotionEngine] Below threshold",
			"pilot_id", pilotID, "next_rank", rank+1,
			"pcp", pcp, "sorties", sorties, "failure_rate", failure)
		return Decision{Outcome: OutcomeDenied, Reason: ReasonBelowThreshold}, nil
	}

	if isAI {
		return Decision{Outcome: OutcomePromoted, NewRank: rank + 1}, nil
	}

	failCount := 0
	if attempt != nil {
		failCount = attempt.FailCount

		if !attempt.LastSuccess {
			lastDay, perr := common.ParseMissionDay(attempt.LastAttempt)
			if perr != nil {
				logging.Warn("[PromotionEngine] Stored attempt date unreadable, skipping cooldown",
					"pilot_id", pilotID, "last_attempt", attempt.LastAttempt)
			} else {
				daysSince := common.DaysBetween(lastDay, currentDay)
				logging.Debug("[PromotionEngine] Cooldown check",
					"pilot_id", pilotID, "days_since", daysSince, "cooldown", e.policy.CooldownDays)
				if daysSince < e.policy.CooldownDays {
					return Decision{Outcome: OutcomeDeferred, Reason: ReasonCooldown, DaysSince: daysSince}, nil
				}
			}
		}
	}

	chance := ChanceForTier(tier)

	if failCount >= e.policy.FailThreshold {
		return Decision{Outcome: OutcomePromoted, NewRank: rank + 1, Forced: true, Chance: chance, FailCount: failCount}, nil
	}

	roll := e.rng.Float64()
	if roll <= chance {
		return Decision{Outcome: OutcomePromoted, NewRank: rank + 1, Roll: roll, Chance: chance}, nil
	}

	return Decision{Outcome: OutcomeFailed, Roll: roll, Chance: chance, FailCount: failCount + 1}, nil
}

// Apply persists a decision through tx. Denied and Deferred write nothing.
func (e *PromotionEngine) Apply(ctx context.Context, tx PromotionTx, pilotID int64, d Decision, currentDate string, isAI bool) error {
	if !d.Writes() {
		return nil
	}

	day, err := common.NormalizeMissionDate(currentDate)
	if err != nil {
		return err
	}

	switch d.Outcome {
	case OutcomePromoted:
		if err := tx.UpdateRank(ctx, pilotID, d.NewRank); err != nil {
			return err
		}
		if isAI {
			return nil
		}
		return tx.UpsertAttempt(ctx, &gorm.PromotionAttempt{
			PilotID:     pilotID,
			LastAttempt: day,
			LastSuccess: true,
			FailCount:   0,
		})
	case OutcomeFailed:
		return tx.UpsertAttempt(ctx, &gorm.PromotionAttempt{
			PilotID:     pilotID,
			LastAttempt: day,
			LastSuccess: false,
			FailCount:   d.FailCount,
		})
	}
	return nil
}

// TryPromote reads the attempt record, evaluates and writes the result in a
// single transaction. A failed write rolls everything back and the error is
// returned with the decision that could not be applied.
func (e *PromotionEngine) TryPromote(
	ctx context.Context,
	pilotID int64,
	stats PilotStats,
	rank int,
	currentDate string,
	isAI bool,
) (Decision, error) {
	var decision Decision

	err := e.store.WithinTx(ctx, func(tx PromotionTx) error {
		var attempt *gorm.PromotionAttempt
		if !isAI {
			a, err := tx.GetAttempt(ctx, pilotID)
			if err != nil {
				return err
			}
			attempt = a
		}

		d, err := e.Evaluate(pilotID, stats, rank, attempt, currentDate, isAI)
		if err != nil {
			return err
		}
		decision = d

		return e.Apply(ctx, tx, pilotID, d, currentDate, isAI)
	})
	if err != nil {
		return decision, fmt.Errorf("promotion of pilot %d not applied: %w", pilotID, err)
	}

	logDecision(pilotID, rank, isAI, decision)
	return decision, nil
}

func logDecision(pilotID int64, rank int, isAI bool, d Decision) {
	switch d.Outcome {
	case OutcomePromoted:
		switch {
		case isAI:
			logging.Info("[PromotionEngine] AI pilot promoted", "pilot_id", pilotID, "new_rank", d.NewRank)
		case d.Forced:
			logging.Info("[PromotionEngine] Player promotion forced",
				"pilot_id", pilotID, "new_rank", d.NewRank, "fail_count", d.FailCount)
		default:
			logging.Info("[PromotionEngine] Player promoted",
				"pilot_id", pilotID, "new_rank", d.NewRank, "roll", d.Roll, "chance", d.Chance)
		}
	case OutcomeFailed:
		logging.Info("[PromotionEngine] Player promotion roll failed",
			"pilot_id", pilotID, "rank", rank, "roll", d.Roll, "chance", d.Chance, "fail_count", d.FailCount)
	case OutcomeDeferred:
		logging.Debug("[PromotionEngine] Player in cooldown", "pilot_id", pilotID, "days_since", d.DaysSince)
	}
}
