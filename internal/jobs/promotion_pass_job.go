package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"il2-rankmod/light/internal/common"
	"il2-rankmod/light/internal/constants"
	"il2-rankmod/light/internal/logging"
	"il2-rankmod/light/internal/metrics"
	"il2-rankmod/light/internal/models/entities"
	"il2-rankmod/light/internal/services"

	"github.com/google/uuid"
)

type activePilotResolver interface {
	Resolve(ctx context.Context, squadronID int64) (*int64, error)
}

type statMigrator interface {
	MigrateIfNeeded(ctx context.Context, newPilotID int64) (bool, error)
}

type promotionRecorder interface {
	RecordPromotion(ctx context.Context, pilotID int64, newRank int, missionDate string) (bool, error)
}

type pilotLister interface {
	ListActive(ctx context.Context) ([]entities.ManagedPilotRow, error)
}

type countryMapper interface {
	CountryMap(ctx context.Context) (map[int64]int, error)
}

type schemaEnsurer interface {
	EnsureSchema(ctx context.Context) error
}

// CeilingProvider returns the highest rank reachable by a country's pilots.
type CeilingProvider interface {
	CeilingFor(country int) int
}

// PassSummary counts what one promotion pass did.
type PassSummary struct {
	RunID       string
	Date        string
	SquadronID  int64
	ActivePilot *int64
	Migrated    bool
	Evaluated   int
	Promoted    int
	Failed      int
	Deferred    int
	Denied      int
	Skipped     int
	Errors      int
	Events      int
}

// PromotionPassJob evaluates every managed pilot once for a mission day.
type PromotionPassJob struct {
	mu sync.Mutex

	engine    *services.PromotionEngine
	resolver  activePilotResolver
	migrator  statMigrator
	recorder  promotionRecorder
	pilots    pilotLister
	squadrons countryMapper
	schemas   []schemaEnsurer
	ceilings  CeilingProvider
	floor     int
	metrics   *metrics.MetricsRegistry
}

func NewPromotionPassJob(
	engine *services.PromotionEngine,
	resolver activePilotResolver,
	migrator statMigrator,
	recorder promotionRecorder,
	pilots pilotLister,
	squadrons countryMapper,
	ceilings CeilingProvider,
	m *metrics.MetricsRegistry,
	schemas ...schemaEnsurer,
) *PromotionPassJob {
	return &PromotionPassJob{
		engine:    engine,
		resolver:  resolver,
		migrator:  migrator,
		recorder:  recorder,
		pilots:    pilots,
		squadrons: squadrons,
		schemas:   schemas,
		ceilings:  ceilings,
		floor:     engine.Policy().ManagedFloor,
		metrics:   m,
	}
}

// Locker is held for the whole pass. Other jobs that write the career
// database take it too so they never run inside a pass.
func (j *PromotionPassJob) Locker() sync.Locker {
	return &j.mu
}

// Run executes one pass for the squadron flying on missionDate. Per-pilot
// failures are logged and counted; only setup failures abort the pass.
func (j *PromotionPassJob) Run(ctx context.Context, squadronID int64, missionDate string) (PassSummary, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	summary := PassSummary{RunID: uuid.NewString(), SquadronID: squadronID}

	date, err := common.NormalizeMissionDate(missionDate)
	if err != nil {
		return summary, err
	}
	summary.Date = date

	start := time.Now()
	defer j.metrics.ObservePass(start)

	log := logging.With("run_id", summary.RunID, "squadron_id", squadronID, "date", date)
	log.Infow("[PromotionPassJob] Starting promotion pass")

	for _, s := range j.schemas {
		if err := s.EnsureSchema(ctx); err != nil {
			return summary, err
		}
	}

	activeID, err := j.resolver.Resolve(ctx, squadronID)
	if err != nil {
		return summary, fmt.Errorf("resolve active pilot: %w", err)
	}
	summary.ActivePilot = activeID

	if activeID != nil {
		migrated, err := j.migrator.MigrateIfNeeded(ctx, *activeID)
		if err != nil {
			log.Errorw("[PromotionPassJob] Stat carry-over failed", "pilot_id", *activeID, "error", err)
		}
		summary.Migrated = migrated
	}

	countries, err := j.squadrons.CountryMap(ctx)
	if err != nil {
		return summary, err
	}

	pilots, err := j.pilots.ListActive(ctx)
	if err != nil {
		return summary, err
	}

	for _, p := range pilots {
		if err := ctx.Err(); err != nil {
			log.Warnw("[PromotionPassJob] Pass interrupted", "evaluated", summary.Evaluated)
			return summary, err
		}

		country, ok := countries[p.SquadronID]
		if !ok {
			country = constants.DefaultCountry
		}
		ceiling := j.ceilings.CeilingFor(country)

		if p.RankID < j.floor || p.RankID >= ceiling {
			summary.Skipped++
			continue
		}

		isAI := activeID == nil || p.ID != *activeID
		stats := services.PilotStats{PCP: p.PCP, Sorties: p.Sorties, GoodSorties: p.GoodSorties}

		summary.Evaluated++
		decision, err := j.engine.TryPromote(ctx, p.ID, stats, p.RankID, date, isAI)
		if err != nil {
			summary.Errors++
			j.metrics.IncPromotionErrors()
			log.Errorw("[PromotionPassJob] Promotion not applied", "pilot_id", p.ID, "error", err)
			continue
		}
		j.metrics.ObserveDecision(string(decision.Outcome))

		switch decision.Outcome {
		case services.OutcomeDenied:
			summary.Denied++
		case services.OutcomeDeferred:
			summary.Deferred++
		case services.OutcomeFailed:
			summary.Failed++
		case services.OutcomePromoted:
			summary.Promoted++

			inserted, err := j.recorder.RecordPromotion(ctx, p.ID, decision.NewRank, date)
			if err != nil {
				summary.Errors++
				log.Errorw("[PromotionPassJob] Failed to record promotion event", "pilot_id", p.ID, "error", err)
				continue
			}
			if inserted {
				summary.Events++
			}
		}
	}

	log.Infow("[PromotionPassJob] Promotion pass finished",
		"evaluated", summary.Evaluated,
		"promoted", summary.Promoted,
		"failed", summary.Failed,
		"deferred", summary.Deferred,
		"errors", summary.Errors,
		"duration", time.Since(start).String())

	return summary, nil
}
