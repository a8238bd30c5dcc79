package workers

import (
	"context"
	"fmt"
	"time"

	"il2-rankmod/light/internal/common"
	"il2-rankmod/light/internal/constants"
	"il2-rankmod/light/internal/jobs"
	"il2-rankmod/light/internal/logging"
	"il2-rankmod/light/internal/metrics"
	"il2-rankmod/light/internal/models/entities"
)

type missionSource interface {
	Latest(ctx context.Context) (*entities.MissionRow, error)
	After(ctx context.Context, afterID int64) ([]entities.MissionRow, error)
}

type passRunner interface {
	Run(ctx context.Context, squadronID int64, missionDate string) (jobs.PassSummary, error)
}

// DayChangeMonitor polls the mission table and runs one promotion pass each
// time the in-game day changes.
type DayChangeMonitor struct {
	missions missionSource
	pass     passRunner
	probe    common.ProcessProbe
	interval time.Duration
	metrics  *metrics.MetricsRegistry

	lastMissionID int64
	lastDate      string
}

func NewDayChangeMonitor(
	missions missionSource,
	pass passRunner,
	probe common.ProcessProbe,
	interval time.Duration,
	m *metrics.MetricsRegistry,
) *DayChangeMonitor {
	return &DayChangeMonitor{
		missions:      missions,
		pass:          pass,
		probe:         probe,
		interval:      interval,
		metrics:       m,
		lastMissionID: constants.NoMissionID,
	}
}

// Reset forgets the last seen mission so the next tick primes again.
func (m *DayChangeMonitor) Reset() {
	m.lastMissionID = constants.NoMissionID
	m.lastDate = ""
}

// State returns the last processed mission id and day.
func (m *DayChangeMonitor) State() (int64, string) {
	return m.lastMissionID, m.lastDate
}

// Tick processes every mission newer than the last one seen. While no
// mission has been seen yet the state is primed from the newest mission
// instead, so missions flown before the session started are not replayed.
func (m *DayChangeMonitor) Tick(ctx context.Context) error {
	if m.lastMissionID == constants.NoMissionID {
		if err := m.prime(ctx); err != nil {
			return err
		}
	}

	missions, err := m.missions.After(ctx, m.lastMissionID)
	if err != nil {
		return err
	}

	for _, mission := range missions {
		if err := ctx.Err(); err != nil {
			return err
		}

		logging.Debug("[DayChangeMonitor] Mission start", "mission_id", mission.ID, "date", mission.Date)
		m.lastMissionID = mission.ID

		if mission.Date == nil || *mission.Date == "" {
			continue
		}

		day, err := common.NormalizeMissionDate(*mission.Date)
		if err != nil {
			logging.Warn("[DayChangeMonitor] Skipping mission with unreadable date",
				"mission_id", mission.ID, "error", err)
			continue
		}

		if day == m.lastDate {
			continue
		}
		m.lastDate = day

		logging.Info("[DayChangeMonitor] New in-game day", "date", day, "mission_id", mission.ID, "squadron_id", mission.SquadronID)
		if _, err := m.pass.Run(ctx, mission.SquadronID, day); err != nil {
			return fmt.Errorf("promotion pass for %s: %w", day, err)
		}
	}

	return nil
}

func (m *DayChangeMonitor) prime(ctx context.Context) error {
	latest, err := m.missions.Latest(ctx)
	if err != nil {
		return err
	}
	if latest == nil {
		logging.Info("[DayChangeMonitor] No missions found yet, waiting")
		return nil
	}

	m.lastMissionID = latest.ID
	m.lastDate = ""
	if latest.Date != nil && *latest.Date != "" {
		day, err := common.NormalizeMissionDate(*latest.Date)
		if err != nil {
			logging.Warn("[DayChangeMonitor] Latest mission date unreadable", "mission_id", latest.ID, "error", err)
		} else {
			m.lastDate = day
		}
	}
	logging.Info("[DayChangeMonitor] Primed from latest mission", "mission_id", m.lastMissionID, "date", m.lastDate)
	return nil
}

// Run polls until the game process exits or ctx is cancelled. The running
// tick always finishes before Run returns.
func (m *DayChangeMonitor) Run(ctx context.Context) error {
	m.Reset()
	logging.Info("[DayChangeMonitor] Monitoring career database", "interval", m.interval.String())

	for m.probe.IsRunning(ctx) {
		err := m.Tick(ctx)
		m.metrics.ObserveTick(err)
		if err != nil {
			logging.Error("[DayChangeMonitor] Tick failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.interval):
		}
	}
	return nil
}
