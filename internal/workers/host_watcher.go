package workers

import (
	"context"
	"time"

	"il2-rankmod/light/internal/common"
	"il2-rankmod/light/internal/logging"
	"il2-rankmod/light/internal/metrics"
)

type sessionMonitor interface {
	Run(ctx context.Context) error
}

// SessionHook runs when the game is detected, before monitoring starts.
type SessionHook func(ctx context.Context)

// HostWatcher waits for the game to start, monitors it until it exits and
// then waits for the next launch.
type HostWatcher struct {
	probe    common.ProcessProbe
	monitor  sessionMonitor
	hooks    []SessionHook
	interval time.Duration
	metrics  *metrics.MetricsRegistry
}

func NewHostWatcher(probe common.ProcessProbe, monitor sessionMonitor, interval time.Duration, m *metrics.MetricsRegistry, hooks ...SessionHook) *HostWatcher {
	return &HostWatcher{
		probe:    probe,
		monitor:  monitor,
		hooks:    hooks,
		interval: interval,
		metrics:  m,
	}
}

// Run blocks until ctx is cancelled.
func (w *HostWatcher) Run(ctx context.Context) error {
	logging.Info("[HostWatcher] Waiting for IL-2 to start")

	for {
		if w.probe.IsRunning(ctx) {
			w.metrics.SetHostRunning(true)
			logging.Info("[HostWatcher] IL-2 detected, starting monitor")

			for _, hook := range w.hooks {
				hook(ctx)
			}

			err := w.monitor.Run(ctx)
			w.metrics.SetHostRunning(false)
			if ctx.Err() != nil {
				logging.Info("[HostWatcher] Shutting down")
				return nil
			}
			if err != nil {
				logging.Error("[HostWatcher] Monitor stopped", "error", err)
			}
			logging.Info("[HostWatcher] IL-2 closed, monitoring will restart on next launch")
		}

		select {
		case <-ctx.Done():
			logging.Info("[HostWatcher] Shutting down")
			return nil
		case <-time.After(w.interval):
		}
	}
}
