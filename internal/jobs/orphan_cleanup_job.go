package jobs

import (
	"context"
	"sync"
	"time"

	"il2-rankmod/light/internal/logging"
	"il2-rankmod/light/internal/metrics"
)

type orphanDeleter interface {
	DeleteOrphans(ctx context.Context) (int64, error)
}

// OrphanCleanupJob removes promotion attempt rows whose pilot no longer
// exists in the career database.
type OrphanCleanupJob struct {
	attempts orphanDeleter
	lock     sync.Locker
	metrics  *metrics.MetricsRegistry
}

// NewOrphanCleanupJob creates the job. lock is shared with the promotion
// pass; a nil lock disables that guard.
func NewOrphanCleanupJob(attempts orphanDeleter, lock sync.Locker, m *metrics.MetricsRegistry) *OrphanCleanupJob {
	return &OrphanCleanupJob{attempts: attempts, lock: lock, metrics: m}
}

func (j *OrphanCleanupJob) Run(ctx context.Context) (int64, error) {
	if j.lock != nil {
		j.lock.Lock()
		defer j.lock.Unlock()
	}

	deleted, err := j.attempts.DeleteOrphans(ctx)
	if err != nil {
		logging.Error("[OrphanCleanupJob] Cleanup failed", "error", err)
		return 0, err
	}

	j.metrics.AddOrphansDeleted(deleted)
	if deleted > 0 {
		logging.Info("[OrphanCleanupJob] Removed orphaned promotion attempts", "deleted", deleted)
	} else {
		logging.Debug("[OrphanCleanupJob] No orphaned promotion attempts")
	}
	return deleted, nil
}

// RunScheduled runs once immediately and then every interval until ctx ends.
func (j *OrphanCleanupJob) RunScheduled(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if _, err := j.Run(ctx); err != nil {
		logging.Warn("[OrphanCleanupJob] Error in initial run", "error", err)
	}

	for {
		select {
		case <-ticker.C:
			if _, err := j.Run(ctx); err != nil {
				logging.Warn("[OrphanCleanupJob] Error in scheduled run", "error", err)
			}
		case <-ctx.Done():
			logging.Info("[OrphanCleanupJob] Shutting down scheduled cleanup")
			return
		}
	}
}
