package app

import (
	"context"
	"time"

	"il2-rankmod/light/internal/common"
	"il2-rankmod/light/internal/config"
	"il2-rankmod/light/internal/constants"
	"il2-rankmod/light/internal/db"
	"il2-rankmod/light/internal/db/repositories"
	"il2-rankmod/light/internal/jobs"
	"il2-rankmod/light/internal/logging"
	"il2-rankmod/light/internal/metrics"
	"il2-rankmod/light/internal/providers"
	"il2-rankmod/light/internal/services"
	"il2-rankmod/light/internal/workers"
)

type Repositories struct {
	Pilots     *repositories.PilotRepo
	Squadrons  *repositories.SquadronRepo
	Missions   *repositories.MissionRepo
	Events     *repositories.EventRepo
	Attempts   *repositories.PromotionAttemptRepo
	Migrations *repositories.PlayerMigrationRepo
	Personages *repositories.PersonageRepo
}

type Services struct {
	Cache     *common.CacheService
	Squadrons *services.CachedSquadronLookup
	Engine    *services.PromotionEngine
	Recorder  *services.EventRecorder
	Resolver  *services.ActivePilotResolver
	Migrator  *services.StatMigrator
	Feed      providers.PromotionFeed

	// StreamFeed is set only when the Redis feed is enabled.
	StreamFeed *providers.RedisStreamFeed
}

type Jobs struct {
	Pass    *jobs.PromotionPassJob
	Cleanup *jobs.OrphanCleanupJob
}

type Workers struct {
	Monitor *workers.DayChangeMonitor
	Host    *workers.HostWatcher
}

type Dependencies struct {
	Config   *config.Config
	DB       *db.CareerDB
	Metrics  *metrics.MetricsRegistry
	Probe    common.ProcessProbe
	Repo     *Repositories
	Services *Services
	Jobs     *Jobs
	Workers  *Workers
}

// InitDependencies wires every component over an open career database.
// rng may be nil.
func InitDependencies(
	cfg *config.Config,
	cdb *db.CareerDB,
	metricsReg *metrics.MetricsRegistry,
	probe common.ProcessProbe,
	rng services.RandomSource,
) *Dependencies {
	repos := &Repositories{
		Pilots:     repositories.NewPilotRepo(cdb.Gorm, cdb.SQL),
		Squadrons:  repositories.NewSquadronRepo(cdb.Gorm, cdb.SQL),
		Missions:   repositories.NewMissionRepo(cdb.SQL),
		Events:     repositories.NewEventRepo(cdb.Gorm, cdb.SQL),
		Attempts:   repositories.NewPromotionAttemptRepo(cdb.Gorm),
		Migrations: repositories.NewPlayerMigrationRepo(cdb.Gorm),
		Personages: repositories.NewPersonageRepo(cdb.Gorm),
	}

	cacheSvc := common.NewCacheService(30*time.Minute, 10*time.Minute)

	svcs := &Services{
		Cache:     cacheSvc,
		Squadrons: services.NewCachedSquadronLookup(cacheSvc, repos.Squadrons, metricsReg),
		Feed:      providers.NoopFeed{},
	}

	if cfg.Feed.Enabled() {
		client := common.NewRedisClient(common.RedisOptions{
			Host:     cfg.Feed.RedisHost,
			Port:     cfg.Feed.RedisPort,
			Password: cfg.Feed.RedisPassword,
		})
		svcs.StreamFeed = providers.NewRedisStreamFeed(client, cfg.Feed.Stream)
		svcs.Feed = svcs.StreamFeed
		logging.Info("[App] Promotion feed enabled", "stream", cfg.Feed.Stream)
	}

	store := services.NewGormPromotionStore(cdb.Gorm, repos.Attempts, repos.Pilots)
	svcs.Engine = services.NewPromotionEngine(cfg.Policy(), store, rng)
	svcs.Recorder = services.NewEventRecorder(repos.Pilots, svcs.Squadrons, repos.Events, svcs.Feed, metricsReg)
	svcs.Resolver = services.NewActivePilotResolver(repos.Pilots, repos.Missions, repos.Events)
	svcs.Migrator = services.NewStatMigrator(cdb.Gorm, repos.Pilots, repos.Attempts, repos.Migrations, metricsReg)

	passJob := jobs.NewPromotionPassJob(
		svcs.Engine,
		svcs.Resolver,
		svcs.Migrator,
		svcs.Recorder,
		repos.Pilots,
		repos.Squadrons,
		cfg,
		metricsReg,
		repos.Attempts,
		repos.Migrations,
	)
	jobsContainer := &Jobs{
		Pass:    passJob,
		Cleanup: jobs.NewOrphanCleanupJob(repos.Attempts, passJob.Locker(), metricsReg),
	}

	monitor := workers.NewDayChangeMonitor(repos.Missions, passJob, probe, cfg.PollInterval, metricsReg)
	host := workers.NewHostWatcher(probe, monitor, cfg.HostWaitInterval, metricsReg,
		func(ctx context.Context) {
			// The player may have switched careers while the game was closed
			cacheSvc.Flush()
		},
		func(ctx context.Context) {
			if _, err := jobsContainer.Cleanup.Run(ctx); err != nil {
				logging.Warn("[App] Session start cleanup failed", "error", err)
			}
		},
	)

	return &Dependencies{
		Config:   cfg,
		DB:       cdb,
		Metrics:  metricsReg,
		Probe:    probe,
		Repo:     repos,
		Services: svcs,
		Jobs:     jobsContainer,
		Workers:  &Workers{Monitor: monitor, Host: host},
	}
}

// InitCareer prepares the career database once at startup: owned tables
// exist and the game accepts every rank up to the default ceiling.
func (d *Dependencies) InitCareer(ctx context.Context) error {
	if err := d.Repo.Attempts.EnsureSchema(ctx); err != nil {
		return err
	}
	if err := d.Repo.Migrations.EnsureSchema(ctx); err != nil {
		return err
	}

	rows, err := d.Repo.Personages.RaiseMaxRank(ctx, constants.DefaultMaxRank)
	if err != nil {
		logging.Warn("[App] Could not update personage.maxRank", "error", err)
		return nil
	}
	logging.Info("[App] Set personage.maxRank for all rows", "max_rank", constants.DefaultMaxRank, "rows", rows)
	return nil
}

// Close releases the feed connection and the database.
func (d *Dependencies) Close() error {
	if d.Services.StreamFeed != nil {
		if err := d.Services.StreamFeed.Close(); err != nil {
			logging.Warn("[App] Failed to close promotion feed", "error", err)
		}
	}
	_ = d.Services.Cache.Close()
	return d.DB.Close()
}
