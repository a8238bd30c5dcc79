package cli

import (
	"fmt"

	"il2-rankmod/light/internal/app"
	"il2-rankmod/light/internal/common"
	"il2-rankmod/light/internal/config"
	"il2-rankmod/light/internal/constants"
	"il2-rankmod/light/internal/db"
	"il2-rankmod/light/internal/logging"
	"il2-rankmod/light/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// runtime is everything a command needs once configuration is loaded.
type runtime struct {
	deps     *app.Dependencies
	registry *prometheus.Registry
}

// bootstrap loads the config, starts logging into the Career folder and
// opens the career database.
func bootstrap(opts *RootOptions) (*runtime, error) {
	path, err := config.ResolvePath(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if err := logging.Init(cfg.AppEnv, cfg.LogPath()); err != nil {
		return nil, err
	}
	logging.SetVerbose(opts.Verbose)

	logging.Info("Rank mod starting",
		"game_path", cfg.GamePath,
		"config", path,
		"environment", cfg.AppEnv,
	)

	cdb, err := db.OpenCareerDB(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("open career database: %w", err)
	}
	logging.Info("Connected to career database", "path", cfg.DBPath())

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	deps := app.InitDependencies(
		cfg,
		cdb,
		metrics.NewMetricsRegistry(registry),
		common.NewProcessNameProbe(constants.HostProcessName),
		nil,
	)

	return &runtime{deps: deps, registry: registry}, nil
}

func (rt *runtime) close() {
	if err := rt.deps.Close(); err != nil {
		logging.Warn("Failed to close career database", "error", err)
	}
	_ = logging.Close()
}
