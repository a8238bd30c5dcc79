package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"il2-rankmod/light/internal/logging"
	"il2-rankmod/light/internal/routes"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the promotion daemon",
		Long: `Wait for IL-2 to start, monitor the career database while it runs and
restart monitoring on the next launch. Stops on SIGINT/SIGTERM.

Set RANKMOD_STATUS_ADDR (e.g. 127.0.0.1:8089) to serve health, metrics and
promotion history over HTTP.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(rootOpts)
		},
	}
}

func runDaemon(opts *RootOptions) error {
	rt, err := bootstrap(opts)
	if err != nil {
		return err
	}
	defer rt.close()

	deps := rt.deps
	upSince := time.Now()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := deps.InitCareer(ctx); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return deps.Workers.Host.Run(gctx)
	})

	g.Go(func() error {
		deps.Jobs.Cleanup.RunScheduled(gctx, deps.Config.CleanupInterval)
		return nil
	})

	if addr := deps.Config.StatusAddr; addr != "" {
		srv := &http.Server{
			Addr:              addr,
			Handler:           routes.RegisterRoutes(deps, rt.registry, upSince),
			ReadHeaderTimeout: 5 * time.Second,
		}

		g.Go(func() error {
			logging.Info("Status server starting", "addr", addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})

		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	err = g.Wait()
	logging.Info("Rank mod stopped")
	return err
}
