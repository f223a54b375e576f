package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"

	"github.com/platinummonkey/kgsearch/pkg/async"
	"github.com/platinummonkey/kgsearch/pkg/indexing"
	"github.com/platinummonkey/kgsearch/pkg/observability"
)

var (
	scheduleExpr   string
	scheduleListen string
	scheduleNow    bool
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Index on a cron schedule until stopped",
	Long: `Index the configured stages at every tick of the schedule. Metrics and health
checks are served on --listen while the scheduler runs.`,
	RunE: runSchedule,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)

	scheduleCmd.Flags().StringVar(&scheduleExpr, "schedule", "", "cron expression, KGSEARCH_INDEXING_SCHEDULE when empty")
	scheduleCmd.Flags().StringVar(&scheduleListen, "listen", ":9090", "address of the metrics and health endpoints")
	scheduleCmd.Flags().BoolVar(&scheduleNow, "now", false, "index once immediately")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	ix, err := newIndexer()
	if err != nil {
		return err
	}
	defer ix.close()

	expr := scheduleExpr
	if expr == "" {
		expr = ix.config.Indexing.Schedule
	}
	scheduler, err := indexing.NewScheduler(ix.job, expr, ix.config.Indexing.Stages, ix.config.Indexing.Types, ix.config.Indexing.Temporary)
	if err != nil {
		return err
	}

	health := observability.NewHealthChecker(ix.search, nil, version)
	if ix.store != nil {
		health = observability.NewHealthChecker(ix.search, ix.store.Client(), version)
	}
	router := mux.NewRouter()
	router.Handle("/metrics", observability.MetricsHandler(ix.registry)).Methods(http.MethodGet)
	router.HandleFunc("/health/live", health.Liveness).Methods(http.MethodGet)
	router.HandleFunc("/health/ready", health.Readiness).Methods(http.MethodGet)
	server := &http.Server{Addr: scheduleListen, Handler: router, ReadTimeout: 10 * time.Second}

	shutdown := observability.NewShutdownManager(ix.logger, server, ix.config.Server.ShutdownTimeout)
	shutdown.Register("scheduler", scheduler.Stop)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			ix.logger.WithError(err).Error("Metrics server failed")
			os.Exit(1)
		}
	}()

	scheduler.Start()
	ix.logger.Infof("Indexing scheduled at %q", expr)
	if scheduleNow {
		async.SafeGo(cmd.Context(), ix.logger, 12*time.Hour, "initial-indexing", func(ctx context.Context) error {
			scheduler.RunOnce(ctx)
			return nil
		})
	}

	return shutdown.WaitForShutdown(cmd.Context())
}
