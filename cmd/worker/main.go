package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shiftsched/scheduler/config"
	"github.com/shiftsched/scheduler/internal/health"
	"github.com/shiftsched/scheduler/internal/infrastructure/postgres"
	ctxlog "github.com/shiftsched/scheduler/internal/log"
	"github.com/shiftsched/scheduler/internal/metrics"
	"github.com/shiftsched/scheduler/internal/optimize"
	"github.com/shiftsched/scheduler/internal/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	logger.Info("db connected")

	metrics.Register()
	checker := health.NewChecker(pool, logger, prometheus.DefaultRegisterer)

	runRepo := postgres.NewRunRepository(pool)
	dataRepos := optimize.Repositories{
		Employees:     postgres.NewEmployeeRepository(pool),
		PlannedShifts: postgres.NewPlannedShiftRepository(pool),
		Preferences:   postgres.NewPreferenceRepository(pool),
		TimeOff:       postgres.NewTimeOffRepository(pool),
		Constraints:   postgres.NewConstraintRepository(pool),
		OptConfigs:    postgres.NewOptimizationConfigurationRepository(pool),
	}

	driver := optimize.NewHighsDriver()

	worker := scheduler.NewWorker(
		runRepo,
		dataRepos,
		driver,
		time.Duration(cfg.PollIntervalSec)*time.Second,
		cfg.WorkerCount,
	)
	go worker.Start(ctx)

	reaper, err := scheduler.NewReaper(
		runRepo,
		cfg.ReaperCronExpr,
		time.Duration(cfg.HeartbeatTimeoutSec)*time.Second,
	)
	if err != nil {
		stop()
		log.Fatalf("reaper: %v", err)
	}
	go reaper.Start(ctx)

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)
	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}

	logger.Info("worker shut down")
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
