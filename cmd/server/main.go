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
	httptransport "github.com/shiftsched/scheduler/internal/transport/http"
	"github.com/shiftsched/scheduler/internal/transport/http/handler"
	"github.com/shiftsched/scheduler/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	employeeRepo := postgres.NewEmployeeRepository(pool)
	roleRepo := postgres.NewRoleRepository(pool)
	shiftTemplateRepo := postgres.NewShiftTemplateRepository(pool)
	plannedShiftRepo := postgres.NewPlannedShiftRepository(pool)
	preferenceRepo := postgres.NewPreferenceRepository(pool)
	timeOffRepo := postgres.NewTimeOffRepository(pool)
	constraintRepo := postgres.NewConstraintRepository(pool)
	optConfigRepo := postgres.NewOptimizationConfigurationRepository(pool)
	weeklyScheduleRepo := postgres.NewWeeklyScheduleRepository(pool)
	runRepo := postgres.NewRunRepository(pool)
	userRepo := postgres.NewUserRepository(pool)

	dataRepos := optimize.Repositories{
		Employees:     employeeRepo,
		PlannedShifts: plannedShiftRepo,
		Preferences:   preferenceRepo,
		TimeOff:       timeOffRepo,
		Constraints:   constraintRepo,
		OptConfigs:    optConfigRepo,
	}

	authUsecase := usecase.NewAuthUsecase(userRepo, employeeRepo, []byte(cfg.JWTSecretKey), cfg.JWTExpireDays)
	runUsecase := usecase.NewRunUsecase(runRepo, weeklyScheduleRepo, optConfigRepo)

	handlers := httptransport.Handlers{
		Auth:           handler.NewAuthHandler(authUsecase, logger),
		Run:            handler.NewRunHandler(runUsecase, dataRepos, logger),
		Employee:       handler.NewEmployeeHandler(employeeRepo),
		Role:           handler.NewRoleHandler(roleRepo),
		ShiftTemplate:  handler.NewShiftTemplateHandler(shiftTemplateRepo),
		WeeklySchedule: handler.NewWeeklyScheduleHandler(weeklyScheduleRepo),
	}

	metrics.Register()
	checker := health.NewChecker(pool, logger, prometheus.DefaultRegisterer)

	srv := http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httptransport.NewRouter(handlers, []byte(cfg.JWTSecretKey), logger),
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
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
