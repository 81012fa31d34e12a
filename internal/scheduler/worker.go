package scheduler

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/shiftsched/scheduler/internal/domain"
	"github.com/shiftsched/scheduler/internal/metrics"
	"github.com/shiftsched/scheduler/internal/optimize"
	"github.com/shiftsched/scheduler/internal/repository"
)

// Worker polls for pending scheduling runs and solves them. Each claimed run
// is built into an optimize.Data snapshot, turned into a MIP model, and
// handed to a Driver — HiGHS in production, a fake in tests.
type Worker struct {
	id           string
	runs         repository.RunRepository
	repos        optimize.Repositories
	driver       optimize.Driver
	pollInterval time.Duration
	concurrency  int
}

func NewWorker(runs repository.RunRepository, repos optimize.Repositories, driver optimize.Driver, pollInterval time.Duration, concurrency int) *Worker {
	hostname, _ := os.Hostname()
	return &Worker{
		id:           fmt.Sprintf("%s-%d", hostname, os.Getpid()),
		runs:         runs,
		repos:        repos,
		driver:       driver,
		pollInterval: pollInterval,
		concurrency:  concurrency,
	}
}

func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	log.Printf("worker %s started (concurrency=%d)", w.id, w.concurrency)

	for {
		select {
		case <-ctx.Done():
			log.Printf("worker %s: shut down", w.id)
			return
		case <-ticker.C:
			w.processBatch(ctx)
		}
	}
}

func (w *Worker) processBatch(ctx context.Context) {
	runs, err := w.runs.ClaimPending(ctx, w.concurrency)
	if err != nil {
		log.Printf("worker: claim error: %v", err)
		return
	}
	if len(runs) == 0 {
		return
	}

	log.Printf("worker: claimed %d scheduling runs", len(runs))

	var wg sync.WaitGroup
	for _, run := range runs {
		metrics.RunPickupLatency.Observe(time.Since(run.CreatedAt).Seconds())
		wg.Add(1)
		go func(runID, weeklyScheduleID, optimizationConfigurationID string) {
			defer wg.Done()
			w.solveRun(ctx, runID, weeklyScheduleID, optimizationConfigurationID)
		}(run.ID, run.WeeklyScheduleID, run.OptimizationConfigurationID)
	}
	wg.Wait()
}

func (w *Worker) solveRun(ctx context.Context, runID, weeklyScheduleID, optimizationConfigurationID string) {
	heartbeatCtx, cancelHeartbeat := context.WithCancel(ctx)
	defer cancelHeartbeat()
	go w.heartbeat(heartbeatCtx, runID)

	metrics.RunsInFlight.Inc()
	defer metrics.RunsInFlight.Dec()

	log.Printf("worker %s: solving run %s", w.id, runID)
	start := time.Now()

	data, err := optimize.BuildData(ctx, w.repos, weeklyScheduleID, optimizationConfigurationID)
	if err != nil {
		w.fail(ctx, runID, start, fmt.Sprintf("build optimization data: %v", err))
		return
	}

	model, err := optimize.BuildModel(data)
	if err != nil {
		w.fail(ctx, runID, start, fmt.Sprintf("build model: %v", err))
		return
	}

	result, err := w.driver.Solve(ctx, data, model)
	if err != nil {
		// Only a driver-level fault (couldn't even attempt a solve) reaches
		// here — every legitimate terminal solver outcome, including
		// infeasible and no_solution_found, comes back as a *Result below
		// and still completes the run.
		w.fail(ctx, runID, start, fmt.Sprintf("solve: %v", err))
		return
	}

	if err := w.runs.Complete(ctx, runID, result.SolverStatus, result.ObjectiveValue, result.Rows); err != nil {
		log.Printf("worker %s: complete run %s failed: %v", w.id, runID, err)
		return
	}
	metrics.RunSolveDuration.WithLabelValues(string(result.SolverStatus)).Observe(time.Since(start).Seconds())
	metrics.RunsCompletedTotal.WithLabelValues(string(result.SolverStatus)).Inc()
	if result.SolverStatus == domain.SolverOptimal || result.SolverStatus == domain.SolverFeasible {
		metrics.SolverObjectiveValue.Observe(result.ObjectiveValue)
	}
	log.Printf("worker %s: run %s completed in %s, solver_status=%s, objective=%.4f, assignments=%d",
		w.id, runID, time.Since(start), result.SolverStatus, result.ObjectiveValue, len(result.Rows))
}

func (w *Worker) fail(ctx context.Context, runID string, start time.Time, errMsg string) {
	metrics.RunSolveDuration.WithLabelValues("failed").Observe(time.Since(start).Seconds())
	metrics.RunsCompletedTotal.WithLabelValues("failed").Inc()
	if err := w.runs.Fail(ctx, runID, errMsg); err != nil {
		log.Printf("worker %s: fail run %s: %v", w.id, runID, err)
		return
	}
	log.Printf("worker %s: run %s failed: %s", w.id, runID, errMsg)
}

func (w *Worker) heartbeat(ctx context.Context, runID string) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.runs.UpdateHeartbeat(ctx, runID); err != nil {
				log.Printf("worker: heartbeat update failed for run %s: %v", runID, err)
			}
		}
	}
}
