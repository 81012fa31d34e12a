package repository

import (
	"context"
	"time"

	"github.com/shiftsched/scheduler/internal/domain"
)

// RunRepository is the task-queue interface the worker polls: scheduling
// runs are rows in the database rather than messages on an external broker
// (see the resolved Open Question on broker choice).
type RunRepository interface {
	Create(ctx context.Context, r *domain.SchedulingRun) (*domain.SchedulingRun, error)
	GetByID(ctx context.Context, id string) (*domain.SchedulingRun, error)
	ListByWeeklySchedule(ctx context.Context, input ListScheduleRunsInput) ([]*domain.SchedulingRun, error)

	// ClaimPending atomically claims up to limit pending runs for this
	// worker, marking them running. FOR UPDATE SKIP LOCKED guards against
	// double-claiming across worker instances.
	ClaimPending(ctx context.Context, limit int) ([]*domain.SchedulingRun, error)
	UpdateHeartbeat(ctx context.Context, runID string) error

	// Complete records a solver's terminal outcome: persists solver_status,
	// the objective value, status=completed, and any solution rows, all in
	// one transaction. Called for every legitimate terminal outcome —
	// optimal, feasible, infeasible, and no_solution_found all complete the
	// run; only a driver-level fault calls Fail instead.
	Complete(ctx context.Context, runID string, solverStatus domain.SolverStatus, objectiveValue float64, rows []*domain.SchedulingSolutionRow) error
	Fail(ctx context.Context, runID string, errMsg string) error

	// ListSolutionRows returns the solver's candidate assignments for a
	// completed run, used by both metrics computation and apply.
	ListSolutionRows(ctx context.Context, runID string) ([]*domain.SchedulingSolutionRow, error)

	// ApplySolution materializes a completed run's solution rows into real
	// ShiftAssignment records and marks the run applied. All-or-nothing: the
	// run is rejected if it is not in a completed, unapplied state.
	ApplySolution(ctx context.Context, runID string) ([]*domain.ShiftAssignment, error)

	// RescheduleStale reverts runs that have been running past heartbeatTimeout
	// back to pending so another worker can retry them; it is the orphan
	// recovery mechanism resolving the Open Question on visibility timeout.
	RescheduleStale(ctx context.Context, heartbeatCutoff time.Time, limit int) (int, error)
}
