package domain

import (
	"errors"
	"time"
)

var (
	ErrRunNotFound      = errors.New("scheduling run not found")
	ErrRunNotPending    = errors.New("scheduling run is not pending")
	ErrRunNotCompleted  = errors.New("scheduling run has not completed successfully")
	ErrRunAlreadyApplied = errors.New("scheduling run has already been applied")
)

type RunStatus string

const (
	RunPending   RunStatus = "pending"
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
	// RunCancelled exists for data-model fidelity only — it is reachable
	// solely via out-of-band operator mutation, never through this
	// service's own state machine.
	RunCancelled RunStatus = "cancelled"
)

// SolverStatus records the outcome a solver driver reached, independent of
// the run's own status: a run is "completed" on ANY terminal solver
// outcome, including one where no usable assignment was found.
type SolverStatus string

const (
	SolverOptimal         SolverStatus = "optimal"
	SolverFeasible        SolverStatus = "feasible"
	SolverInfeasible      SolverStatus = "infeasible"
	SolverNoSolutionFound SolverStatus = "no_solution_found"
	SolverError           SolverStatus = "error"
)

// SchedulingRun is one optimization attempt against a WeeklySchedule.
type SchedulingRun struct {
	ID                          string
	WeeklyScheduleID            string
	OptimizationConfigurationID string
	Status                      RunStatus
	SolverStatus                *SolverStatus // nil until the driver returns a terminal outcome
	ObjectiveValue              *float64
	ErrorMessage                *string
	Applied                     bool
	StartedAt                   *time.Time
	HeartbeatAt                 *time.Time
	CompletedAt                 *time.Time
	CreatedAt                   time.Time
}

// SchedulingSolutionRow is one candidate assignment the solver produced for
// a run: employee X assigned to planned shift Y in role R, with the
// preference score that contributed to the objective.
type SchedulingSolutionRow struct {
	ID              string
	SchedulingRunID string
	EmployeeID      string
	PlannedShiftID  string
	RoleID          string
	PreferenceScore float64
}

// RunMetrics summarizes a completed run's solution quality, mirroring the
// original system's post-solve analytics.
type RunMetrics struct {
	TotalAssignments     int
	AvgPreferenceScore   float64
	MinAssignmentsPerEmp int
	MaxAssignmentsPerEmp int
	AvgAssignmentsPerEmp float64
	ShiftsFilled         int
	ShiftsTotal          int
	EmployeesAssigned    int
	EmployeesTotal       int
}
