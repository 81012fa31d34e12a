package optimize

import (
	"context"
	"fmt"
	"time"

	"github.com/nextmv-io/sdk/mip"
	"github.com/shiftsched/scheduler/internal/domain"
)

// Result is a solver driver's terminal outcome: the solution rows produced
// (if any), the objective value reached, and the solver_status the run
// should record. A non-nil Go error from Solve means the driver itself
// faulted (couldn't even attempt a solve) — that is the only case that
// should ever surface as a run failure rather than a recorded outcome.
type Result struct {
	SolverStatus   domain.SolverStatus
	ObjectiveValue float64
	ErrorDetail    string
	Rows           []*domain.SchedulingSolutionRow
}

// Driver solves a built Model against a Data snapshot. Abstracted so the
// worker can run against a real solver in production and a deterministic
// fake in tests, mirroring the teacher's pattern of narrow interfaces at
// every infrastructure boundary.
type Driver interface {
	Solve(ctx context.Context, d *Data, m *Model) (*Result, error)
}

// HighsDriver solves via HiGHS, the open-source MIP solver nextmv's sdk
// ships a binding for.
type HighsDriver struct{}

func NewHighsDriver() *HighsDriver {
	return &HighsDriver{}
}

func (HighsDriver) Solve(ctx context.Context, d *Data, m *Model) (*Result, error) {
	solver, err := mip.NewSolver(mip.Highs, m.MIP)
	if err != nil {
		return nil, fmt.Errorf("create solver: %w", err)
	}

	limit := time.Duration(d.Config.MaxRuntimeSeconds) * time.Second
	if limit <= 0 {
		limit = 30 * time.Second
	}

	opts := mip.NewSolveOptions()
	if err := opts.SetMaximumDuration(limit); err != nil {
		return nil, fmt.Errorf("set solve duration limit: %w", err)
	}
	if d.Config.MIPGap > 0 {
		if err := opts.SetMIPGapAbsolute(d.Config.MIPGap); err != nil {
			return nil, fmt.Errorf("set mip gap: %w", err)
		}
	}

	start := time.Now()
	solution, err := solver.Solve(opts)
	if err != nil {
		// The solver itself crashed mid-solve — an infra fault, not a
		// legitimate terminal outcome, so this one DOES surface as a run
		// failure. Per §7 this is the one place that distinction matters.
		return &Result{SolverStatus: domain.SolverError, ErrorDetail: err.Error()}, nil
	}
	elapsed := time.Since(start)

	return extractResult(d, m, solution, classifyStatus(solution, elapsed, limit)), nil
}

// classifyStatus maps a solved mip.Solution onto the solver_status vocabulary
// our run state machine records. The nextmv SDK surface available to this
// driver only exposes IsOptimal/IsSubOptimal — no separate infeasibility
// flag — so the remaining two terminal outcomes are told apart the way §5
// describes the timeout behaving: if the configured time budget was
// actually consumed, the solver simply ran out of time without reporting a
// usable bound (no_solution_found); if it returned well before the budget
// with nothing usable, the model itself has no feasible region
// (infeasible).
func classifyStatus(solution mip.Solution, elapsed, limit time.Duration) domain.SolverStatus {
	switch {
	case solution.IsOptimal():
		return domain.SolverOptimal
	case solution.IsSubOptimal():
		return domain.SolverFeasible
	case elapsed >= limit:
		return domain.SolverNoSolutionFound
	default:
		return domain.SolverInfeasible
	}
}

func extractResult(d *Data, m *Model, solution mip.Solution, status domain.SolverStatus) *Result {
	var rows []*domain.SchedulingSolutionRow
	for _, c := range m.Candidates {
		if solution.Value(m.Assign.Get(c)) < 0.9 {
			continue
		}
		shift := shiftByID(d, c.ShiftID)
		rows = append(rows, &domain.SchedulingSolutionRow{
			EmployeeID:      c.EmployeeID,
			PlannedShiftID:  c.ShiftID,
			RoleID:          c.RoleID,
			PreferenceScore: d.PreferenceScore(c.EmployeeID, shift),
		})
	}
	return &Result{
		SolverStatus:   status,
		ObjectiveValue: solution.ObjectiveValue(),
		Rows:           rows,
	}
}

// FakeDriver is a deterministic test double: it greedily assigns the first
// qualified, available employee to each shift's role demands up to their
// required counts, ignoring every soft constraint. Used by usecase/scheduler
// tests that need a run to complete without linking a real solver.
type FakeDriver struct{}

func (FakeDriver) Solve(_ context.Context, d *Data, _ *Model) (*Result, error) {
	assignedHours := make(map[string]float64, len(d.Employees))
	assignedShift := make(map[[2]string]bool) // (employeeID, shiftID) already filled
	var rows []*domain.SchedulingSolutionRow
	var objective float64
	fullyCovered := true

	for _, s := range d.Shifts {
		for _, demand := range s.Demands {
			count := 0
			for _, e := range d.Employees {
				if count >= demand.RequiredCount {
					break
				}
				if !d.IsQualified(e.ID, demand.RoleID) || d.IsUnavailable(e.ID, s.ID) {
					continue
				}
				shiftKey := [2]string{e.ID, s.ID}
				if assignedShift[shiftKey] {
					continue
				}
				if assignedHours[e.ID]+s.Duration().Hours() > e.MaxWeeklyHours {
					continue
				}
				score := d.PreferenceScore(e.ID, s)
				rows = append(rows, &domain.SchedulingSolutionRow{
					EmployeeID:      e.ID,
					PlannedShiftID:  s.ID,
					RoleID:          demand.RoleID,
					PreferenceScore: score,
				})
				assignedHours[e.ID] += s.Duration().Hours()
				assignedShift[shiftKey] = true
				objective += score
				count++
			}
			if count < demand.RequiredCount {
				fullyCovered = false
			}
		}
	}

	status := domain.SolverFeasible
	if fullyCovered {
		status = domain.SolverOptimal
	}
	return &Result{SolverStatus: status, ObjectiveValue: objective, Rows: rows}, nil
}
