// Package optimize builds the frozen input snapshot a scheduling run solves
// against (C2) and drives the MIP solver over it (C3).
package optimize

import (
	"context"
	"fmt"

	"github.com/shiftsched/scheduler/internal/domain"
	"github.com/shiftsched/scheduler/internal/repository"
)

// Data is the complete, immutable snapshot a single scheduling run optimizes
// against. Everything the solver needs is resolved up front so the solve
// itself never touches the database — mirrors the original system's
// OptimizationData dataclass.
type Data struct {
	Employees     []*domain.Employee
	EmployeeRoles map[string]map[string]bool // employeeID -> set of qualified roleIDs

	Shifts []*domain.PlannedShift
	// ShiftOverlaps is a symmetric adjacency list: ShiftOverlaps[a] contains b
	// iff shift a and shift b occupy overlapping time ranges.
	ShiftOverlaps map[string][]string

	// Preference[employeeID] holds every preference row that employee set;
	// PreferenceScore aggregates the matching ones for a given shift.
	Preference map[string][]*domain.EmployeePreference

	// Unavailable[employeeID] holds the calendar dates the employee has an
	// approved time-off request covering.
	Unavailable map[string]map[string]bool

	// Constraints[key] is the system constraint configured for that kind, if
	// any — absence means the kind is not enforced at all, neither hard nor
	// soft.
	Constraints map[string]domain.SystemConstraint
	Config      domain.OptimizationConfiguration
}

type Repositories struct {
	Employees      repository.EmployeeRepository
	PlannedShifts  repository.PlannedShiftRepository
	Preferences    repository.PreferenceRepository
	TimeOff        repository.TimeOffRepository
	Constraints    repository.ConstraintRepository
	OptConfigs     repository.OptimizationConfigurationRepository
}

// BuildData assembles the solver snapshot for one weekly schedule run.
func BuildData(ctx context.Context, repos Repositories, weeklyScheduleID, optimizationConfigurationID string) (*Data, error) {
	employees, rolesByEmployee, err := repos.Employees.ListActiveWithRoles(ctx)
	if err != nil {
		return nil, fmt.Errorf("load employees: %w", err)
	}
	employeeRoles := make(map[string]map[string]bool, len(employees))
	for empID, roleIDs := range rolesByEmployee {
		set := make(map[string]bool, len(roleIDs))
		for _, rid := range roleIDs {
			set[rid] = true
		}
		employeeRoles[empID] = set
	}

	shifts, err := repos.PlannedShifts.ListByWeeklySchedule(ctx, weeklyScheduleID)
	if err != nil {
		return nil, fmt.Errorf("load planned shifts: %w", err)
	}
	if len(shifts) == 0 {
		return nil, fmt.Errorf("weekly schedule %s has no planned shifts", weeklyScheduleID)
	}

	prefRows, err := repos.Preferences.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}
	preference := make(map[string][]*domain.EmployeePreference)
	for _, p := range prefRows {
		preference[p.EmployeeID] = append(preference[p.EmployeeID], p)
	}

	weekStart, weekEnd := shifts[0].StartAt, shifts[0].EndAt
	for _, s := range shifts {
		if s.StartAt.Before(weekStart) {
			weekStart = s.StartAt
		}
		if s.EndAt.After(weekEnd) {
			weekEnd = s.EndAt
		}
	}
	timeOffRows, err := repos.TimeOff.ListApprovedInRange(ctx, weekStart, weekEnd)
	if err != nil {
		return nil, fmt.Errorf("load time off: %w", err)
	}
	unavailable := make(map[string]map[string]bool)
	for _, req := range timeOffRows {
		if unavailable[req.EmployeeID] == nil {
			unavailable[req.EmployeeID] = make(map[string]bool)
		}
		for _, s := range shifts {
			if req.Covers(s.Date) {
				unavailable[req.EmployeeID][s.ID] = true
			}
		}
	}

	constraintRows, err := repos.Constraints.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load system constraints: %w", err)
	}
	constraints := make(map[string]domain.SystemConstraint, len(constraintRows))
	for _, c := range constraintRows {
		constraints[c.Key] = *c
	}

	config, err := repos.OptConfigs.GetByID(ctx, optimizationConfigurationID)
	if err != nil {
		return nil, fmt.Errorf("load optimization configuration: %w", err)
	}

	return &Data{
		Employees:     employees,
		EmployeeRoles: employeeRoles,
		Shifts:        shifts,
		ShiftOverlaps: buildShiftOverlaps(shifts),
		Preference:    preference,
		Unavailable:   unavailable,
		Constraints:   constraints,
		Config:        *config,
	}, nil
}

// buildShiftOverlaps computes, for every pair of shifts, whether their
// normalized time ranges intersect — an O(S^2) pairwise scan producing a
// sparse adjacency map rather than a dense matrix.
func buildShiftOverlaps(shifts []*domain.PlannedShift) map[string][]string {
	overlaps := make(map[string][]string, len(shifts))
	for i, a := range shifts {
		for _, b := range shifts[i+1:] {
			if a.Overlaps(*b) {
				overlaps[a.ID] = append(overlaps[a.ID], b.ID)
				overlaps[b.ID] = append(overlaps[b.ID], a.ID)
			}
		}
	}
	return overlaps
}

// IsQualified reports whether employeeID may be assigned to a shift
// requiring roleID.
func (d *Data) IsQualified(employeeID, roleID string) bool {
	return d.EmployeeRoles[employeeID][roleID]
}

// IsUnavailable reports whether employeeID has approved time off over shiftID.
func (d *Data) IsUnavailable(employeeID, shiftID string) bool {
	return d.Unavailable[employeeID][shiftID]
}

// PreferenceScore aggregates the employee's preferences for a shift into a
// single score in [0, 1]: the max (not sum) of the clipped weights of every
// preference row that matches the shift's template, day of week, and
// time-of-day window. Absence of any matching preference is neutral (0).
func (d *Data) PreferenceScore(employeeID string, shift *domain.PlannedShift) float64 {
	best := 0.0
	for _, p := range d.Preference[employeeID] {
		if !p.Matches(shift.ShiftTemplateID, shift.Date.Weekday(), shift.StartTimeOfDay, shift.EndTimeOfDay) {
			continue
		}
		if w := p.ClippedWeight(); w > best {
			best = w
		}
	}
	return best
}
