package optimize

import (
	"testing"
	"time"

	"github.com/shiftsched/scheduler/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestCalculateMetricsEmpty(t *testing.T) {
	d := &Data{
		Shifts:    []*domain.PlannedShift{{ID: "s1"}},
		Employees: []*domain.Employee{{ID: "e1"}},
	}
	m := CalculateMetrics(d, nil)
	require.Equal(t, 0, m.TotalAssignments)
	require.Equal(t, 1, m.ShiftsTotal)
	require.Equal(t, 1, m.EmployeesTotal)
	require.Equal(t, 0, m.ShiftsFilled)
}

func TestCalculateMetricsBalance(t *testing.T) {
	d := &Data{
		Shifts:    []*domain.PlannedShift{{ID: "s1"}, {ID: "s2"}, {ID: "s3"}},
		Employees: []*domain.Employee{{ID: "e1"}, {ID: "e2"}},
	}
	rows := []*domain.SchedulingSolutionRow{
		{EmployeeID: "e1", PlannedShiftID: "s1", PreferenceScore: 1.0},
		{EmployeeID: "e1", PlannedShiftID: "s2", PreferenceScore: 0.5},
		{EmployeeID: "e2", PlannedShiftID: "s3", PreferenceScore: -0.5},
	}

	m := CalculateMetrics(d, rows)
	require.Equal(t, 3, m.TotalAssignments)
	require.Equal(t, 3, m.ShiftsFilled)
	require.Equal(t, 2, m.EmployeesAssigned)
	require.Equal(t, 1, m.MinAssignmentsPerEmp)
	require.Equal(t, 2, m.MaxAssignmentsPerEmp)
	require.InDelta(t, 1.5, m.AvgAssignmentsPerEmp, 0.001)
	require.InDelta(t, 1.0/3.0, m.AvgPreferenceScore, 0.001)
}

func TestBuildShiftOverlaps(t *testing.T) {
	day := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	s1 := &domain.PlannedShift{ID: "s1", Date: day, StartAt: day.Add(8 * time.Hour), EndAt: day.Add(16 * time.Hour)}
	s2 := &domain.PlannedShift{ID: "s2", Date: day, StartAt: day.Add(12 * time.Hour), EndAt: day.Add(20 * time.Hour)}
	s3 := &domain.PlannedShift{ID: "s3", Date: day, StartAt: day.Add(20 * time.Hour), EndAt: day.Add(24 * time.Hour)}

	overlaps := buildShiftOverlaps([]*domain.PlannedShift{s1, s2, s3})
	require.Contains(t, overlaps["s1"], "s2")
	require.Contains(t, overlaps["s2"], "s1")
	require.NotContains(t, overlaps["s1"], "s3")
	require.NotContains(t, overlaps["s2"], "s3")
}

func TestFeasibleCandidatesExcludesUnqualifiedAndUnavailable(t *testing.T) {
	day := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	d := &Data{
		Employees: []*domain.Employee{{ID: "e1"}, {ID: "e2"}},
		EmployeeRoles: map[string]map[string]bool{
			"e1": {"role-server": true},
		},
		Shifts: []*domain.PlannedShift{
			{ID: "s1", Date: day, StartAt: day, EndAt: day.Add(8 * time.Hour),
				Demands: []domain.ShiftRoleDemand{{RoleID: "role-server", RequiredCount: 1}}},
		},
		Unavailable: map[string]map[string]bool{
			"e1": {"s1": true},
		},
	}

	candidates := feasibleCandidates(d)
	require.Empty(t, candidates, "e1 is qualified but unavailable; e2 is unqualified")
}

func TestFakeDriverRespectsRequiredCountAndMaxHours(t *testing.T) {
	day := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	d := &Data{
		Employees: []*domain.Employee{
			{ID: "e1", MaxWeeklyHours: 8},
			{ID: "e2", MaxWeeklyHours: 40},
		},
		EmployeeRoles: map[string]map[string]bool{
			"e1": {"role-server": true},
			"e2": {"role-server": true},
		},
		Shifts: []*domain.PlannedShift{
			{ID: "s1", Date: day, StartAt: day, EndAt: day.Add(8 * time.Hour),
				Demands: []domain.ShiftRoleDemand{{RoleID: "role-server", RequiredCount: 1}}},
			{ID: "s2", Date: day, StartAt: day.Add(8 * time.Hour), EndAt: day.Add(16 * time.Hour),
				Demands: []domain.ShiftRoleDemand{{RoleID: "role-server", RequiredCount: 1}}},
		},
	}

	result, err := FakeDriver{}.Solve(nil, d, nil)
	require.NoError(t, err)
	require.Equal(t, domain.SolverOptimal, result.SolverStatus)
	require.Len(t, result.Rows, 2)

	hoursByEmployee := map[string]float64{}
	for _, r := range result.Rows {
		shift := shiftByID(d, r.PlannedShiftID)
		hoursByEmployee[r.EmployeeID] += shift.Duration().Hours()
	}
	for empID, hours := range hoursByEmployee {
		var max float64
		for _, e := range d.Employees {
			if e.ID == empID {
				max = e.MaxWeeklyHours
			}
		}
		require.LessOrEqual(t, hours, max)
	}
}
