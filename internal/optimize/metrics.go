package optimize

import "github.com/shiftsched/scheduler/internal/domain"

// CalculateMetrics summarizes a solved assignment set. Ported from the
// original system's post-solve metrics step: total assignments, preference
// quality, load balance across employees, and coverage ratios.
func CalculateMetrics(d *Data, rows []*domain.SchedulingSolutionRow) domain.RunMetrics {
	m := domain.RunMetrics{
		TotalAssignments: len(rows),
		ShiftsTotal:      len(d.Shifts),
		EmployeesTotal:   len(d.Employees),
	}
	if len(rows) == 0 {
		return m
	}

	assignmentsPerEmployee := make(map[string]int)
	filledShifts := make(map[string]bool)
	var scoreSum float64
	for _, r := range rows {
		assignmentsPerEmployee[r.EmployeeID]++
		filledShifts[r.PlannedShiftID] = true
		scoreSum += r.PreferenceScore
	}
	m.AvgPreferenceScore = scoreSum / float64(len(rows))
	m.ShiftsFilled = len(filledShifts)
	m.EmployeesAssigned = len(assignmentsPerEmployee)

	first := true
	var total int
	for _, count := range assignmentsPerEmployee {
		total += count
		if first {
			m.MinAssignmentsPerEmp, m.MaxAssignmentsPerEmp = count, count
			first = false
			continue
		}
		if count < m.MinAssignmentsPerEmp {
			m.MinAssignmentsPerEmp = count
		}
		if count > m.MaxAssignmentsPerEmp {
			m.MaxAssignmentsPerEmp = count
		}
	}
	m.AvgAssignmentsPerEmp = float64(total) / float64(len(assignmentsPerEmployee))

	return m
}
