package optimize

import (
	"github.com/nextmv-io/sdk/mip"
	"github.com/nextmv-io/sdk/model"
	"github.com/shiftsched/scheduler/internal/domain"
)

// candidate is one (employee, shift, role) triple the solver may assign —
// only qualified, available pairs where the shift actually demands that
// role get a decision variable at all.
type candidate struct {
	EmployeeID string
	ShiftID    string
	RoleID     string
}

// employeeDay identifies one employee's calendar day, used to link the
// per-shift assignment variables to a single "worked this day" indicator.
type employeeDay struct {
	EmployeeID string
	Date       string
}

// Model wraps the constructed MIP model together with the lookup maps
// needed to read a solution back into domain terms.
type Model struct {
	MIP        mip.Model
	Assign     model.MultiMap[mip.Bool, candidate]
	Candidates []candidate
}

// BuildModel constructs the assignment MIP for one run: a decision variable
// per feasible (employee, shift, role) triple, coverage/overlap/rest/hours
// /fairness constraints, and a weighted multi-objective. Grounded on the
// nextmv community shift-scheduling template's potential-assignment +
// MultiMap pattern, adapted from single-role coverage-only to the full
// role-demand, hard/soft-constraint, preference/fairness/cost/coverage
// objective this system needs. Coverage is never relaxed into a candidate
// list short-circuit: a demand pair with zero feasible candidates still
// gets its equality constraint emitted (with an empty sum), so the solver —
// not this function — is what declares the run infeasible.
func BuildModel(d *Data) (*Model, error) {
	candidates := feasibleCandidates(d)

	m := mip.NewModel()
	m.Objective().SetMaximize()

	x := model.NewMultiMap(
		func(...candidate) mip.Bool { return m.NewBool() },
		candidates,
	)

	candidatesByShiftRole := make(map[[2]string][]candidate)
	candidatesByEmployee := make(map[string][]candidate)
	for _, c := range candidates {
		key := [2]string{c.ShiftID, c.RoleID}
		candidatesByShiftRole[key] = append(candidatesByShiftRole[key], c)
		candidatesByEmployee[c.EmployeeID] = append(candidatesByEmployee[c.EmployeeID], c)
	}

	addCoverageConstraints(m, d, x, candidatesByShiftRole)
	addSingleRolePerShiftConstraints(m, x, candidatesByEmployee)
	addNoOverlapConstraints(m, d, x, candidatesByEmployee)
	addRestConstraints(m, d, x, candidatesByEmployee)
	addConsecutiveDayConstraints(m, d, x, candidatesByEmployee)
	hours := addWeeklyHoursConstraints(m, d, x, candidatesByEmployee)
	addShiftCountConstraints(m, d, x, candidatesByEmployee)
	addFairnessObjective(m, d, hours)
	addCoverageObjective(m, d, x, candidates)
	addPreferenceAndCostObjective(m, d, x, candidates)

	return &Model{MIP: m, Assign: x, Candidates: candidates}, nil
}

func feasibleCandidates(d *Data) []candidate {
	var out []candidate
	for _, s := range d.Shifts {
		for _, demand := range s.Demands {
			for _, e := range d.Employees {
				if !d.IsQualified(e.ID, demand.RoleID) {
					continue
				}
				if d.IsUnavailable(e.ID, s.ID) {
					continue
				}
				out = append(out, candidate{EmployeeID: e.ID, ShiftID: s.ID, RoleID: demand.RoleID})
			}
		}
	}
	return out
}

// addCoverageConstraints ties each (shift, role) demand pair to an exact
// headcount equality. This is structural — demand is never softened: an
// unmeetable demand pair makes the run infeasible rather than paying a
// penalty.
func addCoverageConstraints(m mip.Model, d *Data, x model.MultiMap[mip.Bool, candidate], byShiftRole map[[2]string][]candidate) {
	for _, s := range d.Shifts {
		for _, demand := range s.Demands {
			constraint := m.NewConstraint(mip.Equal, float64(demand.RequiredCount))
			for _, c := range byShiftRole[[2]string{s.ID, demand.RoleID}] {
				constraint.NewTerm(1.0, x.Get(c))
			}
		}
	}
}

// addCoverageObjective adds the unconditional total-coverage reward term
// (W_cover * sum(x)) the objective formula carries alongside fairness,
// preference and cost.
func addCoverageObjective(m mip.Model, d *Data, x model.MultiMap[mip.Bool, candidate], candidates []candidate) {
	if d.Config.WeightCoverage == 0 {
		return
	}
	for _, c := range candidates {
		m.Objective().NewTerm(d.Config.WeightCoverage, x.Get(c))
	}
}

// addSingleRolePerShiftConstraints forbids an employee from filling more
// than one of a shift's demanded roles at once — always hard, structural.
func addSingleRolePerShiftConstraints(m mip.Model, x model.MultiMap[mip.Bool, candidate], byEmployee map[string][]candidate) {
	for _, shiftGroups := range candidatesByEmployeeAndShift(byEmployee) {
		for _, group := range shiftGroups {
			addCeilingConstraint(m, boolVars(x, group), 1.0, true, 0)
		}
	}
}

// addNoOverlapConstraints forbids an employee from working two shifts whose
// time ranges intersect, regardless of which role either shift assigns
// them to — always hard, structural.
func addNoOverlapConstraints(m mip.Model, d *Data, x model.MultiMap[mip.Bool, candidate], byEmployee map[string][]candidate) {
	byEmpShift := candidatesByEmployeeAndShift(byEmployee)
	for _, e := range d.Employees {
		shiftGroups := byEmpShift[e.ID]
		seen := make(map[[2]string]bool)
		for shiftID, group1 := range shiftGroups {
			for _, otherShiftID := range d.ShiftOverlaps[shiftID] {
				group2, ok := shiftGroups[otherShiftID]
				if !ok {
					continue
				}
				key := pairKey(shiftID, otherShiftID)
				if seen[key] {
					continue
				}
				seen[key] = true
				combined := append(append([]candidate{}, group1...), group2...)
				addCeilingConstraint(m, boolVars(x, combined), 1.0, true, 0)
			}
		}
	}
}

// addRestConstraints forbids (or, if configured soft, penalizes) pairs of an
// employee's non-overlapping shifts that are closer together than the
// configured minimum rest period. Absent min_rest_hours configuration means
// no rest constraint is enforced at all.
func addRestConstraints(m mip.Model, d *Data, x model.MultiMap[mip.Bool, candidate], byEmployee map[string][]candidate) {
	cfg, ok := d.Constraints[domain.ConstraintMinRestHours]
	if !ok {
		return
	}

	for _, e := range d.Employees {
		cands := byEmployee[e.ID]
		for i, c1 := range cands {
			s1 := shiftByID(d, c1.ShiftID)
			for _, c2 := range cands[i+1:] {
				if c2.ShiftID == c1.ShiftID {
					continue // same shift, different role — covered by single-role-per-shift
				}
				s2 := shiftByID(d, c2.ShiftID)
				if s1.Overlaps(*s2) {
					continue
				}
				if restGapHours(s1, s2) >= cfg.Value {
					continue
				}
				addCeilingConstraint(m, []mip.Bool{x.Get(c1), x.Get(c2)}, 1.0, cfg.Hard, d.Config.WeightFairness)
			}
		}
	}
}

func restGapHours(a, b *domain.PlannedShift) float64 {
	first, second := a, b
	if b.StartAt.Before(a.StartAt) {
		first, second = b, a
	}
	gap := second.StartAt.Sub(first.EndAt)
	return gap.Hours()
}

func shiftByID(d *Data, id string) *domain.PlannedShift {
	for _, s := range d.Shifts {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// sortedDates returns the distinct calendar dates spanned by the schedule,
// in ascending order, as "2006-01-02" keys.
func sortedDates(d *Data) []string {
	seen := make(map[string]bool)
	var dates []string
	for _, s := range d.Shifts {
		key := s.Date.Format("2006-01-02")
		if !seen[key] {
			seen[key] = true
			dates = append(dates, key)
		}
	}
	for i := 1; i < len(dates); i++ {
		for j := i; j > 0 && dates[j-1] > dates[j]; j-- {
			dates[j-1], dates[j] = dates[j], dates[j-1]
		}
	}
	return dates
}

// addConsecutiveDayConstraints caps how many consecutive calendar days an
// employee may be scheduled, via a worked-day indicator per employee/date
// and a sliding-window sum constraint — hard or soft depending on how
// max_consecutive_days is configured. Absent configuration means no
// constraint (and no indicator variables) are built at all.
func addConsecutiveDayConstraints(m mip.Model, d *Data, x model.MultiMap[mip.Bool, candidate], byEmployee map[string][]candidate) {
	cfg, ok := d.Constraints[domain.ConstraintMaxConsecutiveDays]
	if !ok {
		return
	}
	maxConsecutive := int(cfg.Value)

	var days []employeeDay
	dayKeySeen := make(map[employeeDay]bool)
	candidatesByEmployeeDay := make(map[employeeDay][]candidate)
	for _, e := range d.Employees {
		for _, c := range byEmployee[e.ID] {
			shift := shiftByID(d, c.ShiftID)
			key := employeeDay{EmployeeID: e.ID, Date: shift.Date.Format("2006-01-02")}
			candidatesByEmployeeDay[key] = append(candidatesByEmployeeDay[key], c)
			if !dayKeySeen[key] {
				dayKeySeen[key] = true
				days = append(days, key)
			}
		}
	}

	worked := model.NewMultiMap(
		func(...employeeDay) mip.Bool { return m.NewBool() },
		days,
	)

	for _, key := range days {
		for _, c := range candidatesByEmployeeDay[key] {
			constraint := m.NewConstraint(mip.LessThanOrEqual, 0.0)
			constraint.NewTerm(1.0, x.Get(c))
			constraint.NewTerm(-1.0, worked.Get(key))
		}
	}

	orderedDates := sortedDates(d)
	for _, e := range d.Employees {
		for start := 0; start+maxConsecutive < len(orderedDates); start++ {
			window := orderedDates[start : start+maxConsecutive+1]
			var vars []mip.Bool
			for _, date := range window {
				key := employeeDay{EmployeeID: e.ID, Date: date}
				if dayKeySeen[key] {
					vars = append(vars, worked.Get(key))
				}
			}
			addCeilingConstraint(m, vars, float64(maxConsecutive), cfg.Hard, d.Config.WeightFairness)
		}
	}
}

// addWeeklyHoursConstraints builds each employee's total scheduled-hours
// variable and applies the configured weekly-hours ceiling and floor, each
// hard or soft depending on how it's configured; either may be absent.
// Returns the hours variables so the fairness objective can reference them.
func addWeeklyHoursConstraints(m mip.Model, d *Data, x model.MultiMap[mip.Bool, candidate], byEmployee map[string][]candidate) map[string]mip.Float {
	hours := make(map[string]mip.Float, len(d.Employees))
	maxCfg, hasMax := d.Constraints[domain.ConstraintMaxHoursPerWeek]
	minCfg, hasMin := d.Constraints[domain.ConstraintMinHoursPerWeek]

	for _, e := range d.Employees {
		upperBound := e.MaxWeeklyHours
		if hasMax && maxCfg.Hard && maxCfg.Value > 0 && maxCfg.Value < upperBound {
			upperBound = maxCfg.Value
		}
		h := m.NewFloat(0, upperBound)
		hours[e.ID] = h

		total := m.NewConstraint(mip.Equal, 0.0)
		total.NewTerm(1.0, h)
		for _, c := range byEmployee[e.ID] {
			shift := shiftByID(d, c.ShiftID)
			total.NewTerm(-shift.Duration().Hours(), x.Get(c))
		}

		if hasMax && !maxCfg.Hard && maxCfg.Value > 0 {
			addUpperSoftPenalty(m, h, maxCfg.Value, d.Config.WeightFairness)
		}
		if hasMin && minCfg.Value > 0 {
			if minCfg.Hard {
				floor := m.NewConstraint(mip.GreaterThanOrEqual, minCfg.Value)
				floor.NewTerm(1.0, h)
			} else {
				addLowerSoftPenalty(m, h, minCfg.Value, d.Config.WeightFairness)
			}
		}
	}
	return hours
}

// addShiftCountConstraints builds each employee's total assigned-shift-count
// variable and applies the configured weekly-shift-count ceiling and floor.
// Returns early doing nothing when neither kind is configured.
func addShiftCountConstraints(m mip.Model, d *Data, x model.MultiMap[mip.Bool, candidate], byEmployee map[string][]candidate) {
	maxCfg, hasMax := d.Constraints[domain.ConstraintMaxShiftsPerWeek]
	minCfg, hasMin := d.Constraints[domain.ConstraintMinShiftsPerWeek]
	if !hasMax && !hasMin {
		return
	}

	for _, e := range d.Employees {
		upperBound := float64(len(byEmployee[e.ID]))
		if upperBound == 0 {
			upperBound = 1
		}
		count := m.NewFloat(0, upperBound)

		total := m.NewConstraint(mip.Equal, 0.0)
		total.NewTerm(1.0, count)
		for _, c := range byEmployee[e.ID] {
			total.NewTerm(-1.0, x.Get(c))
		}

		if hasMax && maxCfg.Value > 0 {
			if maxCfg.Hard {
				ceiling := m.NewConstraint(mip.LessThanOrEqual, maxCfg.Value)
				ceiling.NewTerm(1.0, count)
			} else {
				addUpperSoftPenalty(m, count, maxCfg.Value, d.Config.WeightCoverage)
			}
		}
		if hasMin && minCfg.Value > 0 {
			if minCfg.Hard {
				floor := m.NewConstraint(mip.GreaterThanOrEqual, minCfg.Value)
				floor.NewTerm(1.0, count)
			} else {
				addLowerSoftPenalty(m, count, minCfg.Value, d.Config.WeightCoverage)
			}
		}
	}
}

// addFairnessObjective penalizes the spread between the most- and
// least-scheduled employees' hours — a min-max fairness term rather than a
// variance term, so it stays linear.
func addFairnessObjective(m mip.Model, d *Data, hours map[string]mip.Float) {
	if d.Config.WeightFairness == 0 || len(hours) == 0 {
		return
	}
	maxH := m.NewFloat(0, 10_000)
	minH := m.NewFloat(0, 10_000)
	for _, h := range hours {
		upper := m.NewConstraint(mip.GreaterThanOrEqual, 0.0)
		upper.NewTerm(1.0, maxH)
		upper.NewTerm(-1.0, h)

		lower := m.NewConstraint(mip.LessThanOrEqual, 0.0)
		lower.NewTerm(1.0, minH)
		lower.NewTerm(-1.0, h)
	}
	m.Objective().NewTerm(-d.Config.WeightFairness, maxH)
	m.Objective().NewTerm(d.Config.WeightFairness, minH)
}

// addPreferenceAndCostObjective rewards assignments matching employee shift
// preference and penalizes labor cost proportional to hours worked.
func addPreferenceAndCostObjective(m mip.Model, d *Data, x model.MultiMap[mip.Bool, candidate], candidates []candidate) {
	for _, c := range candidates {
		shift := shiftByID(d, c.ShiftID)
		score := d.PreferenceScore(c.EmployeeID, shift)
		m.Objective().NewTerm(d.Config.WeightPreferences*score, x.Get(c))
		if d.Config.WeightCost > 0 {
			m.Objective().NewTerm(-d.Config.WeightCost*shift.Duration().Hours(), x.Get(c))
		}
	}
}

// addCeilingConstraint enforces that the sum of vars doesn't exceed limit,
// either as a hard constraint or, when soft, via a penalized overflow
// variable the objective discourages rather than forbids.
func addCeilingConstraint(m mip.Model, vars []mip.Bool, limit float64, hard bool, weight float64) {
	if len(vars) == 0 {
		return
	}
	if hard {
		constraint := m.NewConstraint(mip.LessThanOrEqual, limit)
		for _, v := range vars {
			constraint.NewTerm(1.0, v)
		}
		return
	}
	overflow := m.NewFloat(0, float64(len(vars)))
	constraint := m.NewConstraint(mip.LessThanOrEqual, limit)
	for _, v := range vars {
		constraint.NewTerm(1.0, v)
	}
	constraint.NewTerm(-1.0, overflow)
	m.Objective().NewTerm(-weight, overflow)
}

// addUpperSoftPenalty penalizes v exceeding limit instead of forbidding it,
// via a bounded excess variable tied to v by an inequality.
func addUpperSoftPenalty(m mip.Model, v mip.Float, limit, weight float64) {
	excess := m.NewFloat(0, 10_000)
	constraint := m.NewConstraint(mip.GreaterThanOrEqual, -limit)
	constraint.NewTerm(1.0, excess)
	constraint.NewTerm(-1.0, v)
	m.Objective().NewTerm(-weight, excess)
}

// addLowerSoftPenalty penalizes v falling short of floor instead of
// forbidding it, via a bounded shortfall variable tied to v by an
// inequality.
func addLowerSoftPenalty(m mip.Model, v mip.Float, floor, weight float64) {
	shortfall := m.NewFloat(0, floor)
	constraint := m.NewConstraint(mip.GreaterThanOrEqual, floor)
	constraint.NewTerm(1.0, shortfall)
	constraint.NewTerm(1.0, v)
	m.Objective().NewTerm(-weight, shortfall)
}

// candidatesByEmployeeAndShift regroups an employee's candidates by the
// shift they belong to, flattening out the role dimension.
func candidatesByEmployeeAndShift(byEmployee map[string][]candidate) map[string]map[string][]candidate {
	out := make(map[string]map[string][]candidate, len(byEmployee))
	for empID, cands := range byEmployee {
		byShift := make(map[string][]candidate)
		for _, c := range cands {
			byShift[c.ShiftID] = append(byShift[c.ShiftID], c)
		}
		out[empID] = byShift
	}
	return out
}

func boolVars(x model.MultiMap[mip.Bool, candidate], group []candidate) []mip.Bool {
	vars := make([]mip.Bool, len(group))
	for i, c := range group {
		vars[i] = x.Get(c)
	}
	return vars
}

func pairKey(a, b string) [2]string {
	if a < b {
		return [2]string{a, b}
	}
	return [2]string{b, a}
}
