package domain

import "time"

// EmployeePreference is a scored signal about when an employee wants (or
// doesn't want) to work. Each selector field is optional (nil matches
// anything); a preference only contributes its weight to a shift's score
// when every selector it does set matches that shift. Weight is clipped to
// [0, 1] before use — absence of any matching preference means neutral (0).
type EmployeePreference struct {
	ID              string
	EmployeeID      string
	ShiftTemplateID *string
	DayOfWeek       *time.Weekday
	StartTimeOfDay  *time.Duration
	EndTimeOfDay    *time.Duration
	Weight          float64
}

// ClippedWeight returns Weight clamped into [0, 1].
func (p EmployeePreference) ClippedWeight() float64 {
	switch {
	case p.Weight < 0:
		return 0
	case p.Weight > 1:
		return 1
	default:
		return p.Weight
	}
}

// Matches reports whether this preference applies to a shift with the given
// template, day of week, and time-of-day window. A nil selector matches
// anything; a set selector must match exactly (time-of-day ranges only need
// to overlap).
func (p EmployeePreference) Matches(shiftTemplateID string, dow time.Weekday, startOfDay, endOfDay time.Duration) bool {
	if p.ShiftTemplateID != nil && *p.ShiftTemplateID != shiftTemplateID {
		return false
	}
	if p.DayOfWeek != nil && *p.DayOfWeek != dow {
		return false
	}
	if p.StartTimeOfDay != nil && p.EndTimeOfDay != nil &&
		!timeOfDayRangesOverlap(*p.StartTimeOfDay, *p.EndTimeOfDay, startOfDay, endOfDay) {
		return false
	}
	return true
}

// timeOfDayRangesOverlap reports whether two time-of-day windows share any
// instant, normalizing both against a shared zero-value anchor date so
// overnight-crossing windows on either side compare correctly.
func timeOfDayRangesOverlap(aStart, aEnd, bStart, bEnd time.Duration) bool {
	var anchor time.Time
	aS, aE := NormalizeShiftDatetimes(anchor, aStart, aEnd)
	bS, bE := NormalizeShiftDatetimes(anchor, bStart, bEnd)
	return aS.Before(bE) && bS.Before(aE)
}
