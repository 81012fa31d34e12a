package domain

import (
	"errors"
	"time"
)

var ErrAssignmentNotFound = errors.New("shift assignment not found")

// ShiftAssignment binds an employee to a planned shift, the outcome of either
// a solver run being applied or manual entry.
type ShiftAssignment struct {
	ID              string
	PlannedShiftID  string
	EmployeeID      string
	RoleID          string // which of the shift's demanded roles this employee fills
	SchedulingRunID *string // nil for manually-created assignments
	PreferenceScore float64
	CreatedAt       time.Time
}
