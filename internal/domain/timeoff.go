package domain

import (
	"errors"
	"time"
)

var ErrTimeOffNotFound = errors.New("time-off request not found")

type TimeOffStatus string

const (
	TimeOffPending  TimeOffStatus = "pending"
	TimeOffApproved TimeOffStatus = "approved"
	TimeOffDenied   TimeOffStatus = "denied"
)

// TimeOffRequest marks an employee as unavailable for assignment across a
// date range. Only TimeOffApproved requests are honored by the solver.
type TimeOffRequest struct {
	ID         string
	EmployeeID string
	StartDate  time.Time
	EndDate    time.Time
	Status     TimeOffStatus
}

// Covers reports whether the request (once approved) blocks assignment on date.
func (r TimeOffRequest) Covers(date time.Time) bool {
	return !date.Before(r.StartDate) && !date.After(r.EndDate)
}
