package domain

import (
	"errors"
	"time"
)

var (
	ErrEmployeeNotFound = errors.New("employee not found")
)

// Employee is a staff member eligible for shift assignment.
type Employee struct {
	ID             string
	FullName       string
	Email          string
	IsManager      bool
	RankName       *string // cosmetic display rank, carried from the legacy rank table; never gates authorization
	MaxWeeklyHours float64
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
