package domain

import (
	"errors"
	"time"
)

var (
	ErrWeeklyScheduleNotFound    = errors.New("weekly schedule not found")
	ErrWeeklyScheduleNotDraft    = errors.New("weekly schedule is not in draft status")
	ErrWeeklyScheduleConflict    = errors.New("a weekly schedule already exists for this week")
)

type WeeklyScheduleStatus string

const (
	WeeklyScheduleDraft     WeeklyScheduleStatus = "draft"
	WeeklySchedulePublished WeeklyScheduleStatus = "published"
	WeeklyScheduleArchived  WeeklyScheduleStatus = "archived"
)

// WeeklySchedule is the container a scheduling run optimizes shift coverage
// for: one ISO week's worth of PlannedShifts.
type WeeklySchedule struct {
	ID            string
	WeekStartDate time.Time // Monday of the scheduled week, truncated to midnight UTC
	Status        WeeklyScheduleStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
