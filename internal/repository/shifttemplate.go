package repository

import (
	"context"
	"time"

	"github.com/shiftsched/scheduler/internal/domain"
)

type ShiftTemplateRepository interface {
	GetByID(ctx context.Context, id string) (*domain.ShiftTemplate, error)
	List(ctx context.Context) ([]*domain.ShiftTemplate, error)
	Create(ctx context.Context, t *domain.ShiftTemplate) (*domain.ShiftTemplate, error)
}

// PlannedShiftRepository manages the per-week materialization of shift
// templates into concrete, dated shifts.
type PlannedShiftRepository interface {
	GetByID(ctx context.Context, id string) (*domain.PlannedShift, error)
	ListByWeeklySchedule(ctx context.Context, weeklyScheduleID string) ([]*domain.PlannedShift, error)
	// CreateForWeek materializes one PlannedShift per (template, date) pair
	// that falls within the week and returns the created rows. Idempotent:
	// re-running for a week that already has planned shifts is a no-op.
	CreateForWeek(ctx context.Context, weeklyScheduleID string, weekStart time.Time, templates []*domain.ShiftTemplate) ([]*domain.PlannedShift, error)
}
