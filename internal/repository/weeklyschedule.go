package repository

import (
	"context"
	"time"

	"github.com/shiftsched/scheduler/internal/domain"
)

type WeeklyScheduleRepository interface {
	GetByID(ctx context.Context, id string) (*domain.WeeklySchedule, error)
	GetByWeekStart(ctx context.Context, weekStart time.Time) (*domain.WeeklySchedule, error)
	List(ctx context.Context) ([]*domain.WeeklySchedule, error)
	Create(ctx context.Context, s *domain.WeeklySchedule) (*domain.WeeklySchedule, error)
	SetStatus(ctx context.Context, id string, status domain.WeeklyScheduleStatus) error
}

type ListScheduleRunsInput struct {
	WeeklyScheduleID string
	CursorTime       *time.Time
	CursorID         string
	Limit            int
}
