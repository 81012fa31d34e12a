package repository

import (
	"context"
	"time"

	"github.com/shiftsched/scheduler/internal/domain"
)

// TimeOffRepository surfaces approved time off over a date range — the only
// query shape C2's data builder needs.
type TimeOffRepository interface {
	ListApprovedInRange(ctx context.Context, start, end time.Time) ([]*domain.TimeOffRequest, error)
	Create(ctx context.Context, r *domain.TimeOffRequest) (*domain.TimeOffRequest, error)
}
