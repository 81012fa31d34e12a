package repository

import (
	"context"

	"github.com/shiftsched/scheduler/internal/domain"
)

type PreferenceRepository interface {
	// ListAll returns every employee-preference row; a single employee may
	// have several, each with its own optional template/day-of-week/
	// time-range selector.
	ListAll(ctx context.Context) ([]*domain.EmployeePreference, error)
	Upsert(ctx context.Context, p *domain.EmployeePreference) (*domain.EmployeePreference, error)
}
