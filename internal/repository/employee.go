package repository

import (
	"context"

	"github.com/shiftsched/scheduler/internal/domain"
)

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Employee, error)
	List(ctx context.Context) ([]*domain.Employee, error)
	// ListActiveWithRoles returns every active employee along with the set of
	// role IDs they are qualified for — the shape C2's data builder consumes.
	ListActiveWithRoles(ctx context.Context) ([]*domain.Employee, map[string][]string, error)
	Create(ctx context.Context, e *domain.Employee) (*domain.Employee, error)
}
