package repository

import (
	"context"

	"github.com/shiftsched/scheduler/internal/domain"
)

type RoleRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Role, error)
	List(ctx context.Context) ([]*domain.Role, error)
	Create(ctx context.Context, r *domain.Role) (*domain.Role, error)
}
