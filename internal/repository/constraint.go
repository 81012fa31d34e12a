package repository

import (
	"context"

	"github.com/shiftsched/scheduler/internal/domain"
)

type ConstraintRepository interface {
	ListAll(ctx context.Context) ([]*domain.SystemConstraint, error)
	Upsert(ctx context.Context, c *domain.SystemConstraint) (*domain.SystemConstraint, error)
}

type OptimizationConfigurationRepository interface {
	GetByID(ctx context.Context, id string) (*domain.OptimizationConfiguration, error)
	GetDefault(ctx context.Context) (*domain.OptimizationConfiguration, error)
	List(ctx context.Context) ([]*domain.OptimizationConfiguration, error)
	Create(ctx context.Context, c *domain.OptimizationConfiguration) (*domain.OptimizationConfiguration, error)
}
