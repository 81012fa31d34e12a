package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shiftsched/scheduler/internal/domain"
)

type ConstraintRepository struct {
	pool *pgxpool.Pool
}

func NewConstraintRepository(pool *pgxpool.Pool) *ConstraintRepository {
	return &ConstraintRepository{pool: pool}
}

func (r *ConstraintRepository) ListAll(ctx context.Context) ([]*domain.SystemConstraint, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, key, value, hard FROM system_constraints`)
	if err != nil {
		return nil, fmt.Errorf("list system constraints: %w", err)
	}
	defer rows.Close()

	var out []*domain.SystemConstraint
	for rows.Next() {
		var c domain.SystemConstraint
		if err := rows.Scan(&c.ID, &c.Key, &c.Value, &c.Hard); err != nil {
			return nil, fmt.Errorf("scan system constraint: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (r *ConstraintRepository) Upsert(ctx context.Context, c *domain.SystemConstraint) (*domain.SystemConstraint, error) {
	var out domain.SystemConstraint
	err := r.pool.QueryRow(ctx, `
		INSERT INTO system_constraints (key, value, hard) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, hard = EXCLUDED.hard
		RETURNING id, key, value, hard`,
		c.Key, c.Value, c.Hard,
	).Scan(&out.ID, &out.Key, &out.Value, &out.Hard)
	if err != nil {
		return nil, fmt.Errorf("upsert system constraint: %w", err)
	}
	return &out, nil
}

type OptimizationConfigurationRepository struct {
	pool *pgxpool.Pool
}

func NewOptimizationConfigurationRepository(pool *pgxpool.Pool) *OptimizationConfigurationRepository {
	return &OptimizationConfigurationRepository{pool: pool}
}

func (r *OptimizationConfigurationRepository) GetByID(ctx context.Context, id string) (*domain.OptimizationConfiguration, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, weight_fairness, weight_preferences, weight_cost, weight_coverage,
		       max_runtime_seconds, mip_gap, is_default
		FROM optimization_configurations WHERE id = $1`, id)
	return scanOptConfig(row)
}

func (r *OptimizationConfigurationRepository) GetDefault(ctx context.Context) (*domain.OptimizationConfiguration, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, weight_fairness, weight_preferences, weight_cost, weight_coverage,
		       max_runtime_seconds, mip_gap, is_default
		FROM optimization_configurations WHERE is_default LIMIT 1`)
	return scanOptConfig(row)
}

func (r *OptimizationConfigurationRepository) List(ctx context.Context) ([]*domain.OptimizationConfiguration, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, weight_fairness, weight_preferences, weight_cost, weight_coverage,
		       max_runtime_seconds, mip_gap, is_default
		FROM optimization_configurations ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list optimization configurations: %w", err)
	}
	defer rows.Close()

	var out []*domain.OptimizationConfiguration
	for rows.Next() {
		c, err := scanOptConfig(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *OptimizationConfigurationRepository) Create(ctx context.Context, c *domain.OptimizationConfiguration) (*domain.OptimizationConfiguration, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO optimization_configurations
			(name, weight_fairness, weight_preferences, weight_cost, weight_coverage, max_runtime_seconds, mip_gap, is_default)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, name, weight_fairness, weight_preferences, weight_cost, weight_coverage,
		          max_runtime_seconds, mip_gap, is_default`,
		c.Name, c.WeightFairness, c.WeightPreferences, c.WeightCost, c.WeightCoverage,
		c.MaxRuntimeSeconds, c.MIPGap, c.IsDefault,
	)
	return scanOptConfig(row)
}

func scanOptConfig(row rowScanner) (*domain.OptimizationConfiguration, error) {
	var c domain.OptimizationConfiguration
	err := row.Scan(
		&c.ID, &c.Name, &c.WeightFairness, &c.WeightPreferences, &c.WeightCost, &c.WeightCoverage,
		&c.MaxRuntimeSeconds, &c.MIPGap, &c.IsDefault,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOptimizationConfigurationNotFound
		}
		return nil, fmt.Errorf("scan optimization configuration: %w", err)
	}
	return &c, nil
}
