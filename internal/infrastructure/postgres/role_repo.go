package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shiftsched/scheduler/internal/domain"
)

type RoleRepository struct {
	pool *pgxpool.Pool
}

func NewRoleRepository(pool *pgxpool.Pool) *RoleRepository {
	return &RoleRepository{pool: pool}
}

func (r *RoleRepository) GetByID(ctx context.Context, id string) (*domain.Role, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, name FROM roles WHERE id = $1`, id)
	return scanRole(row)
}

func (r *RoleRepository) List(ctx context.Context) ([]*domain.Role, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM roles ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()

	var out []*domain.Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, role)
	}
	return out, rows.Err()
}

func (r *RoleRepository) Create(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO roles (name) VALUES ($1) RETURNING id, name`, role.Name)
	return scanRole(row)
}

func scanRole(row rowScanner) (*domain.Role, error) {
	var role domain.Role
	err := row.Scan(&role.ID, &role.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("scan role: %w", err)
	}
	return &role, nil
}
