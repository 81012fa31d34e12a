package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shiftsched/scheduler/internal/domain"
)

type EmployeeRepository struct {
	pool *pgxpool.Pool
}

func NewEmployeeRepository(pool *pgxpool.Pool) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, full_name, email, is_manager, rank_name, max_weekly_hours, active, created_at, updated_at
		FROM employees WHERE id = $1`, id)
	return scanEmployee(row)
}

func (r *EmployeeRepository) List(ctx context.Context) ([]*domain.Employee, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, full_name, email, is_manager, rank_name, max_weekly_hours, active, created_at, updated_at
		FROM employees ORDER BY full_name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	var out []*domain.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *EmployeeRepository) ListActiveWithRoles(ctx context.Context) ([]*domain.Employee, map[string][]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, full_name, email, is_manager, rank_name, max_weekly_hours, active, created_at, updated_at
		FROM employees WHERE active ORDER BY full_name ASC`)
	if err != nil {
		return nil, nil, fmt.Errorf("list active employees: %w", err)
	}
	var employees []*domain.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			rows.Close()
			return nil, nil, err
		}
		employees = append(employees, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	roleRows, err := r.pool.Query(ctx, `SELECT employee_id, role_id FROM employee_roles`)
	if err != nil {
		return nil, nil, fmt.Errorf("list employee roles: %w", err)
	}
	defer roleRows.Close()

	rolesByEmployee := make(map[string][]string)
	for roleRows.Next() {
		var empID, roleID string
		if err := roleRows.Scan(&empID, &roleID); err != nil {
			return nil, nil, fmt.Errorf("scan employee role: %w", err)
		}
		rolesByEmployee[empID] = append(rolesByEmployee[empID], roleID)
	}
	return employees, rolesByEmployee, roleRows.Err()
}

func (r *EmployeeRepository) Create(ctx context.Context, e *domain.Employee) (*domain.Employee, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO employees (full_name, email, is_manager, rank_name, max_weekly_hours, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, full_name, email, is_manager, rank_name, max_weekly_hours, active, created_at, updated_at`,
		e.FullName, e.Email, e.IsManager, e.RankName, e.MaxWeeklyHours, e.Active,
	)
	return scanEmployee(row)
}

func scanEmployee(row rowScanner) (*domain.Employee, error) {
	var e domain.Employee
	err := row.Scan(
		&e.ID, &e.FullName, &e.Email, &e.IsManager, &e.RankName,
		&e.MaxWeeklyHours, &e.Active, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("scan employee: %w", err)
	}
	return &e, nil
}
