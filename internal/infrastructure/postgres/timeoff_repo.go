package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shiftsched/scheduler/internal/domain"
)

type TimeOffRepository struct {
	pool *pgxpool.Pool
}

func NewTimeOffRepository(pool *pgxpool.Pool) *TimeOffRepository {
	return &TimeOffRepository{pool: pool}
}

func (r *TimeOffRepository) ListApprovedInRange(ctx context.Context, start, end time.Time) ([]*domain.TimeOffRequest, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, employee_id, start_date, end_date, status
		FROM time_off_requests
		WHERE status = 'approved' AND start_date <= $2 AND end_date >= $1`,
		start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("list approved time off: %w", err)
	}
	defer rows.Close()

	var out []*domain.TimeOffRequest
	for rows.Next() {
		var t domain.TimeOffRequest
		if err := rows.Scan(&t.ID, &t.EmployeeID, &t.StartDate, &t.EndDate, &t.Status); err != nil {
			return nil, fmt.Errorf("scan time off request: %w", err)
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

func (r *TimeOffRepository) Create(ctx context.Context, req *domain.TimeOffRequest) (*domain.TimeOffRequest, error) {
	var t domain.TimeOffRequest
	err := r.pool.QueryRow(ctx, `
		INSERT INTO time_off_requests (employee_id, start_date, end_date, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, employee_id, start_date, end_date, status`,
		req.EmployeeID, req.StartDate, req.EndDate, req.Status,
	).Scan(&t.ID, &t.EmployeeID, &t.StartDate, &t.EndDate, &t.Status)
	if err != nil {
		return nil, fmt.Errorf("create time off request: %w", err)
	}
	return &t, nil
}
