package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shiftsched/scheduler/internal/domain"
)

type WeeklyScheduleRepository struct {
	pool *pgxpool.Pool
}

func NewWeeklyScheduleRepository(pool *pgxpool.Pool) *WeeklyScheduleRepository {
	return &WeeklyScheduleRepository{pool: pool}
}

func (r *WeeklyScheduleRepository) GetByID(ctx context.Context, id string) (*domain.WeeklySchedule, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, week_start_date, status, created_at, updated_at
		FROM weekly_schedules WHERE id = $1`, id)
	return scanWeeklySchedule(row)
}

func (r *WeeklyScheduleRepository) GetByWeekStart(ctx context.Context, weekStart time.Time) (*domain.WeeklySchedule, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, week_start_date, status, created_at, updated_at
		FROM weekly_schedules WHERE week_start_date = $1`, weekStart)
	return scanWeeklySchedule(row)
}

func (r *WeeklyScheduleRepository) List(ctx context.Context) ([]*domain.WeeklySchedule, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, week_start_date, status, created_at, updated_at
		FROM weekly_schedules ORDER BY week_start_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("list weekly schedules: %w", err)
	}
	defer rows.Close()

	var out []*domain.WeeklySchedule
	for rows.Next() {
		s, err := scanWeeklySchedule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *WeeklyScheduleRepository) Create(ctx context.Context, s *domain.WeeklySchedule) (*domain.WeeklySchedule, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO weekly_schedules (week_start_date, status)
		VALUES ($1, $2)
		RETURNING id, week_start_date, status, created_at, updated_at`,
		s.WeekStartDate, s.Status,
	)
	created, err := scanWeeklySchedule(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrWeeklyScheduleConflict
		}
		return nil, err
	}
	return created, nil
}

func (r *WeeklyScheduleRepository) SetStatus(ctx context.Context, id string, status domain.WeeklyScheduleStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE weekly_schedules SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("set weekly schedule status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrWeeklyScheduleNotFound
	}
	return nil
}

func scanWeeklySchedule(row rowScanner) (*domain.WeeklySchedule, error) {
	var s domain.WeeklySchedule
	err := row.Scan(&s.ID, &s.WeekStartDate, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWeeklyScheduleNotFound
		}
		return nil, fmt.Errorf("scan weekly schedule: %w", err)
	}
	return &s, nil
}
