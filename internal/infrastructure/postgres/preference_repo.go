package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shiftsched/scheduler/internal/domain"
)

type PreferenceRepository struct {
	pool *pgxpool.Pool
}

func NewPreferenceRepository(pool *pgxpool.Pool) *PreferenceRepository {
	return &PreferenceRepository{pool: pool}
}

// ListAll returns every employee-preference row. A single employee may have
// several rows with distinct (template, day-of-week, time-range) selectors —
// there is no longer a unique-pair constraint to dedupe on, since
// PreferenceScore aggregates every matching row itself.
func (r *PreferenceRepository) ListAll(ctx context.Context) ([]*domain.EmployeePreference, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, employee_id, shift_template_id, day_of_week, start_time_of_day, end_time_of_day, weight
		FROM employee_preferences`)
	if err != nil {
		return nil, fmt.Errorf("list employee preferences: %w", err)
	}
	defer rows.Close()

	var out []*domain.EmployeePreference
	for rows.Next() {
		p, err := scanPreference(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Upsert inserts a new preference row, or updates an existing one when p.ID
// is set. Unlike the old single-selector model, there is no natural unique
// key to upsert against — callers distinguish "new" from "update" via ID.
func (r *PreferenceRepository) Upsert(ctx context.Context, p *domain.EmployeePreference) (*domain.EmployeePreference, error) {
	dow, start, end := encodeDayOfWeek(p.DayOfWeek), encodeDuration(p.StartTimeOfDay), encodeDuration(p.EndTimeOfDay)

	row := r.pool.QueryRow(ctx, `
		INSERT INTO employee_preferences (id, employee_id, shift_template_id, day_of_week, start_time_of_day, end_time_of_day, weight)
		VALUES (COALESCE(NULLIF($1, ''), gen_random_uuid()::text), $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			shift_template_id = EXCLUDED.shift_template_id,
			day_of_week       = EXCLUDED.day_of_week,
			start_time_of_day = EXCLUDED.start_time_of_day,
			end_time_of_day   = EXCLUDED.end_time_of_day,
			weight            = EXCLUDED.weight
		RETURNING id, employee_id, shift_template_id, day_of_week, start_time_of_day, end_time_of_day, weight`,
		p.ID, p.EmployeeID, p.ShiftTemplateID, dow, start, end, p.Weight,
	)
	out, err := scanPreference(row)
	if err != nil {
		return nil, fmt.Errorf("upsert employee preference: %w", err)
	}
	return out, nil
}

func scanPreference(row rowScanner) (*domain.EmployeePreference, error) {
	var p domain.EmployeePreference
	var dow *int16
	var start, end *int64
	if err := row.Scan(&p.ID, &p.EmployeeID, &p.ShiftTemplateID, &dow, &start, &end, &p.Weight); err != nil {
		return nil, fmt.Errorf("scan employee preference: %w", err)
	}
	p.DayOfWeek = decodeDayOfWeek(dow)
	p.StartTimeOfDay = decodeDuration(start)
	p.EndTimeOfDay = decodeDuration(end)
	return &p, nil
}

func encodeDayOfWeek(d *time.Weekday) *int16 {
	if d == nil {
		return nil
	}
	v := int16(*d)
	return &v
}

func decodeDayOfWeek(v *int16) *time.Weekday {
	if v == nil {
		return nil
	}
	d := time.Weekday(*v)
	return &d
}

func encodeDuration(d *time.Duration) *int64 {
	if d == nil {
		return nil
	}
	v := int64(*d)
	return &v
}

func decodeDuration(v *int64) *time.Duration {
	if v == nil {
		return nil
	}
	d := time.Duration(*v)
	return &d
}
