package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shiftsched/scheduler/internal/domain"
)

type ShiftTemplateRepository struct {
	pool *pgxpool.Pool
}

func NewShiftTemplateRepository(pool *pgxpool.Pool) *ShiftTemplateRepository {
	return &ShiftTemplateRepository{pool: pool}
}

func (r *ShiftTemplateRepository) GetByID(ctx context.Context, id string) (*domain.ShiftTemplate, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, start_time_of_day, end_time_of_day
		FROM shift_templates WHERE id = $1`, id)
	t, err := scanShiftTemplate(row)
	if err != nil {
		return nil, err
	}
	if t.Demands, err = r.loadDemands(ctx, t.ID); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *ShiftTemplateRepository) List(ctx context.Context) ([]*domain.ShiftTemplate, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, start_time_of_day, end_time_of_day
		FROM shift_templates ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list shift templates: %w", err)
	}
	defer rows.Close()

	var out []*domain.ShiftTemplate
	for rows.Next() {
		t, err := scanShiftTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, t := range out {
		if t.Demands, err = r.loadDemands(ctx, t.ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *ShiftTemplateRepository) Create(ctx context.Context, t *domain.ShiftTemplate) (*domain.ShiftTemplate, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var created domain.ShiftTemplate
	if err = tx.QueryRow(ctx, `
		INSERT INTO shift_templates (name, start_time_of_day, end_time_of_day)
		VALUES ($1, $2, $3)
		RETURNING id, name, start_time_of_day, end_time_of_day`,
		t.Name, t.StartTimeOfDay, t.EndTimeOfDay,
	).Scan(&created.ID, &created.Name, &created.StartTimeOfDay, &created.EndTimeOfDay); err != nil {
		err = fmt.Errorf("insert shift template: %w", err)
		return nil, err
	}

	for _, d := range t.Demands {
		if _, err = tx.Exec(ctx, `
			INSERT INTO shift_template_role_demands (shift_template_id, role_id, required_count)
			VALUES ($1, $2, $3)`,
			created.ID, d.RoleID, d.RequiredCount,
		); err != nil {
			err = fmt.Errorf("insert shift template role demand: %w", err)
			return nil, err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	created.Demands = t.Demands
	return &created, nil
}

// loadDemands reads a template's role-demand multiset from its child table.
func (r *ShiftTemplateRepository) loadDemands(ctx context.Context, templateID string) ([]domain.ShiftRoleDemand, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT role_id, required_count FROM shift_template_role_demands WHERE shift_template_id = $1`, templateID)
	if err != nil {
		return nil, fmt.Errorf("list shift template role demands: %w", err)
	}
	defer rows.Close()

	var out []domain.ShiftRoleDemand
	for rows.Next() {
		var d domain.ShiftRoleDemand
		if err := rows.Scan(&d.RoleID, &d.RequiredCount); err != nil {
			return nil, fmt.Errorf("scan shift template role demand: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func scanShiftTemplate(row rowScanner) (*domain.ShiftTemplate, error) {
	var t domain.ShiftTemplate
	err := row.Scan(&t.ID, &t.Name, &t.StartTimeOfDay, &t.EndTimeOfDay)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrShiftTemplateNotFound
		}
		return nil, fmt.Errorf("scan shift template: %w", err)
	}
	return &t, nil
}

type PlannedShiftRepository struct {
	pool *pgxpool.Pool
}

func NewPlannedShiftRepository(pool *pgxpool.Pool) *PlannedShiftRepository {
	return &PlannedShiftRepository{pool: pool}
}

func (r *PlannedShiftRepository) GetByID(ctx context.Context, id string) (*domain.PlannedShift, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, weekly_schedule_id, shift_template_id, date, start_at, end_at, start_time_of_day, end_time_of_day
		FROM planned_shifts WHERE id = $1`, id)
	p, err := scanPlannedShift(row)
	if err != nil {
		return nil, err
	}
	if p.Demands, err = r.loadDemands(ctx, p.ID); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PlannedShiftRepository) ListByWeeklySchedule(ctx context.Context, weeklyScheduleID string) ([]*domain.PlannedShift, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, weekly_schedule_id, shift_template_id, date, start_at, end_at, start_time_of_day, end_time_of_day
		FROM planned_shifts WHERE weekly_schedule_id = $1 ORDER BY start_at ASC`, weeklyScheduleID)
	if err != nil {
		return nil, fmt.Errorf("list planned shifts: %w", err)
	}
	defer rows.Close()

	var out []*domain.PlannedShift
	for rows.Next() {
		p, err := scanPlannedShift(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, p := range out {
		if p.Demands, err = r.loadDemands(ctx, p.ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// CreateForWeek materializes one PlannedShift per (template, day-of-week)
// combination for the seven days starting at weekStart, copying each
// template's role-demand multiset onto its own child rows. Every template is
// assumed to recur daily; a template scoped to fewer days is a feature this
// implementation does not carry — see SPEC_FULL's Non-goals.
func (r *PlannedShiftRepository) CreateForWeek(ctx context.Context, weeklyScheduleID string, weekStart time.Time, templates []*domain.ShiftTemplate) ([]*domain.PlannedShift, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var existing int
	if err = tx.QueryRow(ctx, `SELECT count(*) FROM planned_shifts WHERE weekly_schedule_id = $1`, weeklyScheduleID).Scan(&existing); err != nil {
		return nil, fmt.Errorf("count existing planned shifts: %w", err)
	}
	if existing > 0 {
		_ = tx.Rollback(ctx)
		return r.ListByWeeklySchedule(ctx, weeklyScheduleID)
	}

	var created []*domain.PlannedShift
	for day := 0; day < 7; day++ {
		date := weekStart.AddDate(0, 0, day)
		for _, t := range templates {
			start, end := domain.NormalizeShiftDatetimes(date, t.StartTimeOfDay, t.EndTimeOfDay)
			var p domain.PlannedShift
			scanErr := tx.QueryRow(ctx, `
				INSERT INTO planned_shifts (weekly_schedule_id, shift_template_id, date, start_at, end_at, start_time_of_day, end_time_of_day)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
				RETURNING id, weekly_schedule_id, shift_template_id, date, start_at, end_at, start_time_of_day, end_time_of_day`,
				weeklyScheduleID, t.ID, date, start, end, t.StartTimeOfDay, t.EndTimeOfDay,
			).Scan(&p.ID, &p.WeeklyScheduleID, &p.ShiftTemplateID, &p.Date, &p.StartAt, &p.EndAt, &p.StartTimeOfDay, &p.EndTimeOfDay)
			if scanErr != nil {
				err = fmt.Errorf("insert planned shift: %w", scanErr)
				return nil, err
			}

			for _, d := range t.Demands {
				if _, scanErr = tx.Exec(ctx, `
					INSERT INTO planned_shift_role_demands (planned_shift_id, role_id, required_count)
					VALUES ($1, $2, $3)`,
					p.ID, d.RoleID, d.RequiredCount,
				); scanErr != nil {
					err = fmt.Errorf("insert planned shift role demand: %w", scanErr)
					return nil, err
				}
			}
			p.Demands = t.Demands
			created = append(created, &p)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return created, nil
}

// loadDemands reads a planned shift's own copy of the role-demand multiset
// from its child table.
func (r *PlannedShiftRepository) loadDemands(ctx context.Context, plannedShiftID string) ([]domain.ShiftRoleDemand, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT role_id, required_count FROM planned_shift_role_demands WHERE planned_shift_id = $1`, plannedShiftID)
	if err != nil {
		return nil, fmt.Errorf("list planned shift role demands: %w", err)
	}
	defer rows.Close()

	var out []domain.ShiftRoleDemand
	for rows.Next() {
		var d domain.ShiftRoleDemand
		if err := rows.Scan(&d.RoleID, &d.RequiredCount); err != nil {
			return nil, fmt.Errorf("scan planned shift role demand: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func scanPlannedShift(row rowScanner) (*domain.PlannedShift, error) {
	var p domain.PlannedShift
	err := row.Scan(&p.ID, &p.WeeklyScheduleID, &p.ShiftTemplateID, &p.Date, &p.StartAt, &p.EndAt, &p.StartTimeOfDay, &p.EndTimeOfDay)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPlannedShiftNotFound
		}
		return nil, fmt.Errorf("scan planned shift: %w", err)
	}
	return &p, nil
}
