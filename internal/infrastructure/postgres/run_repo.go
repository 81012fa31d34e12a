package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shiftsched/scheduler/internal/domain"
	"github.com/shiftsched/scheduler/internal/repository"
)

type RunRepository struct {
	pool *pgxpool.Pool
}

func NewRunRepository(pool *pgxpool.Pool) *RunRepository {
	return &RunRepository{pool: pool}
}

func (r *RunRepository) Create(ctx context.Context, run *domain.SchedulingRun) (*domain.SchedulingRun, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO scheduling_runs (weekly_schedule_id, optimization_configuration_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, weekly_schedule_id, optimization_configuration_id, status, solver_status,
		          objective_value, error_message, applied, started_at, heartbeat_at, completed_at, created_at`,
		run.WeeklyScheduleID, run.OptimizationConfigurationID, domain.RunPending,
	)
	return scanRun(row)
}

func (r *RunRepository) GetByID(ctx context.Context, id string) (*domain.SchedulingRun, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, weekly_schedule_id, optimization_configuration_id, status, solver_status,
		       objective_value, error_message, applied, started_at, heartbeat_at, completed_at, created_at
		FROM scheduling_runs WHERE id = $1`, id)
	return scanRun(row)
}

func (r *RunRepository) ListByWeeklySchedule(ctx context.Context, input repository.ListScheduleRunsInput) ([]*domain.SchedulingRun, error) {
	args := []any{input.WeeklyScheduleID}
	where := []string{"weekly_schedule_id = $1"}

	if input.CursorTime != nil {
		args = append(args, *input.CursorTime, input.CursorID)
		where = append(where, fmt.Sprintf("(created_at, id) < ($%d, $%d)", len(args)-1, len(args)))
	}
	args = append(args, input.Limit)

	query := fmt.Sprintf(`
		SELECT id, weekly_schedule_id, optimization_configuration_id, status, solver_status,
		       objective_value, error_message, applied, started_at, heartbeat_at, completed_at, created_at
		FROM scheduling_runs
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d`, strings.Join(where, " AND "), len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list scheduling runs: %w", err)
	}
	defer rows.Close()

	var out []*domain.SchedulingRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

func (r *RunRepository) ClaimPending(ctx context.Context, limit int) ([]*domain.SchedulingRun, error) {
	query := `
		UPDATE scheduling_runs
		SET    status       = 'running',
		       started_at   = NOW(),
		       heartbeat_at = NOW()
		WHERE id IN (
			SELECT id FROM scheduling_runs
			WHERE  status = 'pending'
			ORDER BY created_at ASC
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, weekly_schedule_id, optimization_configuration_id, status, solver_status,
		          objective_value, error_message, applied, started_at, heartbeat_at, completed_at, created_at`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("claim pending runs: %w", err)
	}
	defer rows.Close()

	var out []*domain.SchedulingRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

func (r *RunRepository) UpdateHeartbeat(ctx context.Context, runID string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE scheduling_runs SET heartbeat_at = NOW() WHERE id = $1 AND status = 'running'`, runID)
	return err
}

// Complete persists a solver's terminal outcome — solver_status, objective
// value, and any solution rows — in one transaction. Per the run state
// machine, EVERY terminal solver outcome completes the run: an infeasible
// or no_solution_found result still writes status='completed' with zero
// solution rows, not a failure.
func (r *RunRepository) Complete(ctx context.Context, runID string, solverStatus domain.SolverStatus, objectiveValue float64, rows []*domain.SchedulingSolutionRow) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	tag, err := tx.Exec(ctx, `
		UPDATE scheduling_runs
		SET status = 'completed', solver_status = $2, objective_value = $3, completed_at = NOW()
		WHERE id = $1 AND status = 'running'`, runID, solverStatus, objectiveValue)
	if err != nil {
		return fmt.Errorf("mark run completed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		err = domain.ErrRunNotPending
		return err
	}

	for _, row := range rows {
		if _, err = tx.Exec(ctx, `
			INSERT INTO scheduling_solution_rows (scheduling_run_id, employee_id, planned_shift_id, role_id, preference_score)
			VALUES ($1, $2, $3, $4, $5)`,
			runID, row.EmployeeID, row.PlannedShiftID, row.RoleID, row.PreferenceScore,
		); err != nil {
			err = fmt.Errorf("insert solution row: %w", err)
			return err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *RunRepository) Fail(ctx context.Context, runID string, errMsg string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE scheduling_runs
		SET status = 'failed', error_message = $2, completed_at = NOW()
		WHERE id = $1`, runID, errMsg)
	return err
}

func (r *RunRepository) ListSolutionRows(ctx context.Context, runID string) ([]*domain.SchedulingSolutionRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, scheduling_run_id, employee_id, planned_shift_id, role_id, preference_score
		FROM scheduling_solution_rows WHERE scheduling_run_id = $1`, runID)
	if err != nil {
		return nil, fmt.Errorf("list solution rows: %w", err)
	}
	defer rows.Close()

	var out []*domain.SchedulingSolutionRow
	for rows.Next() {
		var row domain.SchedulingSolutionRow
		if err := rows.Scan(&row.ID, &row.SchedulingRunID, &row.EmployeeID, &row.PlannedShiftID, &row.RoleID, &row.PreferenceScore); err != nil {
			return nil, fmt.Errorf("scan solution row: %w", err)
		}
		out = append(out, &row)
	}
	return out, rows.Err()
}

// ApplySolution materializes a completed run's solution into real shift
// assignments and flags the run applied, atomically. Mirrors the teacher's
// claim-and-fire transaction shape: read, validate, write, advance state —
// all inside one transaction so a crash mid-apply leaves no partial result.
func (r *RunRepository) ApplySolution(ctx context.Context, runID string) ([]*domain.ShiftAssignment, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var status domain.RunStatus
	var applied bool
	if err = tx.QueryRow(ctx,
		`SELECT status, applied FROM scheduling_runs WHERE id = $1 FOR UPDATE`, runID,
	).Scan(&status, &applied); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = domain.ErrRunNotFound
		} else {
			err = fmt.Errorf("lock run: %w", err)
		}
		return nil, err
	}
	if status != domain.RunCompleted {
		err = domain.ErrRunNotCompleted
		return nil, err
	}
	if applied {
		err = domain.ErrRunAlreadyApplied
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT employee_id, planned_shift_id, role_id, preference_score
		FROM scheduling_solution_rows WHERE scheduling_run_id = $1`, runID)
	if err != nil {
		err = fmt.Errorf("read solution rows: %w", err)
		return nil, err
	}

	var assignments []*domain.ShiftAssignment
	for rows.Next() {
		var a domain.ShiftAssignment
		if scanErr := rows.Scan(&a.EmployeeID, &a.PlannedShiftID, &a.RoleID, &a.PreferenceScore); scanErr != nil {
			rows.Close()
			err = fmt.Errorf("scan solution row: %w", scanErr)
			return nil, err
		}
		a.SchedulingRunID = &runID
		assignments = append(assignments, &a)
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return nil, err
	}

	for _, a := range assignments {
		if scanErr := tx.QueryRow(ctx, `
			INSERT INTO shift_assignments (planned_shift_id, employee_id, role_id, scheduling_run_id, preference_score)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at`,
			a.PlannedShiftID, a.EmployeeID, a.RoleID, a.SchedulingRunID, a.PreferenceScore,
		).Scan(&a.ID, &a.CreatedAt); scanErr != nil {
			err = fmt.Errorf("insert shift assignment: %w", scanErr)
			return nil, err
		}
	}

	if _, err = tx.Exec(ctx,
		`UPDATE scheduling_runs SET applied = true WHERE id = $1`, runID); err != nil {
		err = fmt.Errorf("mark run applied: %w", err)
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return assignments, nil
}

func (r *RunRepository) RescheduleStale(ctx context.Context, heartbeatCutoff time.Time, limit int) (int, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE scheduling_runs
		SET    status       = 'failed',
		       error_message = 'worker timeout: orphaned run',
		       completed_at  = NOW()
		WHERE id IN (
			SELECT id FROM scheduling_runs
			WHERE  status       = 'running'
			  AND  heartbeat_at < $1
			ORDER BY heartbeat_at ASC
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)`, heartbeatCutoff, limit)
	return int(tag.RowsAffected()), err
}

func scanRun(row rowScanner) (*domain.SchedulingRun, error) {
	var run domain.SchedulingRun
	err := row.Scan(
		&run.ID, &run.WeeklyScheduleID, &run.OptimizationConfigurationID, &run.Status, &run.SolverStatus,
		&run.ObjectiveValue, &run.ErrorMessage, &run.Applied, &run.StartedAt, &run.HeartbeatAt, &run.CompletedAt, &run.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRunNotFound
		}
		return nil, fmt.Errorf("scan scheduling run: %w", err)
	}
	return &run, nil
}
