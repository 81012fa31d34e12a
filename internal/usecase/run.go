package usecase

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shiftsched/scheduler/internal/domain"
	"github.com/shiftsched/scheduler/internal/optimize"
	"github.com/shiftsched/scheduler/internal/repository"
)

// RunUsecase orchestrates the lifecycle of a scheduling run: creation
// (enqueue), solving, metrics, listing, and applying the chosen solution.
type RunUsecase struct {
	runs       repository.RunRepository
	schedules  repository.WeeklyScheduleRepository
	optConfigs repository.OptimizationConfigurationRepository
}

func NewRunUsecase(runs repository.RunRepository, schedules repository.WeeklyScheduleRepository, optConfigs repository.OptimizationConfigurationRepository) *RunUsecase {
	return &RunUsecase{runs: runs, schedules: schedules, optConfigs: optConfigs}
}

// CreateRun enqueues a new pending run for a weekly schedule. The worker
// pool claims it later via RunRepository.ClaimPending — this usecase never
// solves inline.
func (u *RunUsecase) CreateRun(ctx context.Context, weeklyScheduleID, optimizationConfigurationID string) (*domain.SchedulingRun, error) {
	if _, err := u.schedules.GetByID(ctx, weeklyScheduleID); err != nil {
		return nil, fmt.Errorf("get weekly schedule: %w", err)
	}

	if optimizationConfigurationID == "" {
		cfg, err := u.optConfigs.GetDefault(ctx)
		if err != nil {
			return nil, fmt.Errorf("get default optimization configuration: %w", err)
		}
		optimizationConfigurationID = cfg.ID
	} else if _, err := u.optConfigs.GetByID(ctx, optimizationConfigurationID); err != nil {
		return nil, fmt.Errorf("get optimization configuration: %w", err)
	}

	run := &domain.SchedulingRun{
		WeeklyScheduleID:            weeklyScheduleID,
		OptimizationConfigurationID: optimizationConfigurationID,
	}
	created, err := u.runs.Create(ctx, run)
	if err != nil {
		return nil, fmt.Errorf("create scheduling run: %w", err)
	}
	return created, nil
}

func (u *RunUsecase) GetRun(ctx context.Context, id string) (*domain.SchedulingRun, error) {
	run, err := u.runs.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get scheduling run: %w", err)
	}
	return run, nil
}

type ListRunsInput struct {
	WeeklyScheduleID string
	Cursor           string
	Limit            int
}

type ListRunsResult struct {
	Runs       []*domain.SchedulingRun
	NextCursor *string
}

type runCursor struct {
	CreatedAt time.Time `json:"c"`
	ID        string    `json:"i"`
}

func decodeRunCursor(s string) (*time.Time, string, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, "", fmt.Errorf("decode cursor: %w", err)
	}
	var c runCursor
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, "", fmt.Errorf("unmarshal cursor: %w", err)
	}
	return &c.CreatedAt, c.ID, nil
}

func encodeRunCursor(createdAt time.Time, id string) string {
	b, _ := json.Marshal(runCursor{CreatedAt: createdAt, ID: id})
	return base64.RawURLEncoding.EncodeToString(b)
}

func (u *RunUsecase) ListRuns(ctx context.Context, input ListRunsInput) (ListRunsResult, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	repoInput := repository.ListScheduleRunsInput{
		WeeklyScheduleID: input.WeeklyScheduleID,
		Limit:            limit + 1,
	}
	if input.Cursor != "" {
		cursorTime, cursorID, err := decodeRunCursor(input.Cursor)
		if err != nil {
			return ListRunsResult{}, fmt.Errorf("decode cursor: %w", err)
		}
		repoInput.CursorTime = cursorTime
		repoInput.CursorID = cursorID
	}

	runs, err := u.runs.ListByWeeklySchedule(ctx, repoInput)
	if err != nil {
		return ListRunsResult{}, fmt.Errorf("list scheduling runs: %w", err)
	}

	var nextCursor *string
	if len(runs) == limit+1 {
		last := runs[limit]
		s := encodeRunCursor(last.CreatedAt, last.ID)
		nextCursor = &s
		runs = runs[:limit]
	}
	return ListRunsResult{Runs: runs, NextCursor: nextCursor}, nil
}

// GetRunMetrics recomputes solution-quality metrics for a completed run by
// rebuilding the snapshot it solved against and replaying its solution rows
// through optimize.CalculateMetrics.
func (u *RunUsecase) GetRunMetrics(ctx context.Context, repos optimize.Repositories, runID string) (*domain.RunMetrics, error) {
	run, err := u.runs.GetByID(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("get scheduling run: %w", err)
	}
	if run.Status != domain.RunCompleted {
		return nil, domain.ErrRunNotCompleted
	}

	rows, err := u.runs.ListSolutionRows(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("list solution rows: %w", err)
	}

	data, err := optimize.BuildData(ctx, repos, run.WeeklyScheduleID, run.OptimizationConfigurationID)
	if err != nil {
		return nil, fmt.Errorf("rebuild optimization data: %w", err)
	}

	asSolutionRows := make([]*domain.SchedulingSolutionRow, len(rows))
	copy(asSolutionRows, rows)

	metrics := optimize.CalculateMetrics(data, asSolutionRows)
	return &metrics, nil
}

// ApplyRun materializes a completed run's solution as real shift
// assignments. Idempotency and state validation live in the repository's
// single-transaction ApplySolution.
func (u *RunUsecase) ApplyRun(ctx context.Context, runID string) ([]*domain.ShiftAssignment, error) {
	assignments, err := u.runs.ApplySolution(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("apply run solution: %w", err)
	}
	return assignments, nil
}
