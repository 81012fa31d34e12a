package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shiftsched/scheduler/internal/domain"
	"github.com/shiftsched/scheduler/internal/repository"
	"github.com/shiftsched/scheduler/internal/usecase"
)

type fakeRunRepo struct {
	create               func(ctx context.Context, r *domain.SchedulingRun) (*domain.SchedulingRun, error)
	getByID              func(ctx context.Context, id string) (*domain.SchedulingRun, error)
	listByWeeklySchedule func(ctx context.Context, input repository.ListScheduleRunsInput) ([]*domain.SchedulingRun, error)
	claimPending         func(ctx context.Context, limit int) ([]*domain.SchedulingRun, error)
	updateHeartbeat      func(ctx context.Context, runID string) error
	complete             func(ctx context.Context, runID string, objectiveValue float64, rows []*domain.SchedulingSolutionRow) error
	fail                 func(ctx context.Context, runID string, errMsg string) error
	listSolutionRows     func(ctx context.Context, runID string) ([]*domain.SchedulingSolutionRow, error)
	applySolution        func(ctx context.Context, runID string) ([]*domain.ShiftAssignment, error)
	rescheduleStale      func(ctx context.Context, cutoff time.Time, limit int) (int, error)
}

func (r *fakeRunRepo) Create(ctx context.Context, run *domain.SchedulingRun) (*domain.SchedulingRun, error) {
	return r.create(ctx, run)
}
func (r *fakeRunRepo) GetByID(ctx context.Context, id string) (*domain.SchedulingRun, error) {
	return r.getByID(ctx, id)
}
func (r *fakeRunRepo) ListByWeeklySchedule(ctx context.Context, input repository.ListScheduleRunsInput) ([]*domain.SchedulingRun, error) {
	return r.listByWeeklySchedule(ctx, input)
}
func (r *fakeRunRepo) ClaimPending(ctx context.Context, limit int) ([]*domain.SchedulingRun, error) {
	return r.claimPending(ctx, limit)
}
func (r *fakeRunRepo) UpdateHeartbeat(ctx context.Context, runID string) error {
	return r.updateHeartbeat(ctx, runID)
}
func (r *fakeRunRepo) Complete(ctx context.Context, runID string, objectiveValue float64, rows []*domain.SchedulingSolutionRow) error {
	return r.complete(ctx, runID, objectiveValue, rows)
}
func (r *fakeRunRepo) Fail(ctx context.Context, runID string, errMsg string) error {
	return r.fail(ctx, runID, errMsg)
}
func (r *fakeRunRepo) ListSolutionRows(ctx context.Context, runID string) ([]*domain.SchedulingSolutionRow, error) {
	return r.listSolutionRows(ctx, runID)
}
func (r *fakeRunRepo) ApplySolution(ctx context.Context, runID string) ([]*domain.ShiftAssignment, error) {
	return r.applySolution(ctx, runID)
}
func (r *fakeRunRepo) RescheduleStale(ctx context.Context, cutoff time.Time, limit int) (int, error) {
	return r.rescheduleStale(ctx, cutoff, limit)
}

type fakeWeeklyScheduleRepo struct {
	getByID        func(ctx context.Context, id string) (*domain.WeeklySchedule, error)
	getByWeekStart func(ctx context.Context, weekStart time.Time) (*domain.WeeklySchedule, error)
	list           func(ctx context.Context) ([]*domain.WeeklySchedule, error)
	create         func(ctx context.Context, s *domain.WeeklySchedule) (*domain.WeeklySchedule, error)
	setStatus      func(ctx context.Context, id string, status domain.WeeklyScheduleStatus) error
}

func (r *fakeWeeklyScheduleRepo) GetByID(ctx context.Context, id string) (*domain.WeeklySchedule, error) {
	return r.getByID(ctx, id)
}
func (r *fakeWeeklyScheduleRepo) GetByWeekStart(ctx context.Context, weekStart time.Time) (*domain.WeeklySchedule, error) {
	return r.getByWeekStart(ctx, weekStart)
}
func (r *fakeWeeklyScheduleRepo) List(ctx context.Context) ([]*domain.WeeklySchedule, error) {
	return r.list(ctx)
}
func (r *fakeWeeklyScheduleRepo) Create(ctx context.Context, s *domain.WeeklySchedule) (*domain.WeeklySchedule, error) {
	return r.create(ctx, s)
}
func (r *fakeWeeklyScheduleRepo) SetStatus(ctx context.Context, id string, status domain.WeeklyScheduleStatus) error {
	return r.setStatus(ctx, id, status)
}

type fakeOptConfigRepo struct {
	getByID    func(ctx context.Context, id string) (*domain.OptimizationConfiguration, error)
	getDefault func(ctx context.Context) (*domain.OptimizationConfiguration, error)
	list       func(ctx context.Context) ([]*domain.OptimizationConfiguration, error)
	create     func(ctx context.Context, c *domain.OptimizationConfiguration) (*domain.OptimizationConfiguration, error)
}

func (r *fakeOptConfigRepo) GetByID(ctx context.Context, id string) (*domain.OptimizationConfiguration, error) {
	return r.getByID(ctx, id)
}
func (r *fakeOptConfigRepo) GetDefault(ctx context.Context) (*domain.OptimizationConfiguration, error) {
	return r.getDefault(ctx)
}
func (r *fakeOptConfigRepo) List(ctx context.Context) ([]*domain.OptimizationConfiguration, error) {
	return r.list(ctx)
}
func (r *fakeOptConfigRepo) Create(ctx context.Context, c *domain.OptimizationConfiguration) (*domain.OptimizationConfiguration, error) {
	return r.create(ctx, c)
}

var testSchedule = &domain.WeeklySchedule{ID: "sched-1", Status: domain.WeeklyScheduleDraft}
var testConfig = &domain.OptimizationConfiguration{ID: "cfg-default", IsDefault: true}

func TestCreateRunUsesDefaultConfigurationWhenNoneGiven(t *testing.T) {
	var capturedRun *domain.SchedulingRun
	runs := &fakeRunRepo{
		create: func(_ context.Context, r *domain.SchedulingRun) (*domain.SchedulingRun, error) {
			capturedRun = r
			r.ID = "run-1"
			return r, nil
		},
	}
	schedules := &fakeWeeklyScheduleRepo{
		getByID: func(_ context.Context, id string) (*domain.WeeklySchedule, error) {
			return testSchedule, nil
		},
	}
	configs := &fakeOptConfigRepo{
		getDefault: func(_ context.Context) (*domain.OptimizationConfiguration, error) {
			return testConfig, nil
		},
	}

	u := usecase.NewRunUsecase(runs, schedules, configs)
	created, err := u.CreateRun(context.Background(), testSchedule.ID, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID != "run-1" {
		t.Errorf("created.ID = %q, want run-1", created.ID)
	}
	if capturedRun.OptimizationConfigurationID != testConfig.ID {
		t.Errorf("OptimizationConfigurationID = %q, want %q", capturedRun.OptimizationConfigurationID, testConfig.ID)
	}
}

func TestCreateRunScheduleNotFoundPropagates(t *testing.T) {
	runs := &fakeRunRepo{}
	schedules := &fakeWeeklyScheduleRepo{
		getByID: func(_ context.Context, id string) (*domain.WeeklySchedule, error) {
			return nil, domain.ErrWeeklyScheduleNotFound
		},
	}
	configs := &fakeOptConfigRepo{}

	u := usecase.NewRunUsecase(runs, schedules, configs)
	_, err := u.CreateRun(context.Background(), "missing", "")
	if !errors.Is(err, domain.ErrWeeklyScheduleNotFound) {
		t.Errorf("want ErrWeeklyScheduleNotFound, got %v", err)
	}
}

func TestApplyRunDelegatesToRepository(t *testing.T) {
	want := []*domain.ShiftAssignment{{ID: "a1", EmployeeID: "e1", PlannedShiftID: "s1"}}
	runs := &fakeRunRepo{
		applySolution: func(_ context.Context, runID string) ([]*domain.ShiftAssignment, error) {
			if runID != "run-1" {
				t.Fatalf("unexpected runID %q", runID)
			}
			return want, nil
		},
	}
	u := usecase.NewRunUsecase(runs, &fakeWeeklyScheduleRepo{}, &fakeOptConfigRepo{})

	got, err := u.ApplyRun(context.Background(), "run-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "a1" {
		t.Errorf("unexpected assignments: %+v", got)
	}
}

func TestApplyRunNotCompletedPropagates(t *testing.T) {
	runs := &fakeRunRepo{
		applySolution: func(_ context.Context, _ string) ([]*domain.ShiftAssignment, error) {
			return nil, domain.ErrRunNotCompleted
		},
	}
	u := usecase.NewRunUsecase(runs, &fakeWeeklyScheduleRepo{}, &fakeOptConfigRepo{})

	_, err := u.ApplyRun(context.Background(), "run-1")
	if !errors.Is(err, domain.ErrRunNotCompleted) {
		t.Errorf("want ErrRunNotCompleted, got %v", err)
	}
}

func TestListRunsEmitsNextCursorWhenMoreAvailable(t *testing.T) {
	now := time.Now()
	var runs []*domain.SchedulingRun
	for i := 0; i < 3; i++ {
		runs = append(runs, &domain.SchedulingRun{ID: string(rune('a' + i)), CreatedAt: now.Add(time.Duration(-i) * time.Minute)})
	}

	repo := &fakeRunRepo{
		listByWeeklySchedule: func(_ context.Context, input repository.ListScheduleRunsInput) ([]*domain.SchedulingRun, error) {
			if input.Limit != 3 {
				t.Fatalf("expected limit+1 = 3, got %d", input.Limit)
			}
			return runs, nil
		},
	}
	u := usecase.NewRunUsecase(repo, &fakeWeeklyScheduleRepo{}, &fakeOptConfigRepo{})

	result, err := u.ListRuns(context.Background(), usecase.ListRunsInput{WeeklyScheduleID: testSchedule.ID, Limit: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Runs) != 2 {
		t.Errorf("len(result.Runs) = %d, want 2", len(result.Runs))
	}
	if result.NextCursor == nil {
		t.Error("expected NextCursor to be set")
	}
}
