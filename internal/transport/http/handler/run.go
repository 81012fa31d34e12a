package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shiftsched/scheduler/internal/domain"
	"github.com/shiftsched/scheduler/internal/optimize"
	"github.com/shiftsched/scheduler/internal/usecase"
)

// runUsecaser is the subset of RunUsecase the handler needs.
type runUsecaser interface {
	CreateRun(ctx context.Context, weeklyScheduleID, optimizationConfigurationID string) (*domain.SchedulingRun, error)
	GetRun(ctx context.Context, id string) (*domain.SchedulingRun, error)
	ListRuns(ctx context.Context, input usecase.ListRunsInput) (usecase.ListRunsResult, error)
	GetRunMetrics(ctx context.Context, repos optimize.Repositories, runID string) (*domain.RunMetrics, error)
	ApplyRun(ctx context.Context, runID string) ([]*domain.ShiftAssignment, error)
}

type RunHandler struct {
	runUsecase runUsecaser
	dataRepos  optimize.Repositories
	logger     *slog.Logger
}

func NewRunHandler(runUsecase runUsecaser, dataRepos optimize.Repositories, logger *slog.Logger) *RunHandler {
	return &RunHandler{
		runUsecase: runUsecase,
		dataRepos:  dataRepos,
		logger:     logger.With("component", "run_handler"),
	}
}

// POST /scheduling/optimize?weekly_schedule_id=&config_id=
func (h *RunHandler) Optimize(c *gin.Context) {
	weeklyScheduleID := c.Query("weekly_schedule_id")
	if weeklyScheduleID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "weekly_schedule_id is required"})
		return
	}
	configID := c.Query("config_id")

	run, err := h.runUsecase.CreateRun(c.Request.Context(), weeklyScheduleID, configID)
	if err != nil {
		h.handleRunError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"run_id": run.ID})
}

// GET /scheduling/runs/{run_id}/metrics
func (h *RunHandler) GetMetrics(c *gin.Context) {
	runID := c.Param("run_id")

	run, err := h.runUsecase.GetRun(c.Request.Context(), runID)
	if err != nil {
		h.handleRunError(c, err)
		return
	}

	resp := gin.H{"run": run}
	if run.Status == domain.RunCompleted {
		metrics, err := h.runUsecase.GetRunMetrics(c.Request.Context(), h.dataRepos, runID)
		if err != nil {
			h.logger.Error("get run metrics", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"detail": errInternalServer})
			return
		}
		resp["metrics"] = metrics
	}

	c.JSON(http.StatusOK, resp)
}

// GET /scheduling/schedules/{id}/runs
func (h *RunHandler) ListRuns(c *gin.Context) {
	weeklyScheduleID := c.Param("id")

	result, err := h.runUsecase.ListRuns(c.Request.Context(), usecase.ListRunsInput{
		WeeklyScheduleID: weeklyScheduleID,
		Cursor:           c.Query("cursor"),
	})
	if err != nil {
		h.handleRunError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"runs": result.Runs, "next_cursor": result.NextCursor})
}

// POST /scheduling/runs/{run_id}/apply
func (h *RunHandler) Apply(c *gin.Context) {
	runID := c.Param("run_id")

	assignments, err := h.runUsecase.ApplyRun(c.Request.Context(), runID)
	if err != nil {
		h.handleRunError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"applied": len(assignments), "assignments": assignments})
}

func (h *RunHandler) handleRunError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrRunNotFound), errors.Is(err, domain.ErrWeeklyScheduleNotFound), errors.Is(err, domain.ErrOptimizationConfigurationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
	case errors.Is(err, domain.ErrRunNotCompleted), errors.Is(err, domain.ErrRunAlreadyApplied), errors.Is(err, domain.ErrRunNotPending):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
	default:
		h.logger.Error("scheduling run request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": errInternalServer})
	}
}
