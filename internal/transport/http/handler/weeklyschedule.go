package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shiftsched/scheduler/internal/domain"
)

type weeklyScheduleStore interface {
	GetByID(ctx context.Context, id string) (*domain.WeeklySchedule, error)
	Create(ctx context.Context, s *domain.WeeklySchedule) (*domain.WeeklySchedule, error)
	SetStatus(ctx context.Context, id string, status domain.WeeklyScheduleStatus) error
}

type WeeklyScheduleHandler struct {
	schedules weeklyScheduleStore
}

func NewWeeklyScheduleHandler(schedules weeklyScheduleStore) *WeeklyScheduleHandler {
	return &WeeklyScheduleHandler{schedules: schedules}
}

// GET /weekly-schedules/{id}
func (h *WeeklyScheduleHandler) GetByID(c *gin.Context) {
	s, err := h.schedules.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrWeeklyScheduleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": errWeeklyScheduleNotFound})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": errInternalServer})
		return
	}
	c.JSON(http.StatusOK, s)
}

type createWeeklyScheduleRequest struct {
	WeekStartDate string `json:"week_start_date" binding:"required"`
}

// POST /weekly-schedules (manager)
func (h *WeeklyScheduleHandler) Create(c *gin.Context) {
	var req createWeeklyScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": errInvalidRequestBody})
		return
	}

	weekStart, err := time.Parse("2006-01-02", req.WeekStartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid week_start_date, expected YYYY-MM-DD"})
		return
	}

	created, err := h.schedules.Create(c.Request.Context(), &domain.WeeklySchedule{
		WeekStartDate: weekStart,
		Status:        domain.WeeklyScheduleDraft,
	})
	if err != nil {
		if errors.Is(err, domain.ErrWeeklyScheduleConflict) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": errWeeklyScheduleConflict})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": errInternalServer})
		return
	}

	c.JSON(http.StatusCreated, created)
}

// POST /weekly-schedules/{id}/publish (manager)
func (h *WeeklyScheduleHandler) Publish(c *gin.Context) {
	id := c.Param("id")

	if err := h.schedules.SetStatus(c.Request.Context(), id, domain.WeeklySchedulePublished); err != nil {
		switch {
		case errors.Is(err, domain.ErrWeeklyScheduleNotFound):
			c.JSON(http.StatusNotFound, gin.H{"detail": errWeeklyScheduleNotFound})
		case errors.Is(err, domain.ErrWeeklyScheduleNotDraft):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": errWeeklyScheduleNotDraft})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"detail": errInternalServer})
		}
		return
	}

	c.Status(http.StatusOK)
}
