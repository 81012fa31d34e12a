package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shiftsched/scheduler/internal/domain"
)

type shiftTemplateStore interface {
	List(ctx context.Context) ([]*domain.ShiftTemplate, error)
	Create(ctx context.Context, t *domain.ShiftTemplate) (*domain.ShiftTemplate, error)
}

type ShiftTemplateHandler struct {
	templates shiftTemplateStore
}

func NewShiftTemplateHandler(templates shiftTemplateStore) *ShiftTemplateHandler {
	return &ShiftTemplateHandler{templates: templates}
}

// GET /shift-templates
func (h *ShiftTemplateHandler) List(c *gin.Context) {
	templates, err := h.templates.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": errInternalServer})
		return
	}
	c.JSON(http.StatusOK, gin.H{"shift_templates": templates})
}

type roleDemandRequest struct {
	RoleID        string `json:"role_id" binding:"required"`
	RequiredCount int    `json:"required_count" binding:"required,min=1"`
}

type createShiftTemplateRequest struct {
	Name           string              `json:"name" binding:"required"`
	StartTimeOfDay string              `json:"start_time_of_day" binding:"required"`
	EndTimeOfDay   string              `json:"end_time_of_day" binding:"required"`
	Demands        []roleDemandRequest `json:"demands" binding:"required,min=1,dive"`
}

// POST /shift-templates (manager)
func (h *ShiftTemplateHandler) Create(c *gin.Context) {
	var req createShiftTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": errInvalidRequestBody})
		return
	}

	start, err := parseTimeOfDay(req.StartTimeOfDay)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid start_time_of_day"})
		return
	}
	end, err := parseTimeOfDay(req.EndTimeOfDay)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid end_time_of_day"})
		return
	}

	demands := make([]domain.ShiftRoleDemand, len(req.Demands))
	for i, d := range req.Demands {
		demands[i] = domain.ShiftRoleDemand{RoleID: d.RoleID, RequiredCount: d.RequiredCount}
	}

	created, err := h.templates.Create(c.Request.Context(), &domain.ShiftTemplate{
		Name:           req.Name,
		StartTimeOfDay: start,
		EndTimeOfDay:   end,
		Demands:        demands,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": errInternalServer})
		return
	}

	c.JSON(http.StatusCreated, created)
}

// parseTimeOfDay parses an "HH:MM" clock time into a duration-since-midnight.
func parseTimeOfDay(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}
