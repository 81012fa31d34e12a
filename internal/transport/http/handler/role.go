package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shiftsched/scheduler/internal/domain"
)

type roleLister interface {
	List(ctx context.Context) ([]*domain.Role, error)
}

type RoleHandler struct {
	roles roleLister
}

func NewRoleHandler(roles roleLister) *RoleHandler {
	return &RoleHandler{roles: roles}
}

// GET /roles
func (h *RoleHandler) List(c *gin.Context) {
	roles, err := h.roles.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": errInternalServer})
		return
	}
	c.JSON(http.StatusOK, gin.H{"roles": roles})
}
