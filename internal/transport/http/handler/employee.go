package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shiftsched/scheduler/internal/domain"
)

type employeeLister interface {
	List(ctx context.Context) ([]*domain.Employee, error)
}

type EmployeeHandler struct {
	employees employeeLister
}

func NewEmployeeHandler(employees employeeLister) *EmployeeHandler {
	return &EmployeeHandler{employees: employees}
}

// GET /employees
func (h *EmployeeHandler) List(c *gin.Context) {
	employees, err := h.employees.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": errInternalServer})
		return
	}
	c.JSON(http.StatusOK, gin.H{"employees": employees})
}
