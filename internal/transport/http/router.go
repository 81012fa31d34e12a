package httptransport

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	sloggin "github.com/samber/slog-gin"
	"github.com/shiftsched/scheduler/internal/transport/http/handler"
	"github.com/shiftsched/scheduler/internal/transport/http/middleware"
)

type Handlers struct {
	Auth           *handler.AuthHandler
	Run            *handler.RunHandler
	Employee       *handler.EmployeeHandler
	Role           *handler.RoleHandler
	ShiftTemplate  *handler.ShiftTemplateHandler
	WeeklySchedule *handler.WeeklyScheduleHandler
}

func NewRouter(h Handlers, jwtKey []byte, logger *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	r.POST("/auth/login", h.Auth.Login)

	authenticated := r.Group("/", middleware.Auth(jwtKey))
	manager := authenticated.Group("/", middleware.RequireManager())

	authenticated.GET("/employees", h.Employee.List)
	authenticated.GET("/roles", h.Role.List)
	authenticated.GET("/shift-templates", h.ShiftTemplate.List)
	manager.POST("/shift-templates", h.ShiftTemplate.Create)

	authenticated.GET("/weekly-schedules/:id", h.WeeklySchedule.GetByID)
	manager.POST("/weekly-schedules", h.WeeklySchedule.Create)
	manager.POST("/weekly-schedules/:id/publish", h.WeeklySchedule.Publish)

	manager.POST("/scheduling/optimize", h.Run.Optimize)
	authenticated.GET("/scheduling/runs/:run_id/metrics", h.Run.GetMetrics)
	authenticated.GET("/scheduling/schedules/:id/runs", h.Run.ListRuns)
	manager.POST("/scheduling/runs/:run_id/apply", h.Run.Apply)

	return r
}
