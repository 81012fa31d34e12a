package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shiftsched/scheduler/internal/transport/http/middleware"
)

func newManagerEngine(isManager any) *gin.Engine {
	r := gin.New()
	r.GET("/manager-only", func(c *gin.Context) {
		if isManager != nil {
			c.Set("isManager", isManager)
		}
		c.Next()
	}, middleware.RequireManager(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestRequireManager_NoClaim_Returns403(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/manager-only", nil)
	newManagerEngine(nil).ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestRequireManager_FalseClaim_Returns403(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/manager-only", nil)
	newManagerEngine(false).ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestRequireManager_TrueClaim_PassesThrough(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/manager-only", nil)
	newManagerEngine(true).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}
