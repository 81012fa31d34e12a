package handler_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shiftsched/scheduler/internal/domain"
	"github.com/shiftsched/scheduler/internal/transport/http/handler"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeAuthUsecase implements the unexported authUsecaser interface via method matching.
type fakeAuthUsecase struct {
	login func(ctx context.Context, email, password string) (string, error)
}

func (f *fakeAuthUsecase) Login(ctx context.Context, email, password string) (string, error) {
	return f.login(ctx, email, password)
}

func newTestEngine(uc *fakeAuthUsecase) *gin.Engine {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	h := handler.NewAuthHandler(uc, logger)

	r := gin.New()
	r.POST("/auth/login", h.Login)
	return r
}

func TestLogin_InvalidJSON_Returns400(t *testing.T) {
	uc := &fakeAuthUsecase{}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{bad json}`))
	req.Header.Set("Content-Type", "application/json")
	newTestEngine(uc).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestLogin_MissingPassword_Returns400(t *testing.T) {
	uc := &fakeAuthUsecase{}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"alice@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	newTestEngine(uc).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestLogin_InvalidCredentials_Returns401(t *testing.T) {
	uc := &fakeAuthUsecase{
		login: func(_ context.Context, _, _ string) (string, error) {
			return "", domain.ErrInvalidCredentials
		},
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"alice@example.com","password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	newTestEngine(uc).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestLogin_UsecaseError_Returns500(t *testing.T) {
	uc := &fakeAuthUsecase{
		login: func(_ context.Context, _, _ string) (string, error) {
			return "", errors.New("db down")
		},
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"alice@example.com","password":"secret"}`))
	req.Header.Set("Content-Type", "application/json")
	newTestEngine(uc).ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestLogin_Success_Returns200WithToken(t *testing.T) {
	const fakeJWT = "header.payload.signature"
	uc := &fakeAuthUsecase{
		login: func(_ context.Context, _, _ string) (string, error) {
			return fakeJWT, nil
		},
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"alice@example.com","password":"secret"}`))
	req.Header.Set("Content-Type", "application/json")
	newTestEngine(uc).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), fakeJWT) {
		t.Errorf("body %q does not contain token %q", w.Body.String(), fakeJWT)
	}
}
