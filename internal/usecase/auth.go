package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shiftsched/scheduler/internal/domain"
	"github.com/shiftsched/scheduler/internal/repository"
	"github.com/shiftsched/scheduler/internal/security"
)

type AuthUsecase struct {
	users     repository.UserRepository
	employees repository.EmployeeRepository
	jwtKey    []byte
	jwtTTL    time.Duration
}

func NewAuthUsecase(users repository.UserRepository, employees repository.EmployeeRepository, jwtKey []byte, jwtExpireDays int) *AuthUsecase {
	if jwtExpireDays <= 0 {
		jwtExpireDays = 3
	}
	return &AuthUsecase{
		users:     users,
		employees: employees,
		jwtKey:    jwtKey,
		jwtTTL:    time.Duration(jwtExpireDays) * 24 * time.Hour,
	}
}

// Login verifies the employee's password and returns a signed HS256 JWT
// carrying the employee id and manager flag, mirroring the original
// system's session-cookie-free, token-per-login auth model.
func (u *AuthUsecase) Login(ctx context.Context, email, password string) (string, error) {
	creds, err := u.users.FindCredentialsByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if !security.VerifyPassword(creds.HashedPassword, password) {
		return "", domain.ErrInvalidCredentials
	}

	employee, err := u.employees.GetByID(ctx, creds.EmployeeID)
	if err != nil {
		return "", fmt.Errorf("load employee: %w", err)
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":        employee.ID,
		"email":      employee.Email,
		"is_manager": employee.IsManager,
		"iat":        now.Unix(),
		"exp":        now.Add(u.jwtTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(u.jwtKey)
	if err != nil {
		return "", fmt.Errorf("sign jwt: %w", err)
	}
	return signed, nil
}
