package repository

import (
	"context"

	"github.com/shiftsched/scheduler/internal/domain"
)

// UserRepository resolves login credentials. Backed by the employees table:
// every login-capable principal is an Employee row with a hashed password.
type UserRepository interface {
	FindCredentialsByEmail(ctx context.Context, email string) (*domain.Credentials, error)
}
