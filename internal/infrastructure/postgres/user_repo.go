package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shiftsched/scheduler/internal/domain"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) FindCredentialsByEmail(ctx context.Context, email string) (*domain.Credentials, error) {
	var c domain.Credentials
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, hashed_password FROM employees WHERE email = $1`, email,
	).Scan(&c.EmployeeID, &c.Email, &c.HashedPassword)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find credentials: %w", err)
	}
	return &c, nil
}
