package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden: manager role required")
)

// Credentials is the employee's login identity. HashedPassword is a bcrypt
// hash; it is never exposed outside the repository/usecase layer.
type Credentials struct {
	EmployeeID     string
	Email          string
	HashedPassword string
}
