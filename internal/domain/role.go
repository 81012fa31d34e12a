package domain

import "errors"

var ErrRoleNotFound = errors.New("role not found")

// Role is a job function an employee can be qualified for (e.g. "Cashier", "Cook").
type Role struct {
	ID   string
	Name string
}

// EmployeeRole is the many-to-many link between employees and the roles they
// are qualified to work.
type EmployeeRole struct {
	EmployeeID string
	RoleID     string
}
