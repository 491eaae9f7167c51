package domain

import "time"

// AccountRole enumerates operator roles. Roles are flat capability tags;
// ADMIN does not implicitly inherit EMPLOYEE access.
type AccountRole string

const (
	RoleEmployee AccountRole = "EMPLOYEE"
	RoleAdmin    AccountRole = "ADMIN"
)

// Account models an employee or administrator.
type Account struct {
	ID           string
	Name         string
	Handle       string
	PasswordHash string
	Role         AccountRole
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
