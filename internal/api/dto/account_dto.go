package dto

import (
	"time"

	"github.com/spec-kit/inquiry-service/internal/domain"
)

// CreateEmployeeRequest payload for new employees.
type CreateEmployeeRequest struct {
	Name     string `json:"name"`
	Handle   string `json:"handle"`
	Password string `json:"password"`
}

// UpdateEmployeeRequest carries the partial update; nil fields stay unchanged.
type UpdateEmployeeRequest struct {
	Name     *string `json:"name"`
	IsActive *bool   `json:"is_active"`
	Password *string `json:"password"`
}

// AccountResponse is the public shape of an account.
type AccountResponse struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Handle    string             `json:"handle"`
	Role      domain.AccountRole `json:"role"`
	IsActive  bool               `json:"is_active"`
	CreatedAt time.Time          `json:"created_at"`
}

// EmployeeCountsResponse pairs an employee id with workload counts.
type EmployeeCountsResponse struct {
	OwnerID              string `json:"owner_id"`
	AssignedOrInProgress int64  `json:"assigned_or_in_progress"`
	Released             int64  `json:"released"`
}

// DashboardResponse aggregates the admin dashboard.
type DashboardResponse struct {
	Total       int64                    `json:"total"`
	Pending     int64                    `json:"pending"`
	Released    int64                    `json:"released"`
	PerEmployee []EmployeeCountsResponse `json:"per_employee"`
	Employees   []AccountResponse        `json:"employees"`
}
