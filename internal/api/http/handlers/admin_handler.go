package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/inquiry-service/internal/api/dto"
	"github.com/spec-kit/inquiry-service/internal/auth"
	"github.com/spec-kit/inquiry-service/internal/service"
	apperrors "github.com/spec-kit/inquiry-service/pkg/util"
)

// AdminHandler exposes account management and reporting endpoints.
type AdminHandler struct {
	accounts  *service.AccountService
	reporting *service.ReportingService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(accounts *service.AccountService, reporting *service.ReportingService) *AdminHandler {
	return &AdminHandler{accounts: accounts, reporting: reporting}
}

// CreateEmployee POST /api/admin/employees.
func (h *AdminHandler) CreateEmployee(c *fiber.Ctx) error {
	admin, ok := auth.AccountFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	account, err := h.accounts.CreateEmployee(c.Context(), admin, req.Name, req.Handle, req.Password)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": accountResponse(account)})
}

// UpdateEmployee PATCH /api/admin/employees/:id.
func (h *AdminHandler) UpdateEmployee(c *fiber.Ctx) error {
	admin, ok := auth.AccountFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.UpdateEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	account, err := h.accounts.UpdateEmployee(c.Context(), admin, c.Params("id"), service.EmployeeUpdateInput{
		Name:     req.Name,
		IsActive: req.IsActive,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": accountResponse(account)})
}

// Dashboard GET /api/admin/dashboard.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	admin, ok := auth.AccountFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	dashboard, err := h.reporting.BuildDashboard(c.Context(), admin)
	if err != nil {
		return err
	}

	perEmployee := make([]dto.EmployeeCountsResponse, 0, len(dashboard.PerEmployee))
	for _, entry := range dashboard.PerEmployee {
		perEmployee = append(perEmployee, dto.EmployeeCountsResponse{
			OwnerID:              entry.OwnerID,
			AssignedOrInProgress: entry.AssignedOrInProgress,
			Released:             entry.Released,
		})
	}
	employees := make([]dto.AccountResponse, 0, len(dashboard.Employees))
	for i := range dashboard.Employees {
		employees = append(employees, accountResponse(&dashboard.Employees[i]))
	}

	return c.JSON(fiber.Map{"data": dto.DashboardResponse{
		Total:       dashboard.Total,
		Pending:     dashboard.Pending,
		Released:    dashboard.Released,
		PerEmployee: perEmployee,
		Employees:   employees,
	}})
}

// ListInquiries GET /api/admin/inquiries.
func (h *AdminHandler) ListInquiries(c *fiber.Ctx) error {
	admin, ok := auth.AccountFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	page, err := h.reporting.ListInquiries(c.Context(), admin, service.InquiryListQuery{
		Status:      c.Query("status"),
		PhoneSearch: c.Query("q"),
		Page:        parseInt(c.Query("page"), 1),
		Limit:       parseInt(c.Query("limit"), 20),
	})
	if err != nil {
		return err
	}

	items := make([]dto.InquirySummary, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, inquirySummary(&page.Items[i]))
	}
	return c.JSON(fiber.Map{"data": dto.InquiryListResponse{
		Items: items,
		Total: page.Total,
		Page:  page.Page,
		Limit: page.Limit,
	}})
}

// ListInquiryHistory GET /api/admin/inquiries/:id/history.
func (h *AdminHandler) ListInquiryHistory(c *fiber.Ctx) error {
	admin, ok := auth.AccountFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	entries, err := h.reporting.ListInquiryHistory(c.Context(), admin, c.Params("id"),
		parseInt(c.Query("limit"), 50), parseInt(c.Query("offset"), 0))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"items": historyResponses(entries)}})
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed < 0 {
		return def
	}
	return parsed
}
