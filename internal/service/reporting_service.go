package service

import (
	"context"
	"strings"

	"github.com/spec-kit/inquiry-service/internal/domain"
	"github.com/spec-kit/inquiry-service/internal/repository"
	apperrors "github.com/spec-kit/inquiry-service/pkg/util"
)

const maxPageSize = 100

// ReportingService computes read-only projections over the inquiry store.
// Nothing here is authoritative; counts are recomputed on demand.
type ReportingService struct {
	inquiries repository.InquiryRepository
	accounts  repository.AccountRepository
	history   repository.InquiryHistoryRepository
}

// ReportingDependencies bundles repositories.
type ReportingDependencies struct {
	InquiryRepo repository.InquiryRepository
	AccountRepo repository.AccountRepository
	HistoryRepo repository.InquiryHistoryRepository
}

// NewReportingService creates the service.
func NewReportingService(deps ReportingDependencies) *ReportingService {
	return &ReportingService{
		inquiries: deps.InquiryRepo,
		accounts:  deps.AccountRepo,
		history:   deps.HistoryRepo,
	}
}

// EmployeeCounts pairs an employee with their current inquiry load.
type EmployeeCounts struct {
	OwnerID              string
	AssignedOrInProgress int64
	Released             int64
}

// Dashboard aggregates global totals, per-employee load, and the roster.
type Dashboard struct {
	Total       int64
	Pending     int64
	Released    int64
	PerEmployee []EmployeeCounts
	Employees   []domain.Account
}

// InquiryListQuery describes the admin listing parameters.
type InquiryListQuery struct {
	Status      string
	PhoneSearch string
	Page        int
	Limit       int
}

// InquiryPage is a paginated listing result.
type InquiryPage struct {
	Items []domain.Inquiry
	Total int64
	Page  int
	Limit int
}

// BuildDashboard computes the admin dashboard.
func (s *ReportingService) BuildDashboard(ctx context.Context, requester *domain.Account) (*Dashboard, error) {
	if err := requireAdmin(requester); err != nil {
		return nil, err
	}

	total, err := s.inquiries.CountAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	pending, err := s.inquiries.CountByStatuses(ctx, domain.PendingStatuses)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	released, err := s.inquiries.CountByStatuses(ctx, []domain.InquiryStatus{domain.InquiryStatusReleased})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	ownerCounts, err := s.inquiries.OwnerCounts(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	perEmployee := make([]EmployeeCounts, 0, len(ownerCounts))
	for _, entry := range ownerCounts {
		perEmployee = append(perEmployee, EmployeeCounts{
			OwnerID:              entry.OwnerID,
			AssignedOrInProgress: entry.AssignedOrInProgress,
			Released:             entry.Released,
		})
	}

	role := domain.RoleEmployee
	employees, err := s.accounts.List(ctx, repository.AccountFilter{Role: &role})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	return &Dashboard{
		Total:       total,
		Pending:     pending,
		Released:    released,
		PerEmployee: perEmployee,
		Employees:   employees,
	}, nil
}

// ListInquiries returns a filtered, paginated inquiry listing for admins.
// Status must match exactly; phone search is a case-insensitive substring.
func (s *ReportingService) ListInquiries(ctx context.Context, requester *domain.Account, query InquiryListQuery) (*InquiryPage, error) {
	if err := requireAdmin(requester); err != nil {
		return nil, err
	}

	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit < 1 {
		limit = 20
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	filter := repository.InquiryFilter{
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
	if trimmed := strings.TrimSpace(query.Status); trimmed != "" {
		status := domain.InquiryStatus(strings.ToUpper(trimmed))
		if !domain.IsValidInquiryStatus(status) {
			return nil, apperrors.NewValidationError("unknown status filter", map[string]any{"status": trimmed})
		}
		filter.Status = &status
	}
	if trimmed := strings.TrimSpace(query.PhoneSearch); trimmed != "" {
		filter.PhoneContains = &trimmed
	}

	total, err := s.inquiries.CountWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	items, err := s.inquiries.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	return &InquiryPage{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

// ListInquiryHistory returns the audit trail for one inquiry.
func (s *ReportingService) ListInquiryHistory(ctx context.Context, requester *domain.Account, inquiryID string, limit, offset int) ([]domain.InquiryHistory, error) {
	if err := requireAdmin(requester); err != nil {
		return nil, err
	}
	entries, err := s.history.ListByInquiry(ctx, inquiryID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}
