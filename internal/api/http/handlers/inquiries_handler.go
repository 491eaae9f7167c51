package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/inquiry-service/internal/api/dto"
	"github.com/spec-kit/inquiry-service/internal/auth"
	"github.com/spec-kit/inquiry-service/internal/media"
	"github.com/spec-kit/inquiry-service/internal/service"
	apperrors "github.com/spec-kit/inquiry-service/pkg/util"
)

// InquiriesHandler exposes the employee queue and claim/release endpoints.
type InquiriesHandler struct {
	assignments *service.AssignmentService
	media       *media.Store
}

// NewInquiriesHandler constructs handler.
func NewInquiriesHandler(assignments *service.AssignmentService, mediaStore *media.Store) *InquiriesHandler {
	return &InquiriesHandler{assignments: assignments, media: mediaStore}
}

// ListClaimable GET /api/employee/inquiries.
func (h *InquiriesHandler) ListClaimable(c *fiber.Ctx) error {
	account, ok := auth.AccountFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	items, err := h.assignments.ListClaimable(c.Context(), account)
	if err != nil {
		return err
	}

	summaries := make([]dto.InquirySummary, 0, len(items))
	for i := range items {
		summaries = append(summaries, inquirySummary(&items[i]))
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"items": summaries}})
}

// GetInquiry GET /api/employee/inquiries/:id.
func (h *InquiriesHandler) GetInquiry(c *fiber.Ctx) error {
	account, ok := auth.AccountFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	inquiry, err := h.assignments.ViewDetail(c.Context(), account, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": inquiryDetail(inquiry)})
}

// Claim PATCH /api/employee/inquiries/:id/claim.
func (h *InquiriesHandler) Claim(c *fiber.Ctx) error {
	account, ok := auth.AccountFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	inquiry, err := h.assignments.Claim(c.Context(), account, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": inquiryDetail(inquiry)})
}

// Release POST /api/employee/inquiries/:id/release. Multipart form with a
// proof image (file field "proofImage") and an optional note.
func (h *InquiriesHandler) Release(c *fiber.Ctx) error {
	account, ok := auth.AccountFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	file, err := c.FormFile("proofImage")
	if err != nil || file == nil {
		return apperrors.NewValidationError("proof image is required", nil)
	}
	proofURL, err := h.media.Save(file, media.KindProof)
	if err != nil {
		return err
	}

	inquiry, err := h.assignments.Release(c.Context(), account, c.Params("id"), proofURL, c.FormValue("note"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": inquiryDetail(inquiry)})
}
