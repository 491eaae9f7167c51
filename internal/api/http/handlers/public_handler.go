package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/inquiry-service/internal/api/dto"
	"github.com/spec-kit/inquiry-service/internal/media"
	"github.com/spec-kit/inquiry-service/internal/service"
)

// PublicHandler exposes the anonymous intake endpoint.
type PublicHandler struct {
	assignments *service.AssignmentService
	media       *media.Store
}

// NewPublicHandler constructs handler.
func NewPublicHandler(assignments *service.AssignmentService, mediaStore *media.Store) *PublicHandler {
	return &PublicHandler{assignments: assignments, media: mediaStore}
}

// SubmitInquiry POST /api/public/inquiries. Multipart form with phone, text
// (optional) and a voice recording (optional file field "voice"); at least
// one of text or voice must be present.
func (h *PublicHandler) SubmitInquiry(c *fiber.Ctx) error {
	phone := c.FormValue("phone")
	text := c.FormValue("text")

	voiceURL := ""
	if file, err := c.FormFile("voice"); err == nil && file != nil {
		url, err := h.media.Save(file, media.KindVoice)
		if err != nil {
			return err
		}
		voiceURL = url
	}

	inquiry, err := h.assignments.Create(c.Context(), service.InquiryCreateInput{
		Phone:    phone,
		Text:     text,
		VoiceURL: voiceURL,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.InquiryCreatedResponse{
			InquiryID: inquiry.ID,
			Status:    inquiry.Status,
		},
	})
}
