package events

import (
	"time"

	"github.com/spec-kit/inquiry-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventInquiryCreated  EventType = "inquiry_created"
	EventInquiryClaimed  EventType = "inquiry_claimed"
	EventInquiryReleased EventType = "inquiry_released"
)

// Actor encapsulates actor metadata for an event. AccountID is nil for
// anonymous public submissions.
type Actor struct {
	AccountID *string `json:"account_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	InquiryID string      `json:"inquiry_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// InquiryCreatedPayload payload.
type InquiryCreatedPayload struct {
	Phone    string `json:"phone"`
	HasText  bool   `json:"has_text"`
	HasVoice bool   `json:"has_voice"`
}

// InquiryClaimedPayload payload.
type InquiryClaimedPayload struct {
	OwnerID   string               `json:"owner_id"`
	OldStatus domain.InquiryStatus `json:"old_status"`
}

// InquiryReleasedPayload payload.
type InquiryReleasedPayload struct {
	ReleasedBy string `json:"released_by"`
	ProofURL   string `json:"proof_url"`
	Note       string `json:"note,omitempty"`
}
