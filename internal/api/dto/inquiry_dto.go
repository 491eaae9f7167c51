package dto

import (
	"time"

	"github.com/spec-kit/inquiry-service/internal/domain"
)

// InquirySummary is the queue/listing representation of an inquiry.
type InquirySummary struct {
	ID        string               `json:"id"`
	Phone     string               `json:"phone"`
	Text      string               `json:"text,omitempty"`
	VoiceURL  string               `json:"voice_url,omitempty"`
	Status    domain.InquiryStatus `json:"status"`
	OwnerID   *string              `json:"owner_id,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// InquiryDetailResponse adds the release fields.
type InquiryDetailResponse struct {
	InquirySummary
	ReleasedAt  *time.Time `json:"released_at,omitempty"`
	ReleasedBy  *string    `json:"released_by,omitempty"`
	ReleaseNote string     `json:"release_note,omitempty"`
	ProofURL    string     `json:"proof_url,omitempty"`
}

// InquiryCreatedResponse is the public submission acknowledgment.
type InquiryCreatedResponse struct {
	InquiryID string               `json:"inquiry_id"`
	Status    domain.InquiryStatus `json:"status"`
}

// InquiryListResponse is a paginated admin listing.
type InquiryListResponse struct {
	Items []InquirySummary `json:"items"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

// InquiryHistoryResponse is one audit trail entry.
type InquiryHistoryResponse struct {
	ID          string                   `json:"id"`
	ChangeType  domain.InquiryChangeType `json:"change_type"`
	ChangedByID *string                  `json:"changed_by,omitempty"`
	OldValue    map[string]any           `json:"old_value"`
	NewValue    map[string]any           `json:"new_value"`
	CreatedAt   time.Time                `json:"created_at"`
}
