package domain

import "time"

// InquiryChangeType captures what changed in a history entry.
type InquiryChangeType string

const (
	ChangeTypeStatus InquiryChangeType = "STATUS_CHANGE"
	ChangeTypeOwner  InquiryChangeType = "OWNER_CHANGE"
)

// InquiryHistory is an immutable audit trail entry. Inquiries are never
// deleted, so the trail plus the row itself form the full record.
type InquiryHistory struct {
	ID          string
	InquiryID   string
	ChangedByID *string
	ChangeType  InquiryChangeType
	OldValue    map[string]any
	NewValue    map[string]any
	CreatedAt   time.Time
}
