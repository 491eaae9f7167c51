package domain

import "time"

// InquiryStatus enumerates lifecycle states for inquiries.
type InquiryStatus string

const (
	InquiryStatusNew        InquiryStatus = "NEW"
	InquiryStatusAssigned   InquiryStatus = "ASSIGNED"
	InquiryStatusInProgress InquiryStatus = "IN_PROGRESS"
	InquiryStatusReleased   InquiryStatus = "RELEASED"
	InquiryStatusReopened   InquiryStatus = "REOPENED"
)

// ClaimableStatuses are the states an unowned inquiry may be claimed from.
// ASSIGNED and REOPENED are reserved for pre-assignment and reopen workflows;
// they stay claimable even though no operation here produces them.
var ClaimableStatuses = []InquiryStatus{
	InquiryStatusNew,
	InquiryStatusAssigned,
	InquiryStatusReopened,
}

// PendingStatuses are every non-terminal state, used for dashboard counts.
var PendingStatuses = []InquiryStatus{
	InquiryStatusNew,
	InquiryStatusAssigned,
	InquiryStatusInProgress,
	InquiryStatusReopened,
}

// IsValidInquiryStatus reports whether s is a known status value.
func IsValidInquiryStatus(s InquiryStatus) bool {
	switch s {
	case InquiryStatusNew, InquiryStatusAssigned, InquiryStatusInProgress,
		InquiryStatusReleased, InquiryStatusReopened:
		return true
	}
	return false
}

// Inquiry is the aggregate for customer-submitted requests.
type Inquiry struct {
	ID          string
	Phone       string
	Text        string
	VoiceURL    string
	Status      InquiryStatus
	OwnerID     *string
	ReleasedAt  *time.Time
	ReleasedBy  *string
	ReleaseNote string
	ProofURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Claimable reports whether the inquiry sits in the shared queue.
func (i *Inquiry) Claimable() bool {
	for _, status := range ClaimableStatuses {
		if i.Status == status {
			return true
		}
	}
	return false
}

// OwnedBy reports whether the given account currently holds the inquiry.
func (i *Inquiry) OwnedBy(accountID string) bool {
	return i.OwnerID != nil && *i.OwnerID == accountID
}
