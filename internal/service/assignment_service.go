package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/inquiry-service/internal/domain"
	"github.com/spec-kit/inquiry-service/internal/events"
	"github.com/spec-kit/inquiry-service/internal/repository"
	apperrors "github.com/spec-kit/inquiry-service/pkg/util"
)

// AssignmentService enforces the inquiry lifecycle: creation, the shared
// claimable queue, per-owner visibility, and the claim/release transitions.
// Every operation takes the requesting account explicitly.
type AssignmentService struct {
	inquiries  repository.InquiryRepository
	history    repository.InquiryHistoryRepository
	dispatcher events.Dispatcher
}

// AssignmentDependencies bundles repositories.
type AssignmentDependencies struct {
	InquiryRepo repository.InquiryRepository
	HistoryRepo repository.InquiryHistoryRepository
	Dispatcher  events.Dispatcher
}

// NewAssignmentService creates the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	return &AssignmentService{
		inquiries:  deps.InquiryRepo,
		history:    deps.HistoryRepo,
		dispatcher: deps.Dispatcher,
	}
}

// InquiryCreateInput describes a public submission.
type InquiryCreateInput struct {
	Phone    string
	Text     string
	VoiceURL string
}

// Create accepts a public submission. Requires a phone number and at least
// one of text or voice.
func (s *AssignmentService) Create(ctx context.Context, input InquiryCreateInput) (*domain.Inquiry, error) {
	phone := strings.TrimSpace(input.Phone)
	text := strings.TrimSpace(input.Text)
	voice := strings.TrimSpace(input.VoiceURL)

	if phone == "" {
		return nil, apperrors.NewValidationError("phone is required", nil)
	}
	if text == "" && voice == "" {
		return nil, apperrors.NewValidationError("either text or voice is required", nil)
	}

	inquiry := &domain.Inquiry{
		Phone:    phone,
		Text:     text,
		VoiceURL: voice,
		Status:   domain.InquiryStatusNew,
	}
	if err := s.inquiries.Create(ctx, inquiry); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventInquiryCreated,
		InquiryID: inquiry.ID,
		Payload: events.InquiryCreatedPayload{
			Phone:    inquiry.Phone,
			HasText:  text != "",
			HasVoice: voice != "",
		},
	})
	return inquiry, nil
}

// ListClaimable returns the shared queue, newest first. Whoever claims first
// wins; listing implies no reservation.
func (s *AssignmentService) ListClaimable(ctx context.Context, requester *domain.Account) ([]domain.Inquiry, error) {
	if requester == nil {
		return nil, apperrors.NewUnauthorized("account required")
	}
	items, err := s.inquiries.ListClaimable(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}

// ViewDetail returns the inquiry if it is still claimable or if the requester
// currently holds it. Inquiries held by others are off limits.
func (s *AssignmentService) ViewDetail(ctx context.Context, requester *domain.Account, inquiryID string) (*domain.Inquiry, error) {
	if requester == nil {
		return nil, apperrors.NewUnauthorized("account required")
	}
	inquiry, err := s.inquiries.GetByID(ctx, inquiryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("inquiry", map[string]any{"inquiry_id": inquiryID})
		}
		return nil, apperrors.MapError(err)
	}
	if !inquiry.Claimable() && !inquiry.OwnedBy(requester.ID) {
		return nil, apperrors.NewForbidden("inquiry is held by another account")
	}
	return inquiry, nil
}

// Claim takes ownership of an inquiry with at-most-one-winner semantics.
// The transition is a single conditional update; when it affects no row the
// current state is re-read to classify the failure.
func (s *AssignmentService) Claim(ctx context.Context, requester *domain.Account, inquiryID string) (*domain.Inquiry, error) {
	if requester == nil {
		return nil, apperrors.NewUnauthorized("account required")
	}

	inquiry, err := s.inquiries.ClaimForOwner(ctx, inquiryID, requester.ID)
	if err == nil {
		s.recordClaim(ctx, requester.ID, inquiry)
		s.publishEvent(ctx, events.Event{
			Type:      events.EventInquiryClaimed,
			InquiryID: inquiry.ID,
			Actor:     events.Actor{AccountID: &requester.ID},
			Payload: events.InquiryClaimedPayload{
				OwnerID: requester.ID,
			},
		})
		return inquiry, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	return s.classifyClaimFailure(ctx, requester, inquiryID)
}

// classifyClaimFailure explains a lost compare-and-swap. The re-read races
// with other writers but only terminal or owned states reach here, and those
// never revert to claimable, so the classification stays truthful.
func (s *AssignmentService) classifyClaimFailure(ctx context.Context, requester *domain.Account, inquiryID string) (*domain.Inquiry, error) {
	inquiry, err := s.inquiries.GetByID(ctx, inquiryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("inquiry", map[string]any{"inquiry_id": inquiryID})
		}
		return nil, apperrors.MapError(err)
	}

	switch {
	case inquiry.Status == domain.InquiryStatusReleased:
		return nil, apperrors.NewConflict("inquiry already released", map[string]any{"inquiry_id": inquiryID})
	case inquiry.OwnedBy(requester.ID) && inquiry.Status == domain.InquiryStatusInProgress:
		// Idempotent re-claim: already held by the requester, nothing to change.
		return inquiry, nil
	case inquiry.OwnerID != nil && !inquiry.OwnedBy(requester.ID):
		return nil, apperrors.NewConflict("inquiry taken by another employee", map[string]any{"inquiry_id": inquiryID})
	default:
		return nil, apperrors.NewInvalidState("inquiry cannot be claimed from its current status",
			map[string]any{"inquiry_id": inquiryID, "status": inquiry.Status})
	}
}

// Release marks a held inquiry resolved. Requires the requester to hold the
// inquiry and a stored proof reference. Terminal: no transition leaves
// RELEASED.
func (s *AssignmentService) Release(ctx context.Context, requester *domain.Account, inquiryID, proofURL, note string) (*domain.Inquiry, error) {
	if requester == nil {
		return nil, apperrors.NewUnauthorized("account required")
	}
	if strings.TrimSpace(proofURL) == "" {
		return nil, apperrors.NewValidationError("proof image is required", nil)
	}
	note = strings.TrimSpace(note)

	inquiry, err := s.inquiries.MarkReleased(ctx, inquiryID, requester.ID, proofURL, note, time.Now())
	if err == nil {
		s.recordRelease(ctx, requester.ID, inquiry)
		s.publishEvent(ctx, events.Event{
			Type:      events.EventInquiryReleased,
			InquiryID: inquiry.ID,
			Actor:     events.Actor{AccountID: &requester.ID},
			Payload: events.InquiryReleasedPayload{
				ReleasedBy: requester.ID,
				ProofURL:   proofURL,
				Note:       note,
			},
		})
		return inquiry, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	return nil, s.classifyReleaseFailure(ctx, requester, inquiryID)
}

func (s *AssignmentService) classifyReleaseFailure(ctx context.Context, requester *domain.Account, inquiryID string) error {
	inquiry, err := s.inquiries.GetByID(ctx, inquiryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("inquiry", map[string]any{"inquiry_id": inquiryID})
		}
		return apperrors.MapError(err)
	}

	switch {
	case inquiry.Status == domain.InquiryStatusReleased:
		return apperrors.NewConflict("inquiry already released", map[string]any{"inquiry_id": inquiryID})
	case !inquiry.OwnedBy(requester.ID):
		return apperrors.NewForbidden("inquiry must be claimed before release")
	default:
		return apperrors.NewInvalidState("inquiry cannot be released from its current status",
			map[string]any{"inquiry_id": inquiryID, "status": inquiry.Status})
	}
}

func (s *AssignmentService) recordClaim(ctx context.Context, actorID string, inquiry *domain.Inquiry) {
	if s.history == nil {
		return
	}
	_ = s.history.Create(ctx, &domain.InquiryHistory{
		InquiryID:   inquiry.ID,
		ChangedByID: &actorID,
		ChangeType:  domain.ChangeTypeOwner,
		OldValue:    map[string]any{"owner_account_id": nil},
		NewValue: map[string]any{
			"owner_account_id": actorID,
			"status":           inquiry.Status,
		},
	})
}

func (s *AssignmentService) recordRelease(ctx context.Context, actorID string, inquiry *domain.Inquiry) {
	if s.history == nil {
		return
	}
	_ = s.history.Create(ctx, &domain.InquiryHistory{
		InquiryID:   inquiry.ID,
		ChangedByID: &actorID,
		ChangeType:  domain.ChangeTypeStatus,
		OldValue:    map[string]any{"owner_account_id": actorID},
		NewValue: map[string]any{
			"status":    inquiry.Status,
			"proof_url": inquiry.ProofURL,
		},
	})
}

func (s *AssignmentService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
