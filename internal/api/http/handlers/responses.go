package handlers

import (
	"github.com/spec-kit/inquiry-service/internal/api/dto"
	"github.com/spec-kit/inquiry-service/internal/domain"
)

func inquirySummary(inquiry *domain.Inquiry) dto.InquirySummary {
	return dto.InquirySummary{
		ID:        inquiry.ID,
		Phone:     inquiry.Phone,
		Text:      inquiry.Text,
		VoiceURL:  inquiry.VoiceURL,
		Status:    inquiry.Status,
		OwnerID:   inquiry.OwnerID,
		CreatedAt: inquiry.CreatedAt,
		UpdatedAt: inquiry.UpdatedAt,
	}
}

func inquiryDetail(inquiry *domain.Inquiry) dto.InquiryDetailResponse {
	return dto.InquiryDetailResponse{
		InquirySummary: inquirySummary(inquiry),
		ReleasedAt:     inquiry.ReleasedAt,
		ReleasedBy:     inquiry.ReleasedBy,
		ReleaseNote:    inquiry.ReleaseNote,
		ProofURL:       inquiry.ProofURL,
	}
}

func accountResponse(account *domain.Account) dto.AccountResponse {
	return dto.AccountResponse{
		ID:        account.ID,
		Name:      account.Name,
		Handle:    account.Handle,
		Role:      account.Role,
		IsActive:  account.IsActive,
		CreatedAt: account.CreatedAt,
	}
}

func historyResponses(entries []domain.InquiryHistory) []dto.InquiryHistoryResponse {
	resp := make([]dto.InquiryHistoryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, dto.InquiryHistoryResponse{
			ID:          entry.ID,
			ChangeType:  entry.ChangeType,
			ChangedByID: entry.ChangedByID,
			OldValue:    entry.OldValue,
			NewValue:    entry.NewValue,
			CreatedAt:   entry.CreatedAt,
		})
	}
	return resp
}
