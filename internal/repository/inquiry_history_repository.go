package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/inquiry-service/internal/domain"
)

// InquiryHistoryRepository persists immutable audit entries.
type InquiryHistoryRepository interface {
	Create(ctx context.Context, entry *domain.InquiryHistory) error
	ListByInquiry(ctx context.Context, inquiryID string, limit, offset int) ([]domain.InquiryHistory, error)
}

type inquiryHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewInquiryHistoryRepository constructs repository.
func NewInquiryHistoryRepository(pool *pgxpool.Pool) InquiryHistoryRepository {
	return &inquiryHistoryRepository{pool: pool}
}

func (r *inquiryHistoryRepository) Create(ctx context.Context, entry *domain.InquiryHistory) error {
	const query = `
        INSERT INTO inquiry_history (inquiry_id, changed_by, change_type, old_value, new_value)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		entry.InquiryID,
		entry.ChangedByID,
		entry.ChangeType,
		entry.OldValue,
		entry.NewValue,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *inquiryHistoryRepository) ListByInquiry(ctx context.Context, inquiryID string, limit, offset int) ([]domain.InquiryHistory, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, inquiry_id, changed_by, change_type, old_value, new_value, created_at
        FROM inquiry_history
        WHERE inquiry_id=$1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, inquiryID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.InquiryHistory
	for rows.Next() {
		var entry domain.InquiryHistory
		if err := rows.Scan(
			&entry.ID,
			&entry.InquiryID,
			&entry.ChangedByID,
			&entry.ChangeType,
			&entry.OldValue,
			&entry.NewValue,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
