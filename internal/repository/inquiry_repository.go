package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/inquiry-service/internal/domain"
)

// InquiryFilter captures admin search parameters.
type InquiryFilter struct {
	Status        *domain.InquiryStatus
	OwnerID       *string
	PhoneContains *string
	Limit         int
	Offset        int
}

// OwnerCount aggregates inquiry counts per owning account.
type OwnerCount struct {
	OwnerID              string
	AssignedOrInProgress int64
	Released             int64
}

// InquiryRepository encapsulates inquiry persistence. ClaimForOwner and
// MarkReleased are single conditional updates; they either commit the
// transition or affect zero rows, never a read-then-write pair.
type InquiryRepository interface {
	Create(ctx context.Context, inquiry *domain.Inquiry) error
	GetByID(ctx context.Context, id string) (*domain.Inquiry, error)
	ListClaimable(ctx context.Context) ([]domain.Inquiry, error)
	ListWithFilter(ctx context.Context, filter InquiryFilter) ([]domain.Inquiry, error)
	CountWithFilter(ctx context.Context, filter InquiryFilter) (int64, error)
	ClaimForOwner(ctx context.Context, id, ownerID string) (*domain.Inquiry, error)
	MarkReleased(ctx context.Context, id, ownerID, proofURL, note string, releasedAt time.Time) (*domain.Inquiry, error)
	CountAll(ctx context.Context) (int64, error)
	CountByStatuses(ctx context.Context, statuses []domain.InquiryStatus) (int64, error)
	OwnerCounts(ctx context.Context) ([]OwnerCount, error)
}

type inquiryRepository struct {
	pool *pgxpool.Pool
}

// NewInquiryRepository instantiates repository.
func NewInquiryRepository(pool *pgxpool.Pool) InquiryRepository {
	return &inquiryRepository{pool: pool}
}

const inquiryColumns = `id, phone, text_body, voice_url, status, owner_account_id,
               released_at, released_by, release_note, proof_url, created_at, updated_at`

func (r *inquiryRepository) Create(ctx context.Context, inquiry *domain.Inquiry) error {
	const query = `
        INSERT INTO inquiries (phone, text_body, voice_url, status)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		inquiry.Phone,
		inquiry.Text,
		inquiry.VoiceURL,
		inquiry.Status,
	).Scan(&inquiry.ID, &inquiry.CreatedAt, &inquiry.UpdatedAt)
}

func (r *inquiryRepository) GetByID(ctx context.Context, id string) (*domain.Inquiry, error) {
	query := `SELECT ` + inquiryColumns + ` FROM inquiries WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *inquiryRepository) ListClaimable(ctx context.Context) ([]domain.Inquiry, error) {
	args, placeholders := statusArgs(domain.ClaimableStatuses, 0)
	query := fmt.Sprintf(`SELECT %s FROM inquiries WHERE status IN (%s) ORDER BY created_at DESC`,
		inquiryColumns, placeholders)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanInquiries(rows)
}

// ClaimForOwner is the compare-and-swap behind Claim. The WHERE clause admits
// only unowned or self-owned claimable rows, so concurrent claims on one
// inquiry serialize at the database and at most one requester wins. The
// already-in-progress self-owned case affects zero rows; the service treats
// it as an idempotent success after re-reading.
func (r *inquiryRepository) ClaimForOwner(ctx context.Context, id, ownerID string) (*domain.Inquiry, error) {
	const query = `
        UPDATE inquiries
        SET status=$2, owner_account_id=$3, updated_at=NOW()
        WHERE id=$1
          AND status IN ('NEW','ASSIGNED','REOPENED')
          AND (owner_account_id IS NULL OR owner_account_id=$3)
        RETURNING ` + inquiryColumns
	return r.fetchSingle(ctx, query, id, domain.InquiryStatusInProgress, ownerID)
}

// MarkReleased commits the terminal transition, guarded on current ownership
// and on the row not already being released.
func (r *inquiryRepository) MarkReleased(ctx context.Context, id, ownerID, proofURL, note string, releasedAt time.Time) (*domain.Inquiry, error) {
	const query = `
        UPDATE inquiries
        SET status=$2, released_at=$3, released_by=$4, release_note=$5, proof_url=$6, updated_at=NOW()
        WHERE id=$1 AND owner_account_id=$4 AND status <> $2
        RETURNING ` + inquiryColumns
	return r.fetchSingle(ctx, query, id, domain.InquiryStatusReleased, releasedAt, ownerID, note, proofURL)
}

func (r *inquiryRepository) ListWithFilter(ctx context.Context, filter InquiryFilter) ([]domain.Inquiry, error) {
	clauses, args := filterClauses(filter)

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM inquiries WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		inquiryColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanInquiries(rows)
}

func (r *inquiryRepository) CountWithFilter(ctx context.Context, filter InquiryFilter) (int64, error) {
	clauses, args := filterClauses(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM inquiries WHERE %s`, strings.Join(clauses, " AND "))

	var count int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *inquiryRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM inquiries`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *inquiryRepository) CountByStatuses(ctx context.Context, statuses []domain.InquiryStatus) (int64, error) {
	if len(statuses) == 0 {
		return 0, nil
	}
	args, placeholders := statusArgs(statuses, 0)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM inquiries WHERE status IN (%s)`, placeholders)

	var count int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *inquiryRepository) OwnerCounts(ctx context.Context) ([]OwnerCount, error) {
	const query = `
        SELECT owner_account_id,
               COUNT(*) FILTER (WHERE status IN ('ASSIGNED','IN_PROGRESS')),
               COUNT(*) FILTER (WHERE status = 'RELEASED')
        FROM inquiries
        WHERE owner_account_id IS NOT NULL
        GROUP BY owner_account_id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []OwnerCount
	for rows.Next() {
		var entry OwnerCount
		if err := rows.Scan(&entry.OwnerID, &entry.AssignedOrInProgress, &entry.Released); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

func (r *inquiryRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Inquiry, error) {
	var inquiry domain.Inquiry
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&inquiry.ID,
		&inquiry.Phone,
		&inquiry.Text,
		&inquiry.VoiceURL,
		&inquiry.Status,
		&inquiry.OwnerID,
		&inquiry.ReleasedAt,
		&inquiry.ReleasedBy,
		&inquiry.ReleaseNote,
		&inquiry.ProofURL,
		&inquiry.CreatedAt,
		&inquiry.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &inquiry, nil
}

func filterClauses(filter InquiryFilter) ([]string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		clauses = append(clauses, fmt.Sprintf("owner_account_id=$%d", len(args)))
	}
	if filter.PhoneContains != nil && strings.TrimSpace(*filter.PhoneContains) != "" {
		args = append(args, "%"+strings.TrimSpace(*filter.PhoneContains)+"%")
		clauses = append(clauses, fmt.Sprintf("phone ILIKE $%d", len(args)))
	}
	return clauses, args
}

func statusArgs(statuses []domain.InquiryStatus, offset int) ([]any, string) {
	args := make([]any, 0, len(statuses))
	placeholders := make([]string, 0, len(statuses))
	for i, status := range statuses {
		args = append(args, status)
		placeholders = append(placeholders, fmt.Sprintf("$%d", offset+i+1))
	}
	return args, strings.Join(placeholders, ",")
}

func scanInquiries(rows pgx.Rows) ([]domain.Inquiry, error) {
	var result []domain.Inquiry
	for rows.Next() {
		var inquiry domain.Inquiry
		if err := rows.Scan(
			&inquiry.ID,
			&inquiry.Phone,
			&inquiry.Text,
			&inquiry.VoiceURL,
			&inquiry.Status,
			&inquiry.OwnerID,
			&inquiry.ReleasedAt,
			&inquiry.ReleasedBy,
			&inquiry.ReleaseNote,
			&inquiry.ProofURL,
			&inquiry.CreatedAt,
			&inquiry.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, inquiry)
	}
	return result, rows.Err()
}
