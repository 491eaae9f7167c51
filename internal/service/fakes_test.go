package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/inquiry-service/internal/domain"
	"github.com/spec-kit/inquiry-service/internal/repository"
)

// memInquiryRepo is an in-memory InquiryRepository. ClaimForOwner and
// MarkReleased hold the mutex for the whole check-and-set, mirroring the
// conditional-update guarantee of the SQL implementation.
type memInquiryRepo struct {
	mu      sync.Mutex
	rows    map[string]*domain.Inquiry
	seq     map[string]int
	nextSeq int
}

func newMemInquiryRepo() *memInquiryRepo {
	return &memInquiryRepo{
		rows: make(map[string]*domain.Inquiry),
		seq:  make(map[string]int),
	}
}

func copyInquiry(in *domain.Inquiry) *domain.Inquiry {
	out := *in
	if in.OwnerID != nil {
		owner := *in.OwnerID
		out.OwnerID = &owner
	}
	if in.ReleasedBy != nil {
		by := *in.ReleasedBy
		out.ReleasedBy = &by
	}
	if in.ReleasedAt != nil {
		at := *in.ReleasedAt
		out.ReleasedAt = &at
	}
	return &out
}

func (r *memInquiryRepo) Create(_ context.Context, inquiry *domain.Inquiry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inquiry.ID = uuid.NewString()
	inquiry.CreatedAt = time.Now()
	inquiry.UpdatedAt = inquiry.CreatedAt
	r.nextSeq++
	r.seq[inquiry.ID] = r.nextSeq
	r.rows[inquiry.ID] = copyInquiry(inquiry)
	return nil
}

func (r *memInquiryRepo) GetByID(_ context.Context, id string) (*domain.Inquiry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return copyInquiry(row), nil
}

func (r *memInquiryRepo) ListClaimable(_ context.Context) ([]domain.Inquiry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Inquiry
	for _, row := range r.rows {
		if copyInquiry(row).Claimable() {
			result = append(result, *copyInquiry(row))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return r.seq[result[i].ID] > r.seq[result[j].ID]
	})
	return result, nil
}

func (r *memInquiryRepo) matches(row *domain.Inquiry, filter repository.InquiryFilter) bool {
	if filter.Status != nil && row.Status != *filter.Status {
		return false
	}
	if filter.OwnerID != nil && (row.OwnerID == nil || *row.OwnerID != *filter.OwnerID) {
		return false
	}
	if filter.PhoneContains != nil {
		needle := strings.ToLower(strings.TrimSpace(*filter.PhoneContains))
		if needle != "" && !strings.Contains(strings.ToLower(row.Phone), needle) {
			return false
		}
	}
	return true
}

func (r *memInquiryRepo) ListWithFilter(_ context.Context, filter repository.InquiryFilter) ([]domain.Inquiry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Inquiry
	for _, row := range r.rows {
		if r.matches(row, filter) {
			result = append(result, *copyInquiry(row))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return r.seq[result[i].ID] > r.seq[result[j].ID]
	})

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(result) {
		return nil, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], nil
}

func (r *memInquiryRepo) CountWithFilter(_ context.Context, filter repository.InquiryFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, row := range r.rows {
		if r.matches(row, filter) {
			count++
		}
	}
	return count, nil
}

func (r *memInquiryRepo) ClaimForOwner(_ context.Context, id, ownerID string) (*domain.Inquiry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	claimable := row.Status == domain.InquiryStatusNew ||
		row.Status == domain.InquiryStatusAssigned ||
		row.Status == domain.InquiryStatusReopened
	if !claimable {
		return nil, pgx.ErrNoRows
	}
	if row.OwnerID != nil && *row.OwnerID != ownerID {
		return nil, pgx.ErrNoRows
	}
	row.Status = domain.InquiryStatusInProgress
	owner := ownerID
	row.OwnerID = &owner
	row.UpdatedAt = time.Now()
	return copyInquiry(row), nil
}

func (r *memInquiryRepo) MarkReleased(_ context.Context, id, ownerID, proofURL, note string, releasedAt time.Time) (*domain.Inquiry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if row.OwnerID == nil || *row.OwnerID != ownerID {
		return nil, pgx.ErrNoRows
	}
	if row.Status == domain.InquiryStatusReleased {
		return nil, pgx.ErrNoRows
	}
	row.Status = domain.InquiryStatusReleased
	at := releasedAt
	row.ReleasedAt = &at
	by := ownerID
	row.ReleasedBy = &by
	row.ReleaseNote = note
	row.ProofURL = proofURL
	row.UpdatedAt = time.Now()
	return copyInquiry(row), nil
}

func (r *memInquiryRepo) CountAll(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.rows)), nil
}

func (r *memInquiryRepo) CountByStatuses(_ context.Context, statuses []domain.InquiryStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, row := range r.rows {
		for _, status := range statuses {
			if row.Status == status {
				count++
				break
			}
		}
	}
	return count, nil
}

func (r *memInquiryRepo) OwnerCounts(_ context.Context) ([]repository.OwnerCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byOwner := make(map[string]*repository.OwnerCount)
	for _, row := range r.rows {
		if row.OwnerID == nil {
			continue
		}
		entry, ok := byOwner[*row.OwnerID]
		if !ok {
			entry = &repository.OwnerCount{OwnerID: *row.OwnerID}
			byOwner[*row.OwnerID] = entry
		}
		switch row.Status {
		case domain.InquiryStatusAssigned, domain.InquiryStatusInProgress:
			entry.AssignedOrInProgress++
		case domain.InquiryStatusReleased:
			entry.Released++
		}
	}
	result := make([]repository.OwnerCount, 0, len(byOwner))
	for _, entry := range byOwner {
		result = append(result, *entry)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].OwnerID < result[j].OwnerID })
	return result, nil
}

// setStatus seeds reserved states (ASSIGNED, REOPENED) that no service
// operation produces.
func (r *memInquiryRepo) setStatus(id string, status domain.InquiryStatus, ownerID *string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row := r.rows[id]
	row.Status = status
	row.OwnerID = ownerID
}

// memAccountRepo is an in-memory AccountRepository.
type memAccountRepo struct {
	mu   sync.Mutex
	rows map[string]*domain.Account
	seq  []string
}

func newMemAccountRepo() *memAccountRepo {
	return &memAccountRepo{rows: make(map[string]*domain.Account)}
}

func copyAccount(in *domain.Account) *domain.Account {
	out := *in
	return &out
}

func (r *memAccountRepo) Create(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	account.ID = uuid.NewString()
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	r.rows[account.ID] = copyAccount(account)
	r.seq = append(r.seq, account.ID)
	return nil
}

func (r *memAccountRepo) Update(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[account.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.rows[account.ID] = copyAccount(account)
	return nil
}

func (r *memAccountRepo) GetByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return copyAccount(row), nil
}

func (r *memAccountRepo) GetByHandle(_ context.Context, handle string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if strings.EqualFold(row.Handle, handle) {
			return copyAccount(row), nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memAccountRepo) List(_ context.Context, filter repository.AccountFilter) ([]domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Account
	for _, id := range r.seq {
		row := r.rows[id]
		if filter.Role != nil && row.Role != *filter.Role {
			continue
		}
		if filter.IsActive != nil && row.IsActive != *filter.IsActive {
			continue
		}
		result = append(result, *copyAccount(row))
	}
	return result, nil
}

// memHistoryRepo is an in-memory InquiryHistoryRepository.
type memHistoryRepo struct {
	mu      sync.Mutex
	entries []domain.InquiryHistory
}

func newMemHistoryRepo() *memHistoryRepo {
	return &memHistoryRepo{}
}

func (r *memHistoryRepo) Create(_ context.Context, entry *domain.InquiryHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry.ID = uuid.NewString()
	entry.CreatedAt = time.Now()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *memHistoryRepo) ListByInquiry(_ context.Context, inquiryID string, limit, offset int) ([]domain.InquiryHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.InquiryHistory
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].InquiryID == inquiryID {
			result = append(result, r.entries[i])
		}
	}
	if limit <= 0 {
		limit = 50
	}
	if offset >= len(result) {
		return nil, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], nil
}

func testEmployee(name string) *domain.Account {
	return &domain.Account{
		ID:       uuid.NewString(),
		Name:     name,
		Handle:   strings.ToLower(name),
		Role:     domain.RoleEmployee,
		IsActive: true,
	}
}

func testAdmin() *domain.Account {
	return &domain.Account{
		ID:       uuid.NewString(),
		Name:     "Admin",
		Handle:   "admin",
		Role:     domain.RoleAdmin,
		IsActive: true,
	}
}

func newTestAssignmentService() (*AssignmentService, *memInquiryRepo, *memHistoryRepo) {
	inquiries := newMemInquiryRepo()
	history := newMemHistoryRepo()
	svc := NewAssignmentService(AssignmentDependencies{
		InquiryRepo: inquiries,
		HistoryRepo: history,
	})
	return svc, inquiries, history
}
