package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/inquiry-service/internal/auth"
	"github.com/spec-kit/inquiry-service/internal/config"
	"github.com/spec-kit/inquiry-service/internal/domain"
	"github.com/spec-kit/inquiry-service/internal/repository"
	apperrors "github.com/spec-kit/inquiry-service/pkg/util"
)

// AccountService manages employee accounts. Accounts are deactivated, never
// deleted, so historical ownership references stay resolvable.
type AccountService struct {
	accounts    repository.AccountRepository
	bcryptCost  int
	minPassword int
}

// NewAccountService constructs the service.
func NewAccountService(cfg config.Config, accounts repository.AccountRepository) *AccountService {
	return &AccountService{
		accounts:    accounts,
		bcryptCost:  cfg.Auth.BcryptCost,
		minPassword: cfg.Auth.MinPasswordLength,
	}
}

// EmployeeUpdateInput carries the partial update fields. Nil means unchanged.
type EmployeeUpdateInput struct {
	Name     *string
	IsActive *bool
	Password *string
}

func requireAdmin(actor *domain.Account) error {
	if actor == nil {
		return apperrors.NewUnauthorized("account required")
	}
	if actor.Role != domain.RoleAdmin {
		return apperrors.NewForbidden("admin role required")
	}
	return nil
}

// CreateEmployee registers a new EMPLOYEE account. Handles are unique
// case-insensitively and stored lowercase.
func (s *AccountService) CreateEmployee(ctx context.Context, actor *domain.Account, name, handle, password string) (*domain.Account, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	handle = strings.ToLower(strings.TrimSpace(handle))
	if name == "" || handle == "" || password == "" {
		return nil, apperrors.NewValidationError("name, handle, password required", nil)
	}
	if len(password) < s.minPassword {
		return nil, apperrors.NewValidationError("password too short",
			map[string]any{"min_length": s.minPassword})
	}

	if _, err := s.accounts.GetByHandle(ctx, handle); err == nil {
		return nil, apperrors.NewConflict("handle already registered", map[string]any{"handle": handle})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	account := &domain.Account{
		Name:         name,
		Handle:       handle,
		PasswordHash: hash,
		Role:         domain.RoleEmployee,
		IsActive:     true,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, apperrors.MapError(err)
	}
	return account, nil
}

// UpdateEmployee applies a partial update to an EMPLOYEE account. Admin
// accounts are not editable through this path. Short passwords are rejected,
// matching the create-time policy.
func (s *AccountService) UpdateEmployee(ctx context.Context, actor *domain.Account, id string, input EmployeeUpdateInput) (*domain.Account, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("employee", map[string]any{"account_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	if account.Role != domain.RoleEmployee {
		return nil, apperrors.NewValidationError("target is not an employee", map[string]any{"account_id": id})
	}

	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		if trimmed == "" {
			return nil, apperrors.NewValidationError("name cannot be empty", nil)
		}
		account.Name = trimmed
	}
	if input.IsActive != nil {
		account.IsActive = *input.IsActive
	}
	if input.Password != nil {
		password := strings.TrimSpace(*input.Password)
		if len(password) < s.minPassword {
			return nil, apperrors.NewValidationError("password too short",
				map[string]any{"min_length": s.minPassword})
		}
		hash, err := auth.HashPassword(password, s.bcryptCost)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		account.PasswordHash = hash
	}

	if err := s.accounts.Update(ctx, account); err != nil {
		return nil, apperrors.MapError(err)
	}
	return account, nil
}

// SeedAdmin creates the bootstrap administrator account when its handle is
// not yet registered.
func (s *AccountService) SeedAdmin(ctx context.Context, cfg config.SeedConfig, logger *zap.Logger) error {
	handle := strings.ToLower(strings.TrimSpace(cfg.AdminHandle))
	if handle == "" || cfg.AdminPassword == "" {
		return nil
	}

	if _, err := s.accounts.GetByHandle(ctx, handle); err == nil {
		logger.Info("admin account already present", zap.String("handle", handle))
		return nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := auth.HashPassword(cfg.AdminPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	account := &domain.Account{
		Name:         cfg.AdminName,
		Handle:       handle,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		IsActive:     true,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return err
	}
	logger.Info("admin account created", zap.String("handle", handle))
	return nil
}
