package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/inquiry-service/internal/auth"
	"github.com/spec-kit/inquiry-service/internal/config"
	"github.com/spec-kit/inquiry-service/internal/domain"
	"github.com/spec-kit/inquiry-service/internal/repository"
	apperrors "github.com/spec-kit/inquiry-service/pkg/util"
)

// AuthService coordinates login and credential changes.
type AuthService struct {
	accounts    repository.AccountRepository
	tokenMgr    *auth.TokenManager
	bcryptCost  int
	minPassword int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, accounts repository.AccountRepository) *AuthService {
	return &AuthService{
		accounts:    accounts,
		tokenMgr:    auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost:  cfg.Auth.BcryptCost,
		minPassword: cfg.Auth.MinPasswordLength,
	}
}

// TokenManager exposes the manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Login authenticates a handle/password pair. Unknown handles, wrong
// passwords, and deactivated accounts all yield the same unauthorized error.
func (s *AuthService) Login(ctx context.Context, handle, password string) (*domain.Account, string, time.Time, error) {
	handle = strings.ToLower(strings.TrimSpace(handle))
	if handle == "" || password == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError("handle and password required", nil)
	}

	account, err := s.accounts.GetByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if !account.IsActive {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	token, exp, err := s.tokenMgr.GenerateToken(account.ID, account.Role)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return account, token, exp, nil
}

// ChangePassword lets an authenticated account rotate its own credential.
func (s *AuthService) ChangePassword(ctx context.Context, account *domain.Account, currentPassword, newPassword string) error {
	if account == nil {
		return apperrors.NewUnauthorized("account required")
	}
	if err := auth.ComparePassword(account.PasswordHash, currentPassword); err != nil {
		return apperrors.NewUnauthorized("current password incorrect")
	}
	newPassword = strings.TrimSpace(newPassword)
	if len(newPassword) < s.minPassword {
		return apperrors.NewValidationError("password too short",
			map[string]any{"min_length": s.minPassword})
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.MapError(err)
	}
	account.PasswordHash = hash
	if err := s.accounts.Update(ctx, account); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}
