package auth

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/inquiry-service/internal/domain"
	"github.com/spec-kit/inquiry-service/internal/repository"
	apperrors "github.com/spec-kit/inquiry-service/pkg/util"
)

type stubAccountRepo struct {
	rows map[string]*domain.Account
}

func (r *stubAccountRepo) Create(_ context.Context, account *domain.Account) error {
	r.rows[account.ID] = account
	return nil
}

func (r *stubAccountRepo) Update(_ context.Context, account *domain.Account) error {
	r.rows[account.ID] = account
	return nil
}

func (r *stubAccountRepo) GetByID(_ context.Context, id string) (*domain.Account, error) {
	account, ok := r.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *account
	return &copied, nil
}

func (r *stubAccountRepo) GetByHandle(_ context.Context, _ string) (*domain.Account, error) {
	return nil, pgx.ErrNoRows
}

func (r *stubAccountRepo) List(_ context.Context, _ repository.AccountFilter) ([]domain.Account, error) {
	return nil, nil
}

func newAuthTestApp(t *testing.T) (*fiber.App, *TokenManager, *stubAccountRepo) {
	t.Helper()
	tokens := NewTokenManager("middleware-secret", 30)
	accounts := &stubAccountRepo{rows: make(map[string]*domain.Account)}
	middleware := NewAuthMiddleware(tokens, accounts)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.SendStatus(apperrors.ToDomainError(err).HTTPStatus)
		},
	})
	app.Get("/whoami", middleware.Handle, func(c *fiber.Ctx) error {
		account, ok := AccountFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("no principal")
		}
		return c.SendString(account.ID)
	})
	app.Get("/admin-only", middleware.Handle, RequireRole(domain.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app, tokens, accounts
}

func seedAccount(accounts *stubAccountRepo, role domain.AccountRole, active bool) *domain.Account {
	account := &domain.Account{ID: "acc-" + string(role), Role: role, IsActive: active}
	accounts.rows[account.ID] = account
	return account
}

func TestMiddlewareAcceptsValidToken(t *testing.T) {
	app, tokens, accounts := newAuthTestApp(t)
	account := seedAccount(accounts, domain.RoleEmployee, true)

	token, _, err := tokens.GenerateToken(account.ID, account.Role)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestMiddlewareRejections(t *testing.T) {
	app, tokens, accounts := newAuthTestApp(t)
	inactive := seedAccount(accounts, domain.RoleEmployee, false)

	inactiveToken, _, _ := tokens.GenerateToken(inactive.ID, inactive.Role)
	orphanToken, _, _ := tokens.GenerateToken("deleted-account", domain.RoleEmployee)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer garbage"},
		{"deactivated account", "Bearer " + inactiveToken},
		{"unknown account", "Bearer " + orphanToken},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/whoami", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request: %v", err)
			}
			if resp.StatusCode != fiber.StatusUnauthorized {
				t.Errorf("status = %d, want 401", resp.StatusCode)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	app, tokens, accounts := newAuthTestApp(t)
	employee := seedAccount(accounts, domain.RoleEmployee, true)
	admin := seedAccount(accounts, domain.RoleAdmin, true)

	employeeToken, _, _ := tokens.GenerateToken(employee.ID, employee.Role)
	adminToken, _, _ := tokens.GenerateToken(admin.ID, admin.Role)

	req := httptest.NewRequest("GET", "/admin-only", nil)
	req.Header.Set("Authorization", "Bearer "+employeeToken)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("employee on admin route: status = %d, want 403", resp.StatusCode)
	}

	req = httptest.NewRequest("GET", "/admin-only", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("admin on admin route: status = %d, want 200", resp.StatusCode)
	}
}
