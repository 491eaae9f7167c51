package service

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/inquiry-service/internal/auth"
	"github.com/spec-kit/inquiry-service/internal/config"
	"github.com/spec-kit/inquiry-service/internal/domain"
	"github.com/spec-kit/inquiry-service/internal/repository"
	apperrors "github.com/spec-kit/inquiry-service/pkg/util"
)

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 60,
			BcryptCost:            bcrypt.MinCost,
			MinPasswordLength:     6,
		},
	}
}

func newTestAccountService() (*AccountService, *memAccountRepo) {
	accounts := newMemAccountRepo()
	return NewAccountService(testConfig(), accounts), accounts
}

func TestCreateEmployee(t *testing.T) {
	svc, _ := newTestAccountService()
	ctx := context.Background()
	admin := testAdmin()

	account, err := svc.CreateEmployee(ctx, admin, "Sara Tehrani", "  Sara.T  ", "secret1")
	if err != nil {
		t.Fatalf("create employee: %v", err)
	}
	if account.Handle != "sara.t" {
		t.Errorf("handle = %q, want lowercased trimmed %q", account.Handle, "sara.t")
	}
	if account.Role != domain.RoleEmployee || !account.IsActive {
		t.Errorf("role/active = %s/%v, want EMPLOYEE/true", account.Role, account.IsActive)
	}
	if err := auth.ComparePassword(account.PasswordHash, "secret1"); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}
}

func TestCreateEmployeeValidation(t *testing.T) {
	svc, _ := newTestAccountService()
	ctx := context.Background()
	admin := testAdmin()

	cases := []struct {
		name                   string
		empName, handle, pass  string
	}{
		{"missing name", "", "handle", "secret1"},
		{"missing handle", "Name", "", "secret1"},
		{"missing password", "Name", "handle", ""},
		{"short password", "Name", "handle", "abc"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.CreateEmployee(ctx, admin, tc.empName, tc.handle, tc.pass); !apperrors.IsCode(err, "VALIDATION_FAILED") {
				t.Errorf("expected VALIDATION_FAILED, got %v", err)
			}
		})
	}
}

func TestCreateEmployeeDuplicateHandle(t *testing.T) {
	svc, _ := newTestAccountService()
	ctx := context.Background()
	admin := testAdmin()

	if _, err := svc.CreateEmployee(ctx, admin, "First", "shared", "secret1"); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.CreateEmployee(ctx, admin, "Second", "SHARED", "secret2"); !apperrors.IsCode(err, "CONFLICT") {
		t.Errorf("case-insensitive duplicate: expected CONFLICT, got %v", err)
	}
}

func TestCreateEmployeeRequiresAdmin(t *testing.T) {
	svc, _ := newTestAccountService()
	ctx := context.Background()

	if _, err := svc.CreateEmployee(ctx, nil, "N", "h", "secret1"); !apperrors.IsCode(err, "UNAUTHORIZED") {
		t.Errorf("nil actor: expected UNAUTHORIZED, got %v", err)
	}
	if _, err := svc.CreateEmployee(ctx, testEmployee("Eve"), "N", "h", "secret1"); !apperrors.IsCode(err, "FORBIDDEN") {
		t.Errorf("employee actor: expected FORBIDDEN, got %v", err)
	}
}

func TestUpdateEmployee(t *testing.T) {
	svc, _ := newTestAccountService()
	ctx := context.Background()
	admin := testAdmin()

	account, err := svc.CreateEmployee(ctx, admin, "Old Name", "worker", "secret1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newName := "New Name"
	inactive := false
	newPass := "rotated1"
	updated, err := svc.UpdateEmployee(ctx, admin, account.ID, EmployeeUpdateInput{
		Name:     &newName,
		IsActive: &inactive,
		Password: &newPass,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != newName || updated.IsActive {
		t.Errorf("updated = %+v, want name=%q active=false", updated, newName)
	}
	if err := auth.ComparePassword(updated.PasswordHash, newPass); err != nil {
		t.Errorf("rotated hash does not match: %v", err)
	}
	if updated.Handle != "worker" {
		t.Errorf("handle changed to %q, should be immutable", updated.Handle)
	}
}

func TestUpdateEmployeeErrors(t *testing.T) {
	svc, accounts := newTestAccountService()
	ctx := context.Background()
	admin := testAdmin()

	if _, err := svc.UpdateEmployee(ctx, admin, "missing", EmployeeUpdateInput{}); !apperrors.IsCode(err, "NOT_FOUND") {
		t.Errorf("missing target: expected NOT_FOUND, got %v", err)
	}

	otherAdmin := &domain.Account{Name: "Root", Handle: "root", Role: domain.RoleAdmin, IsActive: true}
	_ = accounts.Create(ctx, otherAdmin)
	if _, err := svc.UpdateEmployee(ctx, admin, otherAdmin.ID, EmployeeUpdateInput{}); !apperrors.IsCode(err, "VALIDATION_FAILED") {
		t.Errorf("admin target: expected VALIDATION_FAILED, got %v", err)
	}

	account, err := svc.CreateEmployee(ctx, admin, "Worker", "worker", "secret1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	short := "abc"
	if _, err := svc.UpdateEmployee(ctx, admin, account.ID, EmployeeUpdateInput{Password: &short}); !apperrors.IsCode(err, "VALIDATION_FAILED") {
		t.Errorf("short password: expected VALIDATION_FAILED, got %v", err)
	}
	empty := "  "
	if _, err := svc.UpdateEmployee(ctx, admin, account.ID, EmployeeUpdateInput{Name: &empty}); !apperrors.IsCode(err, "VALIDATION_FAILED") {
		t.Errorf("empty name: expected VALIDATION_FAILED, got %v", err)
	}
}

func TestSeedAdmin(t *testing.T) {
	svc, accounts := newTestAccountService()
	ctx := context.Background()
	logger := zap.NewNop()
	seed := config.SeedConfig{AdminName: "Boss", AdminHandle: "Boss", AdminPassword: "bootpass"}

	if err := svc.SeedAdmin(ctx, seed, logger); err != nil {
		t.Fatalf("seed: %v", err)
	}
	account, err := accounts.GetByHandle(ctx, "boss")
	if err != nil {
		t.Fatalf("seeded admin not found: %v", err)
	}
	if account.Role != domain.RoleAdmin || !account.IsActive {
		t.Errorf("seeded account = %+v, want active ADMIN", account)
	}

	// Second boot is a no-op.
	if err := svc.SeedAdmin(ctx, seed, logger); err != nil {
		t.Fatalf("repeat seed: %v", err)
	}
	all, _ := accounts.List(ctx, repository.AccountFilter{})
	if len(all) != 1 {
		t.Errorf("accounts after repeat seed = %d, want 1", len(all))
	}
}
