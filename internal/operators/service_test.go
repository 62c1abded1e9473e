package operators

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/balcaolabs/pos-backend/pkg/config"
	"github.com/balcaolabs/pos-backend/pkg/db/models"
	"github.com/balcaolabs/pos-backend/pkg/enums"
	pkgerrors "github.com/balcaolabs/pos-backend/pkg/errors"
	"github.com/balcaolabs/pos-backend/pkg/security"
)

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newTestService(t *testing.T) Service {
	t.Helper()
	dsn := fmt.Sprintf("file:operators_%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Operator{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	svc, err := NewService(NewRepository(conn), testPasswordConfig())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestCreateOperatorHashesPassword(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateOperator(ctx, CreateOperatorInput{
		Email:    "Ana@Balcao.Example",
		Name:     "Ana Dias",
		Password: "correct-horse",
		Role:     enums.OperatorRoleCashier,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Email != "ana@balcao.example" {
		t.Fatalf("email must be normalized, got %q", created.Email)
	}
	if created.PasswordHash == "correct-horse" || created.PasswordHash == "" {
		t.Fatal("password must be stored hashed")
	}

	ok, err := security.VerifyPassword("correct-horse", created.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("stored hash must verify: ok=%v err=%v", ok, err)
	}
}

func TestCreateOperatorValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input CreateOperatorInput
	}{
		{"bad email", CreateOperatorInput{Email: "nope", Name: "X", Password: "longenough", Role: enums.OperatorRoleCashier}},
		{"missing name", CreateOperatorInput{Email: "a@b.c", Password: "longenough", Role: enums.OperatorRoleCashier}},
		{"short password", CreateOperatorInput{Email: "a@b.c", Name: "X", Password: "short", Role: enums.OperatorRoleCashier}},
		{"bad role", CreateOperatorInput{Email: "a@b.c", Name: "X", Password: "longenough", Role: enums.OperatorRole("boss")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateOperator(ctx, tc.input)
			appErr := pkgerrors.As(err)
			if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateOperatorRejectsDuplicateEmail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	input := CreateOperatorInput{
		Email:    "dup@balcao.example",
		Name:     "First",
		Password: "longenough",
		Role:     enums.OperatorRoleAdmin,
	}
	if _, err := svc.CreateOperator(ctx, input); err != nil {
		t.Fatalf("create: %v", err)
	}

	input.Name = "Second"
	_, err := svc.CreateOperator(ctx, input)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestChangePasswordAndDeactivate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateOperator(ctx, CreateOperatorInput{
		Email:    "cashier@balcao.example",
		Name:     "Caixa Um",
		Password: "original-pass",
		Role:     enums.OperatorRoleCashier,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.ChangePassword(ctx, created.ID, "rotated-pass"); err != nil {
		t.Fatalf("change password: %v", err)
	}
	reloaded, err := svc.GetOperator(ctx, created.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if ok, _ := security.VerifyPassword("rotated-pass", reloaded.PasswordHash); !ok {
		t.Fatal("new password must verify")
	}
	if ok, _ := security.VerifyPassword("original-pass", reloaded.PasswordHash); ok {
		t.Fatal("old password must no longer verify")
	}

	if err := svc.DeactivateOperator(ctx, created.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	// Deactivated operators drop out of the listing and cannot rotate passwords.
	result, err := svc.ListOperators(ctx, ListOperatorsInput{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if result.Total != 0 {
		t.Fatalf("expected empty listing, got %d", result.Total)
	}
	err = svc.ChangePassword(ctx, created.ID, "another-pass")
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
