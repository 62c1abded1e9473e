package operators

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/balcaolabs/pos-backend/pkg/config"
	"github.com/balcaolabs/pos-backend/pkg/db"
	"github.com/balcaolabs/pos-backend/pkg/db/models"
	"github.com/balcaolabs/pos-backend/pkg/enums"
	pkgerrors "github.com/balcaolabs/pos-backend/pkg/errors"
	"github.com/balcaolabs/pos-backend/pkg/pagination"
	"github.com/balcaolabs/pos-backend/pkg/security"
)

const minPasswordLength = 8

// Service exposes operator account management.
type Service interface {
	CreateOperator(ctx context.Context, input CreateOperatorInput) (*models.Operator, error)
	GetOperator(ctx context.Context, operatorID uuid.UUID) (*models.Operator, error)
	ListOperators(ctx context.Context, input ListOperatorsInput) (*OperatorListResult, error)
	ChangePassword(ctx context.Context, operatorID uuid.UUID, newPassword string) error
	DeactivateOperator(ctx context.Context, operatorID uuid.UUID) error
}

// CreateOperatorInput holds the validated payload to create an operator.
type CreateOperatorInput struct {
	Email    string
	Name     string
	Password string
	Role     enums.OperatorRole
}

// ListOperatorsInput captures list pagination.
type ListOperatorsInput struct {
	Limit int
	Page  int
}

// OperatorListResult is one page of operators.
type OperatorListResult struct {
	Operators []models.Operator
	Total     int64
	Page      int
	Limit     int
}

type service struct {
	repo        *Repository
	passwordCfg config.PasswordConfig
}

// NewService constructs an operator service instance.
func NewService(repo *Repository, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("operator repository required")
	}
	return &service{repo: repo, passwordCfg: passwordCfg}, nil
}

func (s *service) CreateOperator(ctx context.Context, input CreateOperatorInput) (*models.Operator, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a valid email is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if len(input.Password) < minPasswordLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if !input.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking email")
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	operator := &models.Operator{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(input.Name),
		Role:         input.Role,
		IsActive:     true,
	}
	created, err := s.repo.Create(ctx, operator)
	if err != nil {
		// The pre-check above races concurrent creates; the unique index is authoritative.
		if db.IsUniqueViolation(err, "idx_operators_email") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating operator")
	}
	return created, nil
}

func (s *service) GetOperator(ctx context.Context, operatorID uuid.UUID) (*models.Operator, error) {
	operator, err := s.repo.FindByID(ctx, operatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "operator not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading operator")
	}
	return operator, nil
}

func (s *service) ListOperators(ctx context.Context, input ListOperatorsInput) (*OperatorListResult, error) {
	limit := pagination.NormalizeLimit(input.Limit)
	page := input.Page
	if page < 1 {
		page = 1
	}

	operators, total, err := s.repo.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing operators")
	}
	return &OperatorListResult{Operators: operators, Total: total, Page: page, Limit: limit}, nil
}

func (s *service) ChangePassword(ctx context.Context, operatorID uuid.UUID, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	hash, err := security.HashPassword(newPassword, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}
	if err := s.repo.UpdatePasswordHash(ctx, operatorID, hash); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "operator not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating password")
	}
	return nil
}

func (s *service) DeactivateOperator(ctx context.Context, operatorID uuid.UUID) error {
	if err := s.repo.Deactivate(ctx, operatorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "operator not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deactivating operator")
	}
	return nil
}
