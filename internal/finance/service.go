package finance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/balcaolabs/pos-backend/pkg/db/models"
	"github.com/balcaolabs/pos-backend/pkg/enums"
	pkgerrors "github.com/balcaolabs/pos-backend/pkg/errors"
	"github.com/balcaolabs/pos-backend/pkg/pagination"
)

// Service exposes accounts payable/receivable operations.
type Service interface {
	CreatePayable(ctx context.Context, input CreatePayableInput) (*models.Payable, error)
	CreateReceivable(ctx context.Context, input CreateReceivableInput) (*models.Receivable, error)
	ListPayables(ctx context.Context, input ListAccountsInput) (*PayableListResult, error)
	ListReceivables(ctx context.Context, input ListAccountsInput) (*ReceivableListResult, error)
	SettlePayable(ctx context.Context, id uuid.UUID) error
	SettleReceivable(ctx context.Context, id uuid.UUID) error
	Summary(ctx context.Context) (*SummaryResult, error)
}

// CreatePayableInput holds the validated payload for a new payable.
type CreatePayableInput struct {
	SupplierID  *uuid.UUID
	Description string
	Amount      decimal.Decimal
	DueDate     time.Time
}

// CreateReceivableInput holds the validated payload for a manual receivable.
type CreateReceivableInput struct {
	CustomerName string
	Description  string
	Amount       decimal.Decimal
	DueDate      time.Time
}

// ListAccountsInput captures list filters for either side of the ledger.
type ListAccountsInput struct {
	Status enums.AccountStatus
	Limit  int
	Page   int
}

// PayableListResult is one page of payables.
type PayableListResult struct {
	Payables []models.Payable
	Total    int64
	Page     int
	Limit    int
}

// ReceivableListResult is one page of receivables.
type ReceivableListResult struct {
	Receivables []models.Receivable
	Total       int64
	Page        int
	Limit       int
}

// SummaryResult reports the outstanding balance on each side.
type SummaryResult struct {
	OpenPayables    decimal.Decimal
	OpenReceivables decimal.Decimal
}

type service struct {
	repo *Repository
	now  func() time.Time
}

// NewService constructs a finance service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("finance repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) CreatePayable(ctx context.Context, input CreatePayableInput) (*models.Payable, error) {
	if strings.TrimSpace(input.Description) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "description is required")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if input.DueDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "due date is required")
	}

	payable := &models.Payable{
		ID:          uuid.New(),
		SupplierID:  input.SupplierID,
		Description: strings.TrimSpace(input.Description),
		Amount:      input.Amount,
		DueDate:     input.DueDate,
		Status:      enums.AccountStatusOpen,
	}
	created, err := s.repo.CreatePayable(ctx, payable)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating payable")
	}
	return created, nil
}

func (s *service) CreateReceivable(ctx context.Context, input CreateReceivableInput) (*models.Receivable, error) {
	if strings.TrimSpace(input.CustomerName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if input.DueDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "due date is required")
	}

	receivable := &models.Receivable{
		ID:           uuid.New(),
		CustomerName: strings.TrimSpace(input.CustomerName),
		Description:  strings.TrimSpace(input.Description),
		Amount:       input.Amount,
		DueDate:      input.DueDate,
		Status:       enums.AccountStatusOpen,
	}
	created, err := s.repo.CreateReceivable(ctx, receivable)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating receivable")
	}
	return created, nil
}

func (s *service) ListPayables(ctx context.Context, input ListAccountsInput) (*PayableListResult, error) {
	if input.Status != "" && !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}
	limit := pagination.NormalizeLimit(input.Limit)
	page := input.Page
	if page < 1 {
		page = 1
	}

	payables, total, err := s.repo.ListPayables(ctx, input.Status, limit, (page-1)*limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing payables")
	}
	return &PayableListResult{Payables: payables, Total: total, Page: page, Limit: limit}, nil
}

func (s *service) ListReceivables(ctx context.Context, input ListAccountsInput) (*ReceivableListResult, error) {
	if input.Status != "" && !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}
	limit := pagination.NormalizeLimit(input.Limit)
	page := input.Page
	if page < 1 {
		page = 1
	}

	receivables, total, err := s.repo.ListReceivables(ctx, input.Status, limit, (page-1)*limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing receivables")
	}
	return &ReceivableListResult{Receivables: receivables, Total: total, Page: page, Limit: limit}, nil
}

func (s *service) SettlePayable(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SettlePayable(ctx, id, s.now()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "open payable not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "settling payable")
	}
	return nil
}

func (s *service) SettleReceivable(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SettleReceivable(ctx, id, s.now()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "open receivable not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "settling receivable")
	}
	return nil
}

func (s *service) Summary(ctx context.Context) (*SummaryResult, error) {
	payable, receivable, err := s.repo.OpenTotals(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "summing open accounts")
	}
	return &SummaryResult{OpenPayables: payable, OpenReceivables: receivable}, nil
}
