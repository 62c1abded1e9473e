package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/balcaolabs/pos-backend/pkg/db"
	"github.com/balcaolabs/pos-backend/pkg/db/models"
	pkgerrors "github.com/balcaolabs/pos-backend/pkg/errors"
	"github.com/balcaolabs/pos-backend/pkg/logger"
	"github.com/balcaolabs/pos-backend/pkg/pagination"
)

const dayKeyLayout = "2006-01-02"

// Service exposes sales history queries and day-scoped administration.
type Service interface {
	History(ctx context.Context, input HistoryInput) (*HistoryResult, error)
	GetSale(ctx context.Context, saleID uuid.UUID) (*SaleDetail, error)
	DeleteDay(ctx context.Context, dayKey string) (int64, error)
}

// HistoryInput selects one calendar day of sales.
type HistoryInput struct {
	DayKey string
	Limit  int
	Page   int
}

// HistoryResult is one page of sales plus day aggregates.
type HistoryResult struct {
	Sales    []models.Sale
	Total    int64
	DayTotal decimal.Decimal
	Page     int
	Limit    int
}

// SaleDetail joins the receipt snapshot with its normalized items.
type SaleDetail struct {
	Sale  models.Sale
	Items []models.SaleItem
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	logg     *logger.Logger
}

// NewService constructs the sales history service.
func NewService(repo *Repository, dbClient *db.Client, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("sales repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient, logg: logg}, nil
}

func (s *service) History(ctx context.Context, input HistoryInput) (*HistoryResult, error) {
	dayKey, err := normalizeDayKey(input.DayKey)
	if err != nil {
		return nil, err
	}

	limit := pagination.NormalizeLimit(input.Limit)
	page := input.Page
	if page < 1 {
		page = 1
	}

	sales, total, err := s.repo.ListByDay(ctx, dayKey, limit, (page-1)*limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing sales")
	}
	dayTotal, err := s.repo.SumTotalByDay(ctx, dayKey)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "summing sales")
	}

	return &HistoryResult{
		Sales:    sales,
		Total:    total,
		DayTotal: dayTotal,
		Page:     page,
		Limit:    limit,
	}, nil
}

func (s *service) GetSale(ctx context.Context, saleID uuid.UUID) (*SaleDetail, error) {
	sale, items, err := s.repo.FindByID(ctx, saleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sale not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading sale")
	}
	return &SaleDetail{Sale: *sale, Items: items}, nil
}

func (s *service) DeleteDay(ctx context.Context, dayKey string) (int64, error) {
	normalized, err := normalizeDayKey(dayKey)
	if err != nil {
		return 0, err
	}

	var removed int64
	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		count, err := s.repo.DeleteByDay(ctx, tx, normalized)
		if err != nil {
			return err
		}
		removed = count
		return nil
	})
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting sales for day")
	}

	if s.logg != nil && removed > 0 {
		fields := map[string]any{"day_key": normalized, "removed": removed}
		s.logg.Info(s.logg.WithFields(ctx, fields), "sales history purged for day")
	}
	return removed, nil
}

func normalizeDayKey(value string) (string, error) {
	parsed, err := time.Parse(dayKeyLayout, value)
	if err != nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "day must be formatted YYYY-MM-DD")
	}
	return parsed.Format(dayKeyLayout), nil
}
