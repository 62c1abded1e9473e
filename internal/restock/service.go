package restock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/balcaolabs/pos-backend/internal/catalog"
	"github.com/balcaolabs/pos-backend/pkg/db/models"
	pkgerrors "github.com/balcaolabs/pos-backend/pkg/errors"
)

const dayKeyLayout = "2006-01-02"

// velocityWindowDays is the lookback used to estimate daily sales.
const velocityWindowDays = 30

// Suggestion pairs a low-stock product with a suggested order size.
type Suggestion struct {
	Product      models.Product `json:"product"`
	DailySales   float64        `json:"daily_sales"`
	SuggestedQty int            `json:"suggested_qty"`
}

// Service produces restock suggestions for products at or below minimum.
type Service interface {
	Suggestions(ctx context.Context) ([]Suggestion, error)
}

type service struct {
	catalog *catalog.Repository
	repo    *Repository
	advisor Advisor
	now     func() time.Time
}

// NewService constructs a restock service instance.
func NewService(catalogRepo *catalog.Repository, repo *Repository, advisor Advisor) (Service, error) {
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if repo == nil {
		return nil, fmt.Errorf("restock repository required")
	}
	if advisor == nil {
		return nil, fmt.Errorf("advisor required")
	}
	return &service{
		catalog: catalogRepo,
		repo:    repo,
		advisor: advisor,
		now:     time.Now,
	}, nil
}

func (s *service) Suggestions(ctx context.Context) ([]Suggestion, error) {
	products, err := s.catalog.LowStock(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading low stock products")
	}
	if len(products) == 0 {
		return []Suggestion{}, nil
	}

	ids := make([]uuid.UUID, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	since := s.now().AddDate(0, 0, -velocityWindowDays).Format(dayKeyLayout)
	sold, err := s.repo.SoldSince(ctx, ids, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reading sales velocity")
	}

	suggestions := make([]Suggestion, 0, len(products))
	for _, product := range products {
		dailySales := float64(sold[product.ID]) / float64(velocityWindowDays)
		qty, err := s.advisor.Suggest(ctx, product, dailySales)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "advisor suggestion failed")
		}
		suggestions = append(suggestions, Suggestion{
			Product:      product,
			DailySales:   dailySales,
			SuggestedQty: qty,
		})
	}
	return suggestions, nil
}
