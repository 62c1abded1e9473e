package restock

import (
	"context"
	"math"

	"github.com/balcaolabs/pos-backend/pkg/db/models"
)

// Advisor turns a low-stock product plus its recent sales velocity into a
// suggested order quantity. Implementations must return at least 1.
type Advisor interface {
	Suggest(ctx context.Context, product models.Product, dailySales float64) (int, error)
}

// coverageAdvisor sizes orders to hold N days of sales at the recent pace.
type coverageAdvisor struct {
	coverageDays int
}

// NewCoverageAdvisor builds the default heuristic advisor.
func NewCoverageAdvisor(coverageDays int) Advisor {
	if coverageDays < 1 {
		coverageDays = 1
	}
	return &coverageAdvisor{coverageDays: coverageDays}
}

func (a *coverageAdvisor) Suggest(_ context.Context, product models.Product, dailySales float64) (int, error) {
	target := int(math.Ceil(dailySales * float64(a.coverageDays)))
	// Slow movers still get topped up past their minimum.
	if floor := product.MinQuantity + 1; target < floor {
		target = floor
	}
	suggested := target - product.Quantity
	if suggested < 1 {
		suggested = 1
	}
	return suggested, nil
}
