package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/balcaolabs/pos-backend/internal/catalog"
	"github.com/balcaolabs/pos-backend/pkg/db"
	"github.com/balcaolabs/pos-backend/pkg/db/models"
	"github.com/balcaolabs/pos-backend/pkg/enums"
	pkgerrors "github.com/balcaolabs/pos-backend/pkg/errors"
	"github.com/balcaolabs/pos-backend/pkg/logger"
	"github.com/balcaolabs/pos-backend/pkg/metrics"
	"github.com/balcaolabs/pos-backend/pkg/outbox"
	"github.com/balcaolabs/pos-backend/pkg/outbox/payloads"
)

const dayKeyLayout = "2006-01-02"

// deferredDefaultTerm is applied when a deferred sale omits a due date.
const deferredDefaultTerm = 30 * 24 * time.Hour

// Service drives the checkout flow: cart assembly per terminal and the
// atomic sale commit.
type Service interface {
	AddLine(ctx context.Context, terminalID, code string) (*CartView, error)
	AdjustLine(ctx context.Context, terminalID string, productID uuid.UUID, delta int) (*CartView, error)
	RemoveLine(ctx context.Context, terminalID string, productID uuid.UUID) (*CartView, error)
	GetCart(ctx context.Context, terminalID string) (*CartView, error)
	ClearCart(ctx context.Context, terminalID string) error
	Commit(ctx context.Context, input CommitInput) (*models.Sale, error)
}

// CartView is the read model returned after every cart mutation.
type CartView struct {
	Lines []Line          `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

// CommitInput carries everything needed to turn a cart into a durable sale.
type CommitInput struct {
	TerminalID    string
	PaymentMethod enums.PaymentMethod
	OperatorID    uuid.UUID
	OperatorRole  enums.OperatorRole
	CustomerName  string
	DueDate       *time.Time
}

type service struct {
	sessions *SessionStore
	catalog  *catalog.Repository
	dbClient *db.Client
	events   *outbox.Service
	stats    *metrics.CheckoutMetrics
	logg     *logger.Logger
	now      func() time.Time
}

// NewService constructs the checkout service.
func NewService(
	sessions *SessionStore,
	catalogRepo *catalog.Repository,
	dbClient *db.Client,
	events *outbox.Service,
	stats *metrics.CheckoutMetrics,
	logg *logger.Logger,
) (Service, error) {
	if sessions == nil {
		return nil, fmt.Errorf("session store required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if events == nil {
		return nil, fmt.Errorf("outbox service required")
	}
	return &service{
		sessions: sessions,
		catalog:  catalogRepo,
		dbClient: dbClient,
		events:   events,
		stats:    stats,
		logg:     logg,
		now:      time.Now,
	}, nil
}

func (s *service) AddLine(ctx context.Context, terminalID, code string) (*CartView, error) {
	if strings.TrimSpace(code) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product code is required")
	}

	product, err := s.catalog.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving product code")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	var view *CartView
	err = s.sessions.WithCart(terminalID, func(cart *Cart) error {
		if err := cart.AddOrIncrement(product); err != nil {
			return err
		}
		view = snapshot(cart)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *service) AdjustLine(ctx context.Context, terminalID string, productID uuid.UUID, delta int) (*CartView, error) {
	product, err := s.catalog.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}

	var view *CartView
	err = s.sessions.WithCart(terminalID, func(cart *Cart) error {
		if err := cart.AdjustQuantity(productID, delta, product.Quantity); err != nil {
			return err
		}
		view = snapshot(cart)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *service) RemoveLine(ctx context.Context, terminalID string, productID uuid.UUID) (*CartView, error) {
	var view *CartView
	err := s.sessions.WithCart(terminalID, func(cart *Cart) error {
		cart.Remove(productID)
		view = snapshot(cart)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *service) GetCart(ctx context.Context, terminalID string) (*CartView, error) {
	var view *CartView
	err := s.sessions.WithCart(terminalID, func(cart *Cart) error {
		view = snapshot(cart)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *service) ClearCart(ctx context.Context, terminalID string) error {
	return s.sessions.WithCart(terminalID, func(cart *Cart) error {
		cart.Clear()
		return nil
	})
}

// Commit re-validates stock against current rows, then writes the sale, its
// items, the guarded stock decrements, and any deferred receivable as one
// transaction. The cart survives untouched on every failure path.
func (s *service) Commit(ctx context.Context, input CommitInput) (*models.Sale, error) {
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	if input.OperatorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "operator id is required")
	}
	if input.PaymentMethod == enums.PaymentMethodDeferred && strings.TrimSpace(input.CustomerName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name is required for deferred sales")
	}

	var sale *models.Sale
	err := s.sessions.WithCart(input.TerminalID, func(cart *Cart) error {
		if cart.IsEmpty() {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}

		started := s.now()
		committed, err := s.commitCart(ctx, cart, input)
		if err != nil {
			s.observeRejection(err)
			return err
		}

		cart.Clear()
		sale = committed
		if s.stats != nil {
			s.stats.ObserveCommit(input.PaymentMethod.String(), s.now().Sub(started))
		}
		if s.logg != nil {
			fields := map[string]any{
				"sale_id":        sale.ID.String(),
				"total":          sale.Total.String(),
				"payment_method": sale.PaymentMethod,
				"line_count":     len(sale.Lines),
			}
			s.logg.Info(s.logg.WithFields(ctx, fields), "sale committed")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

func (s *service) commitCart(ctx context.Context, cart *Cart, input CommitInput) (*models.Sale, error) {
	occurredAt := s.now()
	sale := &models.Sale{
		ID:            uuid.New(),
		OccurredAt:    occurredAt,
		DayKey:        occurredAt.Format(dayKeyLayout),
		Total:         cart.Total(),
		PaymentMethod: input.PaymentMethod,
		OperatorID:    input.OperatorID,
		Lines:         cart.SaleLines(),
	}

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txCatalog := s.catalog.WithTx(tx)

		if err := s.reserveStock(ctx, txCatalog, cart.Lines()); err != nil {
			return err
		}

		if err := tx.Create(sale).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persisting sale")
		}

		items := buildSaleItems(sale, cart.Lines())
		if err := tx.Create(&items).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persisting sale items")
		}

		if input.PaymentMethod == enums.PaymentMethodDeferred {
			if err := s.createReceivable(tx, sale, input); err != nil {
				return err
			}
		}

		if err := s.emitCommitEvents(ctx, tx, txCatalog, sale, input, cart.Lines()); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil {
			return nil, appErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "commit transaction failed")
	}
	return sale, nil
}

// reserveStock applies the guarded decrement per line. Any line whose row no
// longer holds enough units aborts the transaction; reporting covers every
// offending line, not just the first.
func (s *service) reserveStock(ctx context.Context, txCatalog *catalog.Repository, lines []Line) error {
	type shortage struct {
		ProductID string `json:"product_id"`
		Name      string `json:"name"`
		Requested int    `json:"requested"`
		Available int    `json:"available"`
	}

	var shortages []shortage
	var lookupErrs error

	for _, line := range lines {
		ok, err := txCatalog.DecrementQuantity(ctx, line.ProductID, line.Quantity)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "adjusting stock")
		}
		if ok {
			continue
		}

		available := 0
		current, err := txCatalog.FindByID(ctx, line.ProductID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			lookupErrs = multierr.Append(lookupErrs, err)
		} else if current != nil {
			available = current.Quantity
		}
		shortages = append(shortages, shortage{
			ProductID: line.ProductID.String(),
			Name:      line.Name,
			Requested: line.Quantity,
			Available: available,
		})
	}

	if lookupErrs != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, lookupErrs, "checking stock levels")
	}
	if len(shortages) > 0 {
		return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock for one or more lines").
			WithDetails(map[string]any{"lines": shortages})
	}
	return nil
}

func (s *service) createReceivable(tx *gorm.DB, sale *models.Sale, input CommitInput) error {
	dueDate := sale.OccurredAt.Add(deferredDefaultTerm)
	if input.DueDate != nil {
		dueDate = *input.DueDate
	}
	receivable := &models.Receivable{
		ID:           uuid.New(),
		SaleID:       &sale.ID,
		CustomerName: strings.TrimSpace(input.CustomerName),
		Description:  fmt.Sprintf("deferred sale %s", sale.DayKey),
		Amount:       sale.Total,
		DueDate:      dueDate,
		Status:       enums.AccountStatusOpen,
	}
	if err := tx.Create(receivable).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persisting receivable")
	}
	return nil
}

func (s *service) emitCommitEvents(
	ctx context.Context,
	tx *gorm.DB,
	txCatalog *catalog.Repository,
	sale *models.Sale,
	input CommitInput,
	lines []Line,
) error {
	actor := &outbox.ActorRef{OperatorID: input.OperatorID, Role: input.OperatorRole.String()}

	err := s.events.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventSaleCommitted,
		AggregateType: enums.AggregateSale,
		AggregateID:   sale.ID,
		Actor:         actor,
		Data: payloads.SaleCommittedEvent{
			SaleID:        sale.ID,
			DayKey:        sale.DayKey,
			Total:         sale.Total,
			PaymentMethod: sale.PaymentMethod,
			OperatorID:    sale.OperatorID,
			OccurredAt:    sale.OccurredAt,
			Lines:         sale.Lines,
		},
		Version:    1,
		OccurredAt: sale.OccurredAt,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queueing sale event")
	}

	for _, line := range lines {
		product, err := txCatalog.FindByID(ctx, line.ProductID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reloading product after decrement")
		}
		if product.Quantity > product.MinQuantity {
			continue
		}
		err = s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventStockLow,
			AggregateType: enums.AggregateProduct,
			AggregateID:   product.ID,
			Actor:         actor,
			Data: payloads.StockLowEvent{
				ProductID:   product.ID,
				Name:        product.Name,
				Quantity:    product.Quantity,
				MinQuantity: product.MinQuantity,
			},
			Version:    1,
			OccurredAt: sale.OccurredAt,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queueing stock event")
		}
	}
	return nil
}

func (s *service) observeRejection(err error) {
	if s.stats == nil {
		return
	}
	reason := "commit_failure"
	if appErr := pkgerrors.As(err); appErr != nil {
		reason = strings.ToLower(string(appErr.Code()))
	}
	s.stats.IncRejected(reason)
}

func buildSaleItems(sale *models.Sale, lines []Line) []models.SaleItem {
	items := make([]models.SaleItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, models.SaleItem{
			ID:        uuid.New(),
			SaleID:    sale.ID,
			ProductID: line.ProductID,
			Name:      line.Name,
			Brand:     line.Brand,
			Model:     line.Model,
			Category:  line.Category,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Subtotal:  line.Subtotal().Round(2),
			DayKey:    sale.DayKey,
		})
	}
	return items
}

func snapshot(cart *Cart) *CartView {
	return &CartView{
		Lines: cart.Lines(),
		Total: cart.Total(),
	}
}
