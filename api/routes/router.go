package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/balcaolabs/pos-backend/api/controllers"
	"github.com/balcaolabs/pos-backend/api/middleware"
	authsvc "github.com/balcaolabs/pos-backend/internal/auth"
	"github.com/balcaolabs/pos-backend/internal/catalog"
	checkoutsvc "github.com/balcaolabs/pos-backend/internal/checkout"
	financesvc "github.com/balcaolabs/pos-backend/internal/finance"
	labelssvc "github.com/balcaolabs/pos-backend/internal/labels"
	operatorssvc "github.com/balcaolabs/pos-backend/internal/operators"
	restocksvc "github.com/balcaolabs/pos-backend/internal/restock"
	salessvc "github.com/balcaolabs/pos-backend/internal/sales"
	supplierssvc "github.com/balcaolabs/pos-backend/internal/suppliers"
	"github.com/balcaolabs/pos-backend/pkg/auth/session"
	"github.com/balcaolabs/pos-backend/pkg/config"
	"github.com/balcaolabs/pos-backend/pkg/db"
	"github.com/balcaolabs/pos-backend/pkg/logger"
	pkgredis "github.com/balcaolabs/pos-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *pkgredis.Client,
	sessions session.AccessSessionChecker,
	authService authsvc.Service,
	catalogService catalog.Service,
	checkoutService checkoutsvc.Service,
	salesService salessvc.Service,
	suppliersService supplierssvc.Service,
	financeService financesvc.Service,
	labelsService labelssvc.Service,
	restockService restocksvc.Service,
	operatorsService operatorssvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))
		r.Post("/refresh", controllers.AuthRefresh(authService, logg))
		r.Post("/logout", controllers.AuthLogout(authService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.ProductCreate(catalogService, logg))
			r.Get("/", controllers.ProductList(catalogService, logg))
			r.Get("/lookup", controllers.ProductLookup(catalogService, logg))
			r.Get("/low-stock", controllers.ProductLowStock(catalogService, logg))
			r.Get("/{productId}", controllers.ProductDetail(catalogService, logg))
			r.Patch("/{productId}", controllers.ProductUpdate(catalogService, logg))
			r.Delete("/{productId}", controllers.ProductDeactivate(catalogService, logg))
		})

		r.Route("/suppliers", func(r chi.Router) {
			r.Post("/", controllers.SupplierCreate(suppliersService, logg))
			r.Get("/", controllers.SupplierList(suppliersService, logg))
			r.Get("/{supplierId}", controllers.SupplierDetail(suppliersService, logg))
			r.Patch("/{supplierId}", controllers.SupplierUpdate(suppliersService, logg))
			r.Delete("/{supplierId}", controllers.SupplierDeactivate(suppliersService, logg))
		})

		r.Route("/finance", func(r chi.Router) {
			r.Route("/payables", func(r chi.Router) {
				r.Post("/", controllers.PayableCreate(financeService, logg))
				r.Get("/", controllers.PayableList(financeService, logg))
				r.Post("/{payableId}/settle", controllers.PayableSettle(financeService, logg))
			})
			r.Route("/receivables", func(r chi.Router) {
				r.Post("/", controllers.ReceivableCreate(financeService, logg))
				r.Get("/", controllers.ReceivableList(financeService, logg))
				r.Post("/{receivableId}/settle", controllers.ReceivableSettle(financeService, logg))
			})
			r.Get("/summary", controllers.FinanceSummary(financeService, logg))
		})

		r.Route("/labels", func(r chi.Router) {
			r.Post("/", controllers.LabelQueue(labelsService, logg))
			r.Get("/", controllers.LabelList(labelsService, logg))
			r.Post("/{jobId}/printed", controllers.LabelMarkPrinted(labelsService, logg))
			r.Post("/{jobId}/cancel", controllers.LabelCancel(labelsService, logg))
		})

		r.Get("/restock/suggestions", controllers.RestockSuggestions(restockService, logg))

		r.Route("/sales", func(r chi.Router) {
			r.Get("/", controllers.SalesHistory(salesService, logg))
			r.Get("/{saleId}", controllers.SaleDetail(salesService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.TerminalContext(logg))
			r.Route("/checkout", func(r chi.Router) {
				r.Get("/cart", controllers.CartFetch(checkoutService, logg))
				r.Post("/cart/lines", controllers.CartAddLine(checkoutService, logg))
				r.Patch("/cart/lines/{productId}", controllers.CartAdjustLine(checkoutService, logg))
				r.Delete("/cart/lines/{productId}", controllers.CartRemoveLine(checkoutService, logg))
				r.Delete("/cart", controllers.CartClear(checkoutService, logg))
				r.Post("/commit", controllers.CheckoutCommit(checkoutService, logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.RequireRole("admin", logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/operators", func(r chi.Router) {
			r.Post("/", controllers.OperatorCreate(operatorsService, logg))
			r.Get("/", controllers.OperatorList(operatorsService, logg))
			r.Post("/{operatorId}/password", controllers.OperatorChangePassword(operatorsService, logg))
			r.Delete("/{operatorId}", controllers.OperatorDeactivate(operatorsService, logg))
		})

		r.Delete("/sales", controllers.SalesDeleteDay(salesService, logg))
	})

	return r
}
