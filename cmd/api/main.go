package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/balcaolabs/pos-backend/api/routes"
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
	"github.com/balcaolabs/pos-backend/pkg/metrics"
	"github.com/balcaolabs/pos-backend/pkg/migrate"
	"github.com/balcaolabs/pos-backend/pkg/outbox"
	"github.com/balcaolabs/pos-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	catalogRepo := catalog.NewRepository(dbClient.DB())
	operatorsRepo := operatorssvc.NewRepository(dbClient.DB())
	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)
	checkoutMetrics := metrics.NewCheckoutMetrics(prometheus.DefaultRegisterer)

	catalogService, err := catalog.NewService(catalogRepo)
	exitOnErr(logg, "catalog service", err)

	suppliersService, err := supplierssvc.NewService(supplierssvc.NewRepository(dbClient.DB()))
	exitOnErr(logg, "suppliers service", err)

	checkoutService, err := checkoutsvc.NewService(
		checkoutsvc.NewSessionStore(),
		catalogRepo,
		dbClient,
		outboxService,
		checkoutMetrics,
		logg,
	)
	exitOnErr(logg, "checkout service", err)

	salesService, err := salessvc.NewService(salessvc.NewRepository(dbClient.DB()), dbClient, logg)
	exitOnErr(logg, "sales service", err)

	financeService, err := financesvc.NewService(financesvc.NewRepository(dbClient.DB()))
	exitOnErr(logg, "finance service", err)

	labelsService, err := labelssvc.NewService(labelssvc.NewRepository(dbClient.DB()), catalogRepo, dbClient, outboxService)
	exitOnErr(logg, "labels service", err)

	restockService, err := restocksvc.NewService(
		catalogRepo,
		restocksvc.NewRepository(dbClient.DB()),
		restocksvc.NewCoverageAdvisor(cfg.Restock.CoverageDays),
	)
	exitOnErr(logg, "restock service", err)

	operatorsService, err := operatorssvc.NewService(operatorsRepo, cfg.Password)
	exitOnErr(logg, "operators service", err)

	authService, err := authsvc.NewService(operatorsRepo, sessionManager, cfg.JWT, logg)
	exitOnErr(logg, "auth service", err)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			sessionManager,
			authService,
			catalogService,
			checkoutService,
			salesService,
			suppliersService,
			financeService,
			labelsService,
			restockService,
			operatorsService,
		),
	}

	signalCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go func() {
		<-signalCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "error during server shutdown", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "api server shut down gracefully")
}

func exitOnErr(logg *logger.Logger, what string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+what, err)
	os.Exit(1)
}
