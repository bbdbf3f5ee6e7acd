package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/labstack/echo/v4"

	"github.com/robaa12/user-service/internal"
	"github.com/robaa12/user-service/internal/events"
	"github.com/robaa12/user-service/internal/handler"
	"github.com/robaa12/user-service/internal/middleware"
	"github.com/robaa12/user-service/internal/mongodb"
	"github.com/robaa12/user-service/internal/orders"
	"github.com/robaa12/user-service/internal/payment"
	"github.com/robaa12/user-service/internal/postgres"
	"github.com/robaa12/user-service/internal/service"
	"github.com/robaa12/user-service/internal/worker"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize database/sql connection for migrations
	logger.Info().Msg("connecting to database")
	sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return fmt.Errorf("database ping failed: %w", err)
	}

	// Run migrations
	logger.Info().Msg("running database migrations")
	if err := internal.RunMigrations(sqlDB); err != nil {
		sqlDB.Close()
		return fmt.Errorf("migration failed: %w", err)
	}
	sqlDB.Close()
	logger.Info().Msg("database migrations completed")

	// Initialize pgx connection pool for application
	pool, err := postgres.Connect(ctx, postgres.ConnectConfig{
		URL:           cfg.DatabaseUrl,
		RetryAttempts: 5,
		RetryInterval: 2 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	// Connect to MongoDB for theme documents
	logger.Info().Msg("connecting to mongodb")
	mongoDB, err := mongodb.Connect(ctx, mongodb.ConnectConfig{
		URL:           cfg.Mongo.URL,
		Database:      cfg.Mongo.Database,
		RetryAttempts: 5,
		RetryInterval: 2 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("mongodb connection failed: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoDB.Client().Disconnect(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	// Initialize repositories
	userRepo := postgres.NewUserRepository(pool)
	planRepo := postgres.NewPlanRepository(pool)
	storeRepo := postgres.NewStoreRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	themeRepo := mongodb.NewThemeRepository(mongoDB)

	if err := themeRepo.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("failed to create theme indexes: %w", err)
	}

	// Initialize payment gateway
	gateway := payment.NewTapClient(cfg.Tap.SecretKey,
		payment.WithBaseURL(cfg.Tap.APIURL),
		payment.WithHTTPClient(&http.Client{Timeout: cfg.Tap.Timeout}),
	)

	// Initialize order service client
	ordersClient := orders.NewHTTPClient(cfg.OrderSvc.URL,
		orders.WithHTTPClient(&http.Client{Timeout: cfg.OrderSvc.Timeout}),
	)

	// Initialize the event publisher
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.NATS.Enabled {
		natsPublisher, err := events.NewNATSPublisher(cfg.NATS.URL)
		if err != nil {
			return fmt.Errorf("failed to connect to nats: %w", err)
		}
		publisher = natsPublisher
		logger.Info().Str("url", cfg.NATS.URL).Msg("nats publisher connected")
	}
	defer publisher.Close()

	// Initialize services
	paymentCfg := service.PaymentConfig{
		Currency:    cfg.Tap.Currency,
		RedirectURL: cfg.Tap.RedirectURL,
		PostURL:     cfg.Tap.PostURL,
	}
	paymentService := service.NewPaymentService(userRepo, planRepo, paymentRepo, gateway, publisher, logger, paymentCfg)
	orderPaymentService := service.NewOrderPaymentService(storeRepo, paymentRepo, ordersClient, gateway, publisher, logger, paymentCfg)
	storeService := service.NewStoreService(userRepo, planRepo, storeRepo, themeRepo, logger)
	themeService := service.NewThemeService(storeRepo, themeRepo)
	planService := service.NewPlanService(planRepo)
	userService := service.NewUserService(userRepo, storeRepo, themeRepo, logger)

	// Start the reconciliation sweeper for charges whose callback never
	// arrived
	sweeperCtx, stopSweeper := context.WithCancel(ctx)
	defer stopSweeper()
	sweeper := worker.NewSweeper(paymentRepo, paymentService, worker.Config{}, logger)
	go func() {
		if err := sweeper.Start(sweeperCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("sweeper stopped")
		}
	}()

	// Initialize Prometheus metrics
	metrics := middleware.NewMetrics("user_service")

	pgCheck := postgres.Healthcheck(pool)
	mongoCheck := mongodb.Healthcheck(mongoDB)
	healthchecks := func() map[string]error {
		checkCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		return map[string]error{
			"postgres": pgCheck(checkCtx),
			"mongodb":  mongoCheck(checkCtx),
		}
	}

	// Build the HTTP server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.ErrorHandler(logger)

	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(logger))
	e.Use(metrics.Middleware())

	h := handler.New(paymentService, orderPaymentService, storeService, themeService, planService, userService, logger)
	h.Register(e, metrics, healthchecks)

	// Start the server, then wait for a shutdown signal
	addr := fmt.Sprintf(":%d", cfg.Port)
	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("address", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
