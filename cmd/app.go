package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"credit-engine/internal/api"
	mw "credit-engine/internal/api/middleware"
	"credit-engine/internal/batch"
	"credit-engine/internal/config"
	"credit-engine/internal/domain/customer"
	"credit-engine/internal/domain/loan"
	"credit-engine/internal/event"
	"credit-engine/internal/infrastructure/cache"
	"credit-engine/internal/infrastructure/database/memory"
	"credit-engine/internal/infrastructure/database/migration"
	"credit-engine/internal/infrastructure/database/postgres"
	"credit-engine/internal/infrastructure/logging"
	"credit-engine/internal/pkg/clock"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/robfig/cron/v3"
)

// storage bundles the repositories of the configured database driver.
type storage struct {
	customers customer.CustomerRepository
	loans     loan.Repository
	close     func()
}

func runServe(configPath string) error {
	cfg, logger, err := initializeApp(configPath)
	if err != nil {
		return err
	}
	ctx := context.Background()

	store, err := initializeDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.close()

	publisher, closePublisher, err := initializeEventPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer closePublisher()

	idempotency, closeIdempotency, err := initializeIdempotencyStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeIdempotency()

	customerService, loanService, err := initializeServices(cfg, store, publisher, logger)
	if err != nil {
		return err
	}

	snapshotJob := batch.NewPortfolioSnapshotJob(store.loans, clock.System{}, logger)
	cronScheduler := startBatchJobs(cfg, logger, snapshotJob)

	rateLimiter := mw.NewRateLimiterMiddleware(cfg.Server.RateLimit, logger)
	router := api.SetupRouter(api.Dependencies{
		CustomerService:  customerService,
		LoanService:      loanService,
		IdempotencyStore: idempotency,
		RateLimiter:      rateLimiter,
	}, cfg, logger)

	srv, serverErrors, shutdownChan := startServer(cfg, router, logger)
	return handleShutdown(srv, cronScheduler, rateLimiter, shutdownChan, serverErrors, logger)
}

func initializeApp(configPath string) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := logging.NewLogger(cfg.Logger)
	logger.Info("Application starting...", "config_source", cfg.Source, "database_driver", cfg.Database.Driver)

	return cfg, logger, nil
}

func initializeDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*storage, error) {
	if cfg.Database.Driver == config.DriverMemory {
		logger.Warn("Using in-memory storage, data is lost on restart")
		store := memory.NewStore(logger)
		return &storage{customers: store, loans: store, close: func() {}}, nil
	}

	if cfg.Database.AutoMigrate {
		if err := runMigrations(cfg, logger); err != nil {
			return nil, err
		}
	}

	logger.Info("Initializing database connection pool...")
	dbPool, err := postgres.NewConnectionPool(ctx, cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database connection pool: %w", err)
	}
	return &storage{
		customers: postgres.NewCustomerRepository(dbPool, logger),
		loans:     postgres.NewLoanRepository(dbPool, logger),
		close: func() {
			logger.Info("Closing database connection pool...")
			dbPool.Close()
		},
	}, nil
}

func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	m, err := migration.NewFromURL(cfg.Database.URL, cfg.Database.MigrationsPath, logger)
	if err != nil {
		return err
	}
	defer m.Close()
	return m.Up()
}

func initializeEventPublisher(cfg *config.Config, logger *slog.Logger) (event.EventPublisher, func(), error) {
	if !cfg.RabbitMQ.Enabled {
		logger.Info("RabbitMQ disabled, domain events will not be published")
		return event.NoopPublisher{}, func() {}, nil
	}

	conn, err := amqp.Dial(cfg.RabbitMQ.URL())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	publisher, err := event.NewRabbitMQEventPublisher(conn, cfg.RabbitMQ.ExchangeName, logger)
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return publisher, func() {
		logger.Info("Closing RabbitMQ connection...")
		if err := conn.Close(); err != nil {
			logger.Warn("Failed to close RabbitMQ connection", "error", err)
		}
	}, nil
}

func initializeIdempotencyStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (mw.IdempotencyStore, func(), error) {
	if !cfg.Redis.Enabled {
		logger.Info("Redis disabled, idempotency keys are kept in process memory")
		return cache.NewInMemoryIdempotencyStore(), func() {}, nil
	}

	client, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	return cache.NewRedisIdempotencyStore(client, cfg.Redis.KeyPrefix), func() {
		if err := client.Close(); err != nil {
			logger.Warn("Failed to close Redis client", "error", err)
		}
	}, nil
}

func initializeServices(cfg *config.Config, store *storage, publisher event.EventPublisher, logger *slog.Logger) (customer.CustomerService, loan.LoanService, error) {
	logger.Info("Initializing application components...")

	tiers, err := cfg.Credit.CreditTierPolicy()
	if err != nil {
		return nil, nil, err
	}
	policies, err := cfg.Credit.LoanPolicies()
	if err != nil {
		return nil, nil, err
	}

	customerService := customer.NewCustomerService(store.customers, tiers, logger, customer.WithEventPublisher(publisher))
	loanService := loan.NewLoanService(store.loans, customerService, policies, logger, loan.WithEventPublisher(publisher))
	return customerService, loanService, nil
}

func startServer(cfg *config.Config, router http.Handler, logger *slog.Logger) (*http.Server, <-chan error, <-chan os.Signal) {
	logger.Info("Setting up HTTP server...", "port", cfg.Server.Port)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Server listening on port %d", cfg.Server.Port))
		err := srv.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			serverErrors <- err
		} else {
			logger.Info("Server closed gracefully.")
			serverErrors <- nil
		}
	}()
	return srv, serverErrors, shutdownChan
}

func handleShutdown(srv *http.Server, cronScheduler *cron.Cron, rateLimiter *mw.RateLimiterMiddleware, shutdownChan <-chan os.Signal, serverErrors <-chan error, logger *slog.Logger) error {
	defer rateLimiter.Stop()

	logger.Info("Shutdown handler started. Waiting for signal or server error...")

	var triggerReason string
	select {
	case sig := <-shutdownChan:
		triggerReason = "signal: " + sig.String()
		logger.Info("Shutdown signal received.", "signal", sig.String())
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server exited unexpectedly before signal", "error", err)
			cronScheduler.Stop()
			return err
		}
		triggerReason = "server exited"
	}

	logger.Info("Starting graceful shutdown...", "trigger", triggerReason)

	logger.Info("Stopping cron scheduler...")
	cronCtx := cronScheduler.Stop()
	select {
	case <-cronCtx.Done():
		logger.Info("Cron scheduler stopped gracefully.")
	case <-time.After(15 * time.Second):
		logger.Warn("Cron scheduler shutdown timed out.")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	logger.Info("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", "error", err)
		if err := srv.Close(); err != nil {
			logger.Error("HTTP server forced close failed", "error", err)
		}
	} else {
		logger.Info("HTTP server gracefully stopped.")
	}

	logger.Info("Application shutdown process complete.")
	return nil
}

func startBatchJobs(cfg *config.Config, logger *slog.Logger, snapshotJob *batch.PortfolioSnapshotJob) *cron.Cron {
	logger.Info("Initializing batch job scheduler...")
	c := cron.New()

	scheduleSpec := cfg.Batch.PortfolioSnapshotSchedule
	if scheduleSpec == "" {
		scheduleSpec = "*/15 * * * *"
		logger.Warn("Portfolio snapshot schedule not configured, using default", "schedule", scheduleSpec)
	}
	jobTimeout := cfg.Batch.PortfolioSnapshotTimeout
	if jobTimeout <= 0 {
		jobTimeout = 2 * time.Minute
	}

	run := func() {
		jobLogger := logger.With("job_name", "PortfolioSnapshot")
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		if _, err := snapshotJob.Run(ctx); err != nil {
			jobLogger.Error("Portfolio snapshot job finished with error", slog.Any("error", err))
		}
	}

	jobID, err := c.AddJob(scheduleSpec, cron.FuncJob(run))
	if err != nil {
		logger.Error("Failed to schedule portfolio snapshot job", "schedule", scheduleSpec, slog.Any("error", err))
	} else {
		logger.Info("Scheduled portfolio snapshot job", "schedule", scheduleSpec, "job_id", jobID)
		go run()
	}

	c.Start()
	logger.Info("Cron scheduler started.")
	return c
}
