package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"syscall"
	"testing"
	"time"

	mw "credit-engine/internal/api/middleware"
	"credit-engine/internal/batch"
	"credit-engine/internal/config"
	"credit-engine/internal/domain/loan"
	"credit-engine/internal/event"
	"credit-engine/internal/infrastructure/cache"
	"credit-engine/internal/pkg/clock"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func memoryEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_DRIVER", config.DriverMemory)
	t.Setenv("SERVER_AUTH_ENABLED", "false")
}

func TestInitializeApp(t *testing.T) {
	memoryEnv(t)

	cfg, logger, err := initializeApp(t.TempDir())
	require.NoError(t, err)
	assert.NotNil(t, logger)
	assert.Equal(t, config.DriverMemory, cfg.Database.Driver)
}

func TestInitializeAppRejectsMissingSecret(t *testing.T) {
	t.Setenv("SERVER_AUTH_ENABLED", "true")
	t.Setenv("SERVER_AUTH_JWTSECRET", "")

	_, _, err := initializeApp(t.TempDir())
	assert.ErrorContains(t, err, "failed to load configuration")
}

func TestInitializeMemoryStack(t *testing.T) {
	memoryEnv(t)
	cfg, logger, err := initializeApp(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	store, err := initializeDatabase(ctx, cfg, logger)
	require.NoError(t, err)
	defer store.close()

	publisher, closePublisher, err := initializeEventPublisher(cfg, logger)
	require.NoError(t, err)
	defer closePublisher()
	assert.IsType(t, event.NoopPublisher{}, publisher)

	idempotency, closeIdempotency, err := initializeIdempotencyStore(ctx, cfg, logger)
	require.NoError(t, err)
	defer closeIdempotency()
	assert.IsType(t, &cache.InMemoryIdempotencyStore{}, idempotency)

	customers, loans, err := initializeServices(cfg, store, publisher, logger)
	require.NoError(t, err)
	assert.NotNil(t, customers)
	assert.NotNil(t, loans)
}

func TestStartServer(t *testing.T) {
	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:         0,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
			IdleTimeout:  5 * time.Second,
		},
	}
	router := http.NewServeMux()

	srv, serverErrors, shutdownChan := startServer(cfg, router, testLogger)

	assert.NotNil(t, srv)
	assert.NotNil(t, serverErrors)
	assert.NotNil(t, shutdownChan)
	require.NoError(t, srv.Close())
}

func TestHandleShutdown(t *testing.T) {
	cronScheduler := cron.New()
	cronScheduler.Start()
	srv := &http.Server{}
	shutdownChan := make(chan os.Signal, 1)
	serverErrors := make(chan error, 1)

	shutdownChan <- syscall.SIGINT

	rateLimiter := mw.NewRateLimiterMiddleware(config.RateLimitConfig{Enabled: true, RPS: 10, Burst: 10}, testLogger)

	assert.NoError(t, handleShutdown(srv, cronScheduler, rateLimiter, shutdownChan, serverErrors, testLogger))
	assert.True(t, rateLimiter.Stopped())
}

func TestHandleShutdownReturnsServerError(t *testing.T) {
	shutdownChan := make(chan os.Signal, 1)
	serverErrors := make(chan error, 1)
	serverErrors <- assert.AnError

	rateLimiter := mw.NewRateLimiterMiddleware(config.RateLimitConfig{Enabled: true, RPS: 10, Burst: 10}, testLogger)

	err := handleShutdown(&http.Server{}, cron.New(), rateLimiter, shutdownChan, serverErrors, testLogger)
	assert.ErrorIs(t, err, assert.AnError)
	assert.True(t, rateLimiter.Stopped())
}

type emptyBook struct{}

func (emptyBook) PortfolioSummary(ctx context.Context) (loan.PortfolioSummary, error) {
	return loan.PortfolioSummary{}, nil
}

func TestStartBatchJobs(t *testing.T) {
	job := batch.NewPortfolioSnapshotJob(emptyBook{}, clock.System{}, testLogger)

	t.Run("schedules the configured expression", func(t *testing.T) {
		cfg := &config.Config{Batch: config.BatchConfig{PortfolioSnapshotSchedule: "@every 1h", PortfolioSnapshotTimeout: time.Second}}
		c := startBatchJobs(cfg, testLogger, job)
		defer c.Stop()

		assert.Len(t, c.Entries(), 1)
	})

	t.Run("falls back to the default schedule", func(t *testing.T) {
		c := startBatchJobs(&config.Config{}, testLogger, job)
		defer c.Stop()

		assert.Len(t, c.Entries(), 1)
	})

	t.Run("skips an invalid expression", func(t *testing.T) {
		cfg := &config.Config{Batch: config.BatchConfig{PortfolioSnapshotSchedule: "not a schedule"}}
		c := startBatchJobs(cfg, testLogger, job)
		defer c.Stop()

		assert.Empty(t, c.Entries())
	})
}

func TestHashPasswordCommand(t *testing.T) {
	t.Run("hashes the argument", func(t *testing.T) {
		var out bytes.Buffer
		cmd := newRootCmd()
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"hash-password", "--cost", "4", "s3cret"})

		require.NoError(t, cmd.Execute())
		hash := strings.TrimSpace(out.String())
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))
	})

	t.Run("reads the password from stdin", func(t *testing.T) {
		var out bytes.Buffer
		cmd := newRootCmd()
		cmd.SetOut(&out)
		cmd.SetIn(strings.NewReader("from-stdin\n"))
		cmd.SetArgs([]string{"hash-password", "--cost", "4"})

		require.NoError(t, cmd.Execute())
		hash := strings.TrimSpace(out.String())
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("from-stdin")))
	})

	t.Run("rejects an empty password", func(t *testing.T) {
		cmd := newRootCmd()
		cmd.SetIn(strings.NewReader("\n"))
		cmd.SetArgs([]string{"hash-password"})

		assert.ErrorContains(t, cmd.Execute(), "must not be empty")
	})
}

func TestMigrateRequiresPostgres(t *testing.T) {
	memoryEnv(t)

	cmd := newRootCmd()
	cmd.SetArgs([]string{"migrate", "up", "--config", t.TempDir()})

	assert.ErrorContains(t, cmd.Execute(), "migrations require")
}
