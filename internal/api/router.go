package api

import (
	"log/slog"
	"net/http"
	"time"

	"credit-engine/internal/api/handler"
	mw "credit-engine/internal/api/middleware"
	"credit-engine/internal/config"
	"credit-engine/internal/domain/customer"
	"credit-engine/internal/domain/loan"

	_ "credit-engine/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/traceid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// Dependencies are the services the HTTP layer is built on. The caller owns
// RateLimiter and must Stop it once the server is shut down; nil disables
// rate limiting.
type Dependencies struct {
	CustomerService  customer.CustomerService
	LoanService      loan.LoanService
	IdempotencyStore mw.IdempotencyStore
	RateLimiter      *mw.RateLimiterMiddleware
}

func SetupRouter(deps Dependencies, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	router := chi.NewRouter()

	setupMiddleware(router, deps, logger)
	setupMetricsEndpoint(router, cfg, logger)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	setupSwaggerEndpoint(router, logger)

	router.Route("/v1", func(r chi.Router) {
		setupAuthRoutes(r, cfg, logger)
		setupCustomerRoutes(r, deps, cfg, logger)
		setupLoanRoutes(r, deps, cfg, logger)
	})

	return router
}

func setupMiddleware(router *chi.Mux, deps Dependencies, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(traceid.Middleware)
	router.Use(mw.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(middleware.Timeout(60 * time.Second))
	if deps.RateLimiter != nil {
		router.Use(deps.RateLimiter.Middleware)
	}
	router.Use(mw.MetricsMiddleware())
}

func setupMetricsEndpoint(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	metricsPath := cfg.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	logger.Info("Setting up Prometheus metrics endpoint", "path", metricsPath)
	router.Handle(metricsPath, promhttp.Handler())
}

func setupSwaggerEndpoint(router *chi.Mux, logger *slog.Logger) {
	logger.Info("Setting up Swagger UI endpoint", "path", "/swagger/")
	router.Get("/swagger/*", httpSwagger.WrapHandler)
	router.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
}

func setupAuthRoutes(r chi.Router, cfg *config.Config, logger *slog.Logger) {
	authHandler := handler.NewAuthHandler(cfg.Server.Auth, logger)
	r.Post("/auth/login", authHandler.Login)
}

func setupCustomerRoutes(r chi.Router, deps Dependencies, cfg *config.Config, logger *slog.Logger) {
	h := handler.NewCustomerHandler(deps.CustomerService, deps.LoanService, logger)

	r.Route("/customers", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Post("/", h.CreateCustomer)
		r.Route("/{customerID}", func(r chi.Router) {
			r.Get("/", h.GetCustomer)
			r.Get("/loans", h.ListCustomerLoans)
		})
	})
}

func setupLoanRoutes(r chi.Router, deps Dependencies, cfg *config.Config, logger *slog.Logger) {
	h := handler.NewLoanHandler(deps.LoanService, logger)

	r.Route("/loans", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		if deps.IdempotencyStore != nil {
			r.With(mw.Idempotency(deps.IdempotencyStore, cfg.Redis.IdempotencyTTL, logger)).Post("/", h.CreateLoan)
		} else {
			r.Post("/", h.CreateLoan)
		}
		r.Get("/{loanID}", h.GetLoan)
	})
}
