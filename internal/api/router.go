package api

import (
	"log/slog"
	"net/http"
	"time"

	"easytap/internal/api/handler"
	mw "easytap/internal/api/middleware"
	"easytap/internal/config"
	"easytap/internal/domain/identity"
	"easytap/internal/domain/ledger"
	"easytap/internal/domain/loan"
	"easytap/internal/domain/product"

	_ "easytap/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/traceid"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Services struct {
	Loan     loan.LoanService
	Product  product.ProductService
	Ledger   ledger.LedgerService
	Identity identity.Service
}

func SetupRouter(svcs Services, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	router := chi.NewRouter()

	setupMiddleware(router, cfg, logger)
	setupMetricsEndpoint(router, cfg, logger)
	setupAuthRoutes(router, cfg, logger)
	setupProductRoutes(router, svcs, cfg, logger)
	setupLoanRoutes(router, svcs, cfg, logger)
	setupLedgerRoutes(router, svcs, cfg, logger)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	setupSwaggerEndpoint(router, logger)

	return router
}

func setupMiddleware(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(traceid.Middleware)
	router.Use(mw.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(mw.NewRateLimiterMiddleware(cfg.Server.RateLimit, logger).Middleware)
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

func setupAuthRoutes(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	authHandler := handler.NewAuthHandler(*cfg, logger)
	router.Route("/auth", func(r chi.Router) {
		r.Post("/token", authHandler.GenerateBearerToken)
	})
}

func setupProductRoutes(router *chi.Mux, svcs Services, cfg *config.Config, logger *slog.Logger) {
	h := handler.NewProductHandler(svcs.Product, svcs.Identity, logger)

	router.Route("/products", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Post("/", h.CreateProduct)
		r.Get("/", h.ListProducts)
		r.Route("/{productID}", func(r chi.Router) {
			r.Get("/", h.GetProduct)
			r.Put("/active", h.SetProductActive)
		})
	})
}

func setupLoanRoutes(router *chi.Mux, svcs Services, cfg *config.Config, logger *slog.Logger) {
	h := handler.NewLoanHandler(svcs.Loan, logger)

	router.Route("/loans", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Post("/", h.CreateDisbursed)
		r.Get("/", h.ListLoans)
		r.Post("/apply", h.Apply)
		r.Route("/{loanID}", func(r chi.Router) {
			r.Get("/", h.GetLoan)
			r.Post("/approve", h.Approve)
			r.Post("/reject", h.Reject)
			r.Post("/repayments", h.RecordRepayment)
			r.Get("/repayments", h.ListRepayments)
		})
	})
}

func setupLedgerRoutes(router *chi.Mux, svcs Services, cfg *config.Config, logger *slog.Logger) {
	h := handler.NewLedgerHandler(svcs.Ledger, svcs.Loan, svcs.Identity, logger)

	router.Route("/ledger", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Get("/entries", h.ListEntries)
	})

	router.Route("/overview", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Get("/", h.GetOverview)
	})
}
