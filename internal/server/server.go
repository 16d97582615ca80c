package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"finledger/internal/config"
	"finledger/internal/handlers"
	"finledger/internal/middleware"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// multipart framing on top of the CSV itself
const uploadOverheadBytes = 64 << 10

// New builds the HTTP API. The rate limiter cleanup stops when ctx is done.
func New(ctx context.Context, cfg *config.Config, ledger *Ledger, db handlers.HealthChecker) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handlers.NewValidator()
	e.HTTPErrorHandler = middleware.CustomHTTPErrorHandler

	e.Use(middleware.RequestID())
	e.Use(middleware.PanicRecovery())
	e.Use(middleware.SecurityHeaders())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:  cfg.Server.CORSAllowOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost},
		AllowHeaders:  []string{echo.HeaderContentType, middleware.TraceIDHeader},
		ExposeHeaders: []string{middleware.TraceIDHeader},
	}))
	e.Use(echomiddleware.BodyLimit(strconv.FormatInt(cfg.Import.MaxUploadBytes+uploadOverheadBytes, 10) + "B"))

	healthHandler := handlers.NewHealthCheckHandler(db)
	e.GET("/health", healthHandler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	transactionHandler := handlers.NewTransactionHandler(ledger.Transactions, ledger.Balance)
	importHandler := handlers.NewImportHandler(ledger.Import, cfg.Import)
	categoryHandler := handlers.NewCategoryHandler(ledger.Categories)

	rateLimit := middleware.RateLimiter(ctx, cfg.Security)

	api := e.Group("/transactions", rateLimit)
	api.POST("", transactionHandler.CreateTransaction)
	api.GET("", transactionHandler.ListTransactions)
	api.GET("/balance", transactionHandler.GetBalance)
	api.POST("/import", importHandler.ImportTransactions)

	e.GET("/categories", categoryHandler.ListCategories, rateLimit)

	return e
}

// NewHTTPServer wraps the echo instance with the configured timeouts
func NewHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Address(),
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}
}
