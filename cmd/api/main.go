// @title Fortuna Tracker API
// @version 1.0
// @description Personal finance dashboard over a remote finance API
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/dafibh/fortuna/fortuna-tracker/docs"
	"github.com/dafibh/fortuna/fortuna-tracker/internal/config"
	"github.com/dafibh/fortuna/fortuna-tracker/internal/handler"
	"github.com/dafibh/fortuna/fortuna-tracker/internal/middleware"
	"github.com/dafibh/fortuna/fortuna-tracker/internal/repository/remote"
	"github.com/dafibh/fortuna/fortuna-tracker/internal/repository/snapshot"
	"github.com/dafibh/fortuna/fortuna-tracker/internal/service"
	"github.com/dafibh/fortuna/fortuna-tracker/internal/websocket"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	echoSwagger "github.com/swaggo/echo-swagger"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Remote finance API
	client := remote.NewClient(cfg.FinanceAPI.URL,
		remote.WithTimeout(cfg.FinanceAPI.Timeout),
		remote.WithRateLimit(cfg.FinanceAPI.RateLimit),
		remote.WithCurrency(cfg.DefaultCurrency),
	)
	log.Info().Str("url", cfg.FinanceAPI.URL).Msg("Using finance API")

	// Initialize repositories
	transactionRepo := remote.NewTransactionRepository(client)
	investmentRepo := remote.NewInvestmentRepository(client)
	snapshotStore := snapshot.NewStore()

	// Initialize WebSocket hub
	wsHub := websocket.NewHub()

	// Initialize services
	periodFilter := service.NewPeriodFilter(cfg.ReportTimezone, cfg.AllowOpenCustomRange)
	snapshotService := service.NewSnapshotService(transactionRepo, investmentRepo, snapshotStore, cfg.SnapshotTTL)
	snapshotService.SetEventPublisher(wsHub)
	snapshotService.SetSessionCloser(wsHub)
	transactionService := service.NewTransactionService(transactionRepo, snapshotService, periodFilter, cfg.DefaultCurrency, cfg.DefaultLocale)
	transactionService.SetEventPublisher(wsHub)
	investmentService := service.NewInvestmentService(snapshotService, cfg.DefaultCurrency)
	reportService := service.NewReportService(snapshotService, periodFilter, cfg.DefaultCurrency)
	dashboardService := service.NewDashboardService(snapshotService, periodFilter, investmentService, cfg.DefaultCurrency)

	// Start snapshot eviction
	snapshotWorker := service.NewSnapshotWorker(snapshotService, log.Logger, service.SnapshotWorkerConfig{
		Schedule: cfg.SnapshotEvictSchedule,
	})
	if err := snapshotWorker.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start snapshot worker")
	}

	// Per-session rate limiting
	rateLimiter := middleware.NewRateLimiter()

	// Initialize handlers
	handlers := handler.Handlers{
		Dashboard:   handler.NewDashboardHandler(dashboardService, cfg.ReportTimezone, cfg.DefaultLocale),
		Transaction: handler.NewTransactionHandler(transactionService, cfg.ReportTimezone, cfg.DefaultLocale),
		Report:      handler.NewReportHandler(reportService, cfg.ReportTimezone, cfg.DefaultLocale),
		Investment:  handler.NewInvestmentHandler(investmentService, cfg.DefaultLocale),
	}
	wsHandler := handler.NewWebSocketHandler(wsHub, middleware.NewTokenSessionResolver(), snapshotService, cfg.CORSOrigins)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "Idempotency-Key"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"status":    "ok",
			"wsClients": wsHub.TotalClientCount(),
		})
	})

	// API docs
	if !cfg.IsProduction() {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}
	e.GET("/openapi.json", handler.OpenAPI3Handler([]handler.Server{
		{URL: "/api/v1", Description: "Current host"},
	}))

	// WebSocket endpoint (token in query, browsers cannot set headers)
	e.GET("/ws", wsHandler.HandleWS)

	// Register API routes
	handler.RegisterRoutes(e, rateLimiter, handlers)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	snapshotWorker.Stop()
	rateLimiter.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
