package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/quotebook/quotebook/internal/analytics"
	analytichttp "github.com/quotebook/quotebook/internal/analytics/http"
	"github.com/quotebook/quotebook/internal/app"
	"github.com/quotebook/quotebook/internal/auth"
	"github.com/quotebook/quotebook/internal/calendar"
	"github.com/quotebook/quotebook/internal/masterdata/categories"
	"github.com/quotebook/quotebook/internal/masterdata/products"
	"github.com/quotebook/quotebook/internal/observability"
	"github.com/quotebook/quotebook/internal/platform/cache"
	"github.com/quotebook/quotebook/internal/sales"
	"github.com/quotebook/quotebook/internal/sales/customers"
	"github.com/quotebook/quotebook/internal/sales/orders"
	"github.com/quotebook/quotebook/internal/sales/quotations"
	"github.com/quotebook/quotebook/internal/settings"
	"github.com/quotebook/quotebook/internal/shared"
	"github.com/quotebook/quotebook/internal/store"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Default().Warn("load .env", slog.Any("error", err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)
	slog.SetDefault(logger)

	loc, err := cfg.Location()
	if err != nil {
		logger.Error("load timezone", slog.Any("error", err))
		os.Exit(1)
	}
	clock := shared.SystemClock{Location: loc}

	db, err := store.Open(ctx, cfg.PGDSN, store.WithLogger(logger))
	if err != nil {
		logger.Error("open store", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "quotebook_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	metrics := observability.NewMetrics()

	pool, schema := db.Pool(), db.Schema()

	settingsService := settings.NewService(settings.NewRepository(pool))
	customerService := customers.NewService(customers.NewRepository(pool, schema))
	categoryService := categories.NewService(categories.NewRepository(pool, schema))
	productService := products.NewService(products.NewRepository(pool, schema))
	quotationService := quotations.NewService(quotations.NewRepository(pool, schema), customerService, productService, settingsService, clock)
	orderService := orders.NewService(orders.NewRepository(pool, schema))
	calendarService := calendar.NewService(calendar.NewRepository(pool, schema))
	converter := sales.NewConverter(sales.NewRepository(db), logger).WithObserver(metrics)
	authService := auth.NewService(settingsService)
	analyticsService := analytics.NewService(quotationService, customerService, productService, calendarService, clock)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		SessionManager:    sessionManager,
		Metrics:           metrics,
		AuthHandler:       auth.NewHandler(logger, authService, clock),
		CustomersHandler:  customers.NewHandler(logger, customerService),
		CategoriesHandler: categories.NewHandler(logger, categoryService),
		ProductsHandler:   products.NewHandler(logger, productService, categoryService),
		QuotationsHandler: quotations.NewHandler(logger, quotationService),
		OrdersHandler:     orders.NewHandler(logger, orderService),
		SalesHandler:      sales.NewHandler(logger, converter),
		CalendarHandler:   calendar.NewHandler(logger, calendarService),
		SettingsHandler:   settings.NewHandler(logger, settingsService),
		AnalyticsHandler:  analytichttp.NewHandler(logger, analyticsService, clock),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
