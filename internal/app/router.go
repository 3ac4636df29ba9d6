package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	analytichttp "github.com/quotebook/quotebook/internal/analytics/http"
	"github.com/quotebook/quotebook/internal/auth"
	"github.com/quotebook/quotebook/internal/calendar"
	"github.com/quotebook/quotebook/internal/masterdata/categories"
	"github.com/quotebook/quotebook/internal/masterdata/products"
	"github.com/quotebook/quotebook/internal/observability"
	"github.com/quotebook/quotebook/internal/sales"
	"github.com/quotebook/quotebook/internal/sales/customers"
	"github.com/quotebook/quotebook/internal/sales/orders"
	"github.com/quotebook/quotebook/internal/sales/quotations"
	"github.com/quotebook/quotebook/internal/settings"
	"github.com/quotebook/quotebook/internal/shared"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	Metrics        *observability.Metrics

	AuthHandler       *auth.Handler
	CustomersHandler  *customers.Handler
	CategoriesHandler *categories.Handler
	ProductsHandler   *products.Handler
	QuotationsHandler *quotations.Handler
	OrdersHandler     *orders.Handler
	SalesHandler      *sales.Handler
	CalendarHandler   *calendar.Handler
	SettingsHandler   *settings.Handler
	AnalyticsHandler  *analytichttp.Handler
}

// NewRouter constructs the chi.Router with quotebook defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	if params.Config == nil || !params.Config.IsProduction() {
		r.Use(chimw.Logger)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	if params.AuthHandler != nil {
		params.AuthHandler.MountRoutes(r)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(auth.RequireSession)
		if params.CustomersHandler != nil {
			params.CustomersHandler.MountRoutes(r)
		}
		if params.CategoriesHandler != nil {
			params.CategoriesHandler.MountRoutes(r)
		}
		if params.ProductsHandler != nil {
			params.ProductsHandler.MountRoutes(r)
		}
		if params.QuotationsHandler != nil {
			params.QuotationsHandler.MountRoutes(r)
		}
		if params.OrdersHandler != nil {
			params.OrdersHandler.MountRoutes(r)
		}
		if params.SalesHandler != nil {
			params.SalesHandler.MountRoutes(r)
		}
		if params.CalendarHandler != nil {
			params.CalendarHandler.MountRoutes(r)
		}
		if params.SettingsHandler != nil {
			params.SettingsHandler.MountRoutes(r)
		}
		if params.AnalyticsHandler != nil {
			params.AnalyticsHandler.MountRoutes(r)
		}
	})

	return r
}
