package analytichttp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/quotebook/quotebook/internal/analytics"
	"github.com/quotebook/quotebook/internal/analytics/export"
	"github.com/quotebook/quotebook/internal/platform/httpx"
	"github.com/quotebook/quotebook/internal/shared"
)

const requestTimeout = 2 * time.Second

// AnalyticsService defines the aggregate contract used by the handler.
type AnalyticsService interface {
	Dashboard(ctx context.Context) (analytics.DashboardStats, error)
	Alerts(ctx context.Context) ([]analytics.Alert, error)
	Calendar(ctx context.Context, year, month int) (analytics.CalendarMonth, error)
	Report(ctx context.Context) (analytics.Report, error)
}

// Handler serves dashboard, alert, calendar and report endpoints.
type Handler struct {
	logger  *slog.Logger
	service AnalyticsService
	clock   shared.Clock
	bufPool sync.Pool
}

// NewHandler constructs the analytics HTTP handler.
func NewHandler(logger *slog.Logger, service AnalyticsService, clock shared.Clock) *Handler {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	h := &Handler{logger: logger, service: service, clock: clock}
	h.bufPool.New = func() interface{} { return new(bytes.Buffer) }
	return h
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	stats, err := h.service.Dashboard(ctx)
	if err != nil {
		h.handleServerError(w, "load dashboard", err)
		return
	}
	httpx.JSON(w, http.StatusOK, stats)
}

func (h *Handler) handleAlerts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	alerts, err := h.service.Alerts(ctx)
	if err != nil {
		h.handleServerError(w, "load alerts", err)
		return
	}
	httpx.JSON(w, http.StatusOK, alerts)
}

func (h *Handler) handleCalendar(w http.ResponseWriter, r *http.Request) {
	year, month, err := h.parseMonth(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	cm, err := h.service.Calendar(ctx, year, month)
	if err != nil {
		h.handleServerError(w, "load calendar", err)
		return
	}
	httpx.JSON(w, http.StatusOK, cm)
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	report, err := h.service.Report(ctx)
	if err != nil {
		h.handleServerError(w, "load report", err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) handleCSV(w http.ResponseWriter, r *http.Request) {
	h.streamReport(w, r, "csv", "text/csv; charset=utf-8", export.WriteReportCSV)
}

func (h *Handler) handleXLSX(w http.ResponseWriter, r *http.Request) {
	h.streamReport(w, r, "xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", export.WriteReportXLSX)
}

func (h *Handler) streamReport(w http.ResponseWriter, r *http.Request, ext, contentType string, write func(io.Writer, analytics.Report) error) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	report, err := h.service.Report(ctx)
	if err != nil {
		h.handleServerError(w, "load report", err)
		return
	}

	buf := h.bufPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer func() {
		buf.Reset()
		h.bufPool.Put(buf)
	}()

	if err := write(buf, report); err != nil {
		h.handleServerError(w, "write "+ext, err)
		return
	}

	filename := fmt.Sprintf("relatorio-%s.%s", report.From[:7], ext)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logError("stream "+ext, err)
	}
}

// parseMonth reads ?year=&month=, defaulting to the current month.
func (h *Handler) parseMonth(r *http.Request) (int, int, error) {
	now := h.clock.Now()
	year, month := now.Year(), int(now.Month())
	if raw := r.URL.Query().Get("year"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, shared.NewValidationError("year", "must be a number")
		}
		year = v
	}
	if raw := r.URL.Query().Get("month"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, shared.NewValidationError("month", "must be a number")
		}
		month = v
	}
	return year, month, nil
}

func (h *Handler) handleServerError(w http.ResponseWriter, context string, err error) {
	h.logError(context, err)
	httpx.RespondError(w, err)
}

func (h *Handler) logError(context string, err error) {
	if h.logger == nil {
		return
	}
	h.logger.Error("analytics handler error", slog.String("context", context), slog.Any("error", err))
}
