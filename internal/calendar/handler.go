package calendar

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quotebook/quotebook/internal/platform/httpx"
)

// Handler exposes note upsert and lookup. The month view lives in analytics.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers note routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/calendar/notes", h.List)
	r.Get("/calendar/notes/{date}", h.Show)
	r.Put("/calendar/notes/{date}", h.Upsert)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to")
	var (
		notes []Note
		err   error
	)
	if from == "" && to == "" {
		notes, err = h.service.List(r.Context())
	} else {
		notes, err = h.service.ListBetween(r.Context(), from, to)
	}
	if err != nil {
		h.logger.Error("list notes failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if notes == nil {
		notes = []Note{}
	}
	httpx.JSON(w, http.StatusOK, notes)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	note, err := h.service.GetByDate(r.Context(), date)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, note)
}

type upsertRequest struct {
	Text string `json:"text"`
}

func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	var req upsertRequest
	if err := httpx.DecodeStrict(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	note, err := h.service.UpsertForDate(r.Context(), date, req.Text)
	if err != nil {
		h.logger.Error("upsert note failed", slog.Any("error", err), slog.String("date", date))
		httpx.RespondError(w, err)
		return
	}
	if note == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	httpx.JSON(w, http.StatusOK, note)
}
