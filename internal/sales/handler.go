package sales

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quotebook/quotebook/internal/platform/httpx"
)

// Handler exposes quote conversion.
type Handler struct {
	logger    *slog.Logger
	converter *Converter
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, converter *Converter) *Handler {
	return &Handler{logger: logger, converter: converter}
}

// MountRoutes registers conversion routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/quotations/{id}/convert", h.Convert)
}

type convertRequest struct {
	DeliveryDate string `json:"deliveryDate"`
}

func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var req convertRequest
	if err := httpx.DecodeStrict(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	order, err := h.converter.ConvertToOrder(r.Context(), id, req.DeliveryDate)
	if err != nil {
		h.logger.Error("convert quotation failed", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, order)
}
