package settings

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/quotebook/quotebook/internal/platform/httpx"
	"github.com/quotebook/quotebook/internal/shared"
)

// Handler exposes the settings record.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers settings routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/settings", func(r chi.Router) {
		r.Get("/", h.Show)
		r.Patch("/", h.Update)
		r.Post("/password", h.ChangePassword)
		r.Get("/shipping-fee", h.ShippingFee)
	})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.service.Get(r.Context())
	if err != nil {
		h.fail(w, "get settings failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, cfg)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var patch Patch
	if err := httpx.DecodeStrict(r, &patch); err != nil {
		httpx.RespondError(w, err)
		return
	}
	cfg, err := h.service.Update(r.Context(), patch)
	if err != nil {
		h.fail(w, "update settings failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, cfg)
}

type passwordRequest struct {
	Current  string `json:"current"`
	Password string `json:"password"`
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if err := httpx.DecodeStrict(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.VerifyPassword(r.Context(), req.Current); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.SetPassword(r.Context(), req.Password); err != nil {
		h.fail(w, "set password failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ShippingFee(w http.ResponseWriter, r *http.Request) {
	km, err := decimal.NewFromString(r.URL.Query().Get("km"))
	if err != nil {
		httpx.RespondError(w, shared.NewValidationError("km", "must be a number"))
		return
	}
	fee, err := h.service.ShippingFeeFor(r.Context(), km)
	if err != nil {
		h.fail(w, "shipping fee failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]decimal.Decimal{"distanceKm": km, "shippingFee": fee})
}

func (h *Handler) fail(w http.ResponseWriter, msg string, err error) {
	h.logger.Error(msg, slog.Any("error", err))
	httpx.RespondError(w, err)
}
