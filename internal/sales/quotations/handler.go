package quotations

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/quotebook/quotebook/internal/platform/httpx"
	"github.com/quotebook/quotebook/internal/shared"
)

// Handler exposes the quote editor and list over JSON.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

type saveRequest struct {
	Quotation
	RequireItems bool `json:"requireItems"`
}

type statusRequest struct {
	Status Status `json:"status"`
}

type addItemRequest struct {
	ProductID int64 `json:"productId"`
}

type distanceRequest struct {
	Km decimal.Decimal `json:"km"`
}

type transitionsResponse struct {
	Current Status   `json:"current"`
	Next    []Status `json:"next"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := h.service.ListRecent(r.Context(), Filter{Status: Status(q.Get("status")), Search: q.Get("search")})
	if err != nil {
		h.fail(w, "list quotations failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) Draft(w http.ResponseWriter, r *http.Request) {
	draft, err := h.service.Draft(r.Context())
	if err != nil {
		h.fail(w, "draft quotation failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, draft)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	q, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "get quotation failed", err, "id", id)
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, shared.NewValidationError("body", "malformed JSON"))
		return
	}
	req.Quotation.ID = 0
	saved, err := h.service.Save(r.Context(), req.Quotation, SaveOptions{RequireItems: req.RequireItems})
	if err != nil {
		h.fail(w, "create quotation failed", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, saved)
}

func (h *Handler) Replace(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var req saveRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, shared.NewValidationError("body", "malformed JSON"))
		return
	}
	req.Quotation.ID = id
	saved, err := h.service.Save(r.Context(), req.Quotation, SaveOptions{RequireItems: req.RequireItems})
	if err != nil {
		h.fail(w, "save quotation failed", err, "id", id)
		return
	}
	httpx.JSON(w, http.StatusOK, saved)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var patch Patch
	if err := httpx.DecodeStrict(r, &patch); err != nil {
		httpx.RespondError(w, err)
		return
	}
	q, err := h.service.Update(r.Context(), id, patch)
	if err != nil {
		h.fail(w, "update quotation failed", err, "id", id)
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}

func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var req statusRequest
	if err := httpx.DecodeStrict(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	q, err := h.service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		h.fail(w, "update quotation status failed", err, "id", id)
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}

func (h *Handler) Transitions(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	q, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "get quotation failed", err, "id", id)
		return
	}
	next := []Status{}
	for _, s := range Statuses {
		if s != q.Status && CanTransition(q.Status, s) {
			next = append(next, s)
		}
	}
	httpx.JSON(w, http.StatusOK, transitionsResponse{Current: q.Status, Next: next})
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var req addItemRequest
	if err := httpx.DecodeStrict(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	q, err := h.service.AddProduct(r.Context(), id, req.ProductID)
	if err != nil {
		h.fail(w, "add quotation item failed", err, "id", id)
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, index, err := itemPath(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var patch ItemPatch
	if err := httpx.DecodeStrict(r, &patch); err != nil {
		httpx.RespondError(w, err)
		return
	}
	q, err := h.service.UpdateItem(r.Context(), id, index, patch)
	if err != nil {
		h.fail(w, "update quotation item failed", err, "id", id, "index", index)
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, index, err := itemPath(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	q, err := h.service.RemoveItem(r.Context(), id, index)
	if err != nil {
		h.fail(w, "remove quotation item failed", err, "id", id, "index", index)
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}

func (h *Handler) SetShippingDistance(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var req distanceRequest
	if err := httpx.DecodeStrict(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	q, err := h.service.SetShippingDistance(r.Context(), id, req.Km)
	if err != nil {
		h.fail(w, "set shipping distance failed", err, "id", id)
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.fail(w, "delete quotation failed", err, "id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func itemPath(r *http.Request) (int64, int, error) {
	id, err := httpx.PathID(r)
	if err != nil {
		return 0, 0, err
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		return 0, 0, shared.NewValidationError("index", "must be an integer")
	}
	return id, index, nil
}

func (h *Handler) fail(w http.ResponseWriter, msg string, err error, attrs ...any) {
	h.logger.Error(msg, append([]any{slog.Any("error", err)}, attrs...)...)
	httpx.RespondError(w, err)
}
