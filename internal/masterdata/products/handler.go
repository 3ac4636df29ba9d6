package products

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/quotebook/quotebook/internal/platform/httpx"
)

// CategoryNames resolves category labels.
type CategoryNames interface {
	Names(ctx context.Context) (map[int64]string, error)
}

type Handler struct {
	logger     *slog.Logger
	service    *Service
	categories CategoryNames
}

func NewHandler(logger *slog.Logger, service *Service, categories CategoryNames) *Handler {
	return &Handler{logger: logger, service: service, categories: categories}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/products", h.List)
	r.Post("/products", h.Create)
	r.Get("/products/{id}", h.Show)
	r.Patch("/products/{id}", h.Update)
	r.Delete("/products/{id}", h.Delete)
	r.Post("/products/{id}/toggle", h.Toggle)
}

type productView struct {
	Product
	Category string           `json:"category"`
	Margin   *decimal.Decimal `json:"margin,omitempty"`
}

func (h *Handler) present(ctx context.Context, products ...Product) ([]productView, error) {
	names, err := h.categories.Names(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]productView, 0, len(products))
	for _, p := range products {
		v := productView{Product: p, Category: p.CategoryLabel(names)}
		if m, ok := p.Margin(); ok {
			m = m.Round(4)
			v.Margin = &m
		}
		out = append(out, v)
	}
	return out, nil
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	products, err := h.service.Search(r.Context(), q.Get("search"), q.Get("active") == "true")
	if err != nil {
		h.logger.Error("list products failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	views, err := h.present(r.Context(), products...)
	if err != nil {
		h.logger.Error("resolve categories failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, views)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("get product failed", "error", err, "id", id)
		httpx.RespondError(w, err)
		return
	}
	h.respondOne(w, r, http.StatusOK, p)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := httpx.DecodeStrict(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	p, err := h.service.Add(r.Context(), req)
	if err != nil {
		h.logger.Error("create product failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	h.respondOne(w, r, http.StatusCreated, p)
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
	p, err := h.service.Update(r.Context(), id, patch)
	if err != nil {
		h.logger.Error("update product failed", "error", err, "id", id)
		httpx.RespondError(w, err)
		return
	}
	h.respondOne(w, r, http.StatusOK, p)
}

func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	p, err := h.service.ToggleActive(r.Context(), id)
	if err != nil {
		h.logger.Error("toggle product failed", "error", err, "id", id)
		httpx.RespondError(w, err)
		return
	}
	h.respondOne(w, r, http.StatusOK, p)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete product failed", "error", err, "id", id)
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondOne(w http.ResponseWriter, r *http.Request, status int, p *Product) {
	views, err := h.present(r.Context(), *p)
	if err != nil {
		h.logger.Error("resolve categories failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, status, views[0])
}
