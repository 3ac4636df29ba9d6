package quotations

import (
	"github.com/go-chi/chi/v5"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/quotations", h.List)
	r.Post("/quotations", h.Create)
	r.Get("/quotations/draft", h.Draft)
	r.Route("/quotations/{id}", func(r chi.Router) {
		r.Get("/", h.Show)
		r.Put("/", h.Replace)
		r.Patch("/", h.Update)
		r.Delete("/", h.Delete)
		r.Post("/status", h.SetStatus)
		r.Get("/transitions", h.Transitions)
		r.Post("/items", h.AddItem)
		r.Patch("/items/{index}", h.UpdateItem)
		r.Delete("/items/{index}", h.RemoveItem)
		r.Post("/shipping-distance", h.SetShippingDistance)
	})
}
