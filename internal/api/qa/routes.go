package qa

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers document question-answering routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", h.CreateSession)
		r.Get("/{id}", h.GetSession)
		r.Delete("/{id}", h.DeleteSession)
		r.Post("/{id}/answers", h.Ask)
		r.Get("/{id}/answers/export", h.Export)
	})
}
