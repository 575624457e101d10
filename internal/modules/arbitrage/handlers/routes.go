package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all arbitrage routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/arbitrage", func(r chi.Router) {
		r.Post("/", h.HandleFind)
		r.Post("/nav", h.HandleEvaluateNAV)
	})
}
