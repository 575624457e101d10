package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all market routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/market", func(r chi.Router) {
		// Snapshots
		r.Post("/snapshots", h.HandlePushSnapshots)
		r.Get("/snapshots", h.HandleListSnapshots)
		r.Get("/snapshots/{ticker}", h.HandleGetSnapshot)

		// Scans
		r.Get("/scan", h.HandleGetScan)
		r.Post("/scan", h.HandleRunScan)

		// History
		r.Get("/history/{ticker}", h.HandleGetHistory)
	})
}
