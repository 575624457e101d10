// Package handlers provides HTTP handlers for the strategy catalog.
package handlers

import (
	"fmt"
	"net/http"

	"github.com/aristath/fiisentinel/internal/domain"
	"github.com/aristath/fiisentinel/internal/events"
	"github.com/aristath/fiisentinel/internal/httputil"
	"github.com/aristath/fiisentinel/internal/modules/strategies"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles strategy HTTP requests
type Handler struct {
	catalog      *strategies.Catalog
	eventManager *events.Manager
	log          zerolog.Logger
}

// NewHandler creates a new strategies handler. eventManager may be nil.
func NewHandler(catalog *strategies.Catalog, eventManager *events.Manager, log zerolog.Logger) *Handler {
	return &Handler{
		catalog:      catalog,
		eventManager: eventManager,
		log:          log.With().Str("handler", "strategies").Logger(),
	}
}

// SetActiveRequest is the body of PUT /api/strategies/{id}/active
type SetActiveRequest struct {
	Active *bool `json:"active"`
}

// SummaryRequest is the body of POST /api/strategies/{id}/summary
type SummaryRequest struct {
	Period string                     `json:"period"`
	Trades []strategies.BacktestTrade `json:"trades"`
}

// HandleList handles GET /api/strategies
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	httputil.Write(w, r, h.log, http.StatusOK, h.catalog.List())
}

// HandleGet handles GET /api/strategies/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	strategy, err := h.catalog.Get(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteErr(w, r, h.log, err)
		return
	}
	httputil.Write(w, r, h.log, http.StatusOK, strategy)
}

// HandleSetActive handles PUT /api/strategies/{id}/active
func (h *Handler) HandleSetActive(w http.ResponseWriter, r *http.Request) {
	var req SetActiveRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.WriteErr(w, r, h.log, err)
		return
	}
	if req.Active == nil {
		httputil.WriteErr(w, r, h.log, fmt.Errorf("%w: active is required", domain.ErrInvalidInput))
		return
	}

	strategy, err := h.catalog.SetActive(chi.URLParam(r, "id"), *req.Active)
	if err != nil {
		httputil.WriteErr(w, r, h.log, err)
		return
	}

	if h.eventManager != nil {
		h.eventManager.EmitTyped("strategies", &events.StrategyToggledData{
			StrategyID: strategy.ID,
			Active:     strategy.Active,
		})
	}

	httputil.Write(w, r, h.log, http.StatusOK, strategy)
}

// HandleSummary handles POST /api/strategies/{id}/summary, computing the
// backtest statistics of externally simulated trades
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	strategy, err := h.catalog.Get(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteErr(w, r, h.log, err)
		return
	}

	var req SummaryRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.WriteErr(w, r, h.log, err)
		return
	}

	httputil.Write(w, r, h.log, http.StatusOK, strategies.SummarizeTrades(strategy, req.Period, req.Trades))
}
