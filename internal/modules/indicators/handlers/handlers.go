// Package handlers provides HTTP handlers for indicator computation.
package handlers

import (
	"fmt"
	"net/http"

	"github.com/aristath/fiisentinel/internal/domain"
	"github.com/aristath/fiisentinel/internal/httputil"
	"github.com/aristath/fiisentinel/internal/modules/indicators"
	"github.com/rs/zerolog"
)

// Handler handles indicator HTTP requests
type Handler struct {
	service *indicators.Service
	history domain.PriceHistory
	log     zerolog.Logger
}

// NewHandler creates a new indicators handler. history may be nil, in which
// case requests must carry their own price series.
func NewHandler(service *indicators.Service, history domain.PriceHistory, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		history: history,
		log:     log.With().Str("handler", "indicators").Logger(),
	}
}

// ComputeRequest is the body of POST /api/indicators
type ComputeRequest struct {
	Asset  domain.AssetSnapshot `json:"asset"`
	Prices []float64            `json:"prices,omitempty"`
}

// HandleCompute handles POST /api/indicators
func (h *Handler) HandleCompute(w http.ResponseWriter, r *http.Request) {
	var req ComputeRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.WriteErr(w, r, h.log, err)
		return
	}

	prices, err := ResolvePrices(h.history, req.Asset.Ticker, req.Prices)
	if err != nil {
		httputil.WriteErr(w, r, h.log, err)
		return
	}

	ind, err := h.service.ComputeIndicators(req.Asset, prices)
	if err != nil {
		httputil.WriteErr(w, r, h.log, err)
		return
	}

	httputil.Write(w, r, h.log, http.StatusOK, ind)
}

// ResolvePrices returns the supplied series, or the stored history when the
// caller sent none. A missing history yields an empty series.
func ResolvePrices(history domain.PriceHistory, ticker string, supplied []float64) ([]float64, error) {
	if supplied != nil || history == nil || ticker == "" {
		return supplied, nil
	}
	prices, err := history.GetCloses(ticker, indicators.LookbackWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to load price history for %s: %w", ticker, err)
	}
	return prices, nil
}
