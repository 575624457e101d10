// Package handlers provides HTTP handlers for signal generation.
package handlers

import (
	"net/http"

	"github.com/aristath/fiisentinel/internal/domain"
	"github.com/aristath/fiisentinel/internal/httputil"
	"github.com/aristath/fiisentinel/internal/modules/indicators"
	indicatorhandlers "github.com/aristath/fiisentinel/internal/modules/indicators/handlers"
	"github.com/aristath/fiisentinel/internal/modules/signals"
	"github.com/rs/zerolog"
)

// Handler handles signal HTTP requests
type Handler struct {
	indicators *indicators.Service
	engine     *signals.Engine
	history    domain.PriceHistory
	log        zerolog.Logger
}

// NewHandler creates a new signals handler
func NewHandler(
	indicatorService *indicators.Service,
	engine *signals.Engine,
	history domain.PriceHistory,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		indicators: indicatorService,
		engine:     engine,
		history:    history,
		log:        log.With().Str("handler", "signals").Logger(),
	}
}

// GenerateRequest is the body of POST /api/signals. Precomputed indicators
// win over prices; with neither, the stored history is used.
type GenerateRequest struct {
	Asset      domain.AssetSnapshot        `json:"asset"`
	Prices     []float64                   `json:"prices,omitempty"`
	Indicators *domain.TechnicalIndicators `json:"indicators,omitempty"`
}

// HandleGenerate handles POST /api/signals
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.WriteErr(w, r, h.log, err)
		return
	}

	var ind domain.TechnicalIndicators
	if req.Indicators != nil {
		ind = *req.Indicators
	} else {
		prices, err := indicatorhandlers.ResolvePrices(h.history, req.Asset.Ticker, req.Prices)
		if err != nil {
			httputil.WriteErr(w, r, h.log, err)
			return
		}
		ind, err = h.indicators.ComputeIndicators(req.Asset, prices)
		if err != nil {
			httputil.WriteErr(w, r, h.log, err)
			return
		}
	}

	signal, err := h.engine.GenerateSignal(req.Asset, ind)
	if err != nil {
		httputil.WriteErr(w, r, h.log, err)
		return
	}

	h.log.Debug().
		Str("ticker", req.Asset.Ticker).
		Str("type", string(signal.Type)).
		Str("strength", string(signal.Strength)).
		Msg("Signal generated")

	httputil.Write(w, r, h.log, http.StatusOK, signal)
}

// HandleGetRules handles GET /api/signals/rules
func (h *Handler) HandleGetRules(w http.ResponseWriter, r *http.Request) {
	type ruleView struct {
		Name      string  `json:"name"`
		Direction string  `json:"direction"`
		Weight    float64 `json:"weight"`
		Reason    string  `json:"reason"`
	}

	rules := h.engine.Rules()
	out := make([]ruleView, 0, len(rules))
	for _, rule := range rules {
		out = append(out, ruleView{
			Name:      rule.Name,
			Direction: string(rule.Direction),
			Weight:    rule.Weight,
			Reason:    rule.Reason,
		})
	}

	httputil.Write(w, r, h.log, http.StatusOK, out)
}
