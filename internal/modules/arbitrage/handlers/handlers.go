// Package handlers provides HTTP handlers for NAV arbitrage detection.
package handlers

import (
	"fmt"
	"net/http"

	"github.com/aristath/fiisentinel/internal/domain"
	"github.com/aristath/fiisentinel/internal/httputil"
	"github.com/aristath/fiisentinel/internal/modules/arbitrage"
	"github.com/rs/zerolog"
)

// Handler handles arbitrage HTTP requests
type Handler struct {
	detector  *arbitrage.Detector
	snapshots domain.SnapshotSource
	log       zerolog.Logger
}

// NewHandler creates a new arbitrage handler. snapshots backs requests that
// omit the asset list and may be nil.
func NewHandler(detector *arbitrage.Detector, snapshots domain.SnapshotSource, log zerolog.Logger) *Handler {
	return &Handler{
		detector:  detector,
		snapshots: snapshots,
		log:       log.With().Str("handler", "arbitrage").Logger(),
	}
}

// FindRequest is the body of POST /api/arbitrage
type FindRequest struct {
	Assets []domain.AssetSnapshot `json:"assets"`
}

// NAVRequest is the body of POST /api/arbitrage/nav
type NAVRequest struct {
	Ticker      string  `json:"ticker"`
	MarketPrice float64 `json:"market_price"`
	NAV         float64 `json:"nav"`
}

// HandleFind handles POST /api/arbitrage
func (h *Handler) HandleFind(w http.ResponseWriter, r *http.Request) {
	var req FindRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.WriteErr(w, r, h.log, err)
		return
	}

	assets := req.Assets
	if len(assets) == 0 && h.snapshots != nil {
		assets = h.snapshots.All()
	}

	httputil.Write(w, r, h.log, http.StatusOK, h.detector.FindOpportunities(assets))
}

// HandleEvaluateNAV handles POST /api/arbitrage/nav for a caller-supplied NAV
func (h *Handler) HandleEvaluateNAV(w http.ResponseWriter, r *http.Request) {
	var req NAVRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.WriteErr(w, r, h.log, err)
		return
	}

	if req.MarketPrice <= 0 {
		httputil.WriteErr(w, r, h.log, fmt.Errorf("%w: market price must be positive", domain.ErrInvalidInput))
		return
	}

	opp, ok := arbitrage.EvaluateNAV(req.Ticker, req.MarketPrice, req.NAV)
	if !ok {
		httputil.WriteErr(w, r, h.log, fmt.Errorf("%w: nav must be positive", domain.ErrInvalidInput))
		return
	}

	httputil.Write(w, r, h.log, http.StatusOK, opp)
}
