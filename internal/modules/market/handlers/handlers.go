// Package handlers provides HTTP handlers for snapshot ingestion and market scans.
package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/aristath/fiisentinel/internal/domain"
	"github.com/aristath/fiisentinel/internal/httputil"
	"github.com/aristath/fiisentinel/internal/modules/history"
	"github.com/aristath/fiisentinel/internal/modules/market"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const (
	defaultHistoryLimit = 60
	maxHistoryLimit     = 1000
)

// DailyPriceReader reads stored daily closes, newest first
type DailyPriceReader interface {
	GetDailyPrices(ticker string, limit int) ([]history.DailyPrice, error)
}

// Handler handles market HTTP requests
type Handler struct {
	service *market.Service
	prices  DailyPriceReader
	log     zerolog.Logger
}

// NewHandler creates a new market handler
func NewHandler(service *market.Service, prices DailyPriceReader, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		prices:  prices,
		log:     log.With().Str("handler", "market").Logger(),
	}
}

// PushRequest is the body of POST /api/market/snapshots
type PushRequest struct {
	Snapshots []domain.AssetSnapshot `json:"snapshots"`
}

// HandlePushSnapshots handles POST /api/market/snapshots
func (h *Handler) HandlePushSnapshots(w http.ResponseWriter, r *http.Request) {
	var req PushRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.WriteErr(w, r, h.log, err)
		return
	}
	if len(req.Snapshots) == 0 {
		httputil.WriteErr(w, r, h.log, fmt.Errorf("%w: no snapshots provided", domain.ErrInvalidInput))
		return
	}

	if err := h.service.PushSnapshots(req.Snapshots); err != nil {
		httputil.WriteErr(w, r, h.log, err)
		return
	}

	httputil.Write(w, r, h.log, http.StatusAccepted, map[string]int{
		"accepted": len(req.Snapshots),
		"tracked":  h.service.Store().Len(),
	})
}

// HandleListSnapshots handles GET /api/market/snapshots
// Optional ?kind= keeps only one asset kind.
func (h *Handler) HandleListSnapshots(w http.ResponseWriter, r *http.Request) {
	all := h.service.Store().All()

	filter := r.URL.Query().Get("kind")
	if filter == "" {
		httputil.Write(w, r, h.log, http.StatusOK, all)
		return
	}

	kind, err := domain.ParseAssetKind(filter)
	if err != nil {
		httputil.WriteErr(w, r, h.log, err)
		return
	}

	out := make([]domain.AssetSnapshot, 0, len(all))
	for _, snap := range all {
		if snap.EffectiveKind() == kind {
			out = append(out, snap)
		}
	}
	httputil.Write(w, r, h.log, http.StatusOK, out)
}

// HandleGetSnapshot handles GET /api/market/snapshots/{ticker}
func (h *Handler) HandleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.Store().Get(chi.URLParam(r, "ticker"))
	if err != nil {
		httputil.WriteErr(w, r, h.log, err)
		return
	}
	httputil.Write(w, r, h.log, http.StatusOK, snap)
}

// HandleGetScan handles GET /api/market/scan
func (h *Handler) HandleGetScan(w http.ResponseWriter, r *http.Request) {
	report, ok := h.service.LastScan()
	if !ok {
		httputil.WriteErr(w, r, h.log, fmt.Errorf("scan report: %w", domain.ErrNotFound))
		return
	}
	httputil.Write(w, r, h.log, http.StatusOK, report)
}

// HandleRunScan handles POST /api/market/scan
func (h *Handler) HandleRunScan(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Scan(r.Context())
	if err != nil {
		httputil.WriteErr(w, r, h.log, err)
		return
	}
	httputil.Write(w, r, h.log, http.StatusOK, report)
}

// HandleGetHistory handles GET /api/market/history/{ticker}?limit=N
func (h *Handler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxHistoryLimit {
			httputil.WriteErr(w, r, h.log, fmt.Errorf("%w: limit must be between 1 and %d", domain.ErrInvalidInput, maxHistoryLimit))
			return
		}
		limit = n
	}

	prices, err := h.prices.GetDailyPrices(chi.URLParam(r, "ticker"), limit)
	if err != nil {
		httputil.WriteErr(w, r, h.log, err)
		return
	}
	httputil.Write(w, r, h.log, http.StatusOK, prices)
}
