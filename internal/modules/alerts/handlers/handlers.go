// Package handlers provides HTTP handlers for the alert book.
package handlers

import (
	"net/http"

	"github.com/aristath/fiisentinel/internal/domain"
	"github.com/aristath/fiisentinel/internal/httputil"
	"github.com/aristath/fiisentinel/internal/modules/alerts"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// TriggerPublisher fans newly triggered alerts out to events and notifications
type TriggerPublisher interface {
	PublishAlerts(triggered []alerts.Alert)
}

// Handler handles alert HTTP requests
type Handler struct {
	book      *alerts.Book
	snapshots domain.SnapshotSource
	publisher TriggerPublisher
	log       zerolog.Logger
}

// NewHandler creates a new alerts handler. snapshots and publisher may be nil.
func NewHandler(
	book *alerts.Book,
	snapshots domain.SnapshotSource,
	publisher TriggerPublisher,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		book:      book,
		snapshots: snapshots,
		publisher: publisher,
		log:       log.With().Str("handler", "alerts").Logger(),
	}
}

// CreateRequest is the body of POST /api/alerts
type CreateRequest struct {
	Ticker      string           `json:"ticker"`
	Type        alerts.AlertType `json:"type"`
	Condition   string           `json:"condition"`
	TargetValue float64          `json:"target_value"`
}

// EvaluateRequest is the body of POST /api/alerts/evaluate. An empty asset
// list evaluates against the latest stored snapshots.
type EvaluateRequest struct {
	Assets []domain.AssetSnapshot `json:"assets"`
}

// HandleList handles GET /api/alerts
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	httputil.Write(w, r, h.log, http.StatusOK, h.book.List())
}

// HandleCreate handles POST /api/alerts
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.WriteErr(w, r, h.log, err)
		return
	}

	alert, err := h.book.Add(alerts.Alert{
		Ticker:      req.Ticker,
		Type:        req.Type,
		Condition:   req.Condition,
		TargetValue: req.TargetValue,
	})
	if err != nil {
		httputil.WriteErr(w, r, h.log, err)
		return
	}

	httputil.Write(w, r, h.log, http.StatusCreated, alert)
}

// HandleGet handles GET /api/alerts/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	alert, err := h.book.Get(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteErr(w, r, h.log, err)
		return
	}
	httputil.Write(w, r, h.log, http.StatusOK, alert)
}

// HandleDelete handles DELETE /api/alerts/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.book.Delete(chi.URLParam(r, "id")); err != nil {
		httputil.WriteErr(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleEvaluate handles POST /api/alerts/evaluate and returns only the
// alerts that fired during this call
func (h *Handler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.WriteErr(w, r, h.log, err)
		return
	}

	assets := req.Assets
	if len(assets) == 0 && h.snapshots != nil {
		assets = h.snapshots.All()
	}

	triggered := h.book.Evaluate(assets)
	if h.publisher != nil && len(triggered) > 0 {
		h.publisher.PublishAlerts(triggered)
	}

	httputil.Write(w, r, h.log, http.StatusOK, triggered)
}
