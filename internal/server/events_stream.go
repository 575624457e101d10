package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/aristath/fiisentinel/internal/events"
	"github.com/aristath/fiisentinel/internal/utils"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
	"nhooyr.io/websocket"
)

const (
	streamBufferSize   = 100
	streamHeartbeat    = 30 * time.Second
	streamWriteTimeout = 5 * time.Second
)

// StreamMessage is one frame sent to event stream clients
type StreamMessage struct {
	Type      string                 `json:"type" msgpack:"type"`
	Module    string                 `json:"module,omitempty" msgpack:"module,omitempty"`
	Timestamp string                 `json:"timestamp" msgpack:"timestamp"`
	Message   string                 `json:"message,omitempty" msgpack:"message,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty" msgpack:"data,omitempty"`
}

// EventsStreamHandler streams bus events to WebSocket clients
type EventsStreamHandler struct {
	eventBus  *events.Bus
	heartbeat time.Duration
	log       zerolog.Logger
}

// NewEventsStreamHandler creates a new events stream handler
func NewEventsStreamHandler(eventBus *events.Bus, log zerolog.Logger) *EventsStreamHandler {
	return &EventsStreamHandler{
		eventBus:  eventBus,
		heartbeat: streamHeartbeat,
		log:       log.With().Str("component", "events_stream").Logger(),
	}
}

// ServeHTTP handles GET /api/events/ws.
//
// Query parameters:
//   - types: comma separated event types to receive (default: all)
//   - format: "msgpack" for binary frames (default: JSON text frames)
func (h *EventsStreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	allowed := parseTypes(r.URL.Query().Get("types"))
	binary := r.URL.Query().Get("format") == "msgpack"

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "stream closed")

	// Clients only listen; CloseRead handles control frames and cancels ctx
	// when the peer goes away.
	ctx := conn.CloseRead(r.Context())

	eventChan := make(chan *events.Event, streamBufferSize)
	handler := func(event *events.Event) {
		select {
		case eventChan <- event:
		default:
			h.log.Warn().
				Str("event_type", string(event.Type)).
				Msg("Event channel full, dropping event")
		}
	}

	subs := make([]events.SubscriptionID, 0, len(allowed))
	for _, eventType := range allowed {
		subs = append(subs, h.eventBus.Subscribe(eventType, handler))
	}
	defer func() {
		for _, id := range subs {
			h.eventBus.Unsubscribe(id)
		}
	}()

	h.log.Info().Int("types", len(allowed)).Bool("msgpack", binary).Msg("Client connected to event stream")

	if err := h.send(ctx, conn, binary, StreamMessage{
		Type:      "connected",
		Timestamp: time.Now().Format(time.RFC3339),
		Message:   "Connected to event stream",
	}); err != nil {
		return
	}

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			h.log.Info().Msg("Client disconnected from event stream")
			conn.Close(websocket.StatusNormalClosure, "")
			return

		case event := <-eventChan:
			msg := StreamMessage{
				Type:      string(event.Type),
				Module:    event.Module,
				Timestamp: event.Timestamp.Format(time.RFC3339),
				Data:      event.Data,
			}
			if err := h.send(ctx, conn, binary, msg); err != nil {
				return
			}

		case <-heartbeat.C:
			if err := h.send(ctx, conn, binary, StreamMessage{
				Type:      "heartbeat",
				Timestamp: time.Now().Format(time.RFC3339),
			}); err != nil {
				return
			}
		}
	}
}

func (h *EventsStreamHandler) send(ctx context.Context, conn *websocket.Conn, binary bool, msg StreamMessage) error {
	var (
		data    []byte
		msgType = websocket.MessageText
		err     error
	)
	if binary {
		msgType = websocket.MessageBinary
		data, err = msgpack.Marshal(msg)
	} else {
		data, err = json.Marshal(msg)
	}
	if err != nil {
		h.log.Error().Err(err).Str("type", msg.Type).Msg("Failed to encode stream message")
		return nil
	}

	writeCtx, cancel := context.WithTimeout(ctx, streamWriteTimeout)
	defer cancel()

	if err := conn.Write(writeCtx, msgType, data); err != nil {
		if !errors.Is(err, context.Canceled) {
			h.log.Debug().Err(err).Msg("Event stream write failed")
		}
		return err
	}
	return nil
}

// parseTypes returns the requested event types, or all of them when the
// filter is empty. Unknown names are ignored.
func parseTypes(filter string) []events.EventType {
	if strings.TrimSpace(filter) == "" {
		return events.AllTypes
	}

	known := make(map[events.EventType]bool, len(events.AllTypes))
	for _, t := range events.AllTypes {
		known[t] = true
	}

	var out []events.EventType
	seen := make(map[events.EventType]bool)
	for _, part := range utils.ParseCSV(filter) {
		t := events.EventType(strings.ToUpper(part))
		if known[t] && !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
