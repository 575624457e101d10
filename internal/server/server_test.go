package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aristath/fiisentinel/internal/config"
	"github.com/aristath/fiisentinel/internal/di"
	"github.com/aristath/fiisentinel/internal/domain"
	"github.com/aristath/fiisentinel/internal/events"
	"github.com/aristath/fiisentinel/internal/scheduler"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
	"nhooyr.io/websocket"
)

func setupServer(t *testing.T) (*httptest.Server, *di.Container) {
	t.Helper()
	cfg := &config.Config{
		DataDir:      t.TempDir(),
		ScanSchedule: "@every 5m",
		ScanWorkers:  2,
		ScanTimeout:  time.Minute,
	}
	log := zerolog.New(nil).Level(zerolog.Disabled)

	container, jobs, err := di.Wire(cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Close() })

	srv := New(Config{Log: log, Port: 0, DevMode: true, Container: container, Jobs: jobs})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, container
}

func request(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestHealth(t *testing.T) {
	ts, _ := setupServer(t)

	resp, body := request(t, http.MethodGet, ts.URL+"/health", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"healthy","version":"1.0.0","service":"fiisentinel"}`, string(body))
}

func TestHealth_Msgpack(t *testing.T) {
	ts, _ := setupServer(t)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set("Accept", "application/msgpack")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "application/msgpack", resp.Header.Get("Content-Type"))
	var out map[string]interface{}
	require.NoError(t, msgpack.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "healthy", out["status"])
}

func TestSystemStatus(t *testing.T) {
	ts, container := setupServer(t)
	require.NoError(t, container.MarketService.PushSnapshots([]domain.AssetSnapshot{
		{Ticker: "HGLG11", CurrentPrice: 160, DividendYield: 8.5},
	}))

	resp, body := request(t, http.MethodGet, ts.URL+"/api/system/status", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var status SystemStatusResponse
	require.NoError(t, json.Unmarshal(body, &status))
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, 1, status.TrackedAssets)
	assert.Nil(t, status.LastScanAt)
	assert.GreaterOrEqual(t, status.RAMPercent, 0.0)
	assert.Positive(t, status.Goroutines)
}

func TestJobs(t *testing.T) {
	ts, _ := setupServer(t)

	resp, body := request(t, http.MethodGet, ts.URL+"/api/system/jobs", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var jobs []scheduler.JobStatus
	require.NoError(t, json.Unmarshal(body, &jobs))
	require.Len(t, jobs, 2)
	assert.Equal(t, "scan_market", jobs[0].Name)
	assert.Equal(t, 0, jobs[0].Runs)

	resp, _ = request(t, http.MethodPost, ts.URL+"/api/system/jobs/scan_market", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, body = request(t, http.MethodGet, ts.URL+"/api/system/jobs", "")
	require.NoError(t, json.Unmarshal(body, &jobs))
	assert.Equal(t, 1, jobs[0].Runs)

	resp, _ = request(t, http.MethodPost, ts.URL+"/api/system/jobs/unknown", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = request(t, http.MethodGet, ts.URL+"/api/market/scan", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
}

func TestDatabaseStats(t *testing.T) {
	ts, _ := setupServer(t)

	resp, body := request(t, http.MethodGet, ts.URL+"/api/system/database", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var dbs []DBInfo
	require.NoError(t, json.Unmarshal(body, &dbs))
	require.Len(t, dbs, 1)
	assert.Equal(t, "history", dbs[0].Name)
	assert.True(t, dbs[0].Reachable)
	require.NotNil(t, dbs[0].Stats)
	assert.Positive(t, dbs[0].Stats.PageSize)
}

func TestAPIRoutesMounted(t *testing.T) {
	ts, _ := setupServer(t)

	tests := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{http.MethodPost, "/api/indicators", `{"asset":{"ticker":"HGLG11","current_price":160},"prices":[150,155,160]}`, http.StatusOK},
		{http.MethodPost, "/api/signals", `{"asset":{"ticker":"HGLG11","current_price":160},"prices":[150,155,160]}`, http.StatusOK},
		{http.MethodGet, "/api/signals/rules", "", http.StatusOK},
		{http.MethodPost, "/api/arbitrage", `{"assets":[]}`, http.StatusOK},
		{http.MethodGet, "/api/alerts", "", http.StatusOK},
		{http.MethodGet, "/api/strategies", "", http.StatusOK},
		{http.MethodGet, "/api/strategies/yield-hunter", "", http.StatusOK},
		{http.MethodGet, "/api/market/snapshots", "", http.StatusOK},
		{http.MethodGet, "/api/market/scan", "", http.StatusNotFound},
		{http.MethodGet, "/api/market/history/HGLG11", "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			resp, body := request(t, tt.method, ts.URL+tt.path, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode, string(body))
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	ts, _ := setupServer(t)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/alerts", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://dashboard.local")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.NotEmpty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestEventStream(t *testing.T) {
	ts, _ := setupServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/events/ws?types=strategy_toggled"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	var msg StreamMessage
	_, data, err := conn.Read(ctx)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "connected", msg.Type)

	resp, _ := request(t, http.MethodPut, ts.URL+"/api/strategies/arbitrage-master/active", `{"active":true}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, data, err = conn.Read(ctx)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, string(events.StrategyToggled), msg.Type)
	assert.Equal(t, "strategies", msg.Module)
	assert.Equal(t, "arbitrage-master", msg.Data["strategy_id"])
}

func TestEventStream_Msgpack(t *testing.T) {
	ts, container := setupServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/events/ws?format=msgpack"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	typ, _, err := conn.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, websocket.MessageBinary, typ)

	require.NoError(t, container.MarketService.PushSnapshots([]domain.AssetSnapshot{
		{Ticker: "KNRI11", CurrentPrice: 140, DividendYield: 7},
	}))

	_, data, err := conn.Read(ctx)
	require.NoError(t, err)
	var msg StreamMessage
	require.NoError(t, msgpack.Unmarshal(data, &msg))
	assert.Equal(t, string(events.SnapshotsUpdated), msg.Type)
}

func TestParseTypes(t *testing.T) {
	assert.Equal(t, events.AllTypes, parseTypes(""))
	assert.Equal(t,
		[]events.EventType{events.AlertTriggered, events.ScanCompleted},
		parseTypes("alert_triggered, SCAN_COMPLETED,unknown,ALERT_TRIGGERED"))
	assert.Empty(t, parseTypes("nothing"))
}
