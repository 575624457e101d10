package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aristath/fiisentinel/internal/events"
	"github.com/aristath/fiisentinel/internal/modules/strategies"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTest() (chi.Router, *events.Bus) {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	bus := events.NewBus()
	handler := NewHandler(strategies.NewCatalog(logger), events.NewManager(bus, logger), logger)

	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	return router, bus
}

func do(router chi.Router, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleList(t *testing.T) {
	router, _ := setupTest()

	w := do(router, http.MethodGet, "/strategies/", "")
	require.Equal(t, http.StatusOK, w.Code)

	var list []strategies.Strategy
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 4)
	assert.Equal(t, strategies.IDYieldHunter, list[0].ID)
}

func TestHandleGet(t *testing.T) {
	router, _ := setupTest()

	w := do(router, http.MethodGet, "/strategies/"+strategies.IDArbitrageMaster, "")
	require.Equal(t, http.StatusOK, w.Code)

	var s strategies.Strategy
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	assert.False(t, s.Active)

	assert.Equal(t, http.StatusNotFound, do(router, http.MethodGet, "/strategies/unknown", "").Code)
}

func TestHandleSetActive(t *testing.T) {
	router, bus := setupTest()

	var got []*events.Event
	bus.Subscribe(events.StrategyToggled, func(e *events.Event) {
		got = append(got, e)
	})

	w := do(router, http.MethodPut, "/strategies/"+strategies.IDArbitrageMaster+"/active", `{"active":true}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var s strategies.Strategy
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	assert.True(t, s.Active)

	require.Len(t, got, 1)
	assert.Equal(t, strategies.IDArbitrageMaster, got[0].Data["strategy_id"])
	assert.Equal(t, true, got[0].Data["active"])

	w = do(router, http.MethodGet, "/strategies/"+strategies.IDArbitrageMaster, "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	assert.True(t, s.Active)
}

func TestHandleSetActive_Invalid(t *testing.T) {
	router, _ := setupTest()

	assert.Equal(t, http.StatusBadRequest,
		do(router, http.MethodPut, "/strategies/"+strategies.IDYieldHunter+"/active", `{}`).Code)
	assert.Equal(t, http.StatusNotFound,
		do(router, http.MethodPut, "/strategies/nope/active", `{"active":false}`).Code)
}

func TestHandleSummary(t *testing.T) {
	router, _ := setupTest()

	body := `{"period":"2024-01","trades":[
		{"date":"2024-01-02","ticker":"HGLG11","action":"BUY","price":100,"quantity":10,"pnl":10},
		{"date":"2024-01-15","ticker":"HGLG11","action":"SELL","price":110,"quantity":10,"pnl":-4}
	]}`
	w := do(router, http.MethodPost, "/strategies/"+strategies.IDYieldHunter+"/summary", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result strategies.BacktestResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "2024-01", result.Period)
	assert.InDelta(t, 6.0, result.TotalReturn, 1e-9)
	assert.InDelta(t, 72.0, result.AnnualizedReturn, 1e-9)
	assert.InDelta(t, 7.0, result.Volatility, 1e-9)
	assert.InDelta(t, 6.0/7.0, result.SharpeRatio, 1e-9)
	assert.InDelta(t, 50.0, result.WinRate, 1e-9)
	assert.Len(t, result.Trades, 2)
}
