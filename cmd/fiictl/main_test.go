package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aristath/fiisentinel/internal/modules/alerts"
	"github.com/aristath/fiisentinel/internal/modules/arbitrage"
	"github.com/aristath/fiisentinel/internal/modules/strategies"
	"github.com/aristath/fiisentinel/internal/scanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const sampleYAML = `
assets:
  - ticker: HGLG11
    name: CSHG Logística
    sector: Logístico
    current_price: 160.5
    dividend_yield: 8.4
    volume: 120000
  - ticker: HTMX11
    sector: Hoteleiro
    current_price: 100
    dividend_yield: 40
prices:
  HGLG11: [150, 151, 152, 153, 154, 155, 156, 157, 158, 159, 160, 159, 158, 159, 160, 161, 160.5]
alerts:
  - id: a1
    ticker: HGLG11
    type: PRICE
    condition: above
    target_value: 160
  - id: a2
    ticker: HGLG11
    type: YIELD
    condition: above
    target_value: 12
`

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDecodeDocument(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
		assets  int
	}{
		{name: "yaml", data: sampleYAML, assets: 2},
		{name: "json", data: `{"assets":[{"ticker":"KNRI11","current_price":140}],"prices":{"KNRI11":[139,140]}}`, assets: 1},
		{name: "empty document", data: "", assets: 0},
		{name: "unknown field", data: "assets: []\nportfolio: 1\n", wantErr: true},
		{name: "malformed", data: "assets: [", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in Input
			err := decodeDocument([]byte(tt.data), &in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, in.Assets, tt.assets)
		})
	}
}

func TestDecodeDocument_FieldMapping(t *testing.T) {
	var in Input
	require.NoError(t, decodeDocument([]byte(sampleYAML), &in))

	assert.Equal(t, "HGLG11", in.Assets[0].Ticker)
	assert.Equal(t, "Logístico", in.Assets[0].Sector)
	assert.InDelta(t, 160.5, in.Assets[0].CurrentPrice, 1e-9)
	assert.InDelta(t, 8.4, in.Assets[0].DividendYield, 1e-9)
	assert.Equal(t, int64(120000), in.Assets[0].Volume)
	assert.Len(t, in.Prices["HGLG11"], 17)
	require.Len(t, in.Alerts, 2)
	assert.Equal(t, alerts.AlertTypePrice, in.Alerts[0].Type)
}

func TestRender(t *testing.T) {
	v := map[string]interface{}{"ticker": "HGLG11", "rsi": 55.5}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, render(&buf, formatJSON, v))

		var got map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, "HGLG11", got["ticker"])
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, render(&buf, formatYAML, v))
		assert.Contains(t, buf.String(), "ticker: HGLG11")

		var got map[string]interface{}
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, 55.5, got["rsi"])
	})

	t.Run("unknown format", func(t *testing.T) {
		assert.Error(t, render(&bytes.Buffer{}, "xml", v))
	})
}

func TestIndicatorsCommand(t *testing.T) {
	path := writeInput(t, "in.yaml", sampleYAML)

	out, err := execute(t, "indicators", "-f", path)
	require.NoError(t, err)

	var results []IndicatorsResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	assert.Equal(t, "HGLG11", results[0].Ticker)
	require.NotNil(t, results[0].Indicators)
	assert.GreaterOrEqual(t, results[0].Indicators.RSI, 0.0)
	assert.LessOrEqual(t, results[0].Indicators.RSI, 100.0)
	assert.Empty(t, results[0].Error)
}

func TestSignalCommand(t *testing.T) {
	path := writeInput(t, "in.yaml", sampleYAML)

	out, err := execute(t, "signal", "-f", path, "--workers", "2")
	require.NoError(t, err)

	var results []scanner.Result
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	for _, r := range results {
		assert.True(t, r.OK(), r.Error)
		require.NotNil(t, r.Signal)
		assert.GreaterOrEqual(t, r.Signal.Confidence, 50)
	}
}

func TestArbitrageCommand(t *testing.T) {
	path := writeInput(t, "in.yaml", sampleYAML)

	out, err := execute(t, "arbitrage", "-f", path)
	require.NoError(t, err)

	var opps []arbitrage.Opportunity
	require.NoError(t, json.Unmarshal([]byte(out), &opps))
	require.Len(t, opps, 1)
	assert.Equal(t, "HTMX11", opps[0].Ticker)
	assert.Equal(t, arbitrage.TypePremium, opps[0].Type)
	assert.InDelta(t, 96.0, opps[0].NAVPrice, 1e-9)
}

func TestAlertsCommand(t *testing.T) {
	path := writeInput(t, "in.yaml", sampleYAML)

	out, err := execute(t, "alerts", "-f", path, "-o", "yaml")
	require.NoError(t, err)

	var triggered []map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &triggered))
	require.Len(t, triggered, 1)
	assert.Equal(t, "a1", triggered[0]["id"])
	assert.Equal(t, true, triggered[0]["triggered"])
	assert.Equal(t, 160.5, triggered[0]["current_value"])
}

func TestAlertsCommand_InvalidAlert(t *testing.T) {
	path := writeInput(t, "in.yaml", "alerts:\n  - ticker: HGLG11\n    type: RSI_CROSS\n")

	_, err := execute(t, "alerts", "-f", path)
	assert.Error(t, err)
}

func TestStrategiesCommand(t *testing.T) {
	out, err := execute(t, "strategies")
	require.NoError(t, err)

	var list []strategies.Strategy
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	assert.Len(t, list, 4)

	out, err = execute(t, "strategies", strategies.IDYieldHunter)
	require.NoError(t, err)
	assert.Contains(t, out, "Yield Hunter Pro")

	_, err = execute(t, "strategies", "unknown")
	assert.Error(t, err)
}

func TestStrategiesSummaryCommand(t *testing.T) {
	doc := `
period: 2024-H1
trades:
  - date: 2024-01-10
    ticker: HGLG11
    action: SELL
    price: 160
    quantity: 10
    pnl: 10
  - date: 2024-02-10
    ticker: KNRI11
    action: SELL
    price: 140
    quantity: 5
    pnl: -4
`
	path := writeInput(t, "trades.yaml", doc)

	out, err := execute(t, "strategies", "summary", strategies.IDMeanReversion, "-f", path)
	require.NoError(t, err)

	var res strategies.BacktestResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.InDelta(t, 6.0, res.TotalReturn, 1e-9)
	assert.InDelta(t, 50.0, res.WinRate, 1e-9)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "fiictl version "))
}

func TestMissingInputFile(t *testing.T) {
	_, err := execute(t, "indicators", "-f", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
