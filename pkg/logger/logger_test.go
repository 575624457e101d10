package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNew_WritesToConfiguredOutput(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "info", Output: &buf})

	l.Info().Str("ticker", "HGLG11").Msg("signal generated")

	assert.Contains(t, buf.String(), "signal generated")
	assert.Contains(t, buf.String(), `"ticker":"HGLG11"`)
}

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		level    string
		expected zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"WARN", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}

	for _, tc := range testCases {
		t.Run(tc.level, func(t *testing.T) {
			assert.Equal(t, tc.expected, ParseLevel(tc.level))
		})
	}
}

func TestNew_SetsGlobalLevel(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var buf bytes.Buffer
	l := New(Config{Level: "error", Output: &buf})
	assert.Equal(t, zerolog.ErrorLevel, zerolog.GlobalLevel())

	l.Info().Msg("suppressed")
	assert.Empty(t, buf.String())
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	l := Component(New(Config{Level: "info", Output: &buf}), "scanner")

	l.Info().Msg("scan started")

	assert.Contains(t, buf.String(), `"component":"scanner"`)
}
