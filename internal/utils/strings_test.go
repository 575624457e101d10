package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCSV(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty", input: "", want: nil},
		{name: "whitespace only", input: "   ", want: nil},
		{name: "only separators", input: " , ,, ", want: nil},
		{name: "single value", input: "SIGNAL_GENERATED", want: []string{"SIGNAL_GENERATED"}},
		{name: "trims values", input: " alert_triggered , scan_completed ", want: []string{"alert_triggered", "scan_completed"}},
		{name: "drops empty parts", input: "a,,b,", want: []string{"a", "b"}},
		{name: "keeps duplicates", input: "a,a", want: []string{"a", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCSV(tt.input))
		})
	}
}
