package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/aristath/fiisentinel/internal/domain"
	"github.com/aristath/fiisentinel/internal/modules/alerts"
	"gopkg.in/yaml.v3"
)

// Input is the document read by every subcommand. JSON is valid YAML, so
// both formats are accepted.
type Input struct {
	Assets []domain.AssetSnapshot `json:"assets"`
	Prices map[string][]float64   `json:"prices"`
	Alerts []alerts.Alert         `json:"alerts"`
}

// loadInput reads and parses an input document
func loadInput(path string) (*Input, error) {
	data, err := readSource(path)
	if err != nil {
		return nil, err
	}

	var in Input
	if err := decodeDocument(data, &in); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &in, nil
}

// readSource reads path, or stdin when path is "-"
func readSource(path string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return data, nil
}

// decodeDocument parses YAML and maps it onto v through its json tags, so
// the wire names match the HTTP API
func decodeDocument(data []byte, v interface{}) error {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return nil
	}

	buf, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(buf))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
