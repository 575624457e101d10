// Package httputil holds the request decoding and response helpers shared by
// every HTTP handler. Responses are JSON unless the client asks for msgpack.
package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/aristath/fiisentinel/internal/domain"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// ContentTypeMsgpack is the media type used for msgpack bodies
const ContentTypeMsgpack = "application/msgpack"

// MaxBodyBytes caps request bodies
const MaxBodyBytes = 8 << 20

// WantsMsgpack reports whether the client accepts msgpack responses
func WantsMsgpack(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mt, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		if mt == ContentTypeMsgpack || mt == "application/x-msgpack" {
			return true
		}
	}
	return false
}

// Write encodes data in the format negotiated with the client
func Write(w http.ResponseWriter, r *http.Request, log zerolog.Logger, status int, data interface{}) {
	if r != nil && WantsMsgpack(r) {
		body, err := msgpack.Marshal(data)
		if err != nil {
			log.Error().Err(err).Msg("Failed to encode msgpack response")
			http.Error(w, "failed to encode response", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", ContentTypeMsgpack)
		w.WriteHeader(status)
		if _, err := w.Write(body); err != nil {
			log.Error().Err(err).Msg("Failed to write msgpack response")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// WriteError writes an error envelope
func WriteError(w http.ResponseWriter, r *http.Request, log zerolog.Logger, status int, message string) {
	Write(w, r, log, status, map[string]string{"error": message})
}

// WriteErr maps a domain error to its status code and writes it
func WriteErr(w http.ResponseWriter, r *http.Request, log zerolog.Logger, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
	}
	WriteError(w, r, log, status, err.Error())
}

// StatusFor maps domain errors to HTTP status codes
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Decode reads a JSON or msgpack request body into v, chosen by Content-Type.
// Decode failures are reported as domain.ErrInvalidInput.
func Decode(r *http.Request, v interface{}) error {
	body := io.LimitReader(r.Body, MaxBodyBytes)

	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt == ContentTypeMsgpack || mt == "application/x-msgpack" {
		dec := msgpack.NewDecoder(body)
		dec.SetCustomStructTag("json")
		if err := dec.Decode(v); err != nil {
			return fmt.Errorf("%w: invalid msgpack body: %v", domain.ErrInvalidInput, err)
		}
		return nil
	}

	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", domain.ErrInvalidInput, err)
	}
	return nil
}
