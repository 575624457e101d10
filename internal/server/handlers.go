package server

import (
	"net/http"

	"github.com/aristath/fiisentinel/internal/httputil"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":  "healthy",
		"version": Version,
		"service": "fiisentinel",
	}

	httputil.Write(w, r, s.log, http.StatusOK, response)
}
