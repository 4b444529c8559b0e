package server

import (
	"encoding/json"
	"net/http"
	"time"
)

// handleHealth reports service and database health plus the age of
// the most recent analysis snapshot
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	response := map[string]interface{}{
		"status":  "healthy",
		"service": "checkup",
	}

	if err := s.db.Conn().Ping(); err != nil {
		status = http.StatusServiceUnavailable
		response["status"] = "degraded"
		response["database"] = err.Error()
	} else {
		response["database"] = "ok"
	}

	latest, err := s.snapshots.Latest()
	switch {
	case err != nil:
		response["last_snapshot"] = "error: " + err.Error()
	case latest == nil:
		response["last_snapshot"] = nil
	default:
		response["last_snapshot"] = map[string]interface{}{
			"id":          latest.ID,
			"created_at":  latest.CreatedAt,
			"age_seconds": int(time.Since(latest.CreatedAt).Seconds()),
		}
	}

	s.writeJSON(w, status, response)
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{
		"error": message,
	})
}
