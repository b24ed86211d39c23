package handler

import (
	"net/http"
	"time"

	"dmeditor/internal/httputil"
	"dmeditor/internal/service/session"
)

// HealthHandler reports liveness
type HealthHandler struct {
	sessions *session.Manager
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(sessions *session.Manager) *HealthHandler {
	return &HealthHandler{sessions: sessions}
}

// HealthCheck returns service status
// GET /health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"time":     time.Now().UTC().Format(time.RFC3339),
		"sessions": h.sessions.Len(),
	})
}
