package handlers

import (
	"net/http"

	"github.com/openoda/geoaddress/internal/server/response"
)

// HandleHealth handles the liveness probe.
// @Summary Health check
// @Description Health check endpoint (liveness probe)
// @Tags health
// @Produce json
// @Success 200 {object} object
// @Router /health [get].
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status":  "healthy",
		"service": "geoaddress-api",
	})
}

// HandleReady handles the readiness probe. The service is ready once the
// API specification has been loaded; the database line reports either the
// resolved connection string or the in-memory store.
// @Summary Readiness check
// @Description Readiness check including spec, store, and client status
// @Tags health
// @Produce json
// @Success 200 {object} object
// @Failure 503 {object} response.Error
// @Router /ready [get].
func (h *Handlers) HandleReady(w http.ResponseWriter, _ *http.Request) {
	if h.specs.Document() == nil {
		response.ServiceUnavailable(w, "API specification not loaded")
		return
	}

	database := "in-memory"
	if !h.database.InMemory() {
		database = h.database.ConnectionString()
	}

	response.OK(w, map[string]any{
		"status":   "ready",
		"database": database,
		"cache": map[string]any{
			"items": h.cache.ItemCount(),
		},
		"websocket_clients": h.wsHub.ClientCount(),
		"sse_clients":       h.sseBroadcaster.ClientCount(),
	})
}
