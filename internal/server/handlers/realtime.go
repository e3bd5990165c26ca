package handlers

import (
	"fmt"
	"net/http"
	"time"

	ws "github.com/openoda/geoaddress/internal/server/websocket"
)

// HandleWebSocket upgrades the connection and streams resource change
// notifications over WebSocket.
// @Summary WebSocket notifications
// @Description WebSocket connection for real-time resource change events
// @Tags notifications
// @Success 101 "Switching Protocols"
// @Router /notifications/ws [get].
func (h *Handlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	clientID := fmt.Sprintf("%s-%d", r.RemoteAddr, time.Now().Unix())
	client := ws.NewClient(clientID, h.wsHub, conn)
	h.wsHub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}

// HandleSSE streams resource change notifications as Server-Sent Events.
// @Summary SSE notification stream
// @Description Server-Sent Events stream of resource change events
// @Tags notifications
// @Produce text/event-stream
// @Success 200 "Event stream"
// @Router /notifications/stream [get].
func (h *Handlers) HandleSSE(w http.ResponseWriter, r *http.Request) {
	h.sseBroadcaster.ServeHTTP(w, r)
}
