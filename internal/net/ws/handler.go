// Package ws upgrades HTTP connections to websockets and runs the per-peer
// session loop for the "New" net-sync mode (spec.md §4.I): each connected
// peer receives a welcome frame, then streams its own ticcmds in and
// receives a consistency ack or reject for each one.
package ws

import (
	"log"
	nethttp "net/http"

	"github.com/gorilla/websocket"
)

// HandlerConfig configures the upgrade and per-session behavior.
type HandlerConfig struct {
	Logger *log.Logger
}

// Handler upgrades incoming HTTP requests to websocket peer sessions.
type Handler struct {
	coord    PeerCoordinator
	logger   *log.Logger
	upgrader websocket.Upgrader
}

// NewHandler builds a Handler that hands accepted connections off to coord.
func NewHandler(coord PeerCoordinator, cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Handler{
		coord:  coord,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *nethttp.Request) bool {
				return true
			},
		},
	}
}

// Handle is an http.HandlerFunc-compatible entry point: "?player=<n>"
// identifies which net-game player slot this connection drives.
func (h *Handler) Handle(w nethttp.ResponseWriter, r *nethttp.Request) {
	playerID := r.URL.Query().Get("player")
	if playerID == "" {
		nethttp.Error(w, "missing player", nethttp.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("ws: upgrade failed for player %s: %v", playerID, err)
		return
	}

	Serve(SessionConfig{
		PlayerID: playerID,
		Conn:     conn,
		Coord:    h.coord,
		Logger:   h.logger,
	})
}
