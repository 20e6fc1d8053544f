package ws

import (
	"encoding/json"
	"log"

	"github.com/gorilla/websocket"

	"doomcore/internal/demo"
	"doomcore/internal/ticcmd"
)

// PeerCoordinator is the netsync-side contract a websocket session drives.
// It is implemented by internal/netsync's Strategy so that this package
// never needs to know anything about gameplay beyond the wire format of a
// TicCmd (spec.md §4.I).
type PeerCoordinator interface {
	// SubmitCmd hands a peer's ticcmd for one tic to the coordinator. ok is
	// false, with reason set, when the command is rejected outright (e.g.
	// the player slot is unknown); consistency is the coordinator's stored
	// low-word for that player/tic once accepted, echoed back as an ack.
	SubmitCmd(playerID string, tic uint64, cmd ticcmd.TicCmd) (ok bool, consistency uint16, reason string)
	// Disconnect releases the player's slot when its connection drops.
	Disconnect(playerID string)
	// TicDup reports the currently configured ticdup so new peers know the
	// sample-rate reduction in effect.
	TicDup() int
}

// SessionConfig contains the inputs required to run a websocket session loop.
type SessionConfig struct {
	PlayerID string
	Conn     *websocket.Conn
	Coord    PeerCoordinator
	Logger   *log.Logger
}

// peerFrame is the wire envelope for both directions of the peer socket.
// Cmd, when present, holds the same bytes demo.EncodeTic would write for
// this tic, so the two codecs never drift apart (spec.md §4.D/§4.I share a
// ticcmd wire format).
type peerFrame struct {
	Type        string `json:"type"`
	Tic         uint64 `json:"tic"`
	Longtics    bool   `json:"longtics,omitempty"`
	Cmd         []byte `json:"cmd,omitempty"`
	Consistency uint16 `json:"consistency,omitempty"`
	Reason      string `json:"reason,omitempty"`
	TicDup      int    `json:"ticdup,omitempty"`
}

// Serve handles the websocket session lifecycle for a single net-game peer.
func Serve(cfg SessionConfig) {
	if cfg.Conn == nil || cfg.Coord == nil {
		if cfg.Conn != nil {
			cfg.Conn.Close()
		}
		return
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	defer func() {
		cfg.Coord.Disconnect(cfg.PlayerID)
		cfg.Conn.Close()
	}()

	welcome := peerFrame{Type: "welcome", TicDup: cfg.Coord.TicDup()}
	if err := writeFrame(cfg.Conn, welcome); err != nil {
		return
	}

	for {
		_, payload, err := cfg.Conn.ReadMessage()
		if err != nil {
			return
		}

		var frame peerFrame
		if err := json.Unmarshal(payload, &frame); err != nil {
			logger.Printf("ws: discarding malformed frame from %s: %v", cfg.PlayerID, err)
			continue
		}

		if frame.Type != "cmd" {
			logger.Printf("ws: unknown frame type %q from %s", frame.Type, cfg.PlayerID)
			continue
		}

		cmd, _, err := demo.DecodeTicBytes(frame.Cmd, frame.Longtics)
		if err != nil {
			logger.Printf("ws: malformed ticcmd from %s at tic %d: %v", cfg.PlayerID, frame.Tic, err)
			continue
		}

		ok, consistency, reason := cfg.Coord.SubmitCmd(cfg.PlayerID, frame.Tic, cmd)
		var reply peerFrame
		if ok {
			reply = peerFrame{Type: "ack", Tic: frame.Tic, Consistency: consistency}
		} else {
			reply = peerFrame{Type: "reject", Tic: frame.Tic, Reason: reason}
		}
		if err := writeFrame(cfg.Conn, reply); err != nil {
			return
		}
	}
}

func writeFrame(conn *websocket.Conn, frame peerFrame) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}
