package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/gorilla/websocket"

	"doomcore/internal/demo"
	"doomcore/internal/ticcmd"
)

// fakeCoordinator is a minimal PeerCoordinator stand-in so handler tests
// don't need a real netsync.Strategy.
type fakeCoordinator struct {
	mu          sync.Mutex
	ticDup      int
	accept      bool
	rejectWhy   string
	consistency uint16
	submitted   []submittedCmd
}

type submittedCmd struct {
	playerID string
	tic      uint64
	cmd      ticcmd.TicCmd
}

func (f *fakeCoordinator) SubmitCmd(playerID string, tic uint64, cmd ticcmd.TicCmd) (bool, uint16, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, submittedCmd{playerID, tic, cmd})
	if !f.accept {
		return false, 0, f.rejectWhy
	}
	return true, f.consistency, ""
}

func (f *fakeCoordinator) Disconnect(playerID string) {}

func (f *fakeCoordinator) TicDup() int { return f.ticDup }

func TestHandleWelcomeAdvertisesTicDup(t *testing.T) {
	coord := &fakeCoordinator{ticDup: 3, accept: true}
	handler := NewHandler(coord, HandlerConfig{})
	srv := httptest.NewServer(http.HandlerFunc(handler.Handle))
	t.Cleanup(srv.Close)

	conn, resp, err := websocket.DefaultDialer.Dial(websocketURL(t, srv.URL, "1"), nil)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		t.Fatalf("failed to open websocket connection: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read welcome frame: %v", err)
	}

	var frame peerFrame
	if err := json.Unmarshal(payload, &frame); err != nil {
		t.Fatalf("failed to decode welcome frame: %v", err)
	}
	if frame.Type != "welcome" || frame.TicDup != 3 {
		t.Fatalf("unexpected welcome frame: %+v", frame)
	}
}

func TestHandleCmdFrameRoundTripsAck(t *testing.T) {
	coord := &fakeCoordinator{ticDup: 1, accept: true, consistency: 0xBEEF}
	handler := NewHandler(coord, HandlerConfig{})
	srv := httptest.NewServer(http.HandlerFunc(handler.Handle))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial(websocketURL(t, srv.URL, "2"), nil)
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	// Drain the welcome frame.
	if _, _, err := conn.ReadMessage(); err != nil {
		t.Fatalf("failed to read welcome frame: %v", err)
	}

	cmd := ticcmd.TicCmd{Forward: 50, AngleTurn: 100}
	cmdBytes := demo.EncodeTic(cmd, false)
	frame := peerFrame{Type: "cmd", Tic: 42, Cmd: cmdBytes}
	data, err := json.Marshal(frame)
	if err != nil {
		t.Fatalf("failed to marshal cmd frame: %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		t.Fatalf("failed to write cmd frame: %v", err)
	}

	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read ack: %v", err)
	}
	var ack peerFrame
	if err := json.Unmarshal(payload, &ack); err != nil {
		t.Fatalf("failed to decode ack: %v", err)
	}
	if ack.Type != "ack" || ack.Tic != 42 || ack.Consistency != 0xBEEF {
		t.Fatalf("unexpected ack frame: %+v", ack)
	}

	coord.mu.Lock()
	defer coord.mu.Unlock()
	if len(coord.submitted) != 1 || coord.submitted[0].tic != 42 || coord.submitted[0].cmd.Forward != 50 {
		t.Fatalf("unexpected submitted commands: %+v", coord.submitted)
	}
}

func TestHandleCmdFrameRejection(t *testing.T) {
	coord := &fakeCoordinator{ticDup: 1, accept: false, rejectWhy: "unknown player slot"}
	handler := NewHandler(coord, HandlerConfig{})
	srv := httptest.NewServer(http.HandlerFunc(handler.Handle))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial(websocketURL(t, srv.URL, "9"), nil)
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if _, _, err := conn.ReadMessage(); err != nil {
		t.Fatalf("failed to read welcome frame: %v", err)
	}

	frame := peerFrame{Type: "cmd", Tic: 1, Cmd: demo.EncodeTic(ticcmd.TicCmd{}, false)}
	data, _ := json.Marshal(frame)
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		t.Fatalf("failed to write cmd frame: %v", err)
	}

	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read reject: %v", err)
	}
	var reject peerFrame
	if err := json.Unmarshal(payload, &reject); err != nil {
		t.Fatalf("failed to decode reject: %v", err)
	}
	if reject.Type != "reject" || reject.Reason != "unknown player slot" {
		t.Fatalf("unexpected reject frame: %+v", reject)
	}
}

func websocketURL(t *testing.T, baseURL, playerID string) string {
	t.Helper()

	parsed, err := url.Parse(baseURL)
	if err != nil {
		t.Fatalf("failed to parse test server url: %v", err)
	}
	parsed.Scheme = "ws"
	parsed.Path = "/"
	query := parsed.Query()
	query.Set("player", playerID)
	parsed.RawQuery = query.Encode()
	return parsed.String()
}
