// Package net wires the HTTP surface that fronts the engine: a health
// check, a diagnostics snapshot, and the websocket upgrade for net-sync
// peers (spec.md §4.I, §6 "-server"/"-connect").
package net

import (
	"encoding/json"
	"log"
	nethttp "net/http"
	"net/http/pprof"
	"time"

	"doomcore/internal/net/ws"
	"doomcore/internal/observability"
	"doomcore/internal/telemetry"
)

// Coordinator is the union of what the websocket transport needs to drive
// a peer session and what the HTTP diagnostics endpoint needs to report on
// it. internal/app's netCoordinator satisfies this by wrapping
// internal/netsync's Strategy.
type Coordinator interface {
	ws.PeerCoordinator
	Diagnostics() Diagnostics
}

// Diagnostics summarizes net-sync state for the /diagnostics endpoint.
type Diagnostics struct {
	Peers    int   `json:"peers"`
	TicDup   int   `json:"ticdup"`
	GameTic  int   `json:"gametic"`
	Stalled  bool  `json:"stalled"`
	Resynced int64 `json:"resynced"`
}

// HTTPHandlerConfig configures the HTTP mux built by NewHTTPHandler.
type HTTPHandlerConfig struct {
	ClientDir     string
	Logger        telemetry.Logger
	Observability observability.Config
}

// NewHTTPHandler builds the complete HTTP surface for one running engine
// instance, including the /ws net-sync upgrade endpoint.
func NewHTTPHandler(coord Coordinator, cfg HTTPHandlerConfig) nethttp.Handler {
	telemetryLogger := cfg.Logger
	if telemetryLogger == nil {
		telemetryLogger = telemetry.WrapLogger(log.Default())
	}

	mux := nethttp.NewServeMux()

	registerPprofHandlers(mux, cfg.Observability.EnablePprofTrace)

	mux.HandleFunc("/health", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/diagnostics", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		payload := struct {
			Status     string      `json:"status"`
			ServerTime int64       `json:"serverTime"`
			NetSync    Diagnostics `json:"netsync"`
		}{
			Status:     "ok",
			ServerTime: time.Now().UnixMilli(),
			NetSync:    coord.Diagnostics(),
		}

		data, err := json.Marshal(payload)
		if err != nil {
			httpError(w, "failed to encode", nethttp.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})

	logAdapter := log.New(logWriter{telemetryLogger}, "", 0)
	wsHandler := ws.NewHandler(coord, ws.HandlerConfig{Logger: logAdapter})
	mux.HandleFunc("/ws", wsHandler.Handle)

	if cfg.ClientDir != "" {
		fs := nethttp.FileServer(nethttp.Dir(cfg.ClientDir))
		mux.Handle("/", fs)
	}

	return mux
}

// logWriter adapts a telemetry.Logger into an io.Writer so it can back a
// standard library *log.Logger (gorilla/websocket's Handler wants one).
type logWriter struct {
	logger telemetry.Logger
}

func (w logWriter) Write(p []byte) (int, error) {
	w.logger.Printf("%s", string(p))
	return len(p), nil
}

func httpError(w nethttp.ResponseWriter, msg string, code int) {
	nethttp.Error(w, msg, code)
}

func registerPprofHandlers(mux *nethttp.ServeMux, enableTrace bool) {
	mux.HandleFunc("/debug/pprof/", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.URL.Path != "/debug/pprof/" {
			nethttp.NotFound(w, r)
			return
		}
		pprof.Index(w, r)
	})

	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)

	profiles := []string{"allocs", "block", "goroutine", "heap", "mutex", "threadcreate"}
	for _, name := range profiles {
		mux.Handle("/debug/pprof/"+name, pprof.Handler(name))
	}

	if enableTrace {
		mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
		return
	}

	mux.HandleFunc("/debug/pprof/trace", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		httpError(w, "pprof trace disabled", nethttp.StatusNotFound)
	})
}
