// Package monitor serves a local page streaming the events of a running
// recording over WebSocket.
package monitor

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"iorec/internal/event"
	"iorec/internal/protocol"
)

//go:embed index.html
var indexHTML []byte

// Server exposes the live monitor: an embedded page on /, the event
// stream on /ws and a JSON snapshot on /api/status.
type Server struct {
	hub        *Hub
	status     func() protocol.StatusPayload
	httpServer *http.Server
	ln         net.Listener
}

// NewServer returns a monitor reporting recording state through status.
func NewServer(status func() protocol.StatusPayload) *Server {
	return &Server{
		hub:    newHub(),
		status: status,
	}
}

// Start binds addr and serves in the background. Bind failures are
// returned synchronously.
func (s *Server) Start(addr string) error {
	go s.hub.run()

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/ws", s.hub.handleWebSocket)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/health", s.handleHealth)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("monitor listen on %s: %w", addr, err)
	}
	s.ln = ln

	s.httpServer = &http.Server{Handler: s.recoverMiddleware(mux)}
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("Monitor: server stopped")
		}
	}()

	log.Info().Str("addr", addr).Msg("Monitor: serving live view")
	return nil
}

// Stop shuts the server down and disconnects all clients.
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}
	s.hub.stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("monitor shutdown: %w", err)
	}
	s.httpServer = nil
	return nil
}

// Addr returns the bound listen address, valid after Start.
func (s *Server) Addr() string {
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Broadcast fans a persisted event out to connected clients. It never
// blocks the capture path; when the hub is saturated the event is only
// dropped from the live view, not from the log.
func (s *Server) Broadcast(ev event.Event) {
	select {
	case s.hub.broadcast <- protocol.NewEventMessage(ev):
	default:
	}
}

// BroadcastStatus pushes a status update to connected clients. The
// payload is passed in so callers can snapshot state under their own
// locks without re-entering the status callback.
func (s *Server) BroadcastStatus(st protocol.StatusPayload) {
	select {
	case s.hub.broadcast <- protocol.NewStatusMessage(st):
	default:
	}
}

// recoverMiddleware prevents panics from crashing the whole server
func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("panic", err).Msg("Monitor: handler panic")
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

// handleStatus handles GET /api/status
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.status())
}

// handleHealth handles GET /health (for monitoring)
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
