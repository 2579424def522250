// Package progressws streams engine.Stats to connected websocket
// clients as JSON, letting a dashboard watch a long rewrite run live
// instead of tailing console output.
package progressws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"aigrewrite/internal/engine"
)

// Server broadcasts progress snapshots to every currently connected
// client; a client that connects mid-run simply starts receiving from
// the next iteration.
type Server struct {
	upgrader websocket.Upgrader
	mu       sync.RWMutex
	clients  map[*websocket.Conn]struct{}
}

// NewServer returns a Server ready to register as an http.Handler.
func NewServer() *Server {
	return &Server{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// ServeHTTP upgrades the connection and registers the client for
// broadcasts. It blocks reading (discarding) client frames only to
// detect disconnects; the protocol is server-to-client only.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("progressws: upgrade failed: %v", err)
		return
	}
	s.mu.Lock()
	s.clients[conn] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Emit is an engine.Emitter that fans a Stats snapshot out to every
// connected client as a JSON text frame. A client whose write fails is
// dropped once this broadcast has gone to every client.
func (s *Server) Emit(stats engine.Stats) {
	payload, err := json.Marshal(stats)
	if err != nil {
		log.Printf("progressws: marshal stats: %v", err)
		return
	}

	s.mu.RLock()
	dead := make([]*websocket.Conn, 0)
	for conn := range s.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			dead = append(dead, conn)
		}
	}
	s.mu.RUnlock()

	if len(dead) == 0 {
		return
	}
	s.mu.Lock()
	for _, conn := range dead {
		delete(s.clients, conn)
		conn.Close()
	}
	s.mu.Unlock()
}
