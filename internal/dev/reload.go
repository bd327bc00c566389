package dev

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// writeWait bounds a single broadcast write; a client that cannot accept
// a reload message within it is dropped.
const writeWait = 5 * time.Second

// ReloadMessageType discriminates reload messages.
type ReloadMessageType string

const (
	ReloadTypeFull  ReloadMessageType = "reload"
	ReloadTypeError ReloadMessageType = "error"
)

// ReloadMessage is the JSON payload pushed to connected browsers.
type ReloadMessage struct {
	Type  ReloadMessageType `json:"type"`
	Error string            `json:"error,omitempty"`
	File  string            `json:"file,omitempty"`
}

// ReloadServer pushes reload notifications to browsers over WebSocket
// while the CLI runs in dev mode.
type ReloadServer struct {
	logger   zerolog.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// NewReloadServer creates a reload server with no connected clients.
func NewReloadServer(logger zerolog.Logger) *ReloadServer {
	return &ReloadServer{
		logger:  logger,
		clients: make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Dev-only endpoint; any origin may connect.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// HandleWebSocket upgrades the request and holds the connection open
// until the browser goes away.
func (s *ReloadServer) HandleWebSocket(w http.ResponseWriter, req *http.Request) {
	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		s.logger.Debug().Err(err).Msg("reload upgrade failed")
		return
	}

	s.mu.Lock()
	s.clients[conn] = struct{}{}
	s.mu.Unlock()
	s.logger.Debug().Str("remote", conn.RemoteAddr().String()).Msg("reload client connected")

	// The browser never sends anything meaningful; reading just detects
	// the disconnect.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	s.drop(conn)
}

// NotifyReload tells all clients to reload the page.
func (s *ReloadServer) NotifyReload(file string) {
	s.broadcast(ReloadMessage{Type: ReloadTypeFull, File: file})
}

// NotifyError surfaces a build or render error in connected browsers.
func (s *ReloadServer) NotifyError(errMsg string) {
	s.broadcast(ReloadMessage{Type: ReloadTypeError, Error: errMsg})
}

// ClientCount returns the number of connected browsers.
func (s *ReloadServer) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// broadcast fans the message out to every client, dropping any that
// cannot be written to.
func (s *ReloadServer) broadcast(msg ReloadMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error().Err(err).Msg("reload message marshal failed")
		return
	}

	s.mu.Lock()
	var dead []*websocket.Conn
	for conn := range s.clients {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			dead = append(dead, conn)
		}
	}
	for _, conn := range dead {
		delete(s.clients, conn)
	}
	s.mu.Unlock()

	for _, conn := range dead {
		s.logger.Debug().Str("remote", conn.RemoteAddr().String()).Msg("dropping stale reload client")
		conn.Close()
	}
}

// drop unregisters and closes one connection.
func (s *ReloadServer) drop(conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.clients, conn)
	s.mu.Unlock()
	conn.Close()
}
