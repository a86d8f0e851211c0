package api

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/serroba/whiteboard/internal/auth"
	"github.com/serroba/whiteboard/internal/storage"
	"github.com/serroba/whiteboard/internal/ws"
)

// Server exposes the relay's WebSocket endpoint and the chat history API.
// It holds no shape state of its own; it persists operations and fans them
// out.
type Server struct {
	hub      *ws.Hub
	store    storage.Store
	verifier *auth.Verifier
	presence PresenceReader
	upgrader websocket.Upgrader
}

// ServerConfig holds configuration for creating a server.
type ServerConfig struct {
	Hub      *ws.Hub
	Store    storage.Store
	Verifier *auth.Verifier

	// Presence, when set, backs the presence endpoint with the shared
	// store instead of this relay's local registry.
	Presence PresenceReader
}

// NewServer creates a new relay server.
func NewServer(cfg ServerConfig) *Server {
	return &Server{
		hub:      cfg.Hub,
		store:    cfg.Store,
		verifier: cfg.Verifier,
		presence: cfg.Presence,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool {
				return true // Browser clients connect from a separate origin
			},
		},
	}
}

// Handler returns an http.Handler with all routes configured.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/chats/", s.handleChats)
	mux.HandleFunc("/presence/", s.handlePresence)

	return mux
}
