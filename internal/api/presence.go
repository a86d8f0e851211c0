package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/serroba/whiteboard/internal/presence"
	"github.com/serroba/whiteboard/internal/ws"
)

// PresenceReader reads room occupancy from a shared presence store.
type PresenceReader interface {
	Members(ctx context.Context, roomID string) ([]presence.Member, error)
}

// PresenceResponse is the response body for the presence endpoint.
type PresenceResponse struct {
	Count int           `json:"count"`
	Users []ws.RoomUser `json:"users"`
}

// handlePresence handles GET /presence/{roomId}. With a presence store
// configured it serves the cluster-wide roster; otherwise it falls back to
// this relay's local registry.
func (s *Server) handlePresence(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)

		return
	}

	roomID := strings.TrimPrefix(r.URL.Path, "/presence/")
	if roomID == "" || strings.Contains(roomID, "/") {
		http.Error(w, "room ID is required", http.StatusBadRequest)

		return
	}

	users := s.hub.RoomUsers(roomID)

	if s.presence != nil {
		members, err := s.presence.Members(r.Context(), roomID)
		if err != nil {
			http.Error(w, "internal server error", http.StatusInternalServerError)

			return
		}

		users = make([]ws.RoomUser, len(members))
		for i, m := range members {
			users[i] = ws.RoomUser{UserID: m.UserID, UserName: m.UserName}
		}
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(PresenceResponse{Count: len(users), Users: users}); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}
