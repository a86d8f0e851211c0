package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
)

// ChatMessage is one entry in the history response.
type ChatMessage struct {
	Message string `json:"message"`
	UserID  string `json:"userId,omitempty"`
}

// ChatsResponse is the response body for the history endpoint. Messages are
// ordered newest-first; clients reverse before replaying.
type ChatsResponse struct {
	Messages []ChatMessage `json:"messages"`
}

// handleChats handles GET /chats/{roomId}.
func (s *Server) handleChats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)

		return
	}

	roomID := strings.TrimPrefix(r.URL.Path, "/chats/")
	if roomID == "" || strings.Contains(roomID, "/") {
		http.Error(w, "room ID is required", http.StatusBadRequest)

		return
	}

	records, err := s.store.FetchAll(roomID)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)

		return
	}

	messages := make([]ChatMessage, len(records))
	for i, record := range records {
		messages[i] = ChatMessage{Message: record.Message, UserID: record.UserID}
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(ChatsResponse{Messages: messages}); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}
