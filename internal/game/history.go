package game

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/serroba/whiteboard/internal/shape"
)

// HistoryFetcher loads the historical operation log for a room, already
// replayed into a shape sequence.
type HistoryFetcher interface {
	Fetch(roomID string) ([]shape.Shape, error)
}

// HTTPHistory fetches history from the relay's chats endpoint.
type HTTPHistory struct {
	BaseURL string
	Client  *http.Client
}

// Fetch retrieves GET {BaseURL}/chats/{roomID} and replays the log.
func (h *HTTPHistory) Fetch(roomID string) ([]shape.Shape, error) {
	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}

	url := fmt.Sprintf("%s/chats/%s", strings.TrimRight(h.BaseURL, "/"), roomID)

	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("history fetch: unexpected status %d", resp.StatusCode)
	}

	var body struct {
		Messages []struct {
			Message string `json:"message"`
		} `json:"messages"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	messages := make([]string, len(body.Messages))
	for i, m := range body.Messages {
		messages[i] = m.Message
	}

	return Replay(messages), nil
}

// Replay applies a newest-first record list to an empty shape sequence,
// oldest record first. Malformed records are skipped; replaying the same log
// twice yields identical sequences.
func Replay(newestFirst []string) []shape.Shape {
	var shapes []shape.Shape

	for i := len(newestFirst) - 1; i >= 0; i-- {
		op, err := shape.DecodeOperation(newestFirst[i])
		if err != nil {
			continue
		}

		shapes = shape.Apply(shapes, op)
	}

	return shapes
}

// Ensure HTTPHistory implements HistoryFetcher.
var _ HistoryFetcher = (*HTTPHistory)(nil)
