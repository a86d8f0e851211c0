package game_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/serroba/whiteboard/internal/game"
	"github.com/serroba/whiteboard/internal/shape"
)

func TestReplay_AppliesOldestFirst(t *testing.T) {
	t.Parallel()

	first := shape.RectFromDrag(shape.Point{X: 0, Y: 0}, shape.Point{X: 10, Y: 10})
	second := shape.CircleFromDrag(shape.Point{X: 20, Y: 20}, shape.Point{X: 40, Y: 40})

	addFirst, err := shape.EncodeOperation(shape.AddOp(first))
	require.NoError(t, err)

	addSecond, err := shape.EncodeOperation(shape.AddOp(second))
	require.NoError(t, err)

	// Records arrive newest-first; replay must restore insertion order.
	shapes := game.Replay([]string{addSecond, addFirst})

	require.Len(t, shapes, 2)
	require.Equal(t, first.ShapeID(), shapes[0].ShapeID())
	require.Equal(t, second.ShapeID(), shapes[1].ShapeID())
}

func TestReplay_DeleteRemovesEarlierAdd(t *testing.T) {
	t.Parallel()

	rect := shape.RectFromDrag(shape.Point{X: 0, Y: 0}, shape.Point{X: 10, Y: 10})

	add, err := shape.EncodeOperation(shape.AddOp(rect))
	require.NoError(t, err)

	del, err := shape.EncodeOperation(shape.DeleteOp(rect.ShapeID()))
	require.NoError(t, err)

	shapes := game.Replay([]string{del, add})
	require.Empty(t, shapes)
}

func TestReplay_SkipsMalformedRecords(t *testing.T) {
	t.Parallel()

	rect := shape.RectFromDrag(shape.Point{X: 0, Y: 0}, shape.Point{X: 10, Y: 10})

	add, err := shape.EncodeOperation(shape.AddOp(rect))
	require.NoError(t, err)

	shapes := game.Replay([]string{"{broken", add, `{"action":"noop"}`})
	require.Len(t, shapes, 1)
}

func TestReplay_Deterministic(t *testing.T) {
	t.Parallel()

	rect := shape.RectFromDrag(shape.Point{X: 0, Y: 0}, shape.Point{X: 10, Y: 10})

	add, err := shape.EncodeOperation(shape.AddOp(rect))
	require.NoError(t, err)

	log := []string{add, `{"action":"delete","index":5}`}

	first := game.Replay(log)
	second := game.Replay(log)

	require.Equal(t, first, second)
}

func TestHTTPHistory_FetchesAndReplays(t *testing.T) {
	t.Parallel()

	rect := shape.RectFromDrag(shape.Point{X: 0, Y: 0}, shape.Point{X: 10, Y: 10})

	add, err := shape.EncodeOperation(shape.AddOp(rect))
	require.NoError(t, err)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chats/board-1", r.URL.Path)

		body := map[string]any{
			"messages": []map[string]string{{"message": add}},
		}

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(body))
	}))
	defer ts.Close()

	history := &game.HTTPHistory{BaseURL: ts.URL}

	shapes, err := history.Fetch("board-1")
	require.NoError(t, err)
	require.Len(t, shapes, 1)
	require.Equal(t, rect.ShapeID(), shapes[0].ShapeID())
}

func TestHTTPHistory_ErrorStatus(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	history := &game.HTTPHistory{BaseURL: ts.URL}

	_, err := history.Fetch("board-1")
	require.Error(t, err)
}
