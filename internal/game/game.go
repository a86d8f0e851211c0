// Package game implements the client-side reconciliation engine: it owns one
// canvas's shape sequence, applies local input optimistically, and converges
// with peers by applying the operation stream echoed back by the relay.
package game

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/serroba/whiteboard/internal/canvas"
	"github.com/serroba/whiteboard/internal/shape"
	"github.com/serroba/whiteboard/internal/ws"
)

// Tool selects what pointer gestures produce.
type Tool string

const (
	ToolRect   Tool = "rect"
	ToolCircle Tool = "circle"
	ToolPencil Tool = "pencil"
	ToolErase  Tool = "erase"
)

// Pencil stroke width bounds.
const (
	minStrokeWidth = 1
	maxStrokeWidth = 20
)

// Sender transmits relay messages for the engine.
type Sender interface {
	Send(msg ws.Message) error
}

// RosterFunc receives room occupancy updates.
type RosterFunc func(count int, users []ws.RoomUser)

// Config holds configuration for creating a Game.
type Config struct {
	RoomID   string
	Sender   Sender
	Renderer canvas.Renderer

	// History, when set, is replayed into the shape sequence before the
	// first render. Nil starts from an empty board.
	History HistoryFetcher

	// LivePreview streams in-progress shapes to peers as drawing messages.
	LivePreview bool

	// OnRoster, when set, is invoked for user_count updates.
	OnRoster RosterFunc
}

// Game owns a single canvas's shape sequence. All local edits are applied
// immediately and sent to the relay; the relay's echo is deduplicated by
// stable shape ID, so applying an operation twice is harmless.
type Game struct {
	roomID   string
	sender   Sender
	renderer canvas.Renderer
	onRoster RosterFunc

	livePreview bool

	mu     sync.Mutex
	shapes []shape.Shape

	tool        Tool
	strokeWidth float64
	strokeColor string

	clicked        bool
	startX, startY float64
	pencilPath     []shape.Point

	destroyed bool
}

// New creates a Game, replays the room's history and renders the result.
func New(cfg Config) (*Game, error) {
	g := &Game{
		roomID:      cfg.RoomID,
		sender:      cfg.Sender,
		renderer:    cfg.Renderer,
		onRoster:    cfg.OnRoster,
		livePreview: cfg.LivePreview,
		tool:        ToolCircle,
		strokeWidth: canvas.DefaultStrokeWidth,
		strokeColor: canvas.DefaultStrokeColor,
	}

	if cfg.History != nil {
		shapes, err := cfg.History.Fetch(cfg.RoomID)
		if err != nil {
			return nil, err
		}

		g.shapes = shapes
	}

	g.mu.Lock()
	g.redraw()
	g.mu.Unlock()

	return g, nil
}

// SetTool selects the active tool. Affects only subsequent gestures.
func (g *Game) SetTool(tool Tool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.tool = tool
}

// SetPencilStrokeWidth sets the width for subsequent pencil strokes,
// clamped to [1, 20].
func (g *Game) SetPencilStrokeWidth(width float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if width < minStrokeWidth {
		width = minStrokeWidth
	}

	if width > maxStrokeWidth {
		width = maxStrokeWidth
	}

	g.strokeWidth = width
}

// PencilStrokeWidth returns the current pencil stroke width.
func (g *Game) PencilStrokeWidth() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.strokeWidth
}

// SetStrokeColor sets the color for subsequent pencil strokes.
func (g *Game) SetStrokeColor(color string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.strokeColor = color
}

// Shapes returns a snapshot of the shape sequence.
func (g *Game) Shapes() []shape.Shape {
	g.mu.Lock()
	defer g.mu.Unlock()

	shapes := make([]shape.Shape, len(g.shapes))
	copy(shapes, g.shapes)

	return shapes
}

// PointerDown starts a drag gesture.
func (g *Game) PointerDown(x, y float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.destroyed {
		return
	}

	g.clicked = true
	g.startX, g.startY = x, y

	if g.tool == ToolPencil {
		g.pencilPath = []shape.Point{{X: x, Y: y}}
	}
}

// PointerMove extends the current drag, redrawing the full shape set plus a
// live preview of the in-progress shape.
func (g *Game) PointerMove(x, y float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.destroyed || !g.clicked {
		return
	}

	start := shape.Point{X: g.startX, Y: g.startY}
	end := shape.Point{X: x, Y: y}

	switch g.tool {
	case ToolPencil:
		g.pencilPath = append(g.pencilPath, end)
		g.redraw()
		// Preview is the raw, unsmoothed path.
		g.renderer.StrokePath(g.pencilPath, g.strokeWidth, g.strokeColor)
		g.sendPreview(shape.Pencil{Points: g.pencilPath, StrokeWidth: g.strokeWidth, StrokeColor: g.strokeColor})
	case ToolRect:
		preview := shape.Rect{X: start.X, Y: start.Y, Width: end.X - start.X, Height: end.Y - start.Y}
		g.redraw()
		canvas.DrawShape(g.renderer, preview)
		g.sendPreview(preview)
	case ToolCircle:
		preview := previewCircle(start, end)
		g.redraw()
		canvas.DrawShape(g.renderer, preview)
		g.sendPreview(preview)
	case ToolErase:
		// Nothing to preview.
	}
}

// PointerUp completes the gesture: it finalizes the shape (or hit-tests for
// erase), applies the operation locally and sends it to the relay.
func (g *Game) PointerUp(x, y float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.destroyed || !g.clicked {
		return
	}

	g.clicked = false

	start := shape.Point{X: g.startX, Y: g.startY}
	end := shape.Point{X: x, Y: y}

	switch g.tool {
	case ToolErase:
		g.eraseAt(x, y)

		return
	case ToolPencil:
		path := g.pencilPath
		g.pencilPath = nil // Always reset, even when no shape is emitted

		if p, ok := shape.PencilFromPoints(path, g.strokeWidth, g.strokeColor); ok {
			g.applyAndSend(shape.AddOp(p))
		}
	case ToolRect:
		g.applyAndSend(shape.AddOp(shape.RectFromDrag(start, end)))
	case ToolCircle:
		g.applyAndSend(shape.AddOp(shape.CircleFromDrag(start, end)))
	}
}

// eraseAt hit-tests the release point and deletes the topmost match. Shapes
// from legacy logs have no stable ID and fall back to a positional delete.
func (g *Game) eraseAt(x, y float64) {
	i := shape.HitTest(g.shapes, x, y)
	if i < 0 {
		return
	}

	op := shape.DeleteOp(g.shapes[i].ShapeID())
	if op.TargetID == "" {
		op = shape.DeleteAtOp(i)
	}

	g.applyAndSend(op)
}

// applyAndSend performs the optimistic local mutation, redraws, and ships
// the operation to the relay. Called with the lock held.
func (g *Game) applyAndSend(op shape.Operation) {
	g.shapes = shape.Apply(g.shapes, op)
	g.redraw()

	encoded, err := shape.EncodeOperation(op)
	if err != nil {
		log.Printf("encode operation failed: %v", err)

		return
	}

	if err := g.sender.Send(ws.Message{
		Type:    ws.MessageTypeChat,
		RoomID:  g.roomID,
		Message: encoded,
	}); err != nil {
		log.Printf("send operation failed: %v", err)
	}
}

// HandleRaw parses a raw frame and dispatches it. Unparseable frames are
// dropped without failing the connection.
func (g *Game) HandleRaw(raw []byte) {
	var msg ws.Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}

	g.HandleMessage(msg)
}

// HandleMessage applies a relay message to the engine. Chat operations that
// fail to parse, target an absent shape ID, or carry an out-of-range index
// are ignored.
func (g *Game) HandleMessage(msg ws.Message) {
	switch msg.Type {
	case ws.MessageTypeChat:
		op, err := shape.DecodeOperation(msg.Message)
		if err != nil {
			return
		}

		g.mu.Lock()
		defer g.mu.Unlock()

		if g.destroyed {
			return
		}

		g.shapes = shape.Apply(g.shapes, op)
		g.redraw()
	case ws.MessageTypeDrawing:
		g.handlePreview(msg.Data)
	case ws.MessageTypeUserCount:
		if g.onRoster != nil {
			g.onRoster(msg.Count, msg.Users)
		}
	case ws.MessageTypeJoinRoom, ws.MessageTypeLeaveRoom:
		// Client-to-server only; ignore.
	}
}

// handlePreview renders a peer's in-progress shape on top of the current
// frame. Previews are ephemeral: the next redraw erases them.
func (g *Game) handlePreview(data json.RawMessage) {
	if len(data) == 0 {
		return
	}

	preview, err := shape.UnmarshalShape(data)
	if err != nil {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.destroyed {
		return
	}

	g.redraw()
	canvas.DrawShape(g.renderer, preview)
}

// Destroy stops the engine. No state mutates after Destroy returns.
func (g *Game) Destroy() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.destroyed = true
	g.clicked = false
	g.pencilPath = nil
}

// sendPreview ships an in-progress shape as an ephemeral drawing message.
// Called with the lock held.
func (g *Game) sendPreview(s shape.Shape) {
	if !g.livePreview {
		return
	}

	data, err := shape.MarshalShape(s)
	if err != nil {
		return
	}

	_ = g.sender.Send(ws.Message{
		Type:   ws.MessageTypeDrawing,
		RoomID: g.roomID,
		Data:   data,
	})
}

// redraw repaints the whole shape sequence. Called with the lock held.
func (g *Game) redraw() {
	canvas.Draw(g.renderer, g.shapes)
}

// previewCircle mirrors CircleFromDrag without assigning an ID; previews
// never enter the shape sequence.
func previewCircle(start, end shape.Point) shape.Circle {
	radius := end.X - start.X
	if h := end.Y - start.Y; h > radius {
		radius = h
	}

	radius /= 2

	return shape.Circle{
		CenterX: start.X + radius,
		CenterY: start.Y + radius,
		Radius:  radius,
	}
}
