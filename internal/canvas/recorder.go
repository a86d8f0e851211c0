package canvas

import (
	"sync"

	"github.com/serroba/whiteboard/internal/shape"
)

// RecordedOp is one captured draw call.
type RecordedOp struct {
	Op string // "clear", "rect", "circle" or "path"

	X, Y          float64
	Width, Height float64

	CX, CY, Radius float64

	Points      []shape.Point
	StrokeWidth float64
	StrokeColor string
}

// Recorder captures draw calls for inspection. Useful for testing and for
// diffing redraw output.
type Recorder struct {
	mu  sync.Mutex
	ops []RecordedOp
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Clear() {
	r.record(RecordedOp{Op: "clear"})
}

func (r *Recorder) StrokeRect(x, y, width, height float64) {
	r.record(RecordedOp{Op: "rect", X: x, Y: y, Width: width, Height: height})
}

func (r *Recorder) StrokeCircle(cx, cy, radius float64) {
	r.record(RecordedOp{Op: "circle", CX: cx, CY: cy, Radius: radius})
}

func (r *Recorder) StrokePath(points []shape.Point, width float64, color string) {
	pts := make([]shape.Point, len(points))
	copy(pts, points)

	r.record(RecordedOp{Op: "path", Points: pts, StrokeWidth: width, StrokeColor: color})
}

// Ops returns a snapshot of the captured draw calls.
func (r *Recorder) Ops() []RecordedOp {
	r.mu.Lock()
	defer r.mu.Unlock()

	ops := make([]RecordedOp, len(r.ops))
	copy(ops, r.ops)

	return ops
}

// LastFrame returns the draw calls issued since the most recent Clear.
func (r *Recorder) LastFrame() []RecordedOp {
	ops := r.Ops()

	for i := len(ops) - 1; i >= 0; i-- {
		if ops[i].Op == "clear" {
			return ops[i+1:]
		}
	}

	return ops
}

// Reset discards the captured draw calls.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ops = nil
}

func (r *Recorder) record(op RecordedOp) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ops = append(r.ops, op)
}

// Ensure Recorder implements Renderer.
var _ Renderer = (*Recorder)(nil)
