package shape

import "github.com/google/uuid"

// Point is a single coordinate on the canvas.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Kind discriminates the shape union on the wire.
type Kind string

const (
	KindRect   Kind = "rect"
	KindCircle Kind = "circle"
	KindPencil Kind = "pencil"
)

// Shape is a sealed union of the drawable kinds. A shape is immutable once
// constructed; an edit is modeled as a delete followed by an add.
type Shape interface {
	Kind() Kind
	// ShapeID returns the stable identifier assigned at creation time.
	// Shapes decoded from legacy logs may have an empty ID.
	ShapeID() string

	sealed()
}

// Rect is an axis-aligned rectangle. Width and height keep the sign of the
// drag that created them; a leftward or upward drag produces negative values.
type Rect struct {
	ID     string
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Circle is a circle derived from a bounding drag. Radius may be negative
// when the drag ran in the negative direction; consumers take the absolute
// value when rendering and hit testing.
type Circle struct {
	ID      string
	CenterX float64
	CenterY float64
	Radius  float64
}

// Pencil is a freehand stroke. Points are ordered by capture time; a stroke
// needs at least two points to be meaningful.
type Pencil struct {
	ID          string
	Points      []Point
	StrokeWidth float64
	StrokeColor string
}

func (Rect) Kind() Kind   { return KindRect }
func (Circle) Kind() Kind { return KindCircle }
func (Pencil) Kind() Kind { return KindPencil }

func (r Rect) ShapeID() string   { return r.ID }
func (c Circle) ShapeID() string { return c.ID }
func (p Pencil) ShapeID() string { return p.ID }

func (Rect) sealed()   {}
func (Circle) sealed() {}
func (Pencil) sealed() {}

// RectFromDrag builds a rectangle from a drag gesture. The sign of the drag
// is preserved.
func RectFromDrag(start, end Point) Rect {
	return Rect{
		ID:     uuid.New().String(),
		X:      start.X,
		Y:      start.Y,
		Width:  end.X - start.X,
		Height: end.Y - start.Y,
	}
}

// CircleFromDrag builds a circle from a drag gesture. The radius derives from
// the larger of the two drag axes and the center sits at start plus radius on
// both axes. This is not a bounding-box fit; existing clients render it this
// way and visual parity matters more than geometric symmetry.
func CircleFromDrag(start, end Point) Circle {
	width := end.X - start.X
	height := end.Y - start.Y

	radius := width
	if height > radius {
		radius = height
	}

	radius /= 2

	return Circle{
		ID:      uuid.New().String(),
		CenterX: start.X + radius,
		CenterY: start.Y + radius,
		Radius:  radius,
	}
}

// PencilFromPoints builds a pencil stroke from captured points, applying path
// smoothing. Returns false if fewer than two points were captured; a single
// click does not produce a stroke.
func PencilFromPoints(points []Point, strokeWidth float64, strokeColor string) (Pencil, bool) {
	if len(points) < 2 {
		return Pencil{}, false
	}

	return Pencil{
		ID:          uuid.New().String(),
		Points:      Smooth(points),
		StrokeWidth: strokeWidth,
		StrokeColor: strokeColor,
	}, true
}
