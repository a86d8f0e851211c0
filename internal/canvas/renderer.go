// Package canvas turns a shape sequence into draw calls. The model is
// immediate-mode full redraw: every mutation clears the surface and redraws
// the whole sequence.
package canvas

import "github.com/serroba/whiteboard/internal/shape"

// Rendering defaults for rect and circle strokes; pencil strokes carry their
// own width and color with these as fallbacks.
const (
	DefaultStrokeWidth = 2.0
	DefaultStrokeColor = "rgba(255, 255, 255, 1)"
)

// Renderer is an immediate-mode drawing surface. Rect and circle strokes use
// the fixed default width and color with butt caps and miter joins; paths
// use round caps and joins.
type Renderer interface {
	// Clear wipes the surface to the background.
	Clear()

	// StrokeRect outlines a rectangle. Width and height may be negative.
	StrokeRect(x, y, width, height float64)

	// StrokeCircle outlines a circle. Radius is non-negative.
	StrokeCircle(cx, cy, radius float64)

	// StrokePath strokes a pencil path with the given width and color.
	StrokePath(points []shape.Point, width float64, color string)
}

// Draw clears the renderer and redraws every shape in sequence order.
func Draw(r Renderer, shapes []shape.Shape) {
	r.Clear()

	for _, s := range shapes {
		DrawShape(r, s)
	}
}

// DrawShape issues the draw calls for a single shape.
func DrawShape(r Renderer, s shape.Shape) {
	switch v := s.(type) {
	case shape.Rect:
		r.StrokeRect(v.X, v.Y, v.Width, v.Height)
	case shape.Circle:
		radius := v.Radius
		if radius < 0 {
			radius = -radius
		}

		r.StrokeCircle(v.CenterX, v.CenterY, radius)
	case shape.Pencil:
		width := v.StrokeWidth
		if width == 0 {
			width = DefaultStrokeWidth
		}

		color := v.StrokeColor
		if color == "" {
			color = DefaultStrokeColor
		}

		r.StrokePath(v.Points, width, color)
	}
}
