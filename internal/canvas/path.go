package canvas

import "github.com/serroba/whiteboard/internal/shape"

// PathSegment is one drawable span of a pencil path outline.
type PathSegment struct {
	// Quadratic marks a quadratic Bezier span; Control is its control point.
	Quadratic bool
	Control   shape.Point
	End       shape.Point
}

// PathOutline expands a pencil path into its drawable spans, starting from
// points[0]. The first span is a straight line to the second point; every
// later span curves to the midpoint of the current and next point, using the
// current point as control. The final raw point is never reached; the
// outline ends at the last midpoint. Existing boards render exactly this
// outline, so it must not be "corrected" to a standard spline.
func PathOutline(points []shape.Point) []PathSegment {
	if len(points) < 2 {
		return nil
	}

	segments := make([]PathSegment, 0, len(points)-1)
	segments = append(segments, PathSegment{End: points[1]})

	for i := 2; i < len(points); i++ {
		prev := points[i-1]
		curr := points[i]

		segments = append(segments, PathSegment{
			Quadratic: true,
			Control:   prev,
			End: shape.Point{
				X: (prev.X + curr.X) / 2,
				Y: (prev.Y + curr.Y) / 2,
			},
		})
	}

	return segments
}
