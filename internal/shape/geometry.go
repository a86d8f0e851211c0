package shape

import "math"

// hitThreshold is the maximum distance, in canvas units, at which a point
// still counts as touching a pencil stroke.
const hitThreshold = 10.0

// Smooth applies a 3-point moving average to the interior points of a path.
// The endpoints are left unchanged. Paths with fewer than three points are
// returned as-is.
func Smooth(points []Point) []Point {
	if len(points) < 3 {
		return points
	}

	smoothed := make([]Point, 0, len(points))
	smoothed = append(smoothed, points[0])

	for i := 1; i < len(points)-1; i++ {
		prev := points[i-1]
		curr := points[i]
		next := points[i+1]

		smoothed = append(smoothed, Point{
			X: (prev.X + curr.X + next.X) / 3,
			Y: (prev.Y + curr.Y + next.Y) / 3,
		})
	}

	return append(smoothed, points[len(points)-1])
}

// HitTest returns the index of the topmost shape containing the point, or -1.
// Shapes are scanned newest-first so the shape drawn on top wins.
func HitTest(shapes []Shape, x, y float64) int {
	for i := len(shapes) - 1; i >= 0; i-- {
		if hit(shapes[i], x, y) {
			return i
		}
	}

	return -1
}

func hit(s Shape, x, y float64) bool {
	switch v := s.(type) {
	case Rect:
		return rectContains(v, x, y)
	case Circle:
		dx := x - v.CenterX
		dy := y - v.CenterY
		radius := math.Abs(v.Radius)

		// Boundary inclusive
		return dx*dx+dy*dy <= radius*radius
	case Pencil:
		return nearPath(v.Points, x, y)
	}

	return false
}

// rectContains treats the rectangle as its bounding box, so rectangles
// dragged in the negative direction are still hittable.
func rectContains(r Rect, x, y float64) bool {
	minX, maxX := r.X, r.X+r.Width
	if minX > maxX {
		minX, maxX = maxX, minX
	}

	minY, maxY := r.Y, r.Y+r.Height
	if minY > maxY {
		minY, maxY = maxY, minY
	}

	return x >= minX && x <= maxX && y >= minY && y <= maxY
}

// nearPath reports whether the point lies within hitThreshold of any segment
// of the path.
func nearPath(points []Point, x, y float64) bool {
	for i := 0; i < len(points)-1; i++ {
		if segmentDistance(points[i], points[i+1], x, y) <= hitThreshold {
			return true
		}
	}

	return false
}

// segmentDistance returns the distance from (x,y) to the segment p1-p2.
func segmentDistance(p1, p2 Point, x, y float64) float64 {
	ax := x - p1.X
	ay := y - p1.Y
	cx := p2.X - p1.X
	cy := p2.Y - p1.Y

	lenSq := cx*cx + cy*cy
	if lenSq == 0 {
		// Degenerate segment
		return math.Hypot(ax, ay)
	}

	t := (ax*cx + ay*cy) / lenSq

	var nx, ny float64

	switch {
	case t < 0:
		nx, ny = p1.X, p1.Y
	case t > 1:
		nx, ny = p2.X, p2.Y
	default:
		nx, ny = p1.X+t*cx, p1.Y+t*cy
	}

	return math.Hypot(x-nx, y-ny)
}
