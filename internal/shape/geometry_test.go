package shape_test

import (
	"testing"

	"github.com/serroba/whiteboard/internal/shape"
	"github.com/stretchr/testify/require"
)

func TestRectFromDrag_PreservesSign(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		start, end shape.Point
		width      float64
		height     float64
	}{
		{"positive drag", shape.Point{X: 10, Y: 10}, shape.Point{X: 60, Y: 40}, 50, 30},
		{"leftward drag", shape.Point{X: 60, Y: 10}, shape.Point{X: 10, Y: 40}, -50, 30},
		{"upward drag", shape.Point{X: 10, Y: 40}, shape.Point{X: 60, Y: 10}, 50, -30},
		{"zero drag", shape.Point{X: 5, Y: 5}, shape.Point{X: 5, Y: 5}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := shape.RectFromDrag(tt.start, tt.end)

			require.Equal(t, tt.start.X, r.X)
			require.Equal(t, tt.start.Y, r.Y)
			require.Equal(t, tt.width, r.Width)
			require.Equal(t, tt.height, r.Height)
			require.NotEmpty(t, r.ID)
		})
	}
}

func TestCircleFromDrag(t *testing.T) {
	t.Parallel()

	// radius = max(width, height) / 2, center = start + radius on both axes
	c := shape.CircleFromDrag(shape.Point{X: 10, Y: 20}, shape.Point{X: 50, Y: 40})

	require.Equal(t, 20.0, c.Radius) // max(40, 20) / 2
	require.Equal(t, 30.0, c.CenterX)
	require.Equal(t, 40.0, c.CenterY)
}

func TestCircleFromDrag_NegativeDrag(t *testing.T) {
	t.Parallel()

	c := shape.CircleFromDrag(shape.Point{X: 50, Y: 50}, shape.Point{X: 10, Y: 20})

	// Both axes negative: max(-40, -30) = -30
	require.Equal(t, -15.0, c.Radius)
	require.Equal(t, 35.0, c.CenterX)
	require.Equal(t, 35.0, c.CenterY)
}

func TestSmooth_EndpointsFixed(t *testing.T) {
	t.Parallel()

	points := []shape.Point{{X: 0, Y: 0}, {X: 3, Y: 9}, {X: 6, Y: 0}, {X: 9, Y: 9}}

	smoothed := shape.Smooth(points)

	require.Len(t, smoothed, 4)
	require.Equal(t, points[0], smoothed[0])
	require.Equal(t, points[3], smoothed[3])

	// Interior points are the mean of themselves and their neighbors
	require.Equal(t, shape.Point{X: 3, Y: 3}, smoothed[1])
	require.Equal(t, shape.Point{X: 6, Y: 6}, smoothed[2])
}

func TestSmooth_ShortPathsUnchanged(t *testing.T) {
	t.Parallel()

	two := []shape.Point{{X: 1, Y: 1}, {X: 2, Y: 2}}
	require.Equal(t, two, shape.Smooth(two))

	one := []shape.Point{{X: 1, Y: 1}}
	require.Equal(t, one, shape.Smooth(one))

	require.Empty(t, shape.Smooth(nil))
}

func TestPencilFromPoints_RequiresTwoPoints(t *testing.T) {
	t.Parallel()

	_, ok := shape.PencilFromPoints([]shape.Point{{X: 1, Y: 1}}, 2, "")
	if ok {
		t.Error("expected single-point path to be rejected")
	}

	p, ok := shape.PencilFromPoints([]shape.Point{{X: 1, Y: 1}, {X: 2, Y: 2}}, 4, "red")
	if !ok {
		t.Fatal("expected two-point path to produce a stroke")
	}

	require.Len(t, p.Points, 2)
	require.Equal(t, 4.0, p.StrokeWidth)
	require.Equal(t, "red", p.StrokeColor)
	require.NotEmpty(t, p.ID)
}

func TestHitTest_Rect(t *testing.T) {
	t.Parallel()

	shapes := []shape.Shape{
		shape.Rect{ID: "r1", X: 10, Y: 10, Width: 50, Height: 30},
	}

	if got := shape.HitTest(shapes, 30, 20); got != 0 {
		t.Errorf("expected hit at index 0, got %d", got)
	}

	if got := shape.HitTest(shapes, 5, 5); got != -1 {
		t.Errorf("expected miss, got %d", got)
	}
}

func TestHitTest_NegativeRect(t *testing.T) {
	t.Parallel()

	// Dragged leftward and upward: bounding box is still [10,60]x[10,40]
	shapes := []shape.Shape{
		shape.Rect{ID: "r1", X: 60, Y: 40, Width: -50, Height: -30},
	}

	if got := shape.HitTest(shapes, 30, 20); got != 0 {
		t.Errorf("expected hit at index 0, got %d", got)
	}
}

func TestHitTest_CircleBoundaryInclusive(t *testing.T) {
	t.Parallel()

	shapes := []shape.Shape{
		shape.Circle{ID: "c1", CenterX: 0, CenterY: 0, Radius: 10},
	}

	// Exactly on the boundary counts as a hit
	if got := shape.HitTest(shapes, 10, 0); got != 0 {
		t.Errorf("expected boundary hit, got %d", got)
	}

	if got := shape.HitTest(shapes, 10.01, 0); got != -1 {
		t.Errorf("expected miss just outside boundary, got %d", got)
	}
}

func TestHitTest_NegativeRadius(t *testing.T) {
	t.Parallel()

	shapes := []shape.Shape{
		shape.Circle{ID: "c1", CenterX: 0, CenterY: 0, Radius: -10},
	}

	if got := shape.HitTest(shapes, 5, 0); got != 0 {
		t.Errorf("expected hit with negative radius, got %d", got)
	}
}

func TestHitTest_Pencil(t *testing.T) {
	t.Parallel()

	shapes := []shape.Shape{
		shape.Pencil{ID: "p1", Points: []shape.Point{{X: 0, Y: 0}, {X: 100, Y: 0}}},
	}

	// Within the 10-unit threshold of the segment
	if got := shape.HitTest(shapes, 50, 9); got != 0 {
		t.Errorf("expected hit near segment, got %d", got)
	}

	// Farther than the threshold from every segment
	if got := shape.HitTest(shapes, 50, 11); got != -1 {
		t.Errorf("expected miss away from segment, got %d", got)
	}
}

func TestHitTest_TopmostWins(t *testing.T) {
	t.Parallel()

	shapes := []shape.Shape{
		shape.Rect{ID: "bottom", X: 0, Y: 0, Width: 100, Height: 100},
		shape.Rect{ID: "top", X: 0, Y: 0, Width: 100, Height: 100},
	}

	if got := shape.HitTest(shapes, 50, 50); got != 1 {
		t.Errorf("expected topmost shape (index 1), got %d", got)
	}
}

func TestHitTest_Empty(t *testing.T) {
	t.Parallel()

	if got := shape.HitTest(nil, 0, 0); got != -1 {
		t.Errorf("expected -1 on empty sequence, got %d", got)
	}
}
