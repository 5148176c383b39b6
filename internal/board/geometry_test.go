package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransformRoundTrip(t *testing.T) {
	points := []Point{{0, 0}, {10, 20}, {-35.5, 12.25}, {1e4, -3e3}}
	pans := []Point{{0, 0}, {5, -7}, {-120.5, 48}}
	zooms := []float64{0.5, 0.75, 1, 1.25, 2}
	origin := Point{0, 1}

	for _, p := range points {
		for _, pan := range pans {
			for _, z := range zooms {
				got := ToScreenSpace(ToCanvasSpace(p, origin, pan, z), origin, pan, z)
				assert.InDelta(t, p.X, got.X, 1e-9, "p=%v pan=%v zoom=%v", p, pan, z)
				assert.InDelta(t, p.Y, got.Y, 1e-9, "p=%v pan=%v zoom=%v", p, pan, z)
			}
		}
	}
}

func TestToCanvasSpace(t *testing.T) {
	got := ToCanvasSpace(Point{30, 41}, Point{0, 1}, Point{10, 20}, 2)
	assert.Equal(t, Point{10, 10}, got)
}

func TestClampZoom(t *testing.T) {
	assert.Equal(t, 0.5, ClampZoom(0.1, 0.5, 2))
	assert.Equal(t, 2.0, ClampZoom(9, 0.5, 2))
	assert.Equal(t, 1.3, ClampZoom(1.3, 0.5, 2))
}

func TestNormalizeRect(t *testing.T) {
	r := NormalizeRect(Point{10, 2}, Point{3, 8})
	assert.Equal(t, Rect{Min: Point{3, 2}, Max: Point{10, 8}}, r)
	assert.Equal(t, Point{6.5, 5}, r.Center())
}

func TestRectContainment(t *testing.T) {
	box := Rect{Min: Point{0, 0}, Max: Point{10, 10}}

	assert.True(t, box.ContainsRect(Rect{Min: Point{0, 0}, Max: Point{10, 10}}), "edges are inclusive")
	assert.False(t, box.ContainsRect(Rect{Min: Point{5, 5}, Max: Point{11, 9}}))
	assert.True(t, box.Contains(Point{0, 0}))
	assert.False(t, box.Contains(Point{10, 5}))
}

func TestDistanceToSegment(t *testing.T) {
	a, b := Point{0, 0}, Point{10, 0}
	assert.InDelta(t, 3.0, DistanceToSegment(Point{5, 3}, a, b), 1e-9)
	assert.InDelta(t, 5.0, DistanceToSegment(Point{13, 4}, a, b), 1e-9, "clamped to endpoint")
	assert.InDelta(t, 5.0, DistanceToSegment(Point{3, 4}, a, a), 1e-9, "degenerate segment")
}
