// Package board is the interactive canvas core: cards and connections on an
// unbounded 2D canvas, a selection, and the pointer/keyboard state machine
// that mutates them. It knows nothing about terminals or pixels; hosts feed it
// events and paint the Scene it projects.
package board

import "math"

const (
	DefaultZoomMin  = 0.5
	DefaultZoomMax  = 2.0
	DefaultZoomStep = 1.25
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Scale(f float64) Point { return Point{p.X * f, p.Y * f} }

type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (s Size) Valid() bool {
	return s.Width > 0 && s.Height > 0
}

type Rect struct {
	Min Point
	Max Point
}

func RectFrom(pos Point, size Size) Rect {
	return Rect{Min: pos, Max: Point{pos.X + size.Width, pos.Y + size.Height}}
}

// NormalizeRect returns the rectangle spanned by two corners given in any order.
func NormalizeRect(a, b Point) Rect {
	return Rect{
		Min: Point{math.Min(a.X, b.X), math.Min(a.Y, b.Y)},
		Max: Point{math.Max(a.X, b.X), math.Max(a.Y, b.Y)},
	}
}

func (r Rect) Width() float64 { return r.Max.X - r.Min.X }
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

func (r Rect) Center() Point {
	return Point{(r.Min.X + r.Max.X) / 2, (r.Min.Y + r.Max.Y) / 2}
}

// Contains reports whether p lies inside r. The max edges are exclusive so
// that adjacent rectangles never both claim a point.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X < r.Max.X && p.Y >= r.Min.Y && p.Y < r.Max.Y
}

// ContainsRect reports whether inner lies entirely within r, edges inclusive.
func (r Rect) ContainsRect(inner Rect) bool {
	return inner.Min.X >= r.Min.X && inner.Min.Y >= r.Min.Y &&
		inner.Max.X <= r.Max.X && inner.Max.Y <= r.Max.Y
}

// Union returns the smallest rectangle covering both.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		Min: Point{math.Min(r.Min.X, o.Min.X), math.Min(r.Min.Y, o.Min.Y)},
		Max: Point{math.Max(r.Max.X, o.Max.X), math.Max(r.Max.Y, o.Max.Y)},
	}
}

// ToCanvasSpace converts a screen point into canvas space. origin is the
// screen position of the canvas' top-left corner.
func ToCanvasSpace(screen, origin, pan Point, zoom float64) Point {
	return screen.Sub(origin).Sub(pan).Scale(1 / zoom)
}

// ToScreenSpace is the inverse of ToCanvasSpace.
func ToScreenSpace(canvas, origin, pan Point, zoom float64) Point {
	return canvas.Scale(zoom).Add(pan).Add(origin)
}

func ClampZoom(zoom, lo, hi float64) float64 {
	if zoom < lo {
		return lo
	}
	if zoom > hi {
		return hi
	}
	return zoom
}

// DistanceToSegment returns the distance from p to the segment a-b.
func DistanceToSegment(p, a, b Point) float64 {
	d := b.Sub(a)
	lenSq := d.X*d.X + d.Y*d.Y
	if lenSq == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	t := ((p.X-a.X)*d.X + (p.Y-a.Y)*d.Y) / lenSq
	t = math.Max(0, math.Min(1, t))
	closest := a.Add(d.Scale(t))
	return math.Hypot(p.X-closest.X, p.Y-closest.Y)
}

// Viewport is per-canvas transient view state.
type Viewport struct {
	Zoom   float64
	Pan    Point
	Origin Point
}

func DefaultViewport() Viewport {
	return Viewport{Zoom: 1}
}

func (v Viewport) ToCanvas(screen Point) Point {
	return ToCanvasSpace(screen, v.Origin, v.Pan, v.Zoom)
}

func (v Viewport) ToScreen(canvas Point) Point {
	return ToScreenSpace(canvas, v.Origin, v.Pan, v.Zoom)
}

func (v Viewport) RectToScreen(r Rect) Rect {
	return Rect{Min: v.ToScreen(r.Min), Max: v.ToScreen(r.Max)}
}
