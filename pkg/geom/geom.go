// Package geom provides the 2D point and stroke types shared by the capture,
// smoothing and rendering packages.
package geom

import (
	"fmt"
	"math"
)

// Point represents a 2D coordinate in canvas space.
type Point struct {
	X, Y float64
}

// Pt returns the point (x, y).
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Mul returns p with both coordinates multiplied by s.
func (p Point) Mul(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Length returns the distance from the origin to p.
func (p Point) Length() float64 {
	return math.Hypot(p.X, p.Y)
}

// Distance returns how far q lies from p.
func (p Point) Distance(q Point) float64 {
	return p.Sub(q).Length()
}

// Lerp returns the point a fraction t of the way from p to q.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{
		X: p.X + (q.X-p.X)*t,
		Y: p.Y + (q.Y-p.Y)*t,
	}
}

// Finite reports whether both coordinates are finite numbers.
func (p Point) Finite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

func (p Point) String() string {
	return fmt.Sprintf("(%g,%g)", p.X, p.Y)
}

// Stroke is an ordered point sequence in capture order.
type Stroke []Point

// Clone returns a copy of the stroke that shares no storage with s.
func (s Stroke) Clone() Stroke {
	if s == nil {
		return nil
	}
	out := make(Stroke, len(s))
	copy(out, s)
	return out
}

// Length returns the polyline length through all points.
func (s Stroke) Length() float64 {
	length := 0.0
	for i := 1; i < len(s); i++ {
		length += s[i-1].Distance(s[i])
	}
	return length
}

// Bounds returns the smallest rectangle containing every point.
// The rectangle of an empty stroke is the zero Rect.
func (s Stroke) Bounds() Rect {
	if len(s) == 0 {
		return Rect{}
	}
	r := Rect{Min: s[0], Max: s[0]}
	for _, p := range s[1:] {
		r = r.Extend(p)
	}
	return r
}

// Rect is an axis-aligned rectangle with Min at the top-left corner.
type Rect struct {
	Min, Max Point
}

// Extend grows the rectangle to include p.
func (r Rect) Extend(p Point) Rect {
	r.Min.X = math.Min(r.Min.X, p.X)
	r.Min.Y = math.Min(r.Min.Y, p.Y)
	r.Max.X = math.Max(r.Max.X, p.X)
	r.Max.Y = math.Max(r.Max.Y, p.Y)
	return r
}

// Union returns the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	return r.Extend(o.Min).Extend(o.Max)
}

// Inset grows (d < 0) or shrinks (d > 0) the rectangle on every side.
func (r Rect) Inset(d float64) Rect {
	return Rect{
		Min: Point{r.Min.X + d, r.Min.Y + d},
		Max: Point{r.Max.X - d, r.Max.Y - d},
	}
}

// Dx returns the rectangle's width.
func (r Rect) Dx() float64 { return r.Max.X - r.Min.X }

// Dy returns the rectangle's height.
func (r Rect) Dy() float64 { return r.Max.Y - r.Min.Y }
