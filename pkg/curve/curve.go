// Package curve maps point sequences to drawable primitives.
//
// A stroke with fewer than three points becomes one dot per point; anything
// longer becomes a single cardinal-spline curve through every point, drawn
// with round caps and joins at one uniform width. The mapping is pure: the
// same points and style always give the same primitives.
package curve

import (
	"math"

	"github.com/ha1tch/sightwords/pkg/geom"
)

// Process-wide rendering defaults.
const (
	// DefaultTension is the cardinal spline tension used for every stroke.
	DefaultTension = 0.01
	// DefaultWidth is the stroke width used when a Style leaves it unset.
	DefaultWidth = 8.0
	// DefaultFlattenTolerance is the polyline tolerance in canvas units.
	DefaultFlattenTolerance = 0.25
)

// Role tells a backend which palette entry to draw a primitive with.
type Role int

const (
	Committed Role = iota // a stroke from history
	Live                  // the stroke being captured
)

func (r Role) String() string {
	if r == Live {
		return "live"
	}
	return "committed"
}

// Primitive is a Dot or a Curve.
type Primitive interface {
	Bounds() geom.Rect
	isPrimitive()
}

// Dot is a filled circle.
type Dot struct {
	Center   geom.Point
	Diameter float64
	Role     Role
}

// Bounds returns the square enclosing the dot.
func (d Dot) Bounds() geom.Rect {
	r := d.Diameter / 2
	return geom.Rect{Min: d.Center, Max: d.Center}.Inset(-r)
}

func (Dot) isPrimitive() {}

// Curve is a smooth line through Points, stroked at Width with round caps
// and joins. Segments holds the cubic Béziers between consecutive points.
type Curve struct {
	Points   geom.Stroke
	Segments []Bezier
	Width    float64
	Tension  float64
	Role     Role
}

// Bounds returns a box enclosing the stroked curve.
func (c Curve) Bounds() geom.Rect {
	if len(c.Segments) == 0 {
		return c.Points.Bounds().Inset(-c.Width / 2)
	}
	r := c.Segments[0].Bounds()
	for _, s := range c.Segments[1:] {
		r = r.Union(s.Bounds())
	}
	return r.Inset(-c.Width / 2)
}

func (Curve) isPrimitive() {}

// Flatten returns a polyline within tolerance of the curve's centre line.
// A non-positive tolerance selects DefaultFlattenTolerance.
func (c Curve) Flatten(tolerance float64) []geom.Point {
	return flatten(make([]geom.Point, 0, len(c.Points)*4), c.Segments, tolerance)
}

// Style holds the values a Renderer draws with.
type Style struct {
	Tension   float64
	Width     float64 // committed strokes
	LiveWidth float64 // live stroke; zero means Width
}

// DefaultStyle returns the package defaults.
func DefaultStyle() Style {
	return Style{Tension: DefaultTension, Width: DefaultWidth}
}

func (s Style) width(role Role) float64 {
	w := s.Width
	if role == Live && s.LiveWidth > 0 {
		w = s.LiveWidth
	}
	if w <= 0 || math.IsNaN(w) {
		return DefaultWidth
	}
	return w
}

// Renderer turns strokes into primitives.
type Renderer struct {
	Style Style
}

// NewRenderer returns a renderer drawing with style.
func NewRenderer(style Style) Renderer {
	return Renderer{Style: style}
}

// Stroke returns the primitives for one point sequence.
func (r Renderer) Stroke(points []geom.Point, role Role) []Primitive {
	width := r.Style.width(role)

	if len(points) < 3 {
		out := make([]Primitive, 0, len(points))
		for _, p := range points {
			out = append(out, Dot{Center: p, Diameter: width, Role: role})
		}
		return out
	}

	return []Primitive{Curve{
		Points:   geom.Stroke(points).Clone(),
		Segments: Cardinal(points, r.Style.Tension),
		Width:    width,
		Tension:  r.Style.Tension,
		Role:     role,
	}}
}

// Frame returns the primitives for a repaint: every history stroke oldest
// first, then the live stroke.
func (r Renderer) Frame(history []geom.Stroke, live geom.Stroke) []Primitive {
	var out []Primitive
	for _, s := range history {
		out = append(out, r.Stroke(s, Committed)...)
	}
	return append(out, r.Stroke(live, Live)...)
}

// Bounds returns the union of the primitives' bounds and false when there
// are none.
func Bounds(prims []Primitive) (geom.Rect, bool) {
	if len(prims) == 0 {
		return geom.Rect{}, false
	}
	r := prims[0].Bounds()
	for _, p := range prims[1:] {
		r = r.Union(p.Bounds())
	}
	return r, true
}

// Scale returns copies of prims magnified by k about the origin. Cubic
// Béziers are affine invariant, so scaled segments trace the scaled curve.
func Scale(prims []Primitive, k float64) []Primitive {
	out := make([]Primitive, 0, len(prims))
	for _, p := range prims {
		switch p := p.(type) {
		case Dot:
			p.Center = p.Center.Mul(k)
			p.Diameter *= k
			out = append(out, p)
		case Curve:
			pts := make(geom.Stroke, len(p.Points))
			for i, q := range p.Points {
				pts[i] = q.Mul(k)
			}
			segs := make([]Bezier, len(p.Segments))
			for i, b := range p.Segments {
				segs[i] = Bezier{P0: b.P0.Mul(k), C1: b.C1.Mul(k), C2: b.C2.Mul(k), P3: b.P3.Mul(k)}
			}
			p.Points, p.Segments = pts, segs
			p.Width *= k
			out = append(out, p)
		}
	}
	return out
}
