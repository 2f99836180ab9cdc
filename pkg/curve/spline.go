package curve

import (
	"math"

	"github.com/ha1tch/sightwords/pkg/geom"
)

// Bezier is one cubic Bézier segment.
type Bezier struct {
	P0, C1, C2, P3 geom.Point
}

// Eval returns the point on the segment at t in [0,1].
func (b Bezier) Eval(t float64) geom.Point {
	mt := 1 - t
	mt2 := mt * mt
	mt3 := mt2 * mt
	t2 := t * t
	t3 := t2 * t

	return geom.Point{
		X: mt3*b.P0.X + 3*mt2*t*b.C1.X + 3*mt*t2*b.C2.X + t3*b.P3.X,
		Y: mt3*b.P0.Y + 3*mt2*t*b.C1.Y + 3*mt*t2*b.C2.Y + t3*b.P3.Y,
	}
}

// Tangent returns the derivative of the segment at t.
func (b Bezier) Tangent(t float64) geom.Point {
	mt := 1 - t
	mt2 := mt * mt
	t2 := t * t

	return geom.Point{
		X: 3*mt2*(b.C1.X-b.P0.X) + 6*mt*t*(b.C2.X-b.C1.X) + 3*t2*(b.P3.X-b.C2.X),
		Y: 3*mt2*(b.C1.Y-b.P0.Y) + 6*mt*t*(b.C2.Y-b.C1.Y) + 3*t2*(b.P3.Y-b.C2.Y),
	}
}

// Bounds returns the box around the segment's control polygon, which
// contains the segment.
func (b Bezier) Bounds() geom.Rect {
	return geom.Stroke{b.P0, b.C1, b.C2, b.P3}.Bounds()
}

// flatness returns the largest second difference of the control polygon.
func (b Bezier) flatness() float64 {
	d1 := b.P0.Sub(b.C1.Mul(2)).Add(b.C2).Length()
	d2 := b.C1.Sub(b.C2.Mul(2)).Add(b.P3).Length()
	return math.Max(d1, d2)
}

// Cardinal converts a point sequence into the Bézier segments of a cardinal
// spline through every point. The first and last points are duplicated so
// the curve starts and ends exactly on them. Tension 0 gives straight
// segments; 0.5 gives a Catmull-Rom spline.
func Cardinal(points []geom.Point, tension float64) []Bezier {
	if len(points) < 2 {
		return nil
	}

	k := tension / 3
	segs := make([]Bezier, 0, len(points)-1)
	for i := 0; i < len(points)-1; i++ {
		p0 := points[max(0, i-1)]
		p1 := points[i]
		p2 := points[i+1]
		p3 := points[min(len(points)-1, i+2)]

		segs = append(segs, Bezier{
			P0: p1,
			C1: p1.Add(p2.Sub(p0).Mul(k)),
			C2: p2.Sub(p3.Sub(p1).Mul(k)),
			P3: p2,
		})
	}
	return segs
}

// maxFlattenSteps bounds the polyline points generated per segment.
const maxFlattenSteps = 100

// flatten appends a polyline approximation of segs to dst. Each segment is
// split evenly into enough steps that the polyline stays within tolerance
// of the curve.
func flatten(dst []geom.Point, segs []Bezier, tolerance float64) []geom.Point {
	if len(segs) == 0 {
		return dst
	}
	if tolerance <= 0 {
		tolerance = DefaultFlattenTolerance
	}

	dst = append(dst, segs[0].P0)
	for _, s := range segs {
		n := int(math.Ceil(math.Sqrt(0.75 * s.flatness() / tolerance)))
		n = min(max(n, 1), maxFlattenSteps)
		for i := 1; i <= n; i++ {
			dst = append(dst, s.Eval(float64(i)/float64(n)))
		}
	}
	return dst
}
