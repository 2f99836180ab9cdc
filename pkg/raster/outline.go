package raster

import (
	"math"

	"github.com/ha1tch/sightwords/pkg/curve"
	"github.com/ha1tch/sightwords/pkg/geom"
)

// Stroking for backends that can only fill: a round-capped, round-joined
// polyline is the union of one quad per segment and one disc per vertex.
// Every polygon is wound the same way so overlaps add up instead of
// cancelling under a non-zero fill.

// signedArea returns twice the signed area of poly.
func signedArea(poly []geom.Point) float64 {
	a := 0.0
	for i, p := range poly {
		q := poly[(i+1)%len(poly)]
		a += p.X*q.Y - q.X*p.Y
	}
	return a
}

// orient reverses poly in place when it winds negatively.
func orient(poly []geom.Point) []geom.Point {
	if signedArea(poly) < 0 {
		for i, j := 0, len(poly)-1; i < j; i, j = i+1, j-1 {
			poly[i], poly[j] = poly[j], poly[i]
		}
	}
	return poly
}

// disc returns a polygon approximating the circle around c.
func disc(c geom.Point, r float64, facets int) []geom.Point {
	poly := make([]geom.Point, facets)
	for i := range poly {
		a := 2 * math.Pi * float64(i) / float64(facets)
		poly[i] = geom.Pt(c.X+r*math.Cos(a), c.Y+r*math.Sin(a))
	}
	return poly
}

// segmentQuad returns the rectangle covering segment a-b at half width hw,
// or nil for a degenerate segment.
func segmentQuad(a, b geom.Point, hw float64) []geom.Point {
	d := b.Sub(a)
	l := d.Length()
	if l == 0 {
		return nil
	}
	n := geom.Pt(-d.Y/l*hw, d.X/l*hw)
	return orient([]geom.Point{a.Add(n), b.Add(n), b.Sub(n), a.Sub(n)})
}

// strokePolyline returns fill polygons covering pts stroked at width.
// A closed polyline also joins its last point back to the first.
func strokePolyline(pts []geom.Point, width float64, facets int, closed bool) [][]geom.Point {
	if len(pts) == 0 {
		return nil
	}
	hw := width / 2
	polys := make([][]geom.Point, 0, 2*len(pts))
	for i, p := range pts {
		if i > 0 && p == pts[i-1] {
			continue
		}
		polys = append(polys, disc(p, hw, facets))
		if i > 0 {
			if q := segmentQuad(pts[i-1], p, hw); q != nil {
				polys = append(polys, q)
			}
		}
	}
	if closed && len(pts) > 2 {
		if q := segmentQuad(pts[len(pts)-1], pts[0], hw); q != nil {
			polys = append(polys, q)
		}
	}
	return polys
}

// primitivePolys returns the fill polygons for one primitive.
func primitivePolys(p curve.Primitive, opts Options) [][]geom.Point {
	switch p := p.(type) {
	case curve.Dot:
		return [][]geom.Point{disc(p.Center, p.Diameter/2, opts.CircleFacets)}
	case curve.Curve:
		return strokePolyline(p.Flatten(opts.Tolerance), p.Width, opts.CircleFacets, false)
	}
	return nil
}

// guideOutline returns the fill polygons for the guide word's outline.
func guideOutline(g Guide, width float64) [][]geom.Point {
	var polys [][]geom.Point
	for _, c := range g.Contours {
		polys = append(polys, strokePolyline(c, width, 8, true)...)
	}
	return polys
}
