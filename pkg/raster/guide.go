package raster

import (
	"fmt"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/ha1tch/sightwords/pkg/geom"
)

var (
	fontOnce sync.Once
	fontGo   *sfnt.Font
	fontErr  error
)

// regular returns the parsed Go Regular font.
func regular() (*sfnt.Font, error) {
	fontOnce.Do(func() {
		fontGo, fontErr = opentype.Parse(goregular.TTF)
	})
	return fontGo, fontErr
}

// Guide is a word laid out as glyph outlines, centred on a point.
type Guide struct {
	Word     string
	FontSize float64
	// Contours are closed polygons in frame coordinates. Holes wind
	// opposite to outer contours, so a non-zero fill draws the glyphs.
	Contours []geom.Stroke
	Bounds   geom.Rect
}

// LayoutGuide lays out word at size pixels per em, centred on center both
// horizontally and on the line box vertically.
func LayoutGuide(word string, size float64, center geom.Point) (Guide, error) {
	f, err := regular()
	if err != nil {
		return Guide{}, fmt.Errorf("parsing font: %w", err)
	}

	var buf sfnt.Buffer
	ppem := fixed.Int26_6(math.Round(size * 64))
	metrics, err := f.Metrics(&buf, ppem, font.HintingNone)
	if err != nil {
		return Guide{}, fmt.Errorf("font metrics: %w", err)
	}

	type placed struct {
		idx sfnt.GlyphIndex
		x   fixed.Int26_6
	}
	var (
		glyphs  []placed
		x       fixed.Int26_6
		prev    sfnt.GlyphIndex
		hasPrev bool
	)
	for _, r := range word {
		idx, err := f.GlyphIndex(&buf, r)
		if err != nil {
			return Guide{}, fmt.Errorf("glyph for %q: %w", r, err)
		}
		if hasPrev {
			if k, err := f.Kern(&buf, prev, idx, ppem, font.HintingNone); err == nil {
				x += k
			}
		}
		glyphs = append(glyphs, placed{idx, x})
		adv, err := f.GlyphAdvance(&buf, idx, ppem, font.HintingNone)
		if err != nil {
			return Guide{}, fmt.Errorf("advance for %q: %w", r, err)
		}
		x += adv
		prev, hasPrev = idx, true
	}

	width := fromFixed(x)
	ascent, descent := fromFixed(metrics.Ascent), fromFixed(metrics.Descent)
	origin := geom.Pt(center.X-width/2, center.Y+(ascent-descent)/2)
	steps := min(max(int(size/8), 4), 24)

	g := Guide{Word: word, FontSize: size}
	for _, pg := range glyphs {
		segs, err := f.LoadGlyph(&buf, pg.idx, ppem, nil)
		if err != nil {
			return Guide{}, fmt.Errorf("loading glyph %d: %w", pg.idx, err)
		}
		at := origin.Add(geom.Pt(fromFixed(pg.x), 0))
		g.Contours = appendContours(g.Contours, segs, at, steps)
	}

	first := true
	for _, c := range g.Contours {
		b := c.Bounds()
		if first {
			g.Bounds, first = b, false
			continue
		}
		g.Bounds = g.Bounds.Union(b)
	}
	return g, nil
}

// appendContours flattens glyph segments into polygons offset by at.
func appendContours(dst []geom.Stroke, segs sfnt.Segments, at geom.Point, steps int) []geom.Stroke {
	pt := func(p fixed.Point26_6) geom.Point {
		return at.Add(geom.Pt(fromFixed(p.X), fromFixed(p.Y)))
	}

	var cur geom.Stroke
	flush := func() {
		if len(cur) > 2 {
			dst = append(dst, cur)
		}
		cur = nil
	}

	for _, s := range segs {
		switch s.Op {
		case sfnt.SegmentOpMoveTo:
			flush()
			cur = geom.Stroke{pt(s.Args[0])}
		case sfnt.SegmentOpLineTo:
			cur = append(cur, pt(s.Args[0]))
		case sfnt.SegmentOpQuadTo:
			p0 := cur[len(cur)-1]
			c, p1 := pt(s.Args[0]), pt(s.Args[1])
			for i := 1; i <= steps; i++ {
				t := float64(i) / float64(steps)
				cur = append(cur, p0.Lerp(c, t).Lerp(c.Lerp(p1, t), t))
			}
		case sfnt.SegmentOpCubeTo:
			p0 := cur[len(cur)-1]
			c1, c2, p1 := pt(s.Args[0]), pt(s.Args[1]), pt(s.Args[2])
			for i := 1; i <= steps; i++ {
				t := float64(i) / float64(steps)
				a, b, c := p0.Lerp(c1, t), c1.Lerp(c2, t), c2.Lerp(p1, t)
				cur = append(cur, a.Lerp(b, t).Lerp(b.Lerp(c, t), t))
			}
		}
	}
	flush()
	return dst
}

func fromFixed(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
