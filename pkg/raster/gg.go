package raster

import (
	"fmt"
	"image"
	"io"

	"github.com/gogpu/gg"

	"github.com/ha1tch/sightwords/pkg/curve"
	"github.com/ha1tch/sightwords/pkg/geom"
	"github.com/ha1tch/sightwords/pkg/surface"
)

// GGPNG renders with a gogpu/gg context, which strokes the Bézier segments
// directly with round caps and joins.
type GGPNG struct {
	opts Options
}

func (g *GGPNG) Name() string { return GG }

// Render writes the frame as PNG.
func (g *GGPNG) Render(w io.Writer, f surface.Frame) error {
	dc, err := g.draw(f)
	if err != nil {
		return err
	}
	defer dc.Close()
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}

// Image renders the frame to an image of the frame's size.
func (g *GGPNG) Image(f surface.Frame) (image.Image, error) {
	dc, err := g.draw(f)
	if err != nil {
		return nil, err
	}
	defer dc.Close()
	return dc.Image(), nil
}

func (g *GGPNG) draw(f surface.Frame) (*gg.Context, error) {
	sc, err := newScene(f, g.opts)
	if err != nil {
		return nil, err
	}
	pal := g.opts.Palette

	dc := gg.NewContext(sc.width, sc.height)
	dc.ClearWithColor(gg.FromColor(pal.Background))
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	dc.SetFillRule(gg.FillRuleNonZero)

	fail := func(what string, err error) (*gg.Context, error) {
		dc.Close()
		return nil, fmt.Errorf("gg %s: %w", what, err)
	}

	if sc.hasGuide {
		if sc.fill {
			ggContours(dc, sc.guide.Contours)
			dc.SetColor(pal.GuideFill)
			if err := dc.Fill(); err != nil {
				return fail("guide fill", err)
			}
		}
		ggContours(dc, sc.guide.Contours)
		dc.SetColor(pal.Guide)
		dc.SetLineWidth(g.opts.GuideWidth)
		if err := dc.Stroke(); err != nil {
			return fail("guide outline", err)
		}
	}

	for _, prim := range sc.prims {
		dc.SetColor(pal.For(roleOf(prim)))
		switch p := prim.(type) {
		case curve.Dot:
			dc.DrawCircle(p.Center.X, p.Center.Y, p.Diameter/2)
			if err := dc.Fill(); err != nil {
				return fail("dot", err)
			}
		case curve.Curve:
			if len(p.Segments) == 0 {
				continue
			}
			dc.MoveTo(p.Segments[0].P0.X, p.Segments[0].P0.Y)
			for _, s := range p.Segments {
				dc.CubicTo(s.C1.X, s.C1.Y, s.C2.X, s.C2.Y, s.P3.X, s.P3.Y)
			}
			dc.SetLineWidth(p.Width)
			if err := dc.Stroke(); err != nil {
				return fail("curve", err)
			}
		}
	}
	return dc, nil
}

func ggContours(dc *gg.Context, contours []geom.Stroke) {
	for _, c := range contours {
		dc.MoveTo(c[0].X, c[0].Y)
		for _, p := range c[1:] {
			dc.LineTo(p.X, p.Y)
		}
		dc.ClosePath()
	}
}
