package raster

import (
	"fmt"
	"html"
	"image/color"
	"io"
	"strings"

	"github.com/ha1tch/sightwords/pkg/curve"
	"github.com/ha1tch/sightwords/pkg/geom"
	"github.com/ha1tch/sightwords/pkg/surface"
)

// SVGWriter writes frames as SVG documents. Curves keep their Bézier
// segments, so the output scales without loss.
type SVGWriter struct {
	opts Options
}

func (s *SVGWriter) Name() string { return SVG }

// Render writes the frame as SVG.
func (s *SVGWriter) Render(w io.Writer, f surface.Frame) error {
	doc, err := s.Generate(f)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, doc)
	return err
}

// Generate returns the frame as an SVG document.
func (s *SVGWriter) Generate(f surface.Frame) (string, error) {
	sc, err := newScene(f, s.opts)
	if err != nil {
		return "", err
	}
	pal := s.opts.Palette

	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		sc.width, sc.height, sc.width, sc.height)
	if f.Word != "" {
		fmt.Fprintf(&sb, "  <title>%s</title>\n", html.EscapeString(f.Word))
	}
	fmt.Fprintf(&sb, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", svgColor(pal.Background))

	if sc.hasGuide {
		fill := "none"
		if sc.fill {
			fill = svgColor(pal.GuideFill)
		}
		fmt.Fprintf(&sb, `  <path class="guide" d="%s" fill="%s" fill-rule="nonzero" stroke="%s" stroke-width="%g" stroke-linejoin="round"/>`+"\n",
			contourPath(sc.guide.Contours), fill, svgColor(pal.Guide), s.opts.GuideWidth)
	}

	for _, prim := range sc.prims {
		c := svgColor(pal.For(roleOf(prim)))
		switch p := prim.(type) {
		case curve.Dot:
			fmt.Fprintf(&sb, `  <circle class="%s" cx="%s" cy="%s" r="%s" fill="%s"/>`+"\n",
				p.Role, num(p.Center.X), num(p.Center.Y), num(p.Diameter/2), c)
		case curve.Curve:
			fmt.Fprintf(&sb, `  <path class="%s" d="%s" fill="none" stroke="%s" stroke-width="%s" stroke-linecap="round" stroke-linejoin="round"/>`+"\n",
				p.Role, bezierPath(p.Segments), c, num(p.Width))
		}
	}

	sb.WriteString("</svg>\n")
	return sb.String(), nil
}

func bezierPath(segs []curve.Bezier) string {
	if len(segs) == 0 {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "M%s,%s", num(segs[0].P0.X), num(segs[0].P0.Y))
	for _, s := range segs {
		fmt.Fprintf(&sb, " C%s,%s %s,%s %s,%s",
			num(s.C1.X), num(s.C1.Y), num(s.C2.X), num(s.C2.Y), num(s.P3.X), num(s.P3.Y))
	}
	return sb.String()
}

func contourPath(contours []geom.Stroke) string {
	var sb strings.Builder
	for i, c := range contours {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "M%s,%s", num(c[0].X), num(c[0].Y))
		for _, p := range c[1:] {
			fmt.Fprintf(&sb, " L%s,%s", num(p.X), num(p.Y))
		}
		sb.WriteString(" Z")
	}
	return sb.String()
}

// num formats a coordinate with at most two decimals.
func num(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}

func svgColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
