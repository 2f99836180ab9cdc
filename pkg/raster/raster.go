// Package raster draws surface frames to PNG and SVG.
//
// Three backends share one scene description: the native backend rasterizes
// with golang.org/x/image/vector at a supersampled size and scales down, the
// gg backend uses a github.com/gogpu/gg context, and the SVG backend writes
// text. All of them draw the guide word from Go Regular glyph outlines, then
// committed strokes, then the live stroke.
package raster

import (
	"errors"
	"fmt"
	"image/color"
	"io"

	"github.com/ha1tch/sightwords/pkg/curve"
	"github.com/ha1tch/sightwords/pkg/geom"
	"github.com/ha1tch/sightwords/pkg/surface"
)

// ErrUnknownBackend is returned by New for unsupported names.
var ErrUnknownBackend = errors.New("unknown render backend")

// ErrEmptyFrame is returned when a frame has no area.
var ErrEmptyFrame = errors.New("frame has no area")

// Backend names.
const (
	Native = "native"
	GG     = "gg"
	SVG    = "svg"
)

// Palette holds the colors a frame is drawn with.
type Palette struct {
	Background color.RGBA
	Committed  color.RGBA
	Live       color.RGBA
	Guide      color.RGBA // outline of the guide word
	GuideFill  color.RGBA // interior of the guide word when fill is on
}

// DefaultPalette returns the tracing app's colors.
func DefaultPalette() Palette {
	return Palette{
		Background: color.RGBA{255, 255, 255, 255},
		Committed:  color.RGBA{255, 192, 203, 255}, // pink
		Live:       color.RGBA{255, 0, 0, 255},
		Guide:      color.RGBA{169, 169, 169, 255}, // dark gray
		GuideFill:  color.RGBA{255, 192, 203, 255},
	}
}

// For returns the stroke color of a primitive role.
func (p Palette) For(role curve.Role) color.RGBA {
	if role == curve.Live {
		return p.Live
	}
	return p.Committed
}

// Options configures rendering.
type Options struct {
	Palette      Palette
	GuideWidth   float64 // outline width of the guide word
	NoGuide      bool    // skip the guide word
	Supersample  int     // native backend render scale
	Tolerance    float64 // curve flattening tolerance in frame units
	CircleFacets int     // polygon sides used for round caps, joins and dots
}

// DefaultOptions returns sensible defaults for rendering.
func DefaultOptions() Options {
	return Options{
		Palette:      DefaultPalette(),
		GuideWidth:   4,
		Supersample:  4,
		Tolerance:    0.25,
		CircleFacets: 32,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Palette == (Palette{}) {
		o.Palette = d.Palette
	}
	if o.GuideWidth <= 0 {
		o.GuideWidth = d.GuideWidth
	}
	if o.Supersample <= 0 {
		o.Supersample = d.Supersample
	}
	if o.Tolerance <= 0 {
		o.Tolerance = d.Tolerance
	}
	if o.CircleFacets < 8 {
		o.CircleFacets = d.CircleFacets
	}
	return o
}

// Backend writes a frame in one output format.
type Backend interface {
	Name() string
	Render(w io.Writer, f surface.Frame) error
}

// New returns the backend called name.
func New(name string, opts Options) (Backend, error) {
	opts = opts.withDefaults()
	switch name {
	case Native:
		return NewNative(opts), nil
	case GG:
		return &GGPNG{opts: opts}, nil
	case SVG:
		return &SVGWriter{opts: opts}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
}

// ForFile picks the backend for a renderer and file type pair, as stored in
// the config. SVG output ignores the renderer.
func ForFile(renderer, fileType string, opts Options) (Backend, error) {
	if fileType == "svg" {
		return New(SVG, opts)
	}
	return New(renderer, opts)
}

// scene is a frame resolved into outlines and primitives.
type scene struct {
	width, height int
	guide         Guide
	hasGuide      bool
	fill          bool
	prims         []curve.Primitive
}

func newScene(f surface.Frame, opts Options) (scene, error) {
	if f.Width <= 0 || f.Height <= 0 {
		return scene{}, fmt.Errorf("%w: %dx%d", ErrEmptyFrame, f.Width, f.Height)
	}
	s := scene{width: f.Width, height: f.Height, fill: f.Fill, prims: f.Primitives}
	if !opts.NoGuide && f.Word != "" && f.FontSize > 0 {
		center := geom.Pt(float64(f.Width)/2, float64(f.Height)/2)
		g, err := LayoutGuide(f.Word, f.FontSize, center)
		if err != nil {
			return scene{}, err
		}
		s.guide, s.hasGuide = g, true
	}
	return s, nil
}

func roleOf(p curve.Primitive) curve.Role {
	switch p := p.(type) {
	case curve.Dot:
		return p.Role
	case curve.Curve:
		return p.Role
	}
	return curve.Committed
}
