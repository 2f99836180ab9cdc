package raster

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/ha1tch/sightwords/pkg/geom"
	"github.com/ha1tch/sightwords/pkg/surface"
)

// NativePNG renders with golang.org/x/image/vector. The frame is drawn at
// Supersample times its size and scaled down with Catmull-Rom filtering.
type NativePNG struct {
	opts Options
}

// NewNative returns a native backend. Callers that need the image itself
// rather than an encoded file use it instead of New.
func NewNative(opts Options) *NativePNG {
	return &NativePNG{opts: opts.withDefaults()}
}

func (n *NativePNG) Name() string { return Native }

// Render writes the frame as PNG.
func (n *NativePNG) Render(w io.Writer, f surface.Frame) error {
	img, err := n.Image(f)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// Image renders the frame to an image of the frame's size.
func (n *NativePNG) Image(f surface.Frame) (*image.RGBA, error) {
	sc, err := newScene(f, n.opts)
	if err != nil {
		return nil, err
	}

	scale := n.opts.Supersample
	large := image.NewRGBA(image.Rect(0, 0, sc.width*scale, sc.height*scale))
	draw.Draw(large, large.Bounds(), image.NewUniform(n.opts.Palette.Background), image.Point{}, draw.Src)

	p := &painter{dst: large, z: vector.NewRasterizer(1, 1), scale: float64(scale)}
	pal := n.opts.Palette

	if sc.hasGuide {
		if sc.fill {
			p.fill(strokesToPolys(sc.guide.Contours), pal.GuideFill)
		}
		p.fill(guideOutline(sc.guide, n.opts.GuideWidth), pal.Guide)
	}
	for _, prim := range sc.prims {
		p.fill(primitivePolys(prim, n.opts), pal.For(roleOf(prim)))
	}

	if scale == 1 {
		return large, nil
	}
	final := image.NewRGBA(image.Rect(0, 0, sc.width, sc.height))
	draw.CatmullRom.Scale(final, final.Bounds(), large, large.Bounds(), draw.Src, nil)
	return final, nil
}

// painter fills polygons onto dst, one rasterizer pass per call.
type painter struct {
	dst   *image.RGBA
	z     *vector.Rasterizer
	scale float64
}

// fill draws polys with the non-zero rule. The rasterizer covers only the
// polygons' bounding box.
func (p *painter) fill(polys [][]geom.Point, c color.RGBA) {
	var (
		box   geom.Rect
		empty = true
	)
	for _, poly := range polys {
		for _, pt := range poly {
			if empty {
				box, empty = geom.Rect{Min: pt, Max: pt}, false
				continue
			}
			box = box.Extend(pt)
		}
	}
	if empty {
		return
	}

	r := image.Rect(
		int(math.Floor(box.Min.X*p.scale)), int(math.Floor(box.Min.Y*p.scale)),
		int(math.Ceil(box.Max.X*p.scale))+1, int(math.Ceil(box.Max.Y*p.scale))+1,
	).Intersect(p.dst.Bounds())
	if r.Empty() {
		return
	}

	p.z.Reset(r.Dx(), r.Dy())
	ox, oy := float64(r.Min.X), float64(r.Min.Y)
	at := func(pt geom.Point) (float32, float32) {
		return float32(pt.X*p.scale - ox), float32(pt.Y*p.scale - oy)
	}
	for _, poly := range polys {
		if len(poly) < 3 {
			continue
		}
		p.z.MoveTo(at(poly[0]))
		for _, pt := range poly[1:] {
			p.z.LineTo(at(pt))
		}
		p.z.ClosePath()
	}
	p.z.Draw(p.dst, r, image.NewUniform(c), image.Point{})
}

func strokesToPolys(strokes []geom.Stroke) [][]geom.Point {
	out := make([][]geom.Point, len(strokes))
	for i, s := range strokes {
		out[i] = s
	}
	return out
}
