package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/sightwords/pkg/curve"
	"github.com/ha1tch/sightwords/pkg/geom"
	"github.com/ha1tch/sightwords/pkg/surface"
)

func testFrame() surface.Frame {
	r := curve.NewRenderer(curve.Style{Tension: 0.5, Width: 10})
	history := []geom.Stroke{
		{{X: 50, Y: 50}},
		{{X: 100, Y: 150}, {X: 150, Y: 160}, {X: 200, Y: 150}},
	}
	live := geom.Stroke{{X: 250, Y: 50}, {X: 260, Y: 60}, {X: 270, Y: 50}}
	return surface.Frame{
		Width:       300,
		Height:      200,
		Word:        "Mama",
		FontSize:    60,
		StrokeWidth: 10,
		Primitives:  r.Frame(history, live),
	}
}

func near(t *testing.T, want color.RGBA, got color.Color, msg string) {
	t.Helper()
	r, g, b, _ := got.RGBA()
	assert.InDelta(t, float64(want.R), float64(r>>8), 8, "%s: red", msg)
	assert.InDelta(t, float64(want.G), float64(g>>8), 8, "%s: green", msg)
	assert.InDelta(t, float64(want.B), float64(b>>8), 8, "%s: blue", msg)
}

func TestNew(t *testing.T) {
	for _, name := range []string{Native, GG, SVG} {
		b, err := New(name, Options{})
		require.NoError(t, err)
		assert.Equal(t, name, b.Name())
	}

	_, err := New("graphviz", Options{})
	assert.ErrorIs(t, err, ErrUnknownBackend)

	b, err := ForFile(GG, "svg", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, SVG, b.Name())
	b, err = ForFile(GG, "png", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, GG, b.Name())
}

func TestEmptyFrame(t *testing.T) {
	for _, name := range []string{Native, GG, SVG} {
		b, _ := New(name, DefaultOptions())
		err := b.Render(&bytes.Buffer{}, surface.Frame{})
		assert.ErrorIs(t, err, ErrEmptyFrame, name)
	}
}

func TestNativePixels(t *testing.T) {
	opts := DefaultOptions()
	opts.NoGuide = true
	n := &NativePNG{opts: opts.withDefaults()}

	img, err := n.Image(testFrame())
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 300, 200), img.Bounds())

	pal := DefaultPalette()
	near(t, pal.Committed, img.At(50, 50), "tap dot")
	near(t, pal.Committed, img.At(150, 159), "committed curve")
	near(t, pal.Live, img.At(260, 59), "live curve")
	near(t, pal.Background, img.At(5, 195), "background")
	near(t, pal.Background, img.At(50, 70), "outside the dot")
}

func TestNativeRenderEncodesPNG(t *testing.T) {
	b, err := New(Native, Options{Supersample: 2})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, b.Render(&buf, testFrame()))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 300, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())
}

func TestNativeGuideFill(t *testing.T) {
	// "I" is a plain stem, so the middle of its bounds is well inside the
	// fill and clear of the outline.
	f := surface.Frame{Width: 300, Height: 240, Word: "I", FontSize: 200, Fill: true}
	n := &NativePNG{opts: DefaultOptions()}

	img, err := n.Image(f)
	require.NoError(t, err)

	g, err := LayoutGuide("I", 200, geom.Pt(150, 120))
	require.NoError(t, err)
	require.NotEmpty(t, g.Contours)
	require.Greater(t, g.Bounds.Dx(), 3*DefaultOptions().GuideWidth, "stem is wider than its outline")

	c := g.Bounds.Min.Add(g.Bounds.Max).Mul(0.5)
	near(t, DefaultPalette().GuideFill, img.At(int(c.X), int(c.Y)), "inside the filled letter")
	near(t, DefaultPalette().Background, img.At(5, 5), "corner")
}

func TestGGPixels(t *testing.T) {
	opts := DefaultOptions()
	opts.NoGuide = true
	g := &GGPNG{opts: opts.withDefaults()}

	img, err := g.Image(testFrame())
	require.NoError(t, err)
	assert.Equal(t, 300, img.Bounds().Dx())

	pal := DefaultPalette()
	near(t, pal.Committed, img.At(50, 50), "tap dot")
	near(t, pal.Live, img.At(260, 59), "live curve")
	near(t, pal.Background, img.At(5, 195), "background")

	var buf bytes.Buffer
	require.NoError(t, g.Render(&buf, testFrame()))
	_, err = png.Decode(&buf)
	require.NoError(t, err)
}

func TestSVG(t *testing.T) {
	s := &SVGWriter{opts: DefaultOptions()}
	doc, err := s.Generate(testFrame())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(doc, "<?xml"))
	assert.Contains(t, doc, `width="300" height="200"`)
	assert.Contains(t, doc, "<title>Mama</title>")
	assert.Contains(t, doc, `<circle class="committed" cx="50" cy="50" r="5" fill="#ffc0cb"/>`)
	assert.Contains(t, doc, `class="live" d="M250,50 C`)
	assert.Contains(t, doc, `stroke-linecap="round"`)
	assert.Contains(t, doc, `class="guide"`)
	assert.Equal(t, 2, strings.Count(doc, `<path class="committed"`)+strings.Count(doc, `<path class="live"`))
	assert.True(t, strings.HasSuffix(doc, "</svg>\n"))

	f := testFrame()
	f.Word = `<b>&`
	doc, err = s.Generate(f)
	require.NoError(t, err)
	assert.Contains(t, doc, "<title>&lt;b&gt;&amp;</title>")
}

func TestLayoutGuideIsCentred(t *testing.T) {
	center := geom.Pt(400, 300)
	g, err := LayoutGuide("teacher", 180, center)
	require.NoError(t, err)

	require.NotEmpty(t, g.Contours)
	mid := g.Bounds.Min.Add(g.Bounds.Max).Mul(0.5)
	assert.InDelta(t, center.X, mid.X, 20)
	assert.InDelta(t, center.Y, mid.Y, 60)
	assert.Greater(t, g.Bounds.Dx(), 180.0)
	assert.Less(t, g.Bounds.Dy(), 180.0)

	empty, err := LayoutGuide("", 180, center)
	require.NoError(t, err)
	assert.Empty(t, empty.Contours)
}

func TestStrokePolygonsWindTheSameWay(t *testing.T) {
	pts := []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 5}}
	polys := strokePolyline(pts, 4, 16, true)
	// 4 distinct vertices, 3 open segments and the closing one.
	require.Len(t, polys, 8)
	for i, p := range polys {
		assert.Greater(t, signedArea(p), 0.0, "polygon %d", i)
	}
	assert.Nil(t, segmentQuad(geom.Pt(1, 1), geom.Pt(1, 1), 2))
	assert.Empty(t, strokePolyline(nil, 4, 16, false))
}

func TestNum(t *testing.T) {
	tests := map[float64]string{
		0:       "0",
		10:      "10",
		1.5:     "1.5",
		-0.001:  "0",
		-3.25:   "-3.25",
		100.001: "100",
	}
	for in, want := range tests {
		assert.Equal(t, want, num(in), "%v", in)
	}
}
