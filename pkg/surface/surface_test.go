package surface

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/sightwords/pkg/capture"
	"github.com/ha1tch/sightwords/pkg/config"
	"github.com/ha1tch/sightwords/pkg/curve"
	"github.com/ha1tch/sightwords/pkg/geom"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time {
	c.now = c.now.Add(10 * time.Millisecond)
	return c.now
}

func newRaw(t *testing.T) *Surface {
	t.Helper()
	clk := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	s, err := New(Options{
		Words:   []string{"Mama", "to", "me"},
		Tension: curve.DefaultTension,
		Width:   800,
		Height:  600,
		Clock:   clk.Now,
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewRequiresWords(t *testing.T) {
	_, err := New(Options{})
	assert.ErrorIs(t, err, ErrNoWords)
}

func TestLayout(t *testing.T) {
	l := DefaultLayout()

	tests := []struct {
		w, h        int
		font, width float64
	}{
		{800, 600, 180, 9},
		{600, 800, 180, 9},
		{200, 100, 30, 8},
		{0, 0, 0, 8},
		{2000, 2000, 600, 30},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.font, l.FontSize(tt.w, tt.h), 1e-9, "font %dx%d", tt.w, tt.h)
		assert.InDelta(t, tt.width, l.StrokeWidth(tt.w, tt.h), 1e-9, "width %dx%d", tt.w, tt.h)
	}
}

// Scenario A at the surface: a tap renders as one dot.
func TestTapRendersDot(t *testing.T) {
	s := newRaw(t)
	require.NoError(t, s.PointerDown(10, 10, capture.ButtonPrimary))
	require.NoError(t, s.PointerUp(10, 10, capture.ButtonPrimary))

	require.Equal(t, []geom.Stroke{{{X: 10, Y: 10}}}, s.History())

	f := s.Repaint()
	require.Len(t, f.Primitives, 1)
	dot := f.Primitives[0].(curve.Dot)
	assert.Equal(t, geom.Pt(10, 10), dot.Center)
	assert.Equal(t, f.StrokeWidth, dot.Diameter)
	assert.Equal(t, curve.Committed, dot.Role)
}

// Scenario B at the surface: four raw points render as one curve.
func TestRawStrokeRendersCurve(t *testing.T) {
	s := newRaw(t)
	require.NoError(t, s.PointerDown(0, 0, capture.ButtonPrimary))
	require.NoError(t, s.PointerMove(5, 0))
	require.NoError(t, s.PointerMove(10, 0))
	require.NoError(t, s.PointerUp(10, 0, capture.ButtonPrimary))

	f := s.Repaint()
	require.Len(t, f.Primitives, 1)
	c := f.Primitives[0].(curve.Curve)
	assert.Equal(t, geom.Stroke{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 0}}, c.Points)
	assert.Equal(t, 9.0, c.Width)
}

func TestLiveStrokeIsDistinct(t *testing.T) {
	s := newRaw(t)
	require.NoError(t, s.PointerDown(1, 1, capture.ButtonPrimary))
	require.NoError(t, s.PointerUp(1, 1, capture.ButtonPrimary))
	require.NoError(t, s.PointerDown(50, 50, capture.ButtonPrimary))
	require.NoError(t, s.PointerMove(60, 50))
	require.NoError(t, s.PointerMove(70, 55))
	assert.True(t, s.Capturing())

	f := s.Repaint()
	require.Len(t, f.Primitives, 2)
	assert.Equal(t, curve.Committed, f.Primitives[0].(curve.Dot).Role)
	assert.Equal(t, curve.Live, f.Primitives[1].(curve.Curve).Role)
}

// Scenario D: resize empties the history and the live stroke.
func TestResizeClearsEverything(t *testing.T) {
	s := newRaw(t)
	for i := 0; i < 2; i++ {
		x := float64(i * 100)
		require.NoError(t, s.PointerDown(x, 0, capture.ButtonPrimary))
		require.NoError(t, s.PointerMove(x+5, 5))
		require.NoError(t, s.PointerUp(x+10, 10, capture.ButtonPrimary))
	}
	require.NoError(t, s.PointerDown(300, 300, capture.ButtonPrimary))
	require.NoError(t, s.PointerMove(310, 300))
	require.Len(t, s.History(), 2)

	s.Resize(1024, 768)

	assert.Empty(t, s.History())
	assert.Empty(t, s.Live())
	assert.False(t, s.Capturing())
	assert.Empty(t, s.Repaint().Primitives)
	w, h := s.Size()
	assert.Equal(t, 1024, w)
	assert.Equal(t, 768, h)

	// The release of the aborted stroke is ignored.
	require.NoError(t, s.PointerUp(310, 300, capture.ButtonPrimary))
	assert.Empty(t, s.History())

	s.Resize(0, 0)
	assert.Empty(t, s.History())
}

func TestWords(t *testing.T) {
	s := newRaw(t)
	assert.Equal(t, "Mama", s.Word())

	require.NoError(t, s.PointerDown(1, 1, capture.ButtonPrimary))
	require.NoError(t, s.PointerUp(1, 1, capture.ButtonPrimary))

	assert.Equal(t, "to", s.NextWord())
	assert.Empty(t, s.History(), "word change clears strokes")
	assert.Equal(t, "me", s.NextWord())
	assert.Equal(t, "Mama", s.NextWord())
	assert.Equal(t, "me", s.PrevWord())

	assert.Equal(t, "cat", s.SetWord("cat"))
	assert.Equal(t, []string{"Mama", "to", "me", "cat"}, s.Words())
	assert.Equal(t, "to", s.SetWord("to"))
	assert.Len(t, s.Words(), 4)

	f := s.Repaint()
	assert.Equal(t, "to", f.Word)
	assert.InDelta(t, 180.0, f.FontSize, 1e-9)
}

func TestToggleFill(t *testing.T) {
	s := newRaw(t)
	assert.False(t, s.Repaint().Fill)
	assert.True(t, s.ToggleFill())
	assert.True(t, s.Repaint().Fill)
	assert.False(t, s.ToggleFill())
}

func TestSmoothedStrokeWithBuiltInEngine(t *testing.T) {
	cfg := config.Default()
	s, err := FromConfig(cfg, 800, 600)
	require.NoError(t, err)
	defer s.Close()
	require.True(t, s.Smoothing())

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	at := func(ms int) time.Time { return start.Add(time.Duration(ms) * time.Millisecond) }

	require.NoError(t, s.PointerDownAt(100, 100, capture.ButtonPrimary, at(0)))
	for i := 1; i <= 10; i++ {
		require.NoError(t, s.PointerMoveAt(100+float64(i*10), 100, at(i*16)))
	}
	require.NoError(t, s.PointerUpAt(200, 100, capture.ButtonPrimary, at(176)))

	h := s.History()
	require.Len(t, h, 1)
	assert.Greater(t, len(h[0]), 11, "engine resamples at its output rate")
	assert.Equal(t, capture.Stats{Committed: 1, Smoothed: 1, Updates: 12}, s.Stats())

	last := h[0][len(h[0])-1]
	assert.InDelta(t, 200, last.X, 5, "stroke ends near the release point")
	assert.InDelta(t, 100, last.Y, 1)

	s.SetSmoothing(false)
	require.NoError(t, s.PointerDownAt(10, 10, capture.ButtonPrimary, at(500)))
	require.NoError(t, s.PointerUpAt(20, 20, capture.ButtonPrimary, at(520)))
	assert.Equal(t, geom.Stroke{{X: 10, Y: 10}, {X: 20, Y: 20}}, s.History()[1])
	assert.Equal(t, 1, s.Stats().Raw)
}

func TestBackwardTimestampsKeepSmoothedStroke(t *testing.T) {
	s, err := FromConfig(config.Default(), 400, 300)
	require.NoError(t, err)
	defer s.Close()

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	at := func(ms int) time.Time { return start.Add(time.Duration(ms) * time.Millisecond) }

	require.NoError(t, s.PointerDownAt(10, 10, capture.ButtonPrimary, at(0)))
	require.NoError(t, s.PointerMoveAt(20, 10, at(50)))
	require.NoError(t, s.PointerMoveAt(30, 10, at(30)))
	require.NoError(t, s.PointerUpAt(40, 10, capture.ButtonPrimary, at(80)))

	assert.False(t, s.Capturing())
	require.Len(t, s.History(), 1)
	assert.Equal(t, 0, s.Stats().Aborted)
}

func TestCloseIsIdempotent(t *testing.T) {
	s, err := FromConfig(config.Default(), 100, 100)
	require.NoError(t, err)
	require.NoError(t, s.PointerDown(1, 1, capture.ButtonPrimary))

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.PointerMove(2, 2), capture.ErrClosed)
}

func TestFrameScale(t *testing.T) {
	s := newRaw(t)
	require.NoError(t, s.PointerDown(10, 20, capture.ButtonPrimary))
	require.NoError(t, s.PointerUp(10, 20, capture.ButtonPrimary))

	f := s.Repaint()
	big := f.Scale(2.5)
	assert.Equal(t, 2000, big.Width)
	assert.Equal(t, 1500, big.Height)
	assert.InDelta(t, f.FontSize*2.5, big.FontSize, 1e-9)
	assert.InDelta(t, f.StrokeWidth*2.5, big.StrokeWidth, 1e-9)
	require.Len(t, big.Primitives, 1)
	assert.Equal(t, geom.Pt(25, 50), big.Primitives[0].(curve.Dot).Center)
	assert.Equal(t, f.Word, big.Word)
}
