// Package surface is the word tracing surface: it owns the stroke history
// and the capture machine, lays out the target word for the viewport and
// turns the current state into a Frame on every repaint.
//
// A Surface is driven from one event loop and is not safe for concurrent use.
package surface

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ha1tch/sightwords/pkg/capture"
	"github.com/ha1tch/sightwords/pkg/config"
	"github.com/ha1tch/sightwords/pkg/curve"
	"github.com/ha1tch/sightwords/pkg/geom"
	"github.com/ha1tch/sightwords/pkg/ink"
	"github.com/ha1tch/sightwords/pkg/ink/modeler"
	"github.com/ha1tch/sightwords/pkg/logging"
	"github.com/ha1tch/sightwords/pkg/stroke"
)

// ErrNoWords is returned by New when the word list is empty.
var ErrNoWords = errors.New("no words to trace")

// Layout sizes the guide word and strokes from the viewport.
type Layout struct {
	FontFactor  float64 // font size per unit of the smaller viewport side
	WidthFactor float64 // stroke width per unit of font size
	MinWidth    float64
}

// DefaultLayout returns the layout of the tracing app.
func DefaultLayout() Layout {
	return Layout{FontFactor: 0.3, WidthFactor: 0.05, MinWidth: 8}
}

// FontSize returns the guide word's font size for a w x h viewport.
func (l Layout) FontSize(w, h int) float64 {
	return float64(max(min(w, h), 0)) * l.FontFactor
}

// StrokeWidth returns the stroke width for a w x h viewport.
func (l Layout) StrokeWidth(w, h int) float64 {
	return math.Max(l.FontSize(w, h)*l.WidthFactor, l.MinWidth)
}

// Options configures a Surface.
type Options struct {
	Words     []string
	Layout    Layout
	Tension   float64
	Engine    ink.Engine // nil captures every stroke raw
	Smoothing bool       // initial state of the smoothing toggle
	Width     int
	Height    int
	Clock     func() time.Time // defaults to time.Now
}

// Frame is everything a backend needs to draw one repaint.
type Frame struct {
	Width, Height int
	Word          string
	FontSize      float64
	StrokeWidth   float64
	Fill          bool
	Primitives    []curve.Primitive
	Prediction    []geom.Point
}

// Scale returns f magnified by k, for exporting a frame at another
// resolution than it was captured at.
func (f Frame) Scale(k float64) Frame {
	out := f
	out.Width = int(math.Round(float64(f.Width) * k))
	out.Height = int(math.Round(float64(f.Height) * k))
	out.FontSize *= k
	out.StrokeWidth *= k
	out.Primitives = curve.Scale(f.Primitives, k)
	out.Prediction = nil
	for _, p := range f.Prediction {
		out.Prediction = append(out.Prediction, p.Mul(k))
	}
	return out
}

// Surface is the tracing surface.
type Surface struct {
	width, height int
	words         []string
	word          int
	fill          bool
	layout        Layout
	tension       float64
	clock         func() time.Time

	history   stroke.History
	smoothing *ink.Switch
	machine   *capture.Machine
	closed    bool
}

// New creates a surface.
func New(opts Options) (*Surface, error) {
	if len(opts.Words) == 0 {
		return nil, ErrNoWords
	}
	if opts.Layout == (Layout{}) {
		opts.Layout = DefaultLayout()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	s := &Surface{
		width:   max(opts.Width, 0),
		height:  max(opts.Height, 0),
		words:   append([]string(nil), opts.Words...),
		layout:  opts.Layout,
		tension: opts.Tension,
		clock:   opts.Clock,
		smoothing: &ink.Switch{
			Adapter: ink.New(opts.Engine),
			Enabled: opts.Smoothing,
		},
	}
	s.machine = capture.New(s.smoothing, &s.history)
	return s, nil
}

// FromConfig creates a surface using the built-in smoothing engine.
func FromConfig(cfg config.Config, width, height int) (*Surface, error) {
	engine, err := modeler.New(cfg.Modeler.Params())
	if err != nil {
		return nil, fmt.Errorf("creating smoothing engine: %w", err)
	}
	return New(Options{
		Words: cfg.Words,
		Layout: Layout{
			FontFactor:  cfg.Stroke.FontFactor,
			WidthFactor: cfg.Stroke.WidthFactor,
			MinWidth:    cfg.Stroke.MinWidth,
		},
		Tension:   cfg.Stroke.Tension,
		Engine:    engine,
		Smoothing: cfg.Smoothing,
		Width:     width,
		Height:    height,
	})
}

// PointerDown handles a button press at (x, y).
func (s *Surface) PointerDown(x, y float64, button capture.Button) error {
	return s.PointerDownAt(x, y, button, s.clock())
}

// PointerDownAt is PointerDown with an explicit timestamp.
func (s *Surface) PointerDownAt(x, y float64, button capture.Button, at time.Time) error {
	return s.machine.Down(geom.Pt(x, y), button, at)
}

// PointerMove handles pointer motion to (x, y).
func (s *Surface) PointerMove(x, y float64) error {
	return s.PointerMoveAt(x, y, s.clock())
}

// PointerMoveAt is PointerMove with an explicit timestamp.
func (s *Surface) PointerMoveAt(x, y float64, at time.Time) error {
	return s.machine.Move(geom.Pt(x, y), at)
}

// PointerUp handles a button release at (x, y).
func (s *Surface) PointerUp(x, y float64, button capture.Button) error {
	return s.PointerUpAt(x, y, button, s.clock())
}

// PointerUpAt is PointerUp with an explicit timestamp.
func (s *Surface) PointerUpAt(x, y float64, button capture.Button, at time.Time) error {
	return s.machine.Up(geom.Pt(x, y), button, at)
}

// Resize sets the viewport size. Stroke coordinates are viewport-relative,
// so every stroke, including one in progress, is discarded.
func (s *Surface) Resize(w, h int) {
	s.width, s.height = max(w, 0), max(h, 0)
	s.Clear()
	logging.Logger().Debug("viewport resized", "width", s.width, "height", s.height)
}

// Clear discards the stroke history and any stroke in progress.
func (s *Surface) Clear() {
	s.machine.Abort()
	s.history.Clear()
}

// Repaint returns the frame for the current state.
func (s *Surface) Repaint() Frame {
	width := s.StrokeWidth()
	r := curve.NewRenderer(curve.Style{Tension: s.tension, Width: width})

	return Frame{
		Width:       s.width,
		Height:      s.height,
		Word:        s.Word(),
		FontSize:    s.layout.FontSize(s.width, s.height),
		StrokeWidth: width,
		Fill:        s.fill,
		Primitives:  r.Frame(s.history.All(), s.machine.Live()),
		Prediction:  s.machine.Prediction(),
	}
}

// Close aborts any stroke in progress and releases the smoothing engine.
func (s *Surface) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.machine.Close()
}

// Size returns the viewport size.
func (s *Surface) Size() (w, h int) {
	return s.width, s.height
}

// StrokeWidth returns the current stroke width.
func (s *Surface) StrokeWidth() float64 {
	return s.layout.StrokeWidth(s.width, s.height)
}

// Word returns the word being traced.
func (s *Surface) Word() string {
	return s.words[s.word]
}

// Words returns a copy of the word list.
func (s *Surface) Words() []string {
	return append([]string(nil), s.words...)
}

// NextWord moves to the next word, wrapping around, and clears the strokes.
func (s *Surface) NextWord() string {
	return s.setWord((s.word + 1) % len(s.words))
}

// PrevWord moves to the previous word, wrapping around, and clears the strokes.
func (s *Surface) PrevWord() string {
	return s.setWord((s.word + len(s.words) - 1) % len(s.words))
}

// SetWord selects the word w, adding it to the list when absent.
func (s *Surface) SetWord(w string) string {
	for i, x := range s.words {
		if x == w {
			return s.setWord(i)
		}
	}
	s.words = append(s.words, w)
	return s.setWord(len(s.words) - 1)
}

func (s *Surface) setWord(i int) string {
	s.word = i
	s.Clear()
	logging.Logger().Debug("word selected", "word", s.words[i])
	return s.words[i]
}

// ToggleFill switches between an outlined and a filled guide word.
func (s *Surface) ToggleFill() bool {
	s.fill = !s.fill
	return s.fill
}

// Fill reports whether the guide word is filled.
func (s *Surface) Fill() bool {
	return s.fill
}

// SetSmoothing enables or disables the smoothing engine for later strokes.
// A stroke in progress keeps the mode it started with.
func (s *Surface) SetSmoothing(on bool) {
	s.smoothing.Enabled = on
}

// Smoothing reports whether the smoothing engine is enabled.
func (s *Surface) Smoothing() bool {
	return s.smoothing.Enabled
}

// Capturing reports whether a stroke is in progress.
func (s *Surface) Capturing() bool {
	return s.machine.State() != capture.Idle
}

// History returns copies of the committed strokes, oldest first.
func (s *Surface) History() []geom.Stroke {
	return s.history.All()
}

// Live returns a copy of the stroke in progress.
func (s *Surface) Live() geom.Stroke {
	return s.machine.Live()
}

// Stats returns the capture counters.
func (s *Surface) Stats() capture.Stats {
	return s.machine.Stats()
}
