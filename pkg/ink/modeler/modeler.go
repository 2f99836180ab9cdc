// Package modeler is a pure-Go stroke smoothing engine.
//
// Raw samples pass through a wobble smoother (a speed-weighted moving
// average) and then drive a spring-mass follower that is stepped at a
// minimum output rate. On pointer-up the follower keeps stepping toward the
// last input until it settles, so the stroke catches up with the pointer.
package modeler

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/ha1tch/sightwords/pkg/geom"
	"github.com/ha1tch/sightwords/pkg/ink"
)

var (
	// ErrClosed is returned by every call after Close.
	ErrClosed = errors.New("modeler closed")
	// ErrStrokeState is returned for events that do not fit the stroke in
	// progress, such as a move before any down.
	ErrStrokeState = errors.New("event out of stroke order")
	// ErrTimeReversed is returned when elapsed time decreases within a stroke.
	ErrTimeReversed = errors.New("elapsed time went backwards")
)

type sample struct {
	pos geom.Point
	t   time.Duration
}

// Modeler implements ink.Engine. It is not safe for concurrent use.
type Modeler struct {
	params Params
	pool   sync.Pool

	inStroke bool
	samples  []sample
	lastTime time.Duration
	anchor   geom.Point // last smoothed input
	pos      geom.Point // follower position
	vel      geom.Point // follower velocity

	outstanding int
	closed      bool
}

var _ ink.Engine = (*Modeler)(nil)

// New creates a modeler with the given parameters.
func New(p Params) (*Modeler, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	m := &Modeler{params: p}
	m.pool.New = func() any { return new(buffer) }
	return m, nil
}

// Params returns the modeler's parameters.
func (m *Modeler) Params() Params {
	return m.params
}

// Outstanding returns the number of result buffers handed out and not yet
// released.
func (m *Modeler) Outstanding() int {
	return m.outstanding
}

// Reset prepares the modeler for a new stroke.
func (m *Modeler) Reset() error {
	if m.closed {
		return ErrClosed
	}
	m.inStroke = false
	m.samples = m.samples[:0]
	m.lastTime = 0
	m.anchor = geom.Point{}
	m.pos = geom.Point{}
	m.vel = geom.Point{}
	return nil
}

// Update feeds one sample. The returned results must be released.
func (m *Modeler) Update(in ink.Input) (ink.Results, error) {
	if m.closed {
		return nil, ErrClosed
	}
	if in.PredictionCount < 0 {
		return nil, fmt.Errorf("negative prediction count %d", in.PredictionCount)
	}
	if !in.Position.Finite() {
		return nil, fmt.Errorf("non-finite position %v", in.Position)
	}

	switch in.Kind {
	case ink.Down:
		if m.inStroke {
			return nil, fmt.Errorf("%w: down while a stroke is in progress", ErrStrokeState)
		}
	case ink.Move, ink.Up:
		if !m.inStroke {
			return nil, fmt.Errorf("%w: %s without down", ErrStrokeState, in.Kind)
		}
		if in.Elapsed < m.lastTime {
			return nil, fmt.Errorf("%w: %v after %v", ErrTimeReversed, in.Elapsed, m.lastTime)
		}
	default:
		return nil, fmt.Errorf("%w: unknown event kind %v", ErrStrokeState, in.Kind)
	}

	res := m.acquire()
	buf := res.buf

	switch in.Kind {
	case ink.Down:
		m.inStroke = true
		m.samples = append(m.samples[:0], sample{in.Position, in.Elapsed})
		m.lastTime = in.Elapsed
		m.anchor = in.Position
		m.pos = in.Position
		m.vel = geom.Point{}
		buf.points = append(buf.points, m.pos)

	case ink.Move, ink.Up:
		m.pushSample(sample{in.Position, in.Elapsed})
		anchor := m.smooth(in.Position, in.Elapsed)
		buf.points = m.follow(buf.points, anchor, (in.Elapsed - m.lastTime).Seconds())
		m.anchor = anchor
		m.lastTime = in.Elapsed

		if in.Kind == ink.Up {
			// Catch up with the actual pointer position.
			buf.points = m.settle(buf.points, in.Position)
			m.inStroke = false
		}
	}

	if in.Kind != ink.Up {
		buf.predicted = m.predict(buf.predicted, in.PredictionCount)
	}
	return res, nil
}

// Close releases the modeler. Later calls are no-ops.
func (m *Modeler) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	m.inStroke = false
	m.samples = nil
	return nil
}

func (m *Modeler) pushSample(s sample) {
	m.samples = append(m.samples, s)
	if extra := len(m.samples) - m.params.MaxInputSamples; extra > 0 {
		m.samples = append(m.samples[:0], m.samples[extra:]...)
	}
}

// smooth returns the wobble-smoothed position for the newest sample.
func (m *Modeler) smooth(raw geom.Point, now time.Duration) geom.Point {
	start := len(m.samples) - 1
	for start > 0 && now-m.samples[start-1].t <= m.params.WobbleTimeout {
		start--
	}
	window := m.samples[start:]
	if len(window) < 2 {
		return raw
	}

	var sum geom.Point
	distance := 0.0
	for i, s := range window {
		sum = sum.Add(s.pos)
		if i > 0 {
			distance += window[i-1].pos.Distance(s.pos)
		}
	}
	mean := sum.Mul(1 / float64(len(window)))

	span := (window[len(window)-1].t - window[0].t).Seconds()
	if span <= 0 {
		return mean
	}
	speed := distance / span

	ratio := (speed - m.params.SpeedFloor) / (m.params.SpeedCeiling - m.params.SpeedFloor)
	ratio = math.Max(0, math.Min(1, ratio))
	return mean.Lerp(raw, ratio)
}

// follow steps the follower from the previous anchor to anchor over dt
// seconds, at no less than the minimum output rate.
func (m *Modeler) follow(out []geom.Point, anchor geom.Point, dt float64) []geom.Point {
	if dt <= 0 {
		return out
	}
	steps := int(math.Ceil(dt * m.params.MinOutputRate))
	if steps < 1 {
		steps = 1
	}
	h := dt / float64(steps)
	for i := 1; i <= steps; i++ {
		target := m.anchor.Lerp(anchor, float64(i)/float64(steps))
		m.pos, m.vel = m.step(m.pos, m.vel, target, h)
		out = append(out, m.pos)
	}
	return out
}

// settle steps toward target until the follower stops moving.
func (m *Modeler) settle(out []geom.Point, target geom.Point) []geom.Point {
	h := 1 / m.params.MinOutputRate
	stop := m.params.EndOfStrokeStoppingDistance
	for i := 0; i < m.params.EndOfStrokeMaxIterations; i++ {
		prev := m.pos
		m.pos, m.vel = m.step(m.pos, m.vel, target, h)
		out = append(out, m.pos)
		if m.pos.Distance(prev) < stop || m.pos.Distance(target) < stop {
			break
		}
	}
	return out
}

// predict extrapolates up to n follower positions without changing state.
func (m *Modeler) predict(out []geom.Point, n int) []geom.Point {
	if n == 0 {
		return out
	}
	h := 1 / m.params.MinOutputRate
	pos, vel := m.pos, m.vel
	for i := 0; i < n; i++ {
		pos, vel = m.step(pos, vel, m.anchor, h)
		out = append(out, pos)
	}
	return out
}

// step advances the spring-mass follower by h seconds (semi-implicit Euler).
func (m *Modeler) step(pos, vel, anchor geom.Point, h float64) (geom.Point, geom.Point) {
	acc := anchor.Sub(pos).Mul(1 / m.params.SpringMassConstant).Sub(vel.Mul(m.params.DragConstant))
	vel = vel.Add(acc.Mul(h))
	pos = pos.Add(vel.Mul(h))
	return pos, vel
}
