// Package capture turns pointer events into committed strokes.
//
// A Machine cycles Idle -> Capturing -> Idle once per stroke. At pointer-down
// it asks the smoothing adapter for a session: if one starts, every sample of
// the stroke goes through the engine (CapturingSmoothed); otherwise raw
// pointer positions are recorded unchanged (CapturingRaw). The choice holds
// for the whole stroke.
package capture

import (
	"errors"
	"fmt"
	"time"

	"github.com/ha1tch/sightwords/pkg/fsm"
	"github.com/ha1tch/sightwords/pkg/geom"
	"github.com/ha1tch/sightwords/pkg/ink"
	"github.com/ha1tch/sightwords/pkg/logging"
	"github.com/ha1tch/sightwords/pkg/stroke"
)

// ErrClosed is returned by handlers called after Close.
var ErrClosed = errors.New("capture machine closed")

// predictionCount is the number of predicted points requested per update.
const predictionCount = 1

// Button identifies a pointer button. Only ButtonPrimary draws.
type Button int

const (
	ButtonNone Button = iota
	ButtonPrimary
	ButtonSecondary
	ButtonMiddle
)

// Committer receives finished strokes. *stroke.History implements it.
type Committer interface {
	Append(s geom.Stroke) error
}

// Stats counts what a machine has done since it was created.
type Stats struct {
	Committed int // strokes handed to the committer
	Raw       int // committed strokes captured without the engine
	Smoothed  int // committed strokes captured through the engine
	Aborted   int // strokes dropped by Abort or an engine failure
	Updates   int // adapter Update calls
}

// Machine is the stroke capture state machine. It is driven from a single
// event loop and is not safe for concurrent use.
type Machine struct {
	adapter ink.Adapter
	sink    Committer
	buf     *stroke.Buffer
	runner  *fsm.Runner[State, Input]
	down    time.Time
	last    time.Duration // latest elapsed value handed to the adapter
	stats   Stats
	closed  bool
}

// New creates an idle machine that smooths through adapter and commits to
// sink. A nil adapter means strokes are always captured raw.
func New(adapter ink.Adapter, sink Committer) *Machine {
	if adapter == nil {
		adapter = ink.Unavailable{}
	}
	return &Machine{
		adapter: adapter,
		sink:    sink,
		buf:     stroke.NewBuffer(100),
		runner:  fsm.MustRunner(Transitions()),
	}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.runner.Current()
}

// Stats returns the machine's counters.
func (m *Machine) Stats() Stats {
	return m.stats
}

// Live returns a copy of the stroke being captured; empty when idle.
func (m *Machine) Live() geom.Stroke {
	return m.buf.Points()
}

// Prediction returns the engine's predicted continuation of the live
// stroke, when the adapter provides one.
func (m *Machine) Prediction() []geom.Point {
	if m.State() != CapturingSmoothed {
		return nil
	}
	if p, ok := m.adapter.(interface{ Prediction() []geom.Point }); ok {
		return p.Prediction()
	}
	return nil
}

// Down starts a stroke at pos. Buttons other than the primary one and
// presses during a stroke are ignored.
func (m *Machine) Down(pos geom.Point, button Button, at time.Time) error {
	if m.closed {
		return ErrClosed
	}
	if button != ButtonPrimary || m.State() != Idle {
		return nil
	}
	m.down = at
	m.last = 0

	if !m.adapter.TryReset() {
		m.step(InputDownRaw)
		m.buf.Append(pos)
		logging.Logger().Debug("stroke started", "mode", "raw", "x", pos.X, "y", pos.Y)
		return nil
	}

	m.step(InputDownSmoothed)
	logging.Logger().Debug("stroke started", "mode", "smoothed", "x", pos.X, "y", pos.Y)
	return m.update(ink.Down, pos, 0)
}

// Move extends the stroke in progress. Moves while idle are ignored.
func (m *Machine) Move(pos geom.Point, at time.Time) error {
	if m.closed {
		return ErrClosed
	}
	switch m.State() {
	case CapturingRaw:
		m.step(InputMove)
		m.buf.Append(pos)
	case CapturingSmoothed:
		m.step(InputMove)
		return m.update(ink.Move, pos, m.elapsed(at))
	}
	return nil
}

// Up finishes the stroke in progress and commits it.
func (m *Machine) Up(pos geom.Point, button Button, at time.Time) error {
	if m.closed {
		return ErrClosed
	}
	if button != ButtonPrimary {
		return nil
	}

	state := m.State()
	switch state {
	case Idle:
		return nil
	case CapturingRaw:
		if !m.stationaryTap(pos) {
			m.buf.Append(pos)
		}
	case CapturingSmoothed:
		if err := m.update(ink.Up, pos, m.elapsed(at)); err != nil {
			return err
		}
	}

	points := m.buf.Take()
	if len(points) == 0 {
		// The engine produced nothing for the whole stroke; keep the tap.
		points = geom.Stroke{pos}
	}
	m.step(InputUp)
	if err := m.sink.Append(points); err != nil {
		m.stats.Aborted++
		return fmt.Errorf("committing stroke: %w", err)
	}

	m.stats.Committed++
	if state == CapturingSmoothed {
		m.stats.Smoothed++
	} else {
		m.stats.Raw++
	}
	logging.Logger().Debug("stroke committed", "points", len(points), "smoothed", state == CapturingSmoothed)
	return nil
}

// Abort drops the stroke in progress, if any, and returns to Idle.
func (m *Machine) Abort() {
	if m.State() == Idle {
		return
	}
	m.adapter.Abort()
	m.buf.Reset()
	m.step(InputAbort)
	m.stats.Aborted++
}

// Close aborts any stroke in progress and releases the adapter. Calls after
// the first are no-ops.
func (m *Machine) Close() error {
	if m.closed {
		return nil
	}
	m.Abort()
	m.closed = true
	return m.adapter.Close()
}

// update feeds one sample to the adapter. A failure aborts the stroke.
func (m *Machine) update(kind ink.EventKind, pos geom.Point, elapsed time.Duration) error {
	m.stats.Updates++
	points, err := m.adapter.Update(kind, pos, elapsed, predictionCount)
	if err != nil {
		m.Abort()
		logging.Logger().Error("stroke aborted", "event", kind, "error", err)
		return err
	}
	m.buf.Append(points...)
	return nil
}

// stationaryTap reports whether the raw stroke so far is a single point at
// pos, in which case the release adds nothing.
func (m *Machine) stationaryTap(pos geom.Point) bool {
	last, ok := m.buf.Last()
	return ok && m.buf.Len() == 1 && last == pos
}

// elapsed returns the time since the stroke's down event. It never goes
// below zero or below the previous value within a stroke.
func (m *Machine) elapsed(at time.Time) time.Duration {
	m.last = max(m.last, at.Sub(m.down), 0)
	return m.last
}

func (m *Machine) step(input Input) {
	if _, err := m.runner.Step(input); err != nil {
		// Handlers only fire inputs allowed from the current state.
		panic(err)
	}
}
