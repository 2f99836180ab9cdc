// Package ink adapts an optional stroke smoothing engine to the capture
// pipeline.
//
// The engine is an opaque capability behind the narrow Engine contract. The
// Adapter seen by callers has two variants: Engaged, wrapping a live engine,
// and Unavailable, which never starts a session so callers fall back to raw
// pointer positions. The variant is chosen once per stroke when TryReset is
// called at pointer-down.
package ink

import (
	"errors"
	"fmt"
	"time"

	"github.com/ha1tch/sightwords/pkg/geom"
)

var (
	// ErrEngineUpdate wraps every failure reported by an engine after a
	// session was successfully reset.
	ErrEngineUpdate = errors.New("smoothing engine update failed")

	// ErrNoSession is returned by Update when no session is active.
	ErrNoSession = errors.New("no active smoothing session")
)

// EventKind is the phase of a pointer sample.
type EventKind int

const (
	Down EventKind = iota
	Move
	Up
)

func (k EventKind) String() string {
	switch k {
	case Down:
		return "down"
	case Move:
		return "move"
	case Up:
		return "up"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Input is one raw sample handed to an engine.
type Input struct {
	Kind            EventKind
	Position        geom.Point
	Elapsed         time.Duration // since the stroke's down event
	PredictionCount int
}

// Results is an engine-owned result buffer. Its contents are valid until
// Release is called; Release must be safe to call more than once.
type Results interface {
	Len() int
	At(i int) geom.Point
	Predicted() []geom.Point
	Release()
}

// Engine is the contract of an external smoothing capability.
type Engine interface {
	// Reset starts a new stroke. An error means the engine cannot be used
	// for the upcoming stroke.
	Reset() error
	// Update feeds one sample and returns the smoothed output for it.
	Update(in Input) (Results, error)
	// Close releases the engine.
	Close() error
}

// Adapter is what the capture machine drives.
type Adapter interface {
	// TryReset starts a session for the upcoming stroke and reports whether
	// the engine is usable. It is called once per stroke, before any Update.
	TryReset() bool
	// Update feeds one sample and returns caller-owned smoothed points.
	Update(kind EventKind, pos geom.Point, elapsed time.Duration, predictionCount int) ([]geom.Point, error)
	// Abort abandons the current session, if any.
	Abort()
	// Close releases any open session and the engine. Calls after the
	// first are no-ops.
	Close() error
}

// New returns an Engaged adapter for engine, or Unavailable when engine is nil.
func New(engine Engine) Adapter {
	if engine == nil {
		return Unavailable{}
	}
	return NewEngaged(engine)
}

// SessionState is the lifecycle of one stroke's engine session.
type SessionState int

const (
	NotStarted SessionState = iota
	Active
	Completed
	Aborted
)

func (s SessionState) String() string {
	switch s {
	case NotStarted:
		return "not-started"
	case Active:
		return "active"
	case Completed:
		return "completed"
	case Aborted:
		return "aborted"
	}
	return fmt.Sprintf("SessionState(%d)", int(s))
}

// Unavailable is the fallback adapter: no session ever starts.
type Unavailable struct{}

func (Unavailable) TryReset() bool { return false }

func (Unavailable) Update(EventKind, geom.Point, time.Duration, int) ([]geom.Point, error) {
	return nil, ErrNoSession
}

func (Unavailable) Abort() {}

func (Unavailable) Close() error { return nil }

// Switch gates an adapter behind a user-controlled flag. While disabled,
// TryReset reports false and strokes are captured raw.
type Switch struct {
	Adapter
	Enabled bool
}

// TryReset starts a session only when the switch is enabled.
func (s *Switch) TryReset() bool {
	return s.Enabled && s.Adapter.TryReset()
}

// Prediction forwards to the wrapped adapter when it reports predictions.
func (s *Switch) Prediction() []geom.Point {
	if p, ok := s.Adapter.(interface{ Prediction() []geom.Point }); ok {
		return p.Prediction()
	}
	return nil
}
