package ink

import (
	"fmt"
	"time"

	"github.com/ha1tch/sightwords/pkg/geom"
	"github.com/ha1tch/sightwords/pkg/logging"
)

// Engaged drives a live engine, one session per stroke.
type Engaged struct {
	engine     Engine
	state      SessionState
	prediction []geom.Point
	closed     bool
}

// NewEngaged wraps engine.
func NewEngaged(engine Engine) *Engaged {
	return &Engaged{engine: engine}
}

// State returns the state of the current session.
func (a *Engaged) State() SessionState {
	return a.state
}

// TryReset starts a new session. A stroke left active by the previous
// interaction is marked aborted first.
func (a *Engaged) TryReset() bool {
	if a.closed {
		return false
	}
	if a.state == Active {
		a.state = Aborted
	}
	a.prediction = a.prediction[:0]

	if err := a.engine.Reset(); err != nil {
		logging.Logger().Warn("smoothing engine unavailable, capturing raw points", "error", err)
		a.state = NotStarted
		return false
	}
	a.state = Active
	return true
}

// Update feeds one sample to the engine and returns a copy of its output.
//
// The engine's result buffer is released before Update returns on every
// path, including a panic while copying. If the copy does not complete the
// session is left aborted.
func (a *Engaged) Update(kind EventKind, pos geom.Point, elapsed time.Duration, predictionCount int) ([]geom.Point, error) {
	if a.state != Active {
		return nil, ErrNoSession
	}
	if elapsed < 0 {
		elapsed = 0
	}

	res, err := a.engine.Update(Input{
		Kind:            kind,
		Position:        pos,
		Elapsed:         elapsed,
		PredictionCount: predictionCount,
	})
	if err != nil {
		a.state = Aborted
		return nil, fmt.Errorf("%w: %s at %v: %w", ErrEngineUpdate, kind, pos, err)
	}
	if res == nil {
		a.finish(kind)
		return nil, nil
	}
	defer res.Release()

	a.state = Aborted
	points := copyResults(res)
	a.prediction = append(a.prediction[:0], res.Predicted()...)
	a.state = Active
	a.finish(kind)
	return points, nil
}

func (a *Engaged) finish(kind EventKind) {
	if kind == Up {
		a.state = Completed
		a.prediction = a.prediction[:0]
	}
}

func copyResults(res Results) []geom.Point {
	n := res.Len()
	if n == 0 {
		return nil
	}
	points := make([]geom.Point, n)
	for i := range points {
		points[i] = res.At(i)
	}
	return points
}

// Prediction returns a copy of the predicted points reported by the most
// recent Update of the active session. They are never part of the stroke.
func (a *Engaged) Prediction() []geom.Point {
	if a.state != Active || len(a.prediction) == 0 {
		return nil
	}
	return append([]geom.Point(nil), a.prediction...)
}

// Abort marks an active session as aborted.
func (a *Engaged) Abort() {
	if a.state == Active {
		a.state = Aborted
		a.prediction = a.prediction[:0]
	}
}

// Close aborts any open session and closes the engine exactly once.
func (a *Engaged) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	a.Abort()
	logging.Logger().Debug("closing smoothing engine")
	if err := a.engine.Close(); err != nil {
		return fmt.Errorf("closing smoothing engine: %w", err)
	}
	return nil
}
