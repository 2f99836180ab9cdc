package capture

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/sightwords/pkg/fsm"
	"github.com/ha1tch/sightwords/pkg/geom"
	"github.com/ha1tch/sightwords/pkg/ink"
	"github.com/ha1tch/sightwords/pkg/stroke"
)

type call struct {
	kind    ink.EventKind
	pos     geom.Point
	elapsed time.Duration
	predict int
}

// scriptedAdapter is an ink.Adapter returning canned points per event kind.
type scriptedAdapter struct {
	resetOK bool
	outputs map[ink.EventKind][]geom.Point
	failOn  map[ink.EventKind]error
	resets  int
	calls   []call
	aborts  int
	closes  int
}

func newScripted(resetOK bool) *scriptedAdapter {
	return &scriptedAdapter{
		resetOK: resetOK,
		outputs: map[ink.EventKind][]geom.Point{},
		failOn:  map[ink.EventKind]error{},
	}
}

func (a *scriptedAdapter) TryReset() bool {
	a.resets++
	return a.resetOK
}

func (a *scriptedAdapter) Update(kind ink.EventKind, pos geom.Point, elapsed time.Duration, n int) ([]geom.Point, error) {
	a.calls = append(a.calls, call{kind, pos, elapsed, n})
	if err := a.failOn[kind]; err != nil {
		return nil, err
	}
	return append([]geom.Point(nil), a.outputs[kind]...), nil
}

func (a *scriptedAdapter) Abort() { a.aborts++ }

func (a *scriptedAdapter) Close() error {
	a.closes++
	return nil
}

var t0 = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func at(ms int) time.Time {
	return t0.Add(time.Duration(ms) * time.Millisecond)
}

func TestTransitionTable(t *testing.T) {
	tbl := Transitions()
	require.NoError(t, tbl.Validate())
	assert.Equal(t, Idle, tbl.Initial)
	assert.Len(t, tbl.Transitions(), 8)

	dot := fsm.GenerateDOT(tbl, "capture")
	assert.True(t, strings.Contains(dot, `"idle" -> "capturing-smoothed" [label="down-smoothed"]`), dot)
}

// Scenario A: a tap with the engine unavailable.
func TestTapWithoutEngine(t *testing.T) {
	var h stroke.History
	a := newScripted(false)
	m := New(a, &h)

	require.NoError(t, m.Down(geom.Pt(10, 10), ButtonPrimary, at(0)))
	assert.Equal(t, CapturingRaw, m.State())
	require.NoError(t, m.Up(geom.Pt(10, 10), ButtonPrimary, at(80)))

	assert.Equal(t, Idle, m.State())
	require.Equal(t, 1, h.Len())
	assert.Equal(t, geom.Stroke{{X: 10, Y: 10}}, h.At(0))
	assert.Empty(t, a.calls, "no update without a session")
	assert.Zero(t, m.buf.Len())
}

// Scenario B: raw capture keeps every pointer position in order.
func TestRawStrokeIsIdentity(t *testing.T) {
	var h stroke.History
	a := newScripted(false)
	m := New(a, &h)

	require.NoError(t, m.Down(geom.Pt(0, 0), ButtonPrimary, at(0)))
	require.NoError(t, m.Move(geom.Pt(5, 0), at(10)))
	require.NoError(t, m.Move(geom.Pt(10, 0), at(20)))
	require.NoError(t, m.Up(geom.Pt(10, 0), ButtonPrimary, at(30)))

	require.Equal(t, 1, h.Len())
	assert.Equal(t, geom.Stroke{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 0}}, h.At(0))
	assert.Empty(t, a.calls)
	assert.Equal(t, 1, a.resets, "reset attempted once per stroke")
	assert.Equal(t, Stats{Committed: 1, Raw: 1}, m.Stats())
}

// Scenario C: engine output is committed in order, Down points then Up points.
func TestSmoothedStrokeUsesEngineOutput(t *testing.T) {
	var h stroke.History
	a := newScripted(true)
	a.outputs[ink.Down] = []geom.Point{{X: 1, Y: 1}, {X: 2, Y: 2}}
	a.outputs[ink.Up] = []geom.Point{{X: 3, Y: 3}, {X: 4, Y: 4}, {X: 5, Y: 5}}
	m := New(a, &h)

	require.NoError(t, m.Down(geom.Pt(0, 0), ButtonPrimary, at(0)))
	assert.Equal(t, CapturingSmoothed, m.State())
	require.NoError(t, m.Up(geom.Pt(9, 9), ButtonPrimary, at(50)))

	require.Equal(t, 1, h.Len())
	assert.Equal(t, geom.Stroke{{X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3}, {X: 4, Y: 4}, {X: 5, Y: 5}}, h.At(0))

	require.Len(t, a.calls, 2)
	assert.Equal(t, call{ink.Down, geom.Pt(0, 0), 0, 1}, a.calls[0])
	assert.Equal(t, call{ink.Up, geom.Pt(9, 9), 50 * time.Millisecond, 1}, a.calls[1])
	assert.Equal(t, Stats{Committed: 1, Smoothed: 1, Updates: 2}, m.Stats())
}

func TestMoveElapsedIsClampedAndRelative(t *testing.T) {
	var h stroke.History
	a := newScripted(true)
	m := New(a, &h)

	require.NoError(t, m.Down(geom.Pt(0, 0), ButtonPrimary, at(100)))
	require.NoError(t, m.Move(geom.Pt(1, 0), at(125)))
	require.NoError(t, m.Move(geom.Pt(2, 0), at(90))) // clock stepped backwards

	require.Len(t, a.calls, 3)
	assert.Equal(t, 25*time.Millisecond, a.calls[1].elapsed)
	assert.Equal(t, 25*time.Millisecond, a.calls[2].elapsed, "elapsed never decreases")

	// A new stroke starts counting from its own down event.
	require.NoError(t, m.Up(geom.Pt(2, 0), ButtonPrimary, at(130)))
	require.NoError(t, m.Down(geom.Pt(5, 5), ButtonPrimary, at(200)))
	require.NoError(t, m.Move(geom.Pt(6, 5), at(190)))
	require.NoError(t, m.Move(geom.Pt(7, 5), at(210)))
	require.Len(t, a.calls, 7)
	assert.Equal(t, time.Duration(0), a.calls[5].elapsed)
	assert.Equal(t, 10*time.Millisecond, a.calls[6].elapsed)
}

func TestBackwardClockKeepsStroke(t *testing.T) {
	var h stroke.History
	a := newScripted(true)
	m := New(a, &h)

	require.NoError(t, m.Down(geom.Pt(0, 0), ButtonPrimary, at(0)))
	require.NoError(t, m.Move(geom.Pt(20, 10), at(50)))
	require.NoError(t, m.Move(geom.Pt(30, 10), at(30)))
	require.NoError(t, m.Up(geom.Pt(40, 10), ButtonPrimary, at(40)))

	require.Equal(t, 1, h.Len())
	var got []time.Duration
	for _, c := range a.calls {
		got = append(got, c.elapsed)
	}
	assert.Equal(t, []time.Duration{0, 50 * time.Millisecond, 50 * time.Millisecond, 50 * time.Millisecond}, got)
	assert.Equal(t, Stats{Committed: 1, Smoothed: 1, Updates: 4}, m.Stats())
}

func TestEngineWithNoOutputStillCommits(t *testing.T) {
	var h stroke.History
	m := New(newScripted(true), &h)

	require.NoError(t, m.Down(geom.Pt(3, 4), ButtonPrimary, at(0)))
	require.NoError(t, m.Up(geom.Pt(3, 4), ButtonPrimary, at(5)))

	require.Equal(t, 1, h.Len())
	assert.Equal(t, geom.Stroke{{X: 3, Y: 4}}, h.At(0))
}

func TestIgnoredEvents(t *testing.T) {
	var h stroke.History
	a := newScripted(false)
	m := New(a, &h)

	require.NoError(t, m.Move(geom.Pt(1, 1), at(0)))
	require.NoError(t, m.Up(geom.Pt(1, 1), ButtonPrimary, at(0)))
	require.NoError(t, m.Down(geom.Pt(1, 1), ButtonSecondary, at(0)))
	assert.Equal(t, Idle, m.State())
	assert.Zero(t, a.resets)

	require.NoError(t, m.Down(geom.Pt(1, 1), ButtonPrimary, at(0)))
	require.NoError(t, m.Down(geom.Pt(7, 7), ButtonPrimary, at(5)), "second press is ignored")
	require.NoError(t, m.Up(geom.Pt(2, 2), ButtonMiddle, at(10)))
	assert.Equal(t, CapturingRaw, m.State(), "non-primary release does not end the stroke")

	require.NoError(t, m.Up(geom.Pt(2, 2), ButtonPrimary, at(20)))
	assert.Equal(t, geom.Stroke{{X: 1, Y: 1}, {X: 2, Y: 2}}, h.At(0))
	assert.Equal(t, 1, a.resets)
}

func TestUpdateFailureAbortsStroke(t *testing.T) {
	var h stroke.History
	a := newScripted(true)
	a.outputs[ink.Down] = []geom.Point{{X: 1, Y: 1}}
	cause := errors.New("engine fault")
	a.failOn[ink.Move] = cause
	m := New(a, &h)

	require.NoError(t, m.Down(geom.Pt(0, 0), ButtonPrimary, at(0)))
	err := m.Move(geom.Pt(1, 0), at(10))
	assert.ErrorIs(t, err, cause)

	assert.Equal(t, Idle, m.State())
	assert.Zero(t, h.Len(), "partial stroke is not committed")
	assert.Empty(t, m.Live())
	assert.Equal(t, 1, a.aborts)
	assert.Equal(t, 1, m.Stats().Aborted)

	// Later moves and the release are ignored; the next stroke works again.
	require.NoError(t, m.Move(geom.Pt(2, 0), at(20)))
	require.NoError(t, m.Up(geom.Pt(2, 0), ButtonPrimary, at(30)))
	delete(a.failOn, ink.Move)
	require.NoError(t, m.Down(geom.Pt(5, 5), ButtonPrimary, at(40)))
	require.NoError(t, m.Up(geom.Pt(5, 5), ButtonPrimary, at(50)))
	assert.Equal(t, 1, h.Len())
}

func TestUpFailureAbortsStroke(t *testing.T) {
	var h stroke.History
	a := newScripted(true)
	a.outputs[ink.Down] = []geom.Point{{X: 1, Y: 1}}
	a.failOn[ink.Up] = errors.New("engine fault")
	m := New(a, &h)

	require.NoError(t, m.Down(geom.Pt(0, 0), ButtonPrimary, at(0)))
	assert.Error(t, m.Up(geom.Pt(0, 0), ButtonPrimary, at(10)))
	assert.Equal(t, Idle, m.State())
	assert.Zero(t, h.Len())
}

func TestAbortAndClose(t *testing.T) {
	var h stroke.History
	a := newScripted(true)
	a.outputs[ink.Down] = []geom.Point{{X: 1, Y: 1}}
	m := New(a, &h)

	require.NoError(t, m.Down(geom.Pt(0, 0), ButtonPrimary, at(0)))
	assert.Len(t, m.Live(), 1)

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
	assert.Equal(t, 1, a.closes, "adapter released exactly once")
	assert.Equal(t, 1, a.aborts)
	assert.Equal(t, Idle, m.State())
	assert.Zero(t, h.Len())

	assert.ErrorIs(t, m.Down(geom.Pt(0, 0), ButtonPrimary, at(10)), ErrClosed)
	assert.ErrorIs(t, m.Move(geom.Pt(0, 0), at(10)), ErrClosed)
	assert.ErrorIs(t, m.Up(geom.Pt(0, 0), ButtonPrimary, at(10)), ErrClosed)
}

func TestCommittedStrokesAreNeverEmpty(t *testing.T) {
	for _, resetOK := range []bool{false, true} {
		var h stroke.History
		m := New(newScripted(resetOK), &h)
		for moves := 0; moves < 5; moves++ {
			require.NoError(t, m.Down(geom.Pt(0, 0), ButtonPrimary, at(0)))
			for i := 0; i < moves; i++ {
				require.NoError(t, m.Move(geom.Pt(float64(i), 1), at(i+1)))
			}
			require.NoError(t, m.Up(geom.Pt(9, 9), ButtonPrimary, at(moves+1)))
		}
		assert.Equal(t, 5, h.Len())
		h.Each(func(i int, s geom.Stroke) {
			assert.NotEmpty(t, s, "stroke %d (engine=%v)", i, resetOK)
		})
	}
}

func TestPredictionOnlyWhileSmoothing(t *testing.T) {
	var h stroke.History
	m := New(newScripted(false), &h)
	require.NoError(t, m.Down(geom.Pt(0, 0), ButtonPrimary, at(0)))
	assert.Nil(t, m.Prediction())
}

func TestNilAdapterCapturesRaw(t *testing.T) {
	var h stroke.History
	m := New(nil, &h)
	require.NoError(t, m.Down(geom.Pt(1, 2), ButtonPrimary, at(0)))
	assert.Equal(t, CapturingRaw, m.State())
	require.NoError(t, m.Close())
}
