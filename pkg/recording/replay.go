package recording

import (
	"errors"
	"fmt"
	"time"

	"github.com/ha1tch/sightwords/pkg/capture"
	"github.com/ha1tch/sightwords/pkg/surface"
)

// Recorder appends events to a recording as they happen.
type Recorder struct {
	start time.Time
	rec   Recording
}

// NewRecorder starts a recording of a w x h surface showing word.
func NewRecorder(w, h int, word string, start time.Time) *Recorder {
	return &Recorder{
		start: start,
		rec:   Recording{Version: Version, Width: w, Height: h, Word: word},
	}
}

func (r *Recorder) add(e Event, at time.Time) {
	e.T = max(at.Sub(r.start).Milliseconds(), 0)
	if n := len(r.rec.Events); n > 0 {
		e.T = max(e.T, r.rec.Events[n-1].T)
	}
	r.rec.Events = append(r.rec.Events, e)
}

// Down records a button press.
func (r *Recorder) Down(x, y float64, b capture.Button, at time.Time) {
	r.add(Event{Kind: KindDown, X: x, Y: y, Button: b}, at)
}

// Move records pointer motion.
func (r *Recorder) Move(x, y float64, at time.Time) {
	r.add(Event{Kind: KindMove, X: x, Y: y}, at)
}

// Up records a button release.
func (r *Recorder) Up(x, y float64, b capture.Button, at time.Time) {
	r.add(Event{Kind: KindUp, X: x, Y: y, Button: b}, at)
}

// Resize records a viewport change.
func (r *Recorder) Resize(w, h int, at time.Time) {
	r.add(Event{Kind: KindResize, W: w, H: h}, at)
}

// Word records a change of target word.
func (r *Recorder) Word(word string, at time.Time) {
	r.add(Event{Kind: KindWord, Word: word}, at)
}

// Clear records the strokes being cleared.
func (r *Recorder) Clear(at time.Time) {
	r.add(Event{Kind: KindClear}, at)
}

// Len returns the number of recorded events.
func (r *Recorder) Len() int {
	return len(r.rec.Events)
}

// Recording returns a copy of what has been recorded so far.
func (r *Recorder) Recording() *Recording {
	out := r.rec
	out.Events = append([]Event(nil), r.rec.Events...)
	return &out
}

// epoch anchors replayed timestamps; only differences matter.
var epoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Replay resizes s to the recording's size, selects its word and feeds every
// event to it in order. A failed stroke does not stop the replay; all
// stroke errors are returned together.
func Replay(rec *Recording, s *surface.Surface) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	s.Resize(rec.Width, rec.Height)
	if rec.Word != "" {
		s.SetWord(rec.Word)
	}

	var errs []error
	for i, e := range rec.Events {
		at := epoch.Add(time.Duration(e.T) * time.Millisecond)
		var err error
		switch e.Kind {
		case KindDown:
			err = s.PointerDownAt(e.X, e.Y, e.Button, at)
		case KindMove:
			err = s.PointerMoveAt(e.X, e.Y, at)
		case KindUp:
			err = s.PointerUpAt(e.X, e.Y, e.Button, at)
		case KindResize:
			s.Resize(e.W, e.H)
		case KindWord:
			s.SetWord(e.Word)
		case KindClear:
			s.Clear()
		}
		if err != nil {
			if errors.Is(err, capture.ErrClosed) {
				return err
			}
			errs = append(errs, fmt.Errorf("event %d (%s): %w", i, e.Kind, err))
		}
	}
	return errors.Join(errs...)
}
