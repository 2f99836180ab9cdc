// Package recording stores pointer sessions as JSON so they can be replayed
// onto a surface, rendered offline or attached to bug reports.
package recording

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/ha1tch/sightwords/pkg/capture"
)

// Version is the format version written by Encode.
const Version = 1

var (
	// ErrVersion is returned when decoding a recording of another version.
	ErrVersion = errors.New("unsupported recording version")
	// ErrInvalid is returned for structurally invalid recordings.
	ErrInvalid = errors.New("invalid recording")
)

// Kind is the type of a recorded event.
type Kind string

const (
	KindDown   Kind = "down"
	KindMove   Kind = "move"
	KindUp     Kind = "up"
	KindResize Kind = "resize"
	KindWord   Kind = "word"
	KindClear  Kind = "clear"
)

// Event is one recorded input. T is milliseconds since the recording began.
type Event struct {
	Kind   Kind           `json:"kind"`
	X      float64        `json:"x,omitempty"`
	Y      float64        `json:"y,omitempty"`
	Button capture.Button `json:"button,omitempty"`
	T      int64          `json:"t"`
	W      int            `json:"w,omitempty"`
	H      int            `json:"h,omitempty"`
	Word   string         `json:"word,omitempty"`
}

// Recording is a recorded session.
type Recording struct {
	Version int     `json:"version"`
	Width   int     `json:"width"`
	Height  int     `json:"height"`
	Word    string  `json:"word,omitempty"`
	Events  []Event `json:"events"`
}

// Decode parses and validates a recording.
func Decode(data []byte) (*Recording, error) {
	var r Recording
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Encode serializes r.
func Encode(r *Recording, pretty bool) ([]byte, error) {
	if r.Version == 0 {
		r.Version = Version
	}
	if pretty {
		return json.MarshalIndent(r, "", "  ")
	}
	return json.Marshal(r)
}

// Load reads a recording file.
func Load(path string) (*Recording, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// Save writes r to path as indented JSON.
func Save(path string, r *Recording) error {
	data, err := Encode(r, true)
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// Write encodes r to w as indented JSON.
func Write(w io.Writer, r *Recording) error {
	data, err := Encode(r, true)
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// Validate checks the version, sizes and event order.
func (r *Recording) Validate() error {
	if r.Version != Version {
		return fmt.Errorf("%w: %d", ErrVersion, r.Version)
	}
	if r.Width < 0 || r.Height < 0 {
		return fmt.Errorf("%w: negative size %dx%d", ErrInvalid, r.Width, r.Height)
	}

	var last int64
	for i, e := range r.Events {
		if e.T < 0 || e.T < last {
			return fmt.Errorf("%w: event %d at %dms goes back in time", ErrInvalid, i, e.T)
		}
		last = e.T

		switch e.Kind {
		case KindDown, KindMove, KindUp:
			if math.IsNaN(e.X) || math.IsNaN(e.Y) || math.IsInf(e.X, 0) || math.IsInf(e.Y, 0) {
				return fmt.Errorf("%w: event %d has a non-finite position", ErrInvalid, i)
			}
		case KindResize:
			if e.W < 0 || e.H < 0 {
				return fmt.Errorf("%w: event %d resizes to %dx%d", ErrInvalid, i, e.W, e.H)
			}
		case KindWord:
			if e.Word == "" {
				return fmt.Errorf("%w: event %d selects an empty word", ErrInvalid, i)
			}
		case KindClear:
		default:
			return fmt.Errorf("%w: event %d has unknown kind %q", ErrInvalid, i, e.Kind)
		}
	}
	return nil
}

// Duration returns the time between the first and last event.
func (r *Recording) Duration() time.Duration {
	if len(r.Events) == 0 {
		return 0
	}
	return time.Duration(r.Events[len(r.Events)-1].T-r.Events[0].T) * time.Millisecond
}

// Summary counts a recording's events.
type Summary struct {
	Events  int
	Strokes int // primary button presses
	Resizes int
	Words   []string
}

// Summarize counts r's events.
func (r *Recording) Summarize() Summary {
	s := Summary{Events: len(r.Events)}
	if r.Word != "" {
		s.Words = append(s.Words, r.Word)
	}
	for _, e := range r.Events {
		switch e.Kind {
		case KindDown:
			if e.Button == capture.ButtonPrimary {
				s.Strokes++
			}
		case KindResize:
			s.Resizes++
		case KindWord:
			s.Words = append(s.Words, e.Word)
		}
	}
	return s
}
