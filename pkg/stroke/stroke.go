// Package stroke holds the in-progress stroke buffer and the history of
// committed strokes.
package stroke

import (
	"errors"

	"github.com/ha1tch/sightwords/pkg/geom"
)

// ErrEmptyStroke is returned when committing a stroke without points.
var ErrEmptyStroke = errors.New("empty stroke")

// Buffer is the mutable stroke being captured.
type Buffer struct {
	points geom.Stroke
}

// NewBuffer creates a buffer with room for capacity points.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{points: make(geom.Stroke, 0, capacity)}
}

// Append adds points to the end of the buffer.
func (b *Buffer) Append(points ...geom.Point) {
	b.points = append(b.points, points...)
}

// Len returns the number of buffered points.
func (b *Buffer) Len() int {
	return len(b.points)
}

// Last returns the most recent point, if any.
func (b *Buffer) Last() (geom.Point, bool) {
	if len(b.points) == 0 {
		return geom.Point{}, false
	}
	return b.points[len(b.points)-1], true
}

// Points returns a copy of the buffered points.
func (b *Buffer) Points() geom.Stroke {
	return b.points.Clone()
}

// Take returns the buffered points and empties the buffer, keeping its
// capacity for the next stroke.
func (b *Buffer) Take() geom.Stroke {
	out := b.points.Clone()
	b.points = b.points[:0]
	return out
}

// Reset empties the buffer.
func (b *Buffer) Reset() {
	b.points = b.points[:0]
}

// History is the ordered, append-only list of committed strokes.
type History struct {
	strokes []geom.Stroke
}

// Append adds a copy of s to the end of the history.
func (h *History) Append(s geom.Stroke) error {
	if len(s) == 0 {
		return ErrEmptyStroke
	}
	h.strokes = append(h.strokes, s.Clone())
	return nil
}

// Clear removes every stroke.
func (h *History) Clear() {
	clear(h.strokes)
	h.strokes = h.strokes[:0]
}

// Len returns the number of committed strokes.
func (h *History) Len() int {
	return len(h.strokes)
}

// At returns a copy of the i-th stroke, oldest first.
func (h *History) At(i int) geom.Stroke {
	return h.strokes[i].Clone()
}

// All returns copies of every stroke, oldest first.
func (h *History) All() []geom.Stroke {
	out := make([]geom.Stroke, len(h.strokes))
	for i, s := range h.strokes {
		out[i] = s.Clone()
	}
	return out
}

// Each calls fn for every stroke, oldest first, without copying. fn must not
// retain or modify the slice.
func (h *History) Each(fn func(i int, s geom.Stroke)) {
	for i, s := range h.strokes {
		fn(i, s)
	}
}

// Points returns the total number of points across all strokes.
func (h *History) Points() int {
	n := 0
	for _, s := range h.strokes {
		n += len(s)
	}
	return n
}
