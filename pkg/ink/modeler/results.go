package modeler

import "github.com/ha1tch/sightwords/pkg/geom"

// buffer is the pooled storage behind a Results value.
type buffer struct {
	points    []geom.Point
	predicted []geom.Point
}

// Results is the output of one Update. It is valid until Release.
type Results struct {
	buf *buffer
	m   *Modeler
}

func (m *Modeler) acquire() *Results {
	buf := m.pool.Get().(*buffer)
	buf.points = buf.points[:0]
	buf.predicted = buf.predicted[:0]
	m.outstanding++
	return &Results{buf: buf, m: m}
}

// Len returns the number of smoothed points.
func (r *Results) Len() int {
	if r.buf == nil {
		return 0
	}
	return len(r.buf.points)
}

// At returns the i-th smoothed point.
func (r *Results) At(i int) geom.Point {
	return r.buf.points[i]
}

// Predicted returns the extrapolated points. The slice is owned by the
// buffer and becomes invalid after Release.
func (r *Results) Predicted() []geom.Point {
	if r.buf == nil {
		return nil
	}
	return r.buf.predicted
}

// Release returns the storage to the modeler. Calling it again is a no-op.
func (r *Results) Release() {
	if r.buf == nil {
		return
	}
	r.m.pool.Put(r.buf)
	r.buf = nil
	r.m.outstanding--
}
