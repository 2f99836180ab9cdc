package geom

import (
	"math"
	"testing"
)

func TestPointArithmetic(t *testing.T) {
	a := Pt(1, 2)
	b := Pt(4, 6)

	if got := a.Add(b); got != Pt(5, 8) {
		t.Errorf("Add: got %v", got)
	}
	if got := b.Sub(a); got != Pt(3, 4) {
		t.Errorf("Sub: got %v", got)
	}
	if got := a.Mul(3); got != Pt(3, 6) {
		t.Errorf("Mul: got %v", got)
	}
	if got := a.Distance(b); got != 5 {
		t.Errorf("Distance: got %v, want 5", got)
	}
	if got := a.Lerp(b, 0.5); got != Pt(2.5, 4) {
		t.Errorf("Lerp: got %v", got)
	}
}

func TestPointFinite(t *testing.T) {
	tests := []struct {
		p    Point
		want bool
	}{
		{Pt(0, 0), true},
		{Pt(math.NaN(), 0), false},
		{Pt(0, math.Inf(1)), false},
		{Pt(-1e300, 1e300), true},
	}
	for _, tt := range tests {
		if got := tt.p.Finite(); got != tt.want {
			t.Errorf("%v.Finite() = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestStrokeCloneIsIndependent(t *testing.T) {
	s := Stroke{Pt(1, 1), Pt(2, 2)}
	c := s.Clone()
	s[0] = Pt(9, 9)

	if c[0] != Pt(1, 1) {
		t.Errorf("clone shares storage: %v", c)
	}
	if Stroke(nil).Clone() != nil {
		t.Error("nil clone should stay nil")
	}
}

func TestStrokeLengthAndBounds(t *testing.T) {
	s := Stroke{Pt(0, 0), Pt(3, 4), Pt(3, 10)}

	if got := s.Length(); got != 11 {
		t.Errorf("Length: got %v, want 11", got)
	}

	b := s.Bounds()
	if b.Min != Pt(0, 0) || b.Max != Pt(3, 10) {
		t.Errorf("Bounds: got %+v", b)
	}
	if b.Dx() != 3 || b.Dy() != 10 {
		t.Errorf("Dx/Dy: got %v/%v", b.Dx(), b.Dy())
	}

	grown := b.Inset(-2)
	if grown.Min != Pt(-2, -2) || grown.Max != Pt(5, 12) {
		t.Errorf("Inset: got %+v", grown)
	}
}
