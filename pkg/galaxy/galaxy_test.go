package galaxy

import "testing"

func TestNewGeometry(t *testing.T) {
	g := NewGeometry(512)
	if g.Center != 256 {
		t.Errorf("Center = %d, want 256", g.Center)
	}
	if g.Scale != 25.6 {
		t.Errorf("Scale = %v, want 25.6", g.Scale)
	}

	inner, outer := g.Border()
	if inner != 25 || outer != 487 {
		t.Errorf("Border() = (%d, %d), want (25, 487)", inner, outer)
	}
}

func TestPointDist(t *testing.T) {
	if d := Pt(0, 0).Dist(Pt(3, 4)); d != 5 {
		t.Errorf("Dist = %v, want 5", d)
	}
	if d := Pt(7, 7).Dist(Pt(7, 7)); d != 0 {
		t.Errorf("Dist to self = %v, want 0", d)
	}
}

func TestPointIn(t *testing.T) {
	tests := []struct {
		p    Point
		want bool
	}{
		{Pt(25, 25), true},
		{Pt(486, 486), true},
		{Pt(487, 100), false},
		{Pt(100, 24), false},
	}
	for _, tt := range tests {
		if got := tt.p.In(25, 487); got != tt.want {
			t.Errorf("%v.In(25, 487) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestShapeRadius(t *testing.T) {
	want := map[Shape]int{
		ShapeDot:      0,
		ShapeCross:    2,
		ShapeBigCross: 2,
		ShapeX:        2,
		ShapeBigX:     3,
	}
	for s, r := range want {
		if got := s.Radius(); got != r {
			t.Errorf("%s.Radius() = %d, want %d", s, got, r)
		}
	}
	if len(Shapes) != len(want) {
		t.Errorf("Shapes has %d entries, want %d", len(Shapes), len(want))
	}
}

func TestShapeString(t *testing.T) {
	if ShapeBigX.String() != "big_x" {
		t.Errorf("ShapeBigX.String() = %q", ShapeBigX.String())
	}
	if s := Shape(42).String(); s != "shape(42)" {
		t.Errorf("unknown shape String() = %q", s)
	}
	if !ShapeX.Diagonal() || ShapeCross.Diagonal() {
		t.Error("only x shapes are diagonal")
	}
	if ShapeBigCross.ArmLength() != 2 {
		t.Errorf("ShapeBigCross.ArmLength() = %d", ShapeBigCross.ArmLength())
	}
}

func TestShapeTextRoundTrip(t *testing.T) {
	for _, s := range Shapes {
		text, err := s.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v): %v", s, err)
		}
		var got Shape
		if err := got.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", text, err)
		}
		if got != s {
			t.Errorf("round trip of %v gave %v", s, got)
		}
	}
	var s Shape
	if err := s.UnmarshalText([]byte("spiral")); err == nil {
		t.Error("expected error for unknown shape")
	}
}
