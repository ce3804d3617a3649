package spatial

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/matzehuels/galaxygen/pkg/galaxy"
	"github.com/matzehuels/galaxygen/pkg/galaxy/randx"
)

func TestNewEmpty(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrEmpty) {
		t.Errorf("New(nil) error = %v, want ErrEmpty", err)
	}
}

func TestNearestSinglePoint(t *testing.T) {
	ix, err := New([]galaxy.Point{galaxy.Pt(10, 10)})
	if err != nil {
		t.Fatal(err)
	}

	p, d := ix.Nearest(13, 14)
	if p != galaxy.Pt(10, 10) {
		t.Errorf("Nearest = %v, want (10,10)", p)
	}
	if d != 5 {
		t.Errorf("distance = %v, want 5", d)
	}
}

func TestNearestMatchesBruteForce(t *testing.T) {
	rng := randx.New(5, "index")
	pts := make([]galaxy.Point, 300)
	for i := range pts {
		pts[i] = galaxy.Pt(rng.IntN(500), rng.IntN(500))
	}

	ix, err := New(pts)
	if err != nil {
		t.Fatal(err)
	}

	for range 200 {
		qx, qy := rng.Float64()*600-50, rng.Float64()*600-50
		_, got := ix.Nearest(qx, qy)

		want := math.Inf(1)
		for _, p := range pts {
			want = min(want, math.Hypot(float64(p.X)-qx, float64(p.Y)-qy))
		}
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("Nearest(%v, %v) distance = %v, brute force = %v", qx, qy, got, want)
		}
	}
}

func TestWithin(t *testing.T) {
	pts := []galaxy.Point{
		galaxy.Pt(0, 0),
		galaxy.Pt(3, 4),
		galaxy.Pt(6, 8),
		galaxy.Pt(100, 100),
	}
	ix, err := New(pts)
	if err != nil {
		t.Fatal(err)
	}

	got := ix.Within(galaxy.Pt(0, 0), 5)
	slices.SortFunc(got, func(a, b galaxy.Point) int { return a.X - b.X })
	want := []galaxy.Point{galaxy.Pt(0, 0), galaxy.Pt(3, 4)}
	if !slices.Equal(got, want) {
		t.Errorf("Within(origin, 5) = %v, want %v", got, want)
	}

	if got := ix.Within(galaxy.Pt(50, 50), 1); len(got) != 0 {
		t.Errorf("Within(empty region) = %v, want none", got)
	}
}

func TestIndexDoesNotAliasInput(t *testing.T) {
	pts := []galaxy.Point{galaxy.Pt(1, 2), galaxy.Pt(30, 40)}
	ix, _ := New(pts)
	pts[0] = galaxy.Pt(9, 9)

	if got, _ := ix.Nearest(1, 2); got != galaxy.Pt(1, 2) {
		t.Errorf("Nearest(1, 2) = %v, index should not alias the caller's slice", got)
	}
}
