package spiral

import (
	"math"
	"testing"

	"github.com/matzehuels/galaxygen/pkg/galaxy"
	"github.com/matzehuels/galaxygen/pkg/galaxy/randx"
)

var testProfile = galaxy.Profile{Tightness: 4, Bar: 0.5, CoreSpread: 1, CoreChance: 0.1}

func TestPointWithoutNoiseIsStable(t *testing.T) {
	m := New(testProfile, 4, galaxy.NewGeometry(512))
	rng := randx.New(1, "spiral")

	for _, r := range []float64{0.1, 1, 2.5, 7, 14.9} {
		for arm := range 4 {
			a := m.Point(rng, arm, r, 0, 0)
			b := m.Point(rng, arm, r, 0, 0)
			if a != b {
				t.Errorf("arm %d radius %v: %v != %v with zero fragmentation", arm, r, a, b)
			}
		}
	}
}

func TestPointWithNoiseVaries(t *testing.T) {
	m := New(testProfile, 4, galaxy.NewGeometry(2000))
	rng := randx.New(1, "spiral")

	first := m.Point(rng, 0, 10, 5, 0)
	for range 20 {
		if m.Point(rng, 0, 10, 5, 0) != first {
			return
		}
	}
	t.Error("fragmentation should scatter repeated samples")
}

func TestArmOffset(t *testing.T) {
	for _, arms := range []int{3, 4, 5, 7} {
		m := New(testProfile, arms, galaxy.NewGeometry(512))
		for arm := 0; arm < arms-1; arm++ {
			d := m.Theta(arm+1, 3, 0, 0) - m.Theta(arm, 3, 0, 0)
			if want := 2 * math.Pi / float64(arms); math.Abs(d-want) > 1e-12 {
				t.Errorf("arms=%d arm %d→%d: Δθ = %v, want %v", arms, arm, arm+1, d, want)
			}
		}
	}
}

func TestThetaDrift(t *testing.T) {
	m := New(testProfile, 4, galaxy.NewGeometry(512))
	d := m.Theta(0, 2, 0, 36) - m.Theta(0, 2, 0, 0)
	if math.Abs(d-0.1) > 1e-12 {
		t.Errorf("drift 36 should rotate by 0.1 rad, got %v", d)
	}
}

func TestProjectAtZeroRadius(t *testing.T) {
	m := New(testProfile, 4, galaxy.NewGeometry(512))
	if p := m.Project(0, 1.234); p != galaxy.Pt(256, 256) {
		t.Errorf("Project(0, θ) = %v, want center", p)
	}
}

func TestWithScale(t *testing.T) {
	m := New(testProfile, 4, galaxy.NewGeometry(400))
	half := m.WithScale(m.Scale * 0.5)
	if half.Scale != 10 || m.Scale != 20 {
		t.Errorf("WithScale should copy: got %v and %v", half.Scale, m.Scale)
	}

	full := m.Project(4, 0)
	small := half.Project(4, 0)
	if full.X-200 != 2*(small.X-200) {
		t.Errorf("half scale should halve the offset: %v vs %v", full, small)
	}
}
