package randx

import (
	"testing"

	"github.com/montanaflynn/stats"
)

func TestNewIsReproducible(t *testing.T) {
	a := New(42, "stars")
	b := New(42, "stars")
	for range 100 {
		if a.Uint64() != b.Uint64() {
			t.Fatal("same seed and task should produce the same stream")
		}
	}
}

func TestNewTasksDiffer(t *testing.T) {
	a := New(42, "stars")
	b := New(42, "dust")
	same := 0
	for range 100 {
		if a.Uint64() == b.Uint64() {
			same++
		}
	}
	if same == 100 {
		t.Error("different tasks should not share a stream")
	}
}

func TestUniformDegenerate(t *testing.T) {
	rng := New(1, "t")
	for range 10 {
		if v := Uniform(rng, 0.2, 0.2); v != 0.2 {
			t.Fatalf("Uniform(0.2, 0.2) = %v", v)
		}
	}
}

func TestNormalZeroSigma(t *testing.T) {
	rng := New(1, "t")
	for range 10 {
		if v := Normal(rng, 0, 0); v != 0 {
			t.Fatalf("Normal(0, 0) = %v", v)
		}
	}
}

func TestIntRange(t *testing.T) {
	rng := New(7, "t")
	seen := map[int]bool{}
	for range 500 {
		v := IntRange(rng, 3, 8)
		if v < 3 || v > 8 {
			t.Fatalf("IntRange(3, 8) = %d", v)
		}
		seen[v] = true
	}
	if len(seen) != 6 {
		t.Errorf("IntRange(3, 8) covered %d values, want 6", len(seen))
	}
	if v := IntRange(rng, 5, 5); v != 5 {
		t.Errorf("IntRange(5, 5) = %d", v)
	}
}

func TestBetaMean(t *testing.T) {
	tests := []struct {
		alpha, beta float64
	}{
		{2, 5},
		{5, 2},
		{0.5, 0.5},
		{1, 1},
	}

	for _, tt := range tests {
		rng := New(99, "beta")
		samples := make([]float64, 20000)
		for i := range samples {
			v := Beta(rng, tt.alpha, tt.beta)
			if v < 0 || v > 1 {
				t.Fatalf("Beta(%v, %v) = %v out of [0,1]", tt.alpha, tt.beta, v)
			}
			samples[i] = v
		}
		mean, _ := stats.Mean(samples)
		want := tt.alpha / (tt.alpha + tt.beta)
		if d := mean - want; d > 0.02 || d < -0.02 {
			t.Errorf("Beta(%v, %v) mean = %.3f, want %.3f", tt.alpha, tt.beta, mean, want)
		}
	}
}

func TestExpMean(t *testing.T) {
	rng := New(3, "exp")
	samples := make([]float64, 20000)
	for i := range samples {
		samples[i] = Exp(rng, 0.6)
	}
	mean, _ := stats.Mean(samples)
	if d := mean - 1/0.6; d > 0.05 || d < -0.05 {
		t.Errorf("Exp(0.6) mean = %.3f, want %.3f", mean, 1/0.6)
	}
}
