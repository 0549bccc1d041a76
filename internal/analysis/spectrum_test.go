package analysis

import (
	"math"
	"testing"
)

func TestPowerSpectrumRemovesMean(t *testing.T) {
	ps := PowerSpectrum([]float64{5, 5, 5, 5})
	if len(ps) != 3 {
		t.Fatalf("len = %d, want 3", len(ps))
	}
	for i, v := range ps {
		if v > 1e-12 {
			t.Errorf("bin %d = %v, want 0", i, v)
		}
	}
	if PowerSpectrum(nil) != nil {
		t.Error("empty input should give no spectrum")
	}
}

func TestDominantPeriod(t *testing.T) {
	tests := []struct {
		name   string
		n      int
		period float64
	}{
		{"fast", 1024, 64},
		{"slow", 1024, 256},
		{"non power of two", 600, 100},
	}
	const dt = 17.0
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			samples := make([]float64, tt.n)
			for i := range samples {
				samples[i] = 3 + math.Sin(2*math.Pi*float64(i)/tt.period)
			}
			want := tt.period * dt
			if got := DominantPeriod(samples, dt); math.Abs(got-want) > 1e-6*want {
				t.Errorf("period = %v, want %v", got, want)
			}
		})
	}
}

func TestDominantPeriodFlat(t *testing.T) {
	if got := DominantPeriod([]float64{2, 2, 2, 2}, 1); got != 0 {
		t.Errorf("flat series period = %v", got)
	}
}
