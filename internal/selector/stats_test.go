package selector

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMean(t *testing.T) {
	if got := mean(nil); got != 0 {
		t.Errorf("mean(nil) = %v, want 0", got)
	}
	if got := mean([]float64{2, 4, 6}); !almostEqual(got, 4) {
		t.Errorf("mean = %v, want 4", got)
	}
}

func TestStddev(t *testing.T) {
	if got := stddev([]float64{5}); got != 0 {
		t.Errorf("stddev(single) = %v, want 0", got)
	}
	// Population stddev of {2, 4, 4, 4, 5, 5, 7, 9} is 2.
	xs := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	if got := stddev(xs); !almostEqual(got, 2) {
		t.Errorf("stddev = %v, want 2", got)
	}
}

func TestCorrelation(t *testing.T) {
	tests := []struct {
		name string
		xs   []float64
		ys   []float64
		want float64
	}{
		{"perfect positive", []float64{1, 2, 3}, []float64{2, 4, 6}, 1},
		{"perfect negative", []float64{1, 2, 3}, []float64{6, 4, 2}, -1},
		{"constant side", []float64{1, 2, 3}, []float64{5, 5, 5}, 0},
		{"too short", []float64{1}, []float64{2}, 0},
		{"length mismatch", []float64{1, 2}, []float64{1, 2, 3}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := correlation(tt.xs, tt.ys); !almostEqual(got, tt.want) {
				t.Errorf("correlation = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMinMaxNormalize(t *testing.T) {
	got := minMaxNormalize([]float64{2, 4, 6})
	want := []float64{0, 0.5, 1}
	for i := range want {
		if !almostEqual(got[i], want[i]) {
			t.Errorf("normalize[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestMinMaxNormalize_Degenerate(t *testing.T) {
	// Single member and constant sets both map every member to 0.5.
	for _, xs := range [][]float64{{7}, {3, 3, 3}} {
		for i, v := range minMaxNormalize(xs) {
			if v != 0.5 {
				t.Errorf("normalize(%v)[%d] = %v, want 0.5", xs, i, v)
			}
		}
	}
}
