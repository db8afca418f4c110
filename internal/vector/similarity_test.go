package vector

import (
	"errors"
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestCosineDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 0},
		{"scaled", []float32{1, 2, 3}, []float32{2, 4, 6}, 0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 1},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, 2},
		{"zero vector", []float32{0, 0}, []float32{0, 1}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CosineDistance(tt.a, tt.b); !almostEqual(got, tt.want) {
				t.Errorf("CosineDistance = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPairedCosineDistances(t *testing.T) {
	x := [][]float32{{1, 0}, {0, 1}, {1, 1}}
	y := [][]float32{{1, 0}, {1, 0}, {-1, -1}}
	got, err := PairedCosineDistances(x, y)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(x) {
		t.Fatalf("expected %d distances, got %d", len(x), len(got))
	}
	want := []float64{0, 1, 2}
	for i := range want {
		if !almostEqual(got[i], want[i]) {
			t.Errorf("row %d: got %v, want %v", i, got[i], want[i])
		}
		if got[i] < 0 || got[i] > 2 {
			t.Errorf("row %d out of range: %v", i, got[i])
		}
	}
}

func TestPairedCosineDistances_mismatch(t *testing.T) {
	if _, err := PairedCosineDistances([][]float32{{1}}, nil); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("row mismatch: got %v", err)
	}
	if _, err := PairedCosineDistances([][]float32{{1, 2}}, [][]float32{{1}}); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("dim mismatch: got %v", err)
	}
}

func TestNormalizeRows(t *testing.T) {
	x := [][]float32{{3, 4}, {0, 0}}
	NormalizeRows(x)
	if !almostEqual(L2Norm(x[0]), 1) {
		t.Errorf("row 0 norm = %v", L2Norm(x[0]))
	}
	if x[1][0] != 0 || x[1][1] != 0 {
		t.Errorf("zero row changed: %v", x[1])
	}
}

func TestMean(t *testing.T) {
	if got := Mean([]float64{1, 2, 3}); got != 2 {
		t.Errorf("Mean = %v", got)
	}
	if !math.IsNaN(Mean(nil)) {
		t.Error("mean of empty sample should be NaN")
	}
}
