// Package vector provides distance, normalization and summary statistics over sentence encodings.
package vector

import (
	"errors"
	"fmt"
	"math"

	"github.com/hyperjump/ugcdrift/pkg/utils"
)

// ErrShapeMismatch is returned when two matrices cannot be compared row by row.
var ErrShapeMismatch = errors.New("vector: shape mismatch")

// NormalizeRows scales every row of x to unit L2 norm in place. All-zero rows are left as is.
func NormalizeRows(x [][]float32) {
	for _, row := range x {
		utils.NormalizeL2(row)
	}
}

// L2Norm returns the L2 norm of a vector.
func L2Norm(x []float32) float64 {
	return math.Sqrt(utils.Dot(x, x))
}

// CosineDistance returns 1 - cos(a, b). A zero vector is at distance 1 from everything.
// The result is clamped to [0, 2].
func CosineDistance(a, b []float32) float64 {
	na, nb := L2Norm(a), L2Norm(b)
	if na == 0 || nb == 0 {
		return 1
	}
	d := 1 - utils.Dot(a, b)/(na*nb)
	return math.Max(0, math.Min(2, d))
}

// PairedCosineDistances returns the cosine distance between x[i] and y[i] for every row.
// Both matrices must have the same number of rows and each pair the same dimension.
func PairedCosineDistances(x, y [][]float32) ([]float64, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: %d rows vs %d rows", ErrShapeMismatch, len(x), len(y))
	}
	out := make([]float64, len(x))
	for i := range x {
		if len(x[i]) != len(y[i]) {
			return nil, fmt.Errorf("%w: row %d has dimensions %d and %d", ErrShapeMismatch, i, len(x[i]), len(y[i]))
		}
		out[i] = CosineDistance(x[i], y[i])
	}
	return out, nil
}

// Mean returns the arithmetic mean of values, or NaN for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
