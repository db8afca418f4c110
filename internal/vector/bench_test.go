package vector

import "testing"

func benchRows(n, dim int, offset float32) [][]float32 {
	x := make([][]float32, n)
	for i := range x {
		x[i] = make([]float32, dim)
		for j := range x[i] {
			x[i][j] = float32((i+j)%7) + offset
		}
	}
	return x
}

func BenchmarkPairedCosineDistances(b *testing.B) {
	x := benchRows(1000, 1024, 0)
	y := benchRows(1000, 1024, 0.5)
	NormalizeRows(x)
	NormalizeRows(y)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = PairedCosineDistances(x, y)
	}
}

func BenchmarkDescribe(b *testing.B) {
	values := make([]float64, 10000)
	for i := range values {
		values[i] = float64(i%97) / 97
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Describe(values)
	}
}
