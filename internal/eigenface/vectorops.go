package eigenface

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DivideByMax divides every element of v by the largest element, in place.
// It is a no-op for an empty vector or when the maximum is 0.
func DivideByMax(v []float64) {
	if len(v) == 0 {
		return
	}
	m := floats.Max(v)
	if m == 0 {
		return
	}
	// Plain division keeps the maximum at exactly 1 so a second pass is a no-op.
	for i := range v {
		v[i] /= m
	}
}

// DivideByNorm divides every element of v by the sum of its squares, in place.
// This is not L2 normalization: the divisor is Σvᵢ², not its square root.
// Reconstruct relies on this scaling. It is a no-op when the sum is 0.
func DivideByNorm(v []float64) {
	sum := floats.Dot(v, v)
	if sum == 0 {
		return
	}
	for i := range v {
		v[i] /= sum
	}
}

// Normalized returns a max-normalized copy of v.
func Normalized(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	DivideByMax(out)
	return out
}

// ColumnMeans returns the mean of every column of rows. All rows must have
// the same length.
func ColumnMeans(rows [][]float64) []float64 {
	if len(rows) == 0 {
		return nil
	}
	cols := len(rows[0])
	means := make([]float64, cols)
	column := make([]float64, len(rows))
	for c := range cols {
		for r := range rows {
			column[r] = rows[r][c]
		}
		means[c] = stat.Mean(column, nil)
	}
	return means
}

// SubtractMeans subtracts means from every row, in place.
func SubtractMeans(rows [][]float64, means []float64) {
	for _, row := range rows {
		floats.Sub(row, means)
	}
}

// SubtractMeansVec subtracts means from v, in place.
func SubtractMeansVec(v, means []float64) {
	floats.Sub(v, means)
}

// AddMeansVec adds means to v, in place.
func AddMeansVec(v, means []float64) {
	floats.Add(v, means)
}
