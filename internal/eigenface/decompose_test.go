package eigenface

import (
	"errors"
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func decomposers() map[string]Decomposer {
	return map[string]Decomposer{
		"gonum":  SymmetricDecomposer{},
		"jacobi": JacobiDecomposer{},
	}
}

// requireEigenPairs checks A·v = λ·v and |v| = 1 for every pair.
func requireEigenPairs(t *testing.T, a *mat.SymDense, pairs []EigenPair) {
	t.Helper()
	n := a.SymmetricDim()
	require.Len(t, pairs, n)
	for k, p := range pairs {
		require.Len(t, p.Vector, n)
		assert.InDelta(t, 1.0, floats.Norm(p.Vector, 2), 1e-9, "pair %d not unit length", k)

		v := mat.NewVecDense(n, p.Vector)
		var av mat.VecDense
		av.MulVec(a, v)
		for i := range n {
			assert.InDelta(t, p.Value*p.Vector[i], av.AtVec(i), 1e-9, "pair %d row %d", k, i)
		}
	}
}

func sortedValues(pairs []EigenPair) []float64 {
	values := make([]float64, len(pairs))
	for i, p := range pairs {
		values[i] = p.Value
	}
	sort.Float64s(values)
	return values
}

func TestDecompose_TwoByTwo(t *testing.T) {
	a := mat.NewSymDense(2, []float64{
		2, 1,
		1, 2,
	})
	for name, d := range decomposers() {
		t.Run(name, func(t *testing.T) {
			pairs, err := d.Decompose(a)
			require.NoError(t, err)
			requireEigenPairs(t, a, pairs)
			assert.InDeltaSlice(t, []float64{1, 3}, sortedValues(pairs), 1e-9)
		})
	}
}

func TestDecompose_Diagonal(t *testing.T) {
	a := mat.NewSymDense(3, []float64{
		5, 0, 0,
		0, 1, 0,
		0, 0, 3,
	})
	for name, d := range decomposers() {
		t.Run(name, func(t *testing.T) {
			pairs, err := d.Decompose(a)
			require.NoError(t, err)
			requireEigenPairs(t, a, pairs)
			assert.InDeltaSlice(t, []float64{1, 3, 5}, sortedValues(pairs), 1e-12)
		})
	}
}

func TestDecompose_Dense(t *testing.T) {
	a := mat.NewSymDense(5, nil)
	for i := range 5 {
		for j := i; j < 5; j++ {
			a.SetSym(i, j, math.Sin(float64(i*5+j+1))+float64(i+j)/3)
		}
	}
	gonumPairs, err := SymmetricDecomposer{}.Decompose(a)
	require.NoError(t, err)
	requireEigenPairs(t, a, gonumPairs)

	jacobiPairs, err := JacobiDecomposer{}.Decompose(a)
	require.NoError(t, err)
	requireEigenPairs(t, a, jacobiPairs)

	assert.InDeltaSlice(t, sortedValues(gonumPairs), sortedValues(jacobiPairs), 1e-9)
}

func TestDecompose_ZeroMatrix(t *testing.T) {
	a := mat.NewSymDense(3, nil)
	for name, d := range decomposers() {
		t.Run(name, func(t *testing.T) {
			pairs, err := d.Decompose(a)
			require.NoError(t, err)
			require.Len(t, pairs, 3)
			for _, p := range pairs {
				assert.InDelta(t, 0.0, p.Value, 1e-12)
			}
		})
	}
}

func TestJacobiDecomposer_SweepLimit(t *testing.T) {
	a := mat.NewSymDense(5, nil)
	for i := range 5 {
		for j := i; j < 5; j++ {
			a.SetSym(i, j, float64(1+i*j)+math.Cos(float64(i+2*j)))
		}
	}
	_, err := JacobiDecomposer{Tol: 1e-300, MaxSweeps: 1}.Decompose(a)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDecompositionFailed))
}

func TestSortDescending(t *testing.T) {
	pairs := []EigenPair{
		{Value: 1, Vector: []float64{0}},
		{Value: 3, Vector: []float64{1}},
		{Value: 2, Vector: []float64{2}},
		{Value: 3, Vector: []float64{3}},
	}
	SortDescending(pairs)

	var got []float64
	for _, p := range pairs {
		got = append(got, p.Vector[0])
	}
	// Equal eigenvalues keep their input order.
	assert.Equal(t, []float64{1, 3, 2, 0}, got)
}
