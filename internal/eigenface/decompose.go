package eigenface

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Decomposer computes all eigenpairs of a real symmetric matrix.
// The returned pairs are in no particular order.
type Decomposer interface {
	Decompose(a *mat.SymDense) ([]EigenPair, error)
}

// SymmetricDecomposer uses gonum's LAPACK-backed symmetric eigen solver.
type SymmetricDecomposer struct{}

// Decompose implements Decomposer.
func (SymmetricDecomposer) Decompose(a *mat.SymDense) ([]EigenPair, error) {
	n := a.SymmetricDim()

	var es mat.EigenSym
	if ok := es.Factorize(a, true); !ok {
		return nil, fmt.Errorf("symmetric %dx%d: %w", n, n, ErrDecompositionFailed)
	}

	values := es.Values(nil)
	var vectors mat.Dense
	es.VectorsTo(&vectors)

	return collectPairs(values, vectors.At), nil
}

// Default Jacobi settings.
const (
	DefaultJacobiTolerance = 1e-12
	DefaultJacobiSweeps    = 100
)

// JacobiDecomposer diagonalizes the matrix with cyclic Jacobi rotations.
// Tol is relative to the Frobenius norm of the input; MaxSweeps caps the
// number of full passes over the off-diagonal elements.
type JacobiDecomposer struct {
	Tol       float64
	MaxSweeps int
}

// Decompose implements Decomposer. It returns ErrDecompositionFailed when
// the off-diagonal mass is still above tolerance after MaxSweeps passes.
func (d JacobiDecomposer) Decompose(a *mat.SymDense) ([]EigenPair, error) {
	tol := d.Tol
	if tol <= 0 {
		tol = DefaultJacobiTolerance
	}
	maxSweeps := d.MaxSweeps
	if maxSweeps <= 0 {
		maxSweeps = DefaultJacobiSweeps
	}

	n := a.SymmetricDim()
	work := make([][]float64, n)
	vecs := make([][]float64, n)
	for i := range n {
		work[i] = make([]float64, n)
		vecs[i] = make([]float64, n)
		vecs[i][i] = 1
		for j := range n {
			work[i][j] = a.At(i, j)
		}
	}

	limit := tol * frobenius(work)
	for sweep := 0; ; sweep++ {
		if offDiagonal(work) <= limit {
			break
		}
		if sweep == maxSweeps {
			return nil, fmt.Errorf("jacobi %dx%d after %d sweeps: %w", n, n, maxSweeps, ErrDecompositionFailed)
		}
		for p := 0; p < n-1; p++ {
			for q := p + 1; q < n; q++ {
				rotate(work, vecs, p, q)
			}
		}
	}

	values := make([]float64, n)
	for i := range n {
		values[i] = work[i][i]
	}
	return collectPairs(values, func(i, j int) float64 { return vecs[i][j] }), nil
}

// rotate applies the Jacobi rotation that zeroes work[p][q] and accumulates
// it into vecs.
func rotate(work, vecs [][]float64, p, q int) {
	apq := work[p][q]
	if apq == 0 {
		return
	}
	theta := (work[q][q] - work[p][p]) / (2 * apq)
	t := math.Copysign(1, theta) / (math.Abs(theta) + math.Sqrt(theta*theta+1))
	c := 1 / math.Sqrt(t*t+1)
	s := t * c

	n := len(work)
	for k := range n {
		akp, akq := work[k][p], work[k][q]
		work[k][p] = c*akp - s*akq
		work[k][q] = s*akp + c*akq
	}
	for k := range n {
		apk, aqk := work[p][k], work[q][k]
		work[p][k] = c*apk - s*aqk
		work[q][k] = s*apk + c*aqk
	}
	for k := range n {
		vkp, vkq := vecs[k][p], vecs[k][q]
		vecs[k][p] = c*vkp - s*vkq
		vecs[k][q] = s*vkp + c*vkq
	}
}

func frobenius(m [][]float64) float64 {
	var sum float64
	for i := range m {
		for _, v := range m[i] {
			sum += v * v
		}
	}
	return math.Sqrt(sum)
}

func offDiagonal(m [][]float64) float64 {
	var sum float64
	for i := range m {
		for j, v := range m[i] {
			if i != j {
				sum += v * v
			}
		}
	}
	return math.Sqrt(sum)
}

// collectPairs pairs values[k] with column k of the eigenvector matrix.
func collectPairs(values []float64, at func(i, j int) float64) []EigenPair {
	n := len(values)
	pairs := make([]EigenPair, n)
	for k := range n {
		vec := make([]float64, n)
		for i := range n {
			vec[i] = at(i, k)
		}
		pairs[k] = EigenPair{Value: values[k], Vector: vec}
	}
	return pairs
}

// SortDescending orders pairs by eigenvalue, largest first. Equal values
// keep their input order.
func SortDescending(pairs []EigenPair) {
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].Value > pairs[j].Value
	})
}
