package eigenface

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Reconstruct maps eigenspace weights back to an approximate pixel vector:
// each weight is scaled by its eigenvalue, the eigenfaces are summed with
// those coefficients and the pixel means are added back.
//
// The result is on the max-normalized scale (values near 0..1), not in the
// original pixel range. Reconstructing a RefWeights row returns the
// normalized gallery face when the gallery faces are linearly independent.
func (m *Model) Reconstruct(weights []float64) ([]float64, error) {
	if len(weights) != m.Rank() {
		return nil, fmt.Errorf("got %d weights, model rank is %d: %w", len(weights), m.Rank(), ErrDimensionMismatch)
	}
	return m.reconstruct(weights), nil
}

// reconstruct expects len(weights) == m.Rank().
func (m *Model) reconstruct(weights []float64) []float64 {
	pixels := make([]float64, m.Dim())
	for k, eigenface := range m.Eigenspace {
		floats.AddScaled(pixels, weights[k]*m.EigenValues[k], eigenface)
	}
	AddMeansVec(pixels, m.PixelMeans)
	return pixels
}

// ReconstructGallery reconstructs every gallery face from its RefWeights row.
func (m *Model) ReconstructGallery() [][]float64 {
	faces := make([][]float64, len(m.RefWeights))
	for i, w := range m.RefWeights {
		faces[i] = m.reconstruct(w)
	}
	return faces
}
