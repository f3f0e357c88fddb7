package eigenface

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Project maps face into eigenspace coordinates. The face is max-normalized
// and centered on a copy; the input is left untouched.
func (m *Model) Project(face FaceVector) ([]float64, error) {
	if len(face) != m.Dim() {
		return nil, fmt.Errorf("face has %d pixels, model expects %d: %w", len(face), m.Dim(), ErrDimensionMismatch)
	}
	if err := validatePixels(face); err != nil {
		return nil, fmt.Errorf("probe: %w", err)
	}
	centered := Normalized(face)
	SubtractMeansVec(centered, m.PixelMeans)
	return m.weights(centered), nil
}

// weights returns the dot product of a centered face with every eigenface.
func (m *Model) weights(centered []float64) []float64 {
	w := make([]float64, len(m.Eigenspace))
	for k, eigenface := range m.Eigenspace {
		w[k] = floats.Dot(eigenface, centered)
	}
	return w
}
