package eigenface

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// Model is a trained eigenspace. It is immutable once Train returns and may be
// shared between goroutines.
type Model struct {
	// PixelMeans is the per-pixel mean of the max-normalized gallery (length N).
	PixelMeans []float64
	// EigenValues holds the M-1 largest eigenvalues, aligned with Eigenspace rows.
	EigenValues []float64
	// Eigenspace holds M-1 eigenfaces of length N.
	Eigenspace [][]float64
	// RefWeights holds the projection of every gallery face (M rows of M-1 weights).
	RefWeights [][]float64
}

// Size returns the number of gallery faces the model was trained on.
func (m *Model) Size() int { return len(m.RefWeights) }

// Rank returns the number of eigenfaces (M-1).
func (m *Model) Rank() int { return len(m.Eigenspace) }

// Dim returns the pixel count N of the faces the model accepts.
func (m *Model) Dim() int { return len(m.PixelMeans) }

// Trainer builds models. The zero value uses SymmetricDecomposer and one
// normalization worker per CPU.
type Trainer struct {
	Decomposer Decomposer
	Workers    int
}

// NewTrainer returns a Trainer that decomposes with d.
func NewTrainer(d Decomposer, workers int) *Trainer {
	return &Trainer{Decomposer: d, Workers: workers}
}

// Train builds a model from gallery with the default Trainer.
func Train(gallery Gallery) (*Model, error) {
	return (&Trainer{}).Train(gallery)
}

// Train builds the eigenspace of gallery and projects every gallery face into it.
// The gallery itself is not modified.
//
// A single-face gallery yields a rank-0 model: every probe projects to an
// empty weight vector and matches index 0 at distance 0.
func (t *Trainer) Train(gallery Gallery) (*Model, error) {
	if len(gallery) == 0 {
		return nil, ErrEmptyGallery
	}
	dim, err := validateGallery(gallery)
	if err != nil {
		return nil, err
	}

	centered := normalizeRows(gallery, t.workers())
	means := ColumnMeans(centered)
	SubtractMeans(centered, means)

	eigenspace, values, err := t.buildEigenspace(centered, dim)
	if err != nil {
		return nil, err
	}

	model := &Model{
		PixelMeans:  means,
		EigenValues: values,
		Eigenspace:  eigenspace,
		RefWeights:  make([][]float64, len(centered)),
	}
	for i, row := range centered {
		model.RefWeights[i] = model.weights(row)
	}
	return model, nil
}

// buildEigenspace decomposes the M×M Gram matrix of the centered gallery and
// lifts the eigenvectors to pixel space.
func (t *Trainer) buildEigenspace(centered [][]float64, dim int) ([][]float64, []float64, error) {
	size := len(centered)
	rank := size - 1
	if rank == 0 {
		return [][]float64{}, []float64{}, nil
	}

	data := make([]float64, 0, size*dim)
	for _, row := range centered {
		data = append(data, row...)
	}
	faces := mat.NewDense(size, dim, data)

	var covariance mat.SymDense
	covariance.SymOuterK(1, faces)

	pairs, err := t.decomposer().Decompose(&covariance)
	if err != nil {
		return nil, nil, err
	}
	if len(pairs) != size {
		return nil, nil, fmt.Errorf("got %d eigenpairs for %d faces: %w", len(pairs), size, ErrDecompositionFailed)
	}
	SortDescending(pairs)

	vectors := mat.NewDense(size, size, nil)
	for k, p := range pairs {
		if len(p.Vector) != size {
			return nil, nil, fmt.Errorf("eigenvector %d has length %d, want %d: %w", k, len(p.Vector), size, ErrDecompositionFailed)
		}
		vectors.SetCol(k, p.Vector)
	}

	var lifted mat.Dense
	lifted.Mul(vectors.T(), faces)

	// The last pair only carries the rank lost to mean subtraction.
	eigenspace := make([][]float64, rank)
	values := make([]float64, rank)
	for k := range rank {
		row := mat.Row(nil, k, &lifted)
		DivideByNorm(row)
		eigenspace[k] = row
		values[k] = pairs[k].Value
	}
	return eigenspace, values, nil
}

func (t *Trainer) decomposer() Decomposer {
	if t.Decomposer == nil {
		return SymmetricDecomposer{}
	}
	return t.Decomposer
}

func (t *Trainer) workers() int {
	if t.Workers > 0 {
		return t.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// normalizeRows returns max-normalized copies of the gallery faces.
// Rows are independent, so they are split into contiguous chunks per worker.
func normalizeRows(gallery Gallery, workers int) [][]float64 {
	rows := make([][]float64, len(gallery))
	workers = min(workers, len(gallery))
	if workers <= 1 {
		for i, face := range gallery {
			rows[i] = Normalized(face)
		}
		return rows
	}

	chunk := (len(gallery) + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < len(gallery); start += chunk {
		end := min(start+chunk, len(gallery))
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				rows[i] = Normalized(gallery[i])
			}
		}(start, end)
	}
	wg.Wait()
	return rows
}

// validateGallery checks that every face is non-empty, has the same length as
// the first one and holds only finite non-negative samples.
func validateGallery(gallery Gallery) (int, error) {
	dim := len(gallery[0])
	if dim == 0 {
		return 0, fmt.Errorf("face 0 is empty: %w", ErrDimensionMismatch)
	}
	for i, face := range gallery {
		if len(face) != dim {
			return 0, fmt.Errorf("face %d has %d pixels, want %d: %w", i, len(face), dim, ErrDimensionMismatch)
		}
		if err := validatePixels(face); err != nil {
			return 0, fmt.Errorf("face %d: %w", i, err)
		}
	}
	return dim, nil
}

func validatePixels(v []float64) error {
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) || x < 0 {
			return fmt.Errorf("sample %d is %v: %w", i, x, ErrInvalidPixel)
		}
	}
	return nil
}
