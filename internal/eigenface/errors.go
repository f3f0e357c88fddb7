package eigenface

import "errors"

var (
	// ErrDimensionMismatch is returned when a vector length differs from the
	// pixel count (or weight count) the model was built with.
	ErrDimensionMismatch = errors.New("eigenface: dimension mismatch")

	// ErrEmptyGallery is returned by Train when no faces are given.
	ErrEmptyGallery = errors.New("eigenface: empty gallery")

	// ErrDecompositionFailed is returned when the eigen decomposition does not converge.
	ErrDecompositionFailed = errors.New("eigenface: eigen decomposition failed")

	// ErrInvalidPixel is returned for NaN, infinite or negative pixel samples.
	ErrInvalidPixel = errors.New("eigenface: invalid pixel value")
)
