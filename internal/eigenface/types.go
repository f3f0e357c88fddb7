package eigenface

import (
	"fmt"
	"math"
)

// FaceVector is a flattened grayscale face image (row-major, width×height samples).
type FaceVector []float64

// Gallery is an ordered set of reference faces. The position of a face is the
// index reported by matching.
type Gallery []FaceVector

// EigenPair is one eigenvalue with its eigenvector.
type EigenPair struct {
	Value  float64
	Vector []float64
}

// MatchResult is the closest gallery face for a probe.
type MatchResult struct {
	Distance float64 `json:"distance"`
	Index    int     `json:"index"`
}

// NoMatch returns the sentinel result used when there is nothing to match against.
func NoMatch() MatchResult {
	return MatchResult{Distance: math.Inf(1), Index: -1}
}

// Found reports whether the result points at a gallery face.
func (r MatchResult) Found() bool {
	return r.Index >= 0
}

func (r MatchResult) String() string {
	return fmt.Sprintf("MatchResult [distance=%g, index=%d]", r.Distance, r.Index)
}
