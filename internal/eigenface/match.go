package eigenface

import (
	"fmt"
	"math"
	"runtime"
	"sync"
)

// parallelMatchRows is the gallery size from which Model matching splits
// the scan across CPUs.
const parallelMatchRows = 4096

// Match returns the row of ref closest to probe by Euclidean distance.
// Rows are scanned from index 0 and only a strictly smaller distance replaces
// the current best, so ties resolve to the lowest index. An empty ref yields
// NoMatch, as does any row whose length differs from len(probe).
func Match(probe []float64, ref [][]float64) MatchResult {
	if !sameWidth(probe, ref) {
		return NoMatch()
	}
	index, minSum := scan(probe, ref, 0, len(ref))
	return result(index, minSum)
}

// MatchParallel is Match with the scan split across workers. It returns the
// same result as Match, including tie resolution.
func MatchParallel(probe []float64, ref [][]float64, workers int) MatchResult {
	if workers <= 1 || len(ref) < 2*workers {
		return Match(probe, ref)
	}
	if !sameWidth(probe, ref) {
		return NoMatch()
	}

	chunk := (len(ref) + workers - 1) / workers
	type best struct {
		index int
		sum   float64
	}
	var parts []best
	var mu sync.Mutex
	var wg sync.WaitGroup
	for start := 0; start < len(ref); start += chunk {
		end := min(start+chunk, len(ref))
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			index, sum := scan(probe, ref, start, end)
			mu.Lock()
			parts = append(parts, best{index: index, sum: sum})
			mu.Unlock()
		}(start, end)
	}
	wg.Wait()

	index, minSum := -1, math.MaxFloat64
	for _, p := range parts {
		if p.index < 0 {
			continue
		}
		if p.sum < minSum || (p.sum == minSum && p.index < index) {
			index, minSum = p.index, p.sum
		}
	}
	return result(index, minSum)
}

func sameWidth(probe []float64, ref [][]float64) bool {
	for _, row := range ref {
		if len(row) != len(probe) {
			return false
		}
	}
	return true
}

// scan returns the index of the closest row in ref[start:end] and its squared
// distance, or -1 when no row is closer than math.MaxFloat64.
func scan(probe []float64, ref [][]float64, start, end int) (int, float64) {
	index := -1
	minSum := math.MaxFloat64
	for row := start; row < end; row++ {
		var sum float64
		for col, w := range ref[row] {
			d := w - probe[col]
			sum += d * d
		}
		if sum < minSum {
			minSum = sum
			index = row
		}
	}
	return index, minSum
}

func result(index int, minSum float64) MatchResult {
	if index < 0 {
		return NoMatch()
	}
	return MatchResult{Distance: math.Sqrt(minSum), Index: index}
}

// Match projects probe and returns the closest gallery face.
func (m *Model) Match(probe FaceVector) (MatchResult, error) {
	weights, err := m.Project(probe)
	if err != nil {
		return MatchResult{}, err
	}
	return m.match(weights), nil
}

// MatchWeights matches already projected weights against the gallery.
func (m *Model) MatchWeights(weights []float64) (MatchResult, error) {
	if len(weights) != m.Rank() {
		return MatchResult{}, fmt.Errorf("got %d weights, model rank is %d: %w", len(weights), m.Rank(), ErrDimensionMismatch)
	}
	return m.match(weights), nil
}

func (m *Model) match(weights []float64) MatchResult {
	if len(m.RefWeights) >= parallelMatchRows {
		return MatchParallel(weights, m.RefWeights, runtime.NumCPU())
	}
	return Match(weights, m.RefWeights)
}
