package eigenface

import "math"

// scenarioGallery is a small gallery whose match results were computed once
// with an independent reference implementation and pinned in the tests.
func scenarioGallery() Gallery {
	return Gallery{
		{10, 20, 30, 40},
		{12, 22, 28, 38},
		{100, 90, 80, 70},
	}
}

// syntheticGallery returns size linearly independent faces of n pixels with
// intensities in 0..255.
func syntheticGallery(size, n int) Gallery {
	g := make(Gallery, size)
	for i := range size {
		face := make(FaceVector, n)
		for j := range n {
			face[j] = 128 + 100*math.Sin(float64((j+1)*(i+2))*0.37) + float64(i)
		}
		g[i] = face
	}
	return g
}

func copyGallery(g Gallery) Gallery {
	out := make(Gallery, len(g))
	for i, f := range g {
		out[i] = append(FaceVector{}, f...)
	}
	return out
}
