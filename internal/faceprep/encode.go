package faceprep

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"
)

// ToImage rescales pixels linearly so that the smallest value becomes 0 and
// the largest 255, and lays them out row-major with the given width.
// A constant vector becomes uniform mid gray.
func ToImage(pixels []float64, width int) (*image.Gray, error) {
	if width <= 0 || len(pixels) == 0 || len(pixels)%width != 0 {
		return nil, fmt.Errorf("cannot lay out %d pixels with width %d", len(pixels), width)
	}
	height := len(pixels) / width

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range pixels {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := hi - lo

	img := image.NewGray(image.Rect(0, 0, width, height))
	for i, v := range pixels {
		level := 128.0
		if span > 0 {
			level = (v - lo) / span * 255
		}
		img.Pix[i] = uint8(math.Round(level))
	}
	return img, nil
}

// EncodePNG renders pixels with ToImage and encodes the result as PNG.
func EncodePNG(pixels []float64, width int) ([]byte, error) {
	img, err := ToImage(pixels, width)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}
