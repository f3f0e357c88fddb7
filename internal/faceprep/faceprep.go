// Package faceprep turns encoded photographs into fixed-size grayscale face
// vectors and turns pixel vectors back into images.
package faceprep

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"

	"github.com/kozaktomas/eigenface/internal/eigenface"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// ErrNoFace is returned when the detector finds no face in the image.
var ErrNoFace = errors.New("faceprep: no face detected")

// Decode decodes a JPEG, PNG, GIF or BMP image.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// GrayAndResize scales img so that it covers width×height while keeping the
// aspect ratio, converts it to grayscale and clips the centered
// width×height window.
func GrayAndResize(img image.Image, width, height int) *image.Gray {
	bounds := img.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()
	if srcW == 0 || srcH == 0 {
		return image.NewGray(image.Rect(0, 0, width, height))
	}

	scale := math.Max(float64(width)/float64(srcW), float64(height)/float64(srcH))
	newW := max(int(math.Round(float64(srcW)*scale)), width)
	newH := max(int(math.Round(float64(srcH)*scale)), height)

	scaled := resizeImage(img, newW, newH)
	gray := toGray(scaled)

	xOff := (newW - width) / 2
	yOff := (newH - height) / 2
	face := image.NewGray(image.Rect(0, 0, width, height))
	draw.Draw(face, face.Bounds(), gray, image.Pt(xOff, yOff), draw.Src)
	return face
}

// resizeImage scales an image to the specified dimensions.
func resizeImage(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

// toGray converts an image to 8-bit grayscale.
func toGray(img *image.RGBA) *image.Gray {
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			// ITU-R BT.601 luma formula.
			luma := 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
			gray.Pix[gray.PixOffset(x, y)] = uint8(math.Round(math.Min(luma, 255)))
		}
	}
	return gray
}

// Pixels returns the samples of g in row-major order.
func Pixels(g *image.Gray) eigenface.FaceVector {
	bounds := g.Bounds()
	pixels := make(eigenface.FaceVector, 0, bounds.Dx()*bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			pixels = append(pixels, float64(g.GrayAt(x, y).Y))
		}
	}
	return pixels
}
