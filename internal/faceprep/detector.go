package faceprep

import (
	"fmt"
	"image"

	"github.com/kozaktomas/eigenface/internal/eigenface"
)

// Detector locates the face to use inside a photograph. Detection itself is
// done by an external component; implementations are constructed once and
// passed to NewPreparer.
type Detector interface {
	Detect(img image.Image) (image.Rectangle, bool)
}

// WholeImage treats the entire image as the face. Use it for inputs that are
// already cropped.
type WholeImage struct{}

// Detect implements Detector.
func (WholeImage) Detect(img image.Image) (image.Rectangle, bool) {
	b := img.Bounds()
	return b, !b.Empty()
}

// Preparer converts encoded images into face vectors of a fixed size.
type Preparer struct {
	detector Detector
	width    int
	height   int
}

// NewPreparer returns a Preparer producing width×height vectors. A nil
// detector means WholeImage.
func NewPreparer(d Detector, width, height int) *Preparer {
	if d == nil {
		d = WholeImage{}
	}
	return &Preparer{detector: d, width: width, height: height}
}

// Size returns the face width and height.
func (p *Preparer) Size() (int, int) {
	return p.width, p.height
}

// Prepare decodes data, crops the detected face, converts it to grayscale at
// the configured size and returns its pixels.
func (p *Preparer) Prepare(data []byte) (eigenface.FaceVector, error) {
	img, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return p.PrepareImage(img)
}

// PrepareImage is Prepare for an already decoded image.
func (p *Preparer) PrepareImage(img image.Image) (eigenface.FaceVector, error) {
	rect, ok := p.detector.Detect(img)
	if !ok {
		return nil, ErrNoFace
	}
	rect = rect.Intersect(img.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("face %v outside image %v: %w", rect, img.Bounds(), ErrNoFace)
	}
	return Pixels(GrayAndResize(crop(img, rect), p.width, p.height)), nil
}

// crop returns the rect part of img, sharing pixels when the image type allows.
func crop(img image.Image, rect image.Rectangle) image.Image {
	if rect == img.Bounds() {
		return img
	}
	if s, ok := img.(interface {
		SubImage(r image.Rectangle) image.Image
	}); ok {
		return s.SubImage(rect)
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			dst.Set(x-rect.Min.X, y-rect.Min.Y, img.At(x, y))
		}
	}
	return dst
}
