package handlers

import (
	"bytes"
	"image"
	"image/png"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/kozaktomas/eigenface/internal/config"
	"github.com/kozaktomas/eigenface/internal/eigenface"
	"github.com/kozaktomas/eigenface/internal/faceprep"
)

const (
	testWidth  = 6
	testHeight = 8
)

// testConfig creates a minimal config for testing
func testConfig() *config.Config {
	return &config.Config{
		Face:    config.FaceConfig{Width: testWidth, Height: testHeight},
		Solver:  config.SolverConfig{Name: "gonum"},
		Gallery: config.GalleryConfig{Workers: 2},
		Web:     config.WebConfig{MaxUploadMB: 4},
	}
}

// testLogger discards output
func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestRecognizeHandler(d eigenface.Decomposer) *RecognizeHandler {
	cfg := testConfig()
	rec := eigenface.NewPCARecognizer(eigenface.NewTrainer(d, 2))
	prep := faceprep.NewPreparer(nil, testWidth, testHeight)
	return NewRecognizeHandler(cfg, rec, prep, testLogger())
}

// faceImage renders a distinct test pattern per seed at the face size.
func faceImage(t *testing.T, seed int) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, testWidth, testHeight))
	for y := range testHeight {
		for x := range testWidth {
			v := 128 + 100*math.Sin(float64((x+1)*(y+2)*(seed+1))*0.37)
			img.Pix[img.PixOffset(x, y)] = uint8(v)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

type upload struct {
	field string
	name  string
	data  []byte
}

// multipartRequest builds a POST request carrying the given files
func multipartRequest(t *testing.T, path string, files []upload) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, f := range files {
		part, err := mw.CreateFormFile(f.field, f.name)
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		if _, err := part.Write(f.data); err != nil {
			t.Fatalf("failed to write form file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// threeFaceGallery returns uploads for alice, bob and carol in that order
func threeFaceGallery(t *testing.T) []upload {
	t.Helper()
	return []upload{
		{fieldGallery, "alice_1.png", faceImage(t, 0)},
		{fieldGallery, "bob_1.png", faceImage(t, 1)},
		{fieldGallery, "carol-1.png", faceImage(t, 2)},
	}
}

// failingDecomposer always reports a decomposition failure
type failingDecomposer struct{}

func (failingDecomposer) Decompose(*mat.SymDense) ([]eigenface.EigenPair, error) {
	return nil, eigenface.ErrDecompositionFailed
}
