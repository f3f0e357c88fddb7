package web

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kozaktomas/eigenface/internal/config"
	"github.com/kozaktomas/eigenface/internal/eigenface"
	"github.com/kozaktomas/eigenface/internal/faceprep"
	"github.com/kozaktomas/eigenface/internal/web/middleware"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := &config.Config{
		Face:    config.FaceConfig{Width: 4, Height: 4},
		Solver:  config.SolverConfig{Name: "gonum"},
		Gallery: config.GalleryConfig{Workers: 2},
		Web:     config.WebConfig{Host: "127.0.0.1", Port: 0, MaxUploadMB: 1},
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	s := NewServer(cfg, logger, eigenface.NewPCARecognizer(nil), faceprep.NewPreparer(nil, 4, 4))
	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)
	return ts
}

func grayPNG(t *testing.T, pix []uint8) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	copy(img.Pix, pix)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestServer_Health(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/v1/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))
}

func TestServer_NotFound(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/v1/nothing")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_RecognizeMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/v1/recognize")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestServer_Recognize(t *testing.T) {
	ts := newTestServer(t)

	faces := map[string][]uint8{
		"ann_1.png": {10, 20, 30, 40, 50, 60, 70, 80, 90, 100, 110, 120, 130, 140, 150, 160},
		"ben_1.png": {160, 150, 140, 130, 120, 110, 100, 90, 80, 70, 60, 50, 40, 30, 20, 10},
		"cat_1.png": {10, 160, 10, 160, 10, 160, 10, 160, 160, 10, 160, 10, 160, 10, 160, 10},
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, name := range []string{"ann_1.png", "ben_1.png", "cat_1.png"} {
		part, err := mw.CreateFormFile("gallery", name)
		require.NoError(t, err)
		_, err = part.Write(grayPNG(t, faces[name]))
		require.NoError(t, err)
	}
	part, err := mw.CreateFormFile("probe", "probe.png")
	require.NoError(t, err)
	_, err = part.Write(grayPNG(t, faces["cat_1.png"]))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(ts.URL+"/api/v1/recognize", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Found    bool    `json:"found"`
		Index    int     `json:"index"`
		Distance float64 `json:"distance"`
		Name     string  `json:"name"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.True(t, out.Found)
	assert.Equal(t, 2, out.Index)
	assert.Equal(t, "cat", out.Name)
	assert.InDelta(t, 0, out.Distance, 1e-9)
}
