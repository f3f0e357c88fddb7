package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/kozaktomas/eigenface/internal/config"
	"github.com/kozaktomas/eigenface/internal/eigenface"
	"github.com/kozaktomas/eigenface/internal/faceprep"
	"github.com/kozaktomas/eigenface/internal/gallery"
)

// Multipart field names.
const (
	fieldGallery = "gallery"
	fieldProbe   = "probe"
)

// RecognizeHandler trains on an uploaded gallery and matches an uploaded probe.
type RecognizeHandler struct {
	config     *config.Config
	recognizer *eigenface.PCARecognizer
	preparer   *faceprep.Preparer
	logger     logrus.FieldLogger
}

// NewRecognizeHandler creates a new recognize handler.
func NewRecognizeHandler(cfg *config.Config, rec *eigenface.PCARecognizer, prep *faceprep.Preparer, logger logrus.FieldLogger) *RecognizeHandler {
	return &RecognizeHandler{
		config:     cfg,
		recognizer: rec,
		preparer:   prep,
		logger:     logger,
	}
}

// RecognizeResponse is the result of a recognition request.
type RecognizeResponse struct {
	Found    bool     `json:"found"`
	Index    int      `json:"index"`
	Distance *float64 `json:"distance,omitempty"`
	Name     string   `json:"name,omitempty"`
	File     string   `json:"file,omitempty"`
	Faces    int      `json:"faces"`
}

// Recognize handles POST /api/v1/recognize.
func (h *RecognizeHandler) Recognize(w http.ResponseWriter, r *http.Request) {
	g, probe, err := h.readRequest(w, r)
	if err != nil {
		respondFailure(h.logger, w, r, err)
		return
	}

	result, err := h.recognizer.Recognize(g.Vectors(), probe)
	if err != nil {
		respondFailure(h.logger, w, r, err)
		return
	}

	resp := RecognizeResponse{
		Found: result.Found(),
		Index: result.Index,
		Faces: g.Len(),
	}
	if entry, ok := g.Lookup(result); ok {
		distance := result.Distance
		resp.Distance = &distance
		resp.Name = entry.Name
		resp.File = entry.Path
	}

	h.logger.WithFields(logrus.Fields{
		"faces":    g.Len(),
		"index":    result.Index,
		"distance": result.Distance,
	}).Debug("probe matched")

	respondJSON(w, http.StatusOK, resp)
}

// Reconstruct handles POST /api/v1/reconstruct. It responds with the probe
// as rebuilt from its eigenface weights, rendered as a PNG.
func (h *RecognizeHandler) Reconstruct(w http.ResponseWriter, r *http.Request) {
	g, probe, err := h.readRequest(w, r)
	if err != nil {
		respondFailure(h.logger, w, r, err)
		return
	}
	if g.Len() == 0 {
		respondFailure(h.logger, w, r, badRequest(errors.New("gallery is empty")))
		return
	}

	detail, err := h.recognizer.RecognizeDetailed(g.Vectors(), probe)
	if err != nil {
		respondFailure(h.logger, w, r, err)
		return
	}
	pixels, err := detail.Model.Reconstruct(detail.ProbeWeights)
	if err != nil {
		respondFailure(h.logger, w, r, err)
		return
	}
	width, _ := h.preparer.Size()
	data, err := faceprep.EncodePNG(pixels, width)
	if err != nil {
		respondFailure(h.logger, w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Match-Index", fmt.Sprint(detail.Result.Index))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// readRequest parses the multipart form into a gallery, kept in upload
// order, and a probe vector. Bodies larger than the upload limit are rejected.
func (h *RecognizeHandler) readRequest(w http.ResponseWriter, r *http.Request) (*gallery.Gallery, eigenface.FaceVector, error) {
	limit := h.config.Web.MaxUploadBytes()
	if r.ContentLength > limit {
		return nil, nil, &http.MaxBytesError{Limit: limit}
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		return nil, nil, badRequest(fmt.Errorf("failed to parse multipart form: %w", err))
	}

	probes := r.MultipartForm.File[fieldProbe]
	if len(probes) != 1 {
		return nil, nil, badRequest(fmt.Errorf("exactly one %q file is required, got %d", fieldProbe, len(probes)))
	}
	probeData, err := readUpload(probes[0])
	if err != nil {
		return nil, nil, badRequest(err)
	}
	probe, err := h.preparer.Prepare(probeData)
	if err != nil {
		return nil, nil, badRequest(fmt.Errorf("probe: %w", err))
	}

	uploads := r.MultipartForm.File[fieldGallery]
	sources := make([]gallery.Source, len(uploads))
	for i, fh := range uploads {
		sources[i] = uploadSource(fh)
	}
	g, err := gallery.Build(r.Context(), sources, h.preparer, gallery.Options{Workers: h.config.Gallery.Workers})
	if err != nil {
		return nil, nil, badRequest(err)
	}
	return g, probe, nil
}

func uploadSource(fh *multipart.FileHeader) gallery.Source {
	return gallery.Source{
		Path: filepath.Base(fh.Filename),
		Read: func() ([]byte, error) { return readUpload(fh) },
	}
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	file, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %s", filepath.Base(fh.Filename))
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %s", filepath.Base(fh.Filename))
	}
	return data, nil
}
