package handlers

import (
	"net/http"

	"github.com/kozaktomas/eigenface/internal/config"
)

// ConfigHandler handles configuration endpoints
type ConfigHandler struct {
	config *config.Config
}

// NewConfigHandler creates a new config handler
func NewConfigHandler(cfg *config.Config) *ConfigHandler {
	return &ConfigHandler{
		config: cfg,
	}
}

// ConfigResponse represents the configuration response
type ConfigResponse struct {
	FaceWidth   int    `json:"face_width"`
	FaceHeight  int    `json:"face_height"`
	Pixels      int    `json:"pixels"`
	Solver      string `json:"solver"`
	MaxUploadMB int    `json:"max_upload_mb"`
}

// Get returns the face geometry and solver clients must know about
func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, ConfigResponse{
		FaceWidth:   h.config.Face.Width,
		FaceHeight:  h.config.Face.Height,
		Pixels:      h.config.Face.Pixels(),
		Solver:      h.config.Solver.Name,
		MaxUploadMB: h.config.Web.MaxUploadMB,
	})
}
