package cmd

import (
	"fmt"

	"github.com/kozaktomas/eigenface/internal/config"
	"github.com/kozaktomas/eigenface/internal/eigenface"
	"github.com/kozaktomas/eigenface/internal/faceprep"
)

// newRecognizer builds the recognizer and image preparer described by cfg.
func newRecognizer(cfg *config.Config) (*eigenface.PCARecognizer, *faceprep.Preparer, error) {
	if cfg.Face.Width <= 0 || cfg.Face.Height <= 0 {
		return nil, nil, fmt.Errorf("invalid face size %dx%d", cfg.Face.Width, cfg.Face.Height)
	}
	decomposer, err := cfg.Solver.Decomposer()
	if err != nil {
		return nil, nil, err
	}
	rec := eigenface.NewPCARecognizer(eigenface.NewTrainer(decomposer, 0))
	prep := faceprep.NewPreparer(faceprep.WholeImage{}, cfg.Face.Width, cfg.Face.Height)
	return rec, prep, nil
}
