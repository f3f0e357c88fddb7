package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/eigenface/internal/config"
	"github.com/kozaktomas/eigenface/internal/constants"
	"github.com/kozaktomas/eigenface/internal/eigenface"
	"github.com/kozaktomas/eigenface/internal/faceprep"
	"github.com/kozaktomas/eigenface/internal/gallery"
	"github.com/kozaktomas/eigenface/internal/logging"
)

var recognizeCmd = &cobra.Command{
	Use:   "recognize",
	Short: "Find the gallery face closest to a probe image",
	Long: `Train eigenfaces on every image in a gallery directory and report which
gallery image the probe resembles most.

Gallery images are ordered by file name; the person name is derived from the
file name with trailing numbers removed (alice_01.png -> alice).

Examples:
  # Match a probe against a gallery
  eigenface recognize --gallery ./faces --probe ./unknown.jpg

  # Also write the reconstructed gallery and probe faces as PNG files
  eigenface recognize --gallery ./faces --probe ./unknown.jpg --reconstruct ./out

  # Include the eigenfaces themselves
  eigenface recognize --gallery ./faces --probe ./unknown.jpg --reconstruct ./out --eigenfaces`,
	RunE: runRecognize,
}

func init() {
	rootCmd.AddCommand(recognizeCmd)

	recognizeCmd.Flags().String("gallery", "", "Directory with gallery face images")
	recognizeCmd.Flags().String("probe", "", "Probe face image")
	recognizeCmd.Flags().String("reconstruct", "", "Directory to write reconstructed faces to")
	recognizeCmd.Flags().Bool("eigenfaces", false, "Also write eigenface images (requires --reconstruct)")
	recognizeCmd.Flags().Int("concurrency", 0, "Number of parallel image loaders (0 = GALLERY_WORKERS)")
	_ = recognizeCmd.MarkFlagRequired("gallery")
	_ = recognizeCmd.MarkFlagRequired("probe")
}

func runRecognize(cmd *cobra.Command, args []string) error {
	galleryDir := mustGetString(cmd, "gallery")
	probePath := mustGetString(cmd, "probe")
	outDir := mustGetString(cmd, "reconstruct")
	withEigenfaces := mustGetBool(cmd, "eigenfaces")
	concurrency := mustGetInt(cmd, "concurrency")

	if withEigenfaces && outDir == "" {
		return errors.New("--eigenfaces requires --reconstruct")
	}

	ctx := context.Background()
	cfg := config.Load()
	if concurrency > 0 {
		cfg.Gallery.Workers = concurrency
	}
	logger := logging.New(cfg.Log)

	rec, prep, err := newRecognizer(cfg)
	if err != nil {
		return err
	}

	g, err := loadGallery(ctx, cfg, galleryDir, prep)
	if err != nil {
		return err
	}

	probeData, err := os.ReadFile(probePath) //nolint:gosec // user-provided path
	if err != nil {
		return fmt.Errorf("failed to read probe: %w", err)
	}
	probe, err := prep.Prepare(probeData)
	if err != nil {
		return fmt.Errorf("failed to prepare probe: %w", err)
	}

	detail, err := rec.RecognizeDetailed(g.Vectors(), probe)
	if err != nil {
		return fmt.Errorf("recognition failed: %w", err)
	}
	logger.WithFields(logging.Fields{
		"faces":  g.Len(),
		"rank":   detail.Model.Rank(),
		"solver": cfg.Solver.Name,
	}).Debug("model trained")

	printMatch(g, detail.Result)

	if outDir == "" {
		return nil
	}
	written, err := writeReconstructions(outDir, detail, cfg.Face.Width, withEigenfaces)
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %d images to %s\n", len(written), outDir)
	return nil
}

// loadGallery loads galleryDir with a progress bar.
func loadGallery(ctx context.Context, cfg *config.Config, dir string, prep *faceprep.Preparer) (*gallery.Gallery, error) {
	paths, err := gallery.ListImages(dir)
	if err != nil {
		return nil, err
	}
	fmt.Printf("Loading %d gallery images from %s\n", len(paths), dir)

	bar := progressbar.NewOptions(len(paths),
		progressbar.OptionSetDescription("Preparing faces"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("images"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
	)

	g, err := gallery.Load(ctx, dir, prep, gallery.Options{
		Workers:  cfg.Gallery.Workers,
		Progress: func() { bar.Add(1) },
	})
	fmt.Println()
	if err != nil {
		return nil, fmt.Errorf("failed to load gallery: %w", err)
	}
	return g, nil
}

func printMatch(g *gallery.Gallery, result eigenface.MatchResult) {
	entry, ok := g.Lookup(result)
	if !ok {
		fmt.Println("No match")
		return
	}
	fmt.Printf("Match: index %d\n", result.Index)
	fmt.Printf("  File:     %s\n", entry.Path)
	fmt.Printf("  Person:   %s\n", entry.Name)
	fmt.Printf("  Distance: %.6g\n", result.Distance)
}

// writeReconstructions writes every reconstructed gallery face, the
// reconstructed probe and optionally the eigenfaces into dir. It returns the
// written paths.
func writeReconstructions(dir string, detail *eigenface.Detail, width int, withEigenfaces bool) ([]string, error) {
	if detail.Model == nil {
		return nil, errors.New("nothing to reconstruct from an empty gallery")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var written []string
	write := func(name string, pixels []float64) error {
		data, err := faceprep.EncodePNG(pixels, width)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", name, err)
		}
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // output images are not secret
			return fmt.Errorf("writing %s: %w", name, err)
		}
		written = append(written, path)
		return nil
	}

	for i, face := range detail.Model.ReconstructGallery() {
		if err := write(fmt.Sprintf(constants.TrainingReconstructionPattern, i), face); err != nil {
			return written, err
		}
	}

	probe, err := detail.Model.Reconstruct(detail.ProbeWeights)
	if err != nil {
		return written, err
	}
	if err := write(constants.TestingReconstructionName, probe); err != nil {
		return written, err
	}

	if withEigenfaces {
		for i, ef := range detail.Model.Eigenspace {
			if err := write(fmt.Sprintf(constants.EigenfacePattern, i), ef); err != nil {
				return written, err
			}
		}
	}
	return written, nil
}
