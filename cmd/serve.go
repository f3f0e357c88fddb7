package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/eigenface/internal/config"
	"github.com/kozaktomas/eigenface/internal/constants"
	"github.com/kozaktomas/eigenface/internal/logging"
	"github.com/kozaktomas/eigenface/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long: `Start the eigenface HTTP API.
Clients upload a gallery and a probe image and receive the index of the
closest gallery face, or the probe reconstructed from the gallery's eigenfaces.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "Port to listen on (overrides WEB_PORT)")
	serveCmd.Flags().String("host", "", "Host to bind to (overrides WEB_HOST)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if port := mustGetInt(cmd, "port"); port > 0 {
		cfg.Web.Port = port
	}
	if host := mustGetString(cmd, "host"); host != "" {
		cfg.Web.Host = host
	}

	logger := logging.New(cfg.Log)

	rec, prep, err := newRecognizer(cfg)
	if err != nil {
		return err
	}

	server := web.NewServer(cfg, logger, rec, prep)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(ctx, constants.ShutdownTimeoutSeconds*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("Error during shutdown")
		}
	}()

	fmt.Printf("Starting eigenface API on http://%s (solver %s, faces %dx%d)\n",
		cfg.Web.Addr(), cfg.Solver.Name, cfg.Face.Width, cfg.Face.Height)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
