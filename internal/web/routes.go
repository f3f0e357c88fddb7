package web

import (
	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/eigenface/internal/web/handlers"
)

func (s *Server) setupRoutes() {
	configHandler := handlers.NewConfigHandler(s.config)
	recognizeHandler := handlers.NewRecognizeHandler(s.config, s.recognizer, s.preparer, s.logger)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", handlers.HealthCheck)
		r.Get("/config", configHandler.Get)

		r.Post("/recognize", recognizeHandler.Recognize)
		r.Post("/reconstruct", recognizeHandler.Reconstruct)

		r.NotFound(handlers.NotFound)
	})
}
