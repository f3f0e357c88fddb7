package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/kozaktomas/eigenface/internal/eigenface"
	"github.com/kozaktomas/eigenface/internal/logging"
)

// sanitizeForLog removes newlines and carriage returns to prevent log injection.
func sanitizeForLog(s string) string {
	return strings.NewReplacer("\n", "", "\r", "").Replace(s)
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondFailure logs err with a trace id and sends the mapped status. Server
// errors hide their message from the client.
func respondFailure(logger logrus.FieldLogger, w http.ResponseWriter, r *http.Request, err error) {
	status := statusForError(err)
	traceID := logging.ErrorWithTraceID(logger, logging.Fields{
		logging.RequestIDKey: chiMiddleware.GetReqID(r.Context()),
		"path":               sanitizeForLog(r.URL.Path),
		"status":             status,
		"error":              err.Error(),
	}, "request failed")

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal error"
	}
	respondJSON(w, status, map[string]string{
		"error":    message,
		"trace_id": traceID,
	})
}

// requestError marks a problem with the client's input.
type requestError struct {
	err error
}

func (e *requestError) Error() string { return e.err.Error() }
func (e *requestError) Unwrap() error { return e.err }

func badRequest(err error) error {
	return &requestError{err: err}
}

// statusForError maps engine and input errors to HTTP status codes.
func statusForError(err error) int {
	var reqErr *requestError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &reqErr),
		errors.Is(err, eigenface.ErrDimensionMismatch),
		errors.Is(err, eigenface.ErrInvalidPixel):
		return http.StatusBadRequest
	case errors.Is(err, eigenface.ErrDecompositionFailed):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// HealthCheck handles the health check endpoint.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// NotFound handles unknown API routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusNotFound, "not found")
}
