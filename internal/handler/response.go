// Package handler is the HTTP surface: HTML pages, the editor form and a
// small JSON API over the same content records.
package handler

// ERROR FORMAT:
// Every JSON error has the same shape:
//
//	{"error": "not_found", "message": "template content not found for key template_saas"}
//
// HTML pages use the same status mapping but answer with plain text.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/folio/internal/apperror"
	"github.com/sakif/folio/internal/model"
)

// ErrorResponse is the body of every JSON error.
type ErrorResponse struct {
	Error   string `json:"error"`   // machine-readable, e.g. "not_found"
	Message string `json:"message"` // human-readable
}

// writeJSON sends data as JSON with the given status.
// Headers must be set before WriteHeader; nothing after it reaches the client.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// classify maps a domain error onto an HTTP status and error type.
// Anything that is not an *apperror.AppError is an internal error and its
// text is never shown to the client.
func classify(err error) (status int, errorType, message string) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError, "internal_error", "An internal error occurred"
	}

	switch {
	case errors.Is(err, apperror.ErrValidation):
		return http.StatusBadRequest, "validation_error", appErr.Message
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound, "not_found", appErr.Message
	}
	return http.StatusInternalServerError, "internal_error", appErr.Message
}

// writeError sends err as a JSON error. Internal errors are logged with the
// request so the hidden cause is not lost.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, errorType, message := classify(err)
	if status >= http.StatusInternalServerError {
		logRequestError(logger, r, err)
	}
	writeJSON(w, status, ErrorResponse{Error: errorType, Message: message})
}

// writePageError is writeError for HTML routes.
func writePageError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, _, message := classify(err)
	if status >= http.StatusInternalServerError {
		logRequestError(logger, r, err)
	}
	http.Error(w, message, status)
}

func logRequestError(logger *slog.Logger, r *http.Request, err error) {
	logger.Error("request failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
}

// kindParam reads the {kind} URL parameter. Unknown kinds are not found.
func kindParam(r *http.Request) (model.Kind, error) {
	raw := chi.URLParam(r, "kind")
	kind, err := model.ParseKind(raw)
	if err != nil {
		return "", &apperror.AppError{
			Err:     apperror.ErrNotFound,
			Message: "unknown template type: " + raw,
			Field:   "kind",
		}
	}
	return kind, nil
}

// KindFromRequest is kindParam for middleware that only needs to know
// whether the route names a real template type.
func KindFromRequest(r *http.Request) (model.Kind, bool) {
	k, err := kindParam(r)
	return k, err == nil
}
