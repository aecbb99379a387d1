package handler

// RESPONSE HELPERS:
// Every response the API produces goes through these two functions, so the
// whole surface shares one shape. Errors in particular cross the boundary
// exactly once, here — no handler builds its own error JSON.
//
// Error envelope:
//
//	{"message": "...", "code": 422, "data": [{"message": "..."}]}
//
// code mirrors the HTTP status; data is present only when the error carries
// structured detail (the violation list of a validation failure).

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tanvir/feedboard/internal/apperror"
)

// ErrorEnvelope is the uniform client-facing error shape.
type ErrorEnvelope struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
	Data    any    `json:"data,omitempty"`
}

// writeJSON sends a JSON response with the given status code. Headers must
// be set before the first body write; Encode writes the body.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already out; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error onto the envelope and sends it.
//
// errors.Is walks the wrap chain, so a service error like
//
//	fmt.Errorf("service: ...: %w", apperror.NotFound(...))
//
// still classifies correctly. Anything that carries none of the taxonomy
// sentinels is unexpected: the client gets a generic 500 and the real
// error goes to the log, never over the wire.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusUnprocessableEntity // 422
		case errors.Is(err, apperror.ErrNotAuthenticated):
			status = http.StatusUnauthorized // 401
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden // 403
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound // 404
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict // 409
		}

		writeJSON(w, status, ErrorEnvelope{
			Message: appErr.Message,
			Code:    status,
			Data:    appErr.Data,
		})
		return
	}

	logger.Error("unexpected error", slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, ErrorEnvelope{
		Message: "an internal error occurred",
		Code:    http.StatusInternalServerError,
	})
}
