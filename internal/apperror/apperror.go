// Package apperror defines the error taxonomy shared by every layer of the
// application.
//
// Services raise the most specific kind they can at the point of detection
// (validation, not-authenticated, forbidden, not-found, conflict). The HTTP
// layer translates the kind into a status code exactly once, at the boundary.
// Anything that doesn't carry one of these sentinels is treated as unexpected
// and surfaces as a generic 500 — internal detail is logged, never sent to
// the client.
package apperror

import (
	"errors"
	"fmt"
)

// Sentinel errors — the stable part of the taxonomy. Callers classify with
// errors.Is, which walks the wrap chain via AppError.Unwrap.
var (
	ErrValidation       = errors.New("validation failed")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
)

// Violation is a single field-level validation failure. The validator
// collects all of them — one response carries every violated rule, not just
// the first.
type Violation struct {
	Message string `json:"message"`
}

// AppError pairs a sentinel kind with a human-readable message and optional
// structured detail (today: the violation list for validation failures).
type AppError struct {
	Err     error  // sentinel kind, matched with errors.Is
	Message string // human-readable error message
	Data    any    // optional structured detail, serialized to the client
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ValidationFailed bundles the collected field violations into a single
// error. The violation list rides along as Data so the client sees every
// failed rule in one response.
func ValidationFailed(violations []Violation) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: "invalid input",
		Data:    violations,
	}
}

// NotAuthenticated is returned when a protected operation is attempted by an
// anonymous caller, or when login credentials don't check out.
func NotAuthenticated(message string) *AppError {
	if message == "" {
		message = "not authenticated"
	}
	return &AppError{
		Err:     ErrNotAuthenticated,
		Message: message,
	}
}

// Forbidden returns an AppError indicating the caller is authenticated but
// lacks permission — typically a non-owner mutating someone else's post.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func Conflict(resource, key string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s already exists: %s", resource, key),
	}
}
