// Package apperror defines the domain errors shared by every layer of CodeVault.
//
// Services return these; the HTTP layer maps them to status codes (see
// handler/response.go). Nothing in here knows about HTTP.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("validation error")
	ErrConflict         = errors.New("conflict")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrPasswordMismatch = errors.New("password mismatch")
)

// AppError carries a sentinel (for errors.Is) plus a message that is safe to
// show to the user.
type AppError struct {
	Err     error  // sentinel
	Message string // human-readable
	Field   string // optional: form field the error refers to
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Conflict reports an operation that cannot run in the current state, such
// as submitting a form that is already being submitted.
func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

// Unauthorized is returned when a request needs an authenticated session.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// PasswordMismatch is the one user-visible validation of the sign-up screen.
func PasswordMismatch() *AppError {
	return &AppError{
		Err:     ErrPasswordMismatch,
		Message: "Passwords do not match",
		Field:   "confirmPassword",
	}
}

// MessageOf returns the user-facing message of err, or fallback when err is
// not an *AppError.
func MessageOf(err error, fallback string) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return fallback
}
