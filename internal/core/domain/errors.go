package domain

import (
	"errors"
	"net/http"
)

var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("access forbidden")
	ErrNotFound           = errors.New("resource not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrShiftNotFound      = errors.New("shift not found")
	ErrInvitationNotFound = errors.New("invitation not found")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrShiftCancelled     = errors.New("shift is cancelled")
	ErrInvalidPicture     = errors.New("unsupported profile picture")
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrBackendUnreachable = errors.New("backend unreachable")
)

// FieldErrors maps a form field to its validation messages.
type FieldErrors map[string][]string

// Add appends msg to field.
func (f FieldErrors) Add(field, msg string) {
	f[field] = append(f[field], msg)
}

// ValidationError carries local, field-level form errors.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// RemoteError is a non-2xx answer from the backend. Transport failures are
// reported as ErrBackendUnreachable instead.
type RemoteError struct {
	Status  int
	Message string
	Fields  FieldErrors
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.Status)
}

// Is lets errors.Is match RemoteErrors against the sentinels they stand for.
func (e *RemoteError) Is(target error) bool {
	switch e.Status {
	case http.StatusUnauthorized:
		return target == ErrUnauthenticated
	case http.StatusForbidden:
		return target == ErrForbidden
	case http.StatusNotFound:
		return target == ErrNotFound
	}
	return false
}
