package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the core taxonomy - use with errors.Is()
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailExists        = errors.New("email already exists")
	ErrValidation         = errors.New("validation failed")

	// Upload rejections, checked in this order: visibility, type, size.
	ErrVisibilityNotAllowed = errors.New("visibility level not allowed for this role")
	ErrTypeNotAllowed       = errors.New("content type not allowed for this role")
	ErrTooLarge             = errors.New("file too large for this role")
)

// HTTPError defines errors that carry their own HTTP status code.
type HTTPError interface {
	error
	StatusCode() int
}

// TransientStorageError wraps a retryable object-storage failure on the
// primary upload/download path. The extraction pipeline absorbs these
// instead of surfacing them.
type TransientStorageError struct {
	Op  string
	Err error
}

func (e *TransientStorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *TransientStorageError) Unwrap() error { return e.Err }

func (e *TransientStorageError) StatusCode() int { return http.StatusServiceUnavailable }
