// Package domain defines domain-specific errors.
// These errors represent business logic failures and are independent of infrastructure.
package domain

import (
	"errors"
	"fmt"
)

// Common errors that services can return.
var (
	// ErrDuplicateTrack is returned when adding a track whose media URL is
	// already present. It is UI feedback, not a failure.
	ErrDuplicateTrack = errors.New("track already in playlist")

	// ErrOutputClosed is returned when the audio output has been shut down.
	ErrOutputClosed = errors.New("audio output closed")

	// ErrNoMediaLoaded is returned by the output when no source is loaded.
	ErrNoMediaLoaded = errors.New("no media loaded")
)

// OutputError represents an error from the audio output resource.
// It wraps low-level decode and device errors with the failing operation.
type OutputError struct {
	Op       string // Operation that failed (e.g., "load", "play", "seek")
	MediaURL string // Media URL involved (if applicable)
	Err      error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *OutputError) Error() string {
	if e.MediaURL != "" {
		return fmt.Sprintf("audio output %s failed for %q: %v", e.Op, e.MediaURL, e.Err)
	}
	return fmt.Sprintf("audio output %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *OutputError) Unwrap() error {
	return e.Err
}

// NewOutputError creates a new OutputError.
func NewOutputError(op, mediaURL string, err error) *OutputError {
	return &OutputError{
		Op:       op,
		MediaURL: mediaURL,
		Err:      err,
	}
}

// RepositoryError represents an error from a persistence layer operation.
type RepositoryError struct {
	Op      string // Operation that failed (e.g., "save", "load")
	Type    string // Repository type (e.g., "playlist", "preferences")
	Message string // Error message
	Err     error  // Underlying error
}

// Error implements the error interface.
func (e *RepositoryError) Error() string {
	return fmt.Sprintf("repository %s.%s failed: %s", e.Type, e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// NewRepositoryError creates a new RepositoryError.
func NewRepositoryError(op, repoType, message string, err error) *RepositoryError {
	return &RepositoryError{
		Op:      op,
		Type:    repoType,
		Message: message,
		Err:     err,
	}
}

// CatalogError represents a failure talking to the external catalog API.
type CatalogError struct {
	Op         string // Operation that failed (e.g., "chart", "search")
	StatusCode int    // HTTP status code, zero when the request never completed
	Err        error  // Underlying error
}

// Error implements the error interface.
func (e *CatalogError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("catalog %s failed: status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("catalog %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *CatalogError) Unwrap() error {
	return e.Err
}

// NewCatalogError creates a new CatalogError.
func NewCatalogError(op string, statusCode int, err error) *CatalogError {
	return &CatalogError{
		Op:         op,
		StatusCode: statusCode,
		Err:        err,
	}
}
