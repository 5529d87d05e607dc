// Package errors provides custom error types and exit codes for hfetch.
package errors

import (
	"errors"
	"fmt"
)

// TransportError reports a failed fetch. It covers address resolution,
// connection, protocol and body-read failures alike.
type TransportError struct {
	Op  string // Stage that failed (e.g., "send request", "read body")
	URL string // Target address as given by the caller
	Err error  // Underlying error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chain inspection.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Exit codes - use these constants in CLI commands instead of hardcoding values.
const (
	ExitSuccess      = 0 // Success
	ExitGeneralError = 1 // General error (writing output)
	ExitNetworkError = 4 // Network error (fetch failed)
)

// ExitCode maps an error returned by the CLI to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return ExitNetworkError
	}

	return ExitGeneralError
}

// IsTransportError reports whether err is or wraps a *TransportError.
func IsTransportError(err error) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr)
}
