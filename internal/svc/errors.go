package svc

import (
	"errors"
	"fmt"
)

// Common errors returned by service manager operations
var (
	// ErrPermission indicates the caller lacks privilege to write the
	// descriptor location or talk to the native manager
	ErrPermission = errors.New("svc: permission denied")

	// ErrAlreadyExists indicates a descriptor with the same name is already installed
	ErrAlreadyExists = errors.New("svc: service already installed")

	// ErrNotFound indicates no descriptor exists for the given name
	ErrNotFound = errors.New("svc: service not installed")

	// ErrUnsupported indicates the host platform has no native service manager support
	ErrUnsupported = errors.New("svc: unsupported platform")

	// ErrTimeout indicates a native manager command exceeded its bound
	ErrTimeout = errors.New("svc: command timed out")
)

// CommandError represents a native manager command that exited nonzero.
// Detail carries the captured stderr verbatim so the user sees exactly
// what systemctl/launchctl/sc reported.
type CommandError struct {
	// Op is the operation that failed (install, start, stop, ...)
	Op string
	// Cmd is the command line that was executed
	Cmd string
	// ExitCode is the command's exit status
	ExitCode int
	// Detail is the captured stderr output
	Detail string
}

// Error returns a formatted error message
func (e *CommandError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("svc %s: %s exited %d: %s", e.Op, e.Cmd, e.ExitCode, e.Detail)
	}
	return fmt.Sprintf("svc %s: %s exited %d", e.Op, e.Cmd, e.ExitCode)
}

// OpError wraps an error with the operation and service name it belongs to
type OpError struct {
	// Op is the operation that failed
	Op string
	// Name is the service name involved
	Name string
	// Err is the underlying error
	Err error
}

// Error returns a formatted error message
func (e *OpError) Error() string {
	return fmt.Sprintf("svc %s %q: %v", e.Op, e.Name, e.Err)
}

// Unwrap returns the underlying error for error chain inspection
func (e *OpError) Unwrap() error {
	return e.Err
}
