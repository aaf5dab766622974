package cmd

import (
	"errors"

	"github.com/open-rcp/rcpdaemon/internal/config"
	"github.com/open-rcp/rcpdaemon/internal/daemon"
	"github.com/open-rcp/rcpdaemon/internal/svc"
)

// Exit codes, one per error category. 0 is success; 1 covers native
// command failures, usage errors, and anything uncategorized.
const (
	exitCommandFailed = 1
	exitNotFound      = 3
	exitAlreadyExists = 4
	exitUnsupported   = 5
	exitPermission    = 6
	exitTimeout       = 7
	exitConfigMisuse  = 8
	exitConfigParse   = 9
)

// exitCodeFor maps the error taxonomy onto a process exit code
func exitCodeFor(err error) int {
	var (
		unknownKey *config.UnknownKeyError
		validation *config.ValidationError
		parse      *config.ParseError
	)
	switch {
	case errors.Is(err, svc.ErrNotFound):
		return exitNotFound
	case errors.Is(err, svc.ErrAlreadyExists):
		return exitAlreadyExists
	case errors.Is(err, svc.ErrUnsupported):
		return exitUnsupported
	case errors.Is(err, svc.ErrPermission):
		return exitPermission
	case errors.Is(err, svc.ErrTimeout):
		return exitTimeout
	case errors.As(err, &unknownKey), errors.As(err, &validation):
		return exitConfigMisuse
	case errors.As(err, &parse):
		return exitConfigParse
	default:
		return exitCommandFailed
	}
}

// errorKind returns the taxonomy tag used in JSON error objects
func errorKind(err error) string {
	var (
		unknownKey *config.UnknownKeyError
		validation *config.ValidationError
		parse      *config.ParseError
		command    *svc.CommandError
		connect    *daemon.ConnectError
	)
	switch {
	case errors.Is(err, svc.ErrNotFound):
		return "not_found"
	case errors.Is(err, svc.ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, svc.ErrUnsupported):
		return "unsupported_platform"
	case errors.Is(err, svc.ErrPermission):
		return "permission"
	case errors.Is(err, svc.ErrTimeout):
		return "timeout"
	case errors.As(err, &unknownKey):
		return "unknown_key"
	case errors.As(err, &validation):
		return "validation"
	case errors.As(err, &parse):
		return "parse"
	case errors.As(err, &command):
		return "command_failed"
	case errors.As(err, &connect):
		return "connection"
	default:
		return "error"
	}
}

// errorHint returns the contextual one-liner printed after common
// failures in human mode
func errorHint(err error) string {
	switch {
	case errors.Is(err, svc.ErrNotFound):
		return "the service is not installed; run 'rcpdaemon service install' first"
	case errors.Is(err, svc.ErrAlreadyExists):
		return "run 'rcpdaemon service uninstall' to remove the existing installation first"
	case errors.Is(err, svc.ErrPermission):
		return "try re-running with elevated privileges"
	default:
		return ""
	}
}
