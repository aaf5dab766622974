package svc

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"
)

// DefaultCommandTimeout bounds every native manager invocation so a hung
// systemctl/launchctl/sc cannot wedge the CLI.
const DefaultCommandTimeout = 30 * time.Second

// RunResult is the structured outcome of one external command.
type RunResult struct {
	// ExitCode is the command's exit status (0 on success)
	ExitCode int
	// Stdout is the captured standard output
	Stdout string
	// Stderr is the captured standard error
	Stderr string
	// TimedOut reports whether the command was killed at the timeout bound
	TimedOut bool
}

// Runner executes external commands on behalf of the platform managers.
// Tests substitute a fake so every strategy is exercised on any host.
type Runner interface {
	// Run executes name with args and blocks until it exits or the
	// timeout elapses. A nonzero exit is reported through the result,
	// not the error; the error is reserved for spawn failures and
	// timeouts.
	Run(ctx context.Context, name string, args ...string) (RunResult, error)
}

// ExecRunner runs commands with os/exec, capturing output and enforcing
// a bounded timeout. The child is force-killed when the bound expires.
type ExecRunner struct {
	// Timeout is the per-command bound (DefaultCommandTimeout if zero)
	Timeout time.Duration
}

// Run implements Runner
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (RunResult, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := RunResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if ctx.Err() == context.DeadlineExceeded {
		res.TimedOut = true
		return res, &OpError{Op: "exec", Name: name, Err: ErrTimeout}
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, &OpError{Op: "exec", Name: name, Err: err}
	}

	return res, nil
}

// commandLine renders a command for error reporting
func commandLine(name string, args []string) string {
	return strings.Join(append([]string{name}, args...), " ")
}

// run executes a native manager command and maps every failure onto the
// shared taxonomy: spawn errors and timeouts come back as OpError, a
// nonzero exit as CommandError with the captured stderr, and stderr that
// names a privilege problem as ErrPermission so the dispatcher can hint
// at re-running elevated.
func run(ctx context.Context, r Runner, op, name string, args ...string) (RunResult, error) {
	res, err := r.Run(ctx, name, args...)
	if err != nil {
		return res, err
	}
	if res.ExitCode != 0 {
		detail := strings.TrimSpace(res.Stderr)
		if detail == "" {
			detail = strings.TrimSpace(res.Stdout)
		}
		if isPermissionDetail(detail) {
			return res, &OpError{Op: op, Name: name, Err: ErrPermission}
		}
		return res, &CommandError{
			Op:       op,
			Cmd:      commandLine(name, args),
			ExitCode: res.ExitCode,
			Detail:   detail,
		}
	}
	return res, nil
}

// isPermissionDetail recognizes the privilege failures the native
// managers print instead of a distinct exit code
func isPermissionDetail(detail string) bool {
	lower := strings.ToLower(detail)
	return strings.Contains(lower, "permission denied") ||
		strings.Contains(lower, "access is denied") ||
		strings.Contains(lower, "access denied") ||
		strings.Contains(lower, "operation not permitted")
}
