package svc

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// scExitServiceNotFound is sc.exe's exit status when the named service
// does not exist in the SCM database (ERROR_SERVICE_DOES_NOT_EXIST)
const scExitServiceNotFound = 1060

// WindowsManager drives the Windows Service Control Manager through
// sc.exe. SCM registration is its own descriptor store, so install and
// uninstall talk to sc create/delete instead of writing files.
type WindowsManager struct {
	// ScPath is the path to the sc binary
	ScPath string
	// DisplayName is the human-readable name shown by the SCM
	DisplayName string

	runner Runner
	log    *slog.Logger
}

// NewWindows creates a WindowsManager
func NewWindows(opts ...Option) *WindowsManager {
	c := newManagerConfig(opts)
	return &WindowsManager{
		ScPath:      "sc",
		DisplayName: "RCP Daemon",
		runner:      c.runner,
		log:         c.log,
	}
}

func (m *WindowsManager) sc(ctx context.Context, op string, args ...string) error {
	_, err := run(ctx, m.runner, op, m.ScPath, args...)
	return err
}

// queryExists asks the SCM whether the service is registered
func (m *WindowsManager) queryExists(ctx context.Context, name string) (bool, error) {
	res, err := m.runner.Run(ctx, m.ScPath, "query", name)
	if err != nil {
		return false, err
	}
	if res.ExitCode == 0 {
		return true, nil
	}
	if res.ExitCode == scExitServiceNotFound {
		return false, nil
	}
	detail := strings.TrimSpace(res.Stderr)
	if detail == "" {
		detail = strings.TrimSpace(res.Stdout)
	}
	if isPermissionDetail(detail) {
		return false, ErrPermission
	}
	return false, &CommandError{
		Op:       "query",
		Cmd:      commandLine(m.ScPath, []string{"query", name}),
		ExitCode: res.ExitCode,
		Detail:   detail,
	}
}

// Install registers the service with the SCM. sc create registers and
// sets the start mode in one step; there is no separate enable. The SCM
// stores the command line as a single string, so the arguments are
// joined here and only here.
func (m *WindowsManager) Install(ctx context.Context, d *Descriptor) error {
	exists, err := m.queryExists(ctx, d.Name)
	if err != nil {
		return err
	}
	if exists {
		return &OpError{Op: "install", Name: d.Name, Err: ErrAlreadyExists}
	}

	binPath := fmt.Sprintf("\"%s\" %s", d.ExecPath, strings.Join(d.Args, " "))
	return m.sc(ctx, "install",
		"create", d.Name,
		"binPath=", binPath,
		"start=", "auto",
		"DisplayName=", m.DisplayName,
	)
}

// Uninstall stops the service best-effort and deletes the SCM entry
func (m *WindowsManager) Uninstall(ctx context.Context, name string) error {
	exists, err := m.queryExists(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		return &OpError{Op: "uninstall", Name: name, Err: ErrNotFound}
	}

	if err := m.Stop(ctx, name); err != nil {
		m.log.Info("best-effort stop before uninstall failed", "service", name, "error", err)
	}
	return m.sc(ctx, "uninstall", "delete", name)
}

// Start starts the service
func (m *WindowsManager) Start(ctx context.Context, name string) error {
	return m.sc(ctx, "start", "start", name)
}

// Stop stops the service. sc stop on an already-stopped service exits
// nonzero (ERROR_SERVICE_NOT_ACTIVE) and that is surfaced as a
// CommandError; the native exit status decides.
func (m *WindowsManager) Stop(ctx context.Context, name string) error {
	return m.sc(ctx, "stop", "stop", name)
}

// Restart decomposes into stop then start; the SCM has no atomic
// restart. Same policy as launchd: a failed stop aborts the restart.
func (m *WindowsManager) Restart(ctx context.Context, name string) error {
	if err := m.Stop(ctx, name); err != nil {
		return err
	}
	return m.Start(ctx, name)
}
