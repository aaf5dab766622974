package svc

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// SystemdManager drives systemd through systemctl. The daemon is
// registered as a user unit under ~/.config/systemd/user, matching the
// way the daemon has always been installed on Linux.
type SystemdManager struct {
	// UnitDir is the directory unit files are written to
	UnitDir string
	// SystemctlPath is the path to the systemctl binary
	SystemctlPath string
	// UserScope runs systemctl with --user
	UserScope bool

	runner Runner
	log    *slog.Logger
}

// NewSystemd creates a SystemdManager with the standard user-unit layout
func NewSystemd(opts ...Option) *SystemdManager {
	c := newManagerConfig(opts)
	unitDir := c.unitDir
	if unitDir == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			unitDir = filepath.Join(home, ".config", "systemd", "user")
		}
	}
	return &SystemdManager{
		UnitDir:       unitDir,
		SystemctlPath: "systemctl",
		UserScope:     true,
		runner:        c.runner,
		log:           c.log,
	}
}

// unitPath returns the unit file path for a service name
func (m *SystemdManager) unitPath(name string) string {
	return filepath.Join(m.UnitDir, name+".service")
}

// systemctl runs a systemctl subcommand against the named unit
func (m *SystemdManager) systemctl(ctx context.Context, op string, args ...string) error {
	if m.UserScope {
		args = append([]string{"--user"}, args...)
	}
	_, err := run(ctx, m.runner, op, m.SystemctlPath, args...)
	return err
}

// Install writes the unit file, reloads the manager, and enables the
// unit. An existing unit file for the same name is refused.
func (m *SystemdManager) Install(ctx context.Context, d *Descriptor) error {
	unitPath := m.unitPath(d.Name)
	if _, err := os.Stat(unitPath); err == nil {
		return &OpError{Op: "install", Name: d.Name, Err: ErrAlreadyExists}
	}

	content, err := SystemdUnit(d)
	if err != nil {
		return &OpError{Op: "install", Name: d.Name, Err: err}
	}

	if err := os.MkdirAll(m.UnitDir, 0o755); err != nil {
		return &OpError{Op: "install", Name: d.Name, Err: mapFSError(err)}
	}
	if err := renameio.WriteFile(unitPath, []byte(content), 0o644); err != nil {
		return &OpError{Op: "install", Name: d.Name, Err: mapFSError(err)}
	}

	if err := m.systemctl(ctx, "install", "daemon-reload"); err != nil {
		return err
	}
	return m.systemctl(ctx, "install", "enable", d.Name+".service")
}

// Uninstall stops and disables the unit best-effort, removes the unit
// file, and reloads the manager. Stop/disable failures are logged, not
// fatal; the unit may already be stopped.
func (m *SystemdManager) Uninstall(ctx context.Context, name string) error {
	unitPath := m.unitPath(name)
	if _, err := os.Stat(unitPath); err != nil {
		return &OpError{Op: "uninstall", Name: name, Err: ErrNotFound}
	}

	if err := m.Stop(ctx, name); err != nil {
		m.log.Info("best-effort stop before uninstall failed", "service", name, "error", err)
	}
	if err := m.systemctl(ctx, "uninstall", "disable", name+".service"); err != nil {
		m.log.Info("best-effort disable before uninstall failed", "service", name, "error", err)
	}

	if err := os.Remove(unitPath); err != nil {
		return &OpError{Op: "uninstall", Name: name, Err: mapFSError(err)}
	}
	return m.systemctl(ctx, "uninstall", "daemon-reload")
}

// Start starts the unit
func (m *SystemdManager) Start(ctx context.Context, name string) error {
	return m.systemctl(ctx, "start", "start", name+".service")
}

// Stop stops the unit. systemctl treats stopping an already-stopped
// unit as success, and that exit status is what decides here.
func (m *SystemdManager) Stop(ctx context.Context, name string) error {
	return m.systemctl(ctx, "stop", "stop", name+".service")
}

// Restart restarts the unit atomically; systemd has a native restart
func (m *SystemdManager) Restart(ctx context.Context, name string) error {
	return m.systemctl(ctx, "restart", "restart", name+".service")
}

// mapFSError surfaces filesystem privilege problems as ErrPermission
func mapFSError(err error) error {
	if errors.Is(err, fs.ErrPermission) {
		return ErrPermission
	}
	return err
}
