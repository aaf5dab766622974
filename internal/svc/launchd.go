package svc

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// LaunchdManager drives launchd through launchctl. The daemon is
// registered as a per-user agent under ~/Library/LaunchAgents.
type LaunchdManager struct {
	// AgentDir is the directory plist files are written to
	AgentDir string
	// LaunchctlPath is the path to the launchctl binary
	LaunchctlPath string

	runner Runner
	log    *slog.Logger
}

// NewLaunchd creates a LaunchdManager with the standard agent layout
func NewLaunchd(opts ...Option) *LaunchdManager {
	c := newManagerConfig(opts)
	agentDir := c.unitDir
	if agentDir == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			agentDir = filepath.Join(home, "Library", "LaunchAgents")
		}
	}
	return &LaunchdManager{
		AgentDir:      agentDir,
		LaunchctlPath: "launchctl",
		runner:        c.runner,
		log:           c.log,
	}
}

// plistPath returns the plist path for a service name
func (m *LaunchdManager) plistPath(name string) string {
	return filepath.Join(m.AgentDir, labelPrefix+name+".plist")
}

func (m *LaunchdManager) launchctl(ctx context.Context, op string, args ...string) error {
	_, err := run(ctx, m.runner, op, m.LaunchctlPath, args...)
	return err
}

// Install writes the plist and loads it. launchctl load -w both
// registers and enables the agent; launchd has no separate enable step.
func (m *LaunchdManager) Install(ctx context.Context, d *Descriptor) error {
	plistPath := m.plistPath(d.Name)
	if _, err := os.Stat(plistPath); err == nil {
		return &OpError{Op: "install", Name: d.Name, Err: ErrAlreadyExists}
	}

	content, err := LaunchdPlist(d)
	if err != nil {
		return &OpError{Op: "install", Name: d.Name, Err: err}
	}

	if err := os.MkdirAll(m.AgentDir, 0o755); err != nil {
		return &OpError{Op: "install", Name: d.Name, Err: mapFSError(err)}
	}
	if err := renameio.WriteFile(plistPath, []byte(content), 0o644); err != nil {
		return &OpError{Op: "install", Name: d.Name, Err: mapFSError(err)}
	}

	return m.launchctl(ctx, "install", "load", "-w", plistPath)
}

// Uninstall unloads the agent best-effort and removes the plist. The
// unload may fail when the agent was never loaded; that is logged, not
// fatal.
func (m *LaunchdManager) Uninstall(ctx context.Context, name string) error {
	plistPath := m.plistPath(name)
	if _, err := os.Stat(plistPath); err != nil {
		return &OpError{Op: "uninstall", Name: name, Err: ErrNotFound}
	}

	if err := m.launchctl(ctx, "uninstall", "unload", plistPath); err != nil {
		m.log.Info("best-effort unload before uninstall failed", "service", name, "error", err)
	}

	if err := os.Remove(plistPath); err != nil {
		return &OpError{Op: "uninstall", Name: name, Err: mapFSError(err)}
	}
	return nil
}

// Start starts the agent by label
func (m *LaunchdManager) Start(ctx context.Context, name string) error {
	return m.launchctl(ctx, "start", "start", labelPrefix+name)
}

// Stop stops the agent by label
func (m *LaunchdManager) Stop(ctx context.Context, name string) error {
	return m.launchctl(ctx, "stop", "stop", labelPrefix+name)
}

// Restart decomposes into stop then start; launchd has no atomic
// restart. A failed stop phase aborts the restart without attempting
// start, so a half-restarted agent is never reported as success.
func (m *LaunchdManager) Restart(ctx context.Context, name string) error {
	if err := m.Stop(ctx, name); err != nil {
		return err
	}
	return m.Start(ctx, name)
}
