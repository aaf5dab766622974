package svc

import (
	"context"
	"log/slog"
	"runtime"
	"time"
)

// Manager is the uniform operation set every platform strategy
// implements. One variant exists per native service manager (systemd,
// launchd, Windows SCM) plus a stub for everything else; all variants
// compile on every host so any of them can be driven by tests through a
// fake Runner.
type Manager interface {
	// Install writes the native descriptor and performs the platform's
	// enable step. A descriptor with the same name already installed is
	// ErrAlreadyExists; install never silently overwrites.
	Install(ctx context.Context, d *Descriptor) error

	// Uninstall stops the service best-effort, then removes the
	// descriptor artifact. ErrNotFound if no descriptor exists.
	Uninstall(ctx context.Context, name string) error

	// Start starts the service through the native manager
	Start(ctx context.Context, name string) error

	// Stop stops the service through the native manager
	Stop(ctx context.Context, name string) error

	// Restart restarts the service. Platforms without an atomic restart
	// decompose it into stop then start; a failed stop phase aborts the
	// restart without attempting start.
	Restart(ctx context.Context, name string) error
}

// Option configures a platform manager
type Option func(*managerConfig)

type managerConfig struct {
	runner  Runner
	log     *slog.Logger
	unitDir string
	timeout time.Duration
}

// WithRunner substitutes the command runner (tests use a fake)
func WithRunner(r Runner) Option {
	return func(c *managerConfig) {
		c.runner = r
	}
}

// WithLogger sets the logger used for best-effort outcomes
func WithLogger(l *slog.Logger) Option {
	return func(c *managerConfig) {
		c.log = l
	}
}

// WithUnitDir overrides the directory descriptor artifacts are written
// to (systemd unit dir, launchd agent dir)
func WithUnitDir(dir string) Option {
	return func(c *managerConfig) {
		c.unitDir = dir
	}
}

// WithCommandTimeout bounds each native manager invocation
func WithCommandTimeout(d time.Duration) Option {
	return func(c *managerConfig) {
		c.timeout = d
	}
}

func newManagerConfig(opts []Option) managerConfig {
	c := managerConfig{
		log:     slog.Default(),
		timeout: DefaultCommandTimeout,
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.runner == nil {
		c.runner = &ExecRunner{Timeout: c.timeout}
	}
	return c
}

// New returns the Manager for the current platform. Unsupported
// platforms get a stub whose every operation reports ErrUnsupported
// instead of attempting a no-op.
func New(opts ...Option) Manager {
	return NewForOS(runtime.GOOS, opts...)
}

// NewForOS returns the Manager variant for the given GOOS. Split out of
// New so tests can exercise every variant on any host.
func NewForOS(goos string, opts ...Option) Manager {
	switch goos {
	case "linux":
		return NewSystemd(opts...)
	case "darwin":
		return NewLaunchd(opts...)
	case "windows":
		return NewWindows(opts...)
	default:
		return &unsupportedManager{goos: goos}
	}
}

// unsupportedManager rejects every operation on platforms without a
// native service manager integration
type unsupportedManager struct {
	goos string
}

func (m *unsupportedManager) Install(context.Context, *Descriptor) error {
	return &OpError{Op: "install", Name: m.goos, Err: ErrUnsupported}
}

func (m *unsupportedManager) Uninstall(context.Context, string) error {
	return &OpError{Op: "uninstall", Name: m.goos, Err: ErrUnsupported}
}

func (m *unsupportedManager) Start(context.Context, string) error {
	return &OpError{Op: "start", Name: m.goos, Err: ErrUnsupported}
}

func (m *unsupportedManager) Stop(context.Context, string) error {
	return &OpError{Op: "stop", Name: m.goos, Err: ErrUnsupported}
}

func (m *unsupportedManager) Restart(context.Context, string) error {
	return &OpError{Op: "restart", Name: m.goos, Err: ErrUnsupported}
}
