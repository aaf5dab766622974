package svc

import (
	"fmt"
	"os"
	"time"
)

// ServiceName is the fixed identifier the daemon is registered under in
// every native manager. All lookups are keyed by it, so it never changes
// after install.
const ServiceName = "rcpdaemon"

// labelPrefix is the reverse-DNS prefix used for launchd labels
const labelPrefix = "io.rcp."

// RestartPolicy controls whether the native manager restarts the daemon
// after it exits.
type RestartPolicy int

const (
	// RestartNever leaves the service down after any exit
	RestartNever RestartPolicy = iota
	// RestartOnFailure restarts only after a nonzero exit
	RestartOnFailure
	// RestartAlways restarts after every exit
	RestartAlways
)

// String returns the canonical name of the policy
func (p RestartPolicy) String() string {
	switch p {
	case RestartNever:
		return "never"
	case RestartOnFailure:
		return "on-failure"
	case RestartAlways:
		return "always"
	default:
		return fmt.Sprintf("restart-policy(%d)", int(p))
	}
}

// ParseRestartPolicy parses the canonical policy names
func ParseRestartPolicy(s string) (RestartPolicy, error) {
	switch s {
	case "never":
		return RestartNever, nil
	case "on-failure":
		return RestartOnFailure, nil
	case "always":
		return RestartAlways, nil
	default:
		return RestartNever, fmt.Errorf("restart policy must be never, on-failure, or always, got %q", s)
	}
}

// Descriptor holds the identity and runtime parameters of the managed
// process. It is rendered into a native descriptor artifact (systemd unit,
// launchd plist, SCM entry) at install time and never cached in memory
// across invocations.
type Descriptor struct {
	// Name is the service identifier used for lookup in the native manager
	Name string
	// ExecPath is the absolute path to the daemon binary
	ExecPath string
	// Args are the arguments passed to the binary, order preserved
	Args []string
	// WorkingDir is the working directory the daemon starts in
	WorkingDir string
	// Restart is the restart policy applied by the native manager
	Restart RestartPolicy
	// RestartDelay is the delay before a restart attempt
	RestartDelay time.Duration
	// StdoutPath receives the daemon's stdout where the platform supports
	// file redirection (launchd)
	StdoutPath string
	// StderrPath receives the daemon's stderr
	StderrPath string
}

// Label returns the reverse-DNS launchd label for the descriptor
func (d *Descriptor) Label() string {
	return labelPrefix + d.Name
}

// DefaultDescriptor builds the descriptor used by `service install`: the
// current binary re-invoked with the given config file.
func DefaultDescriptor(configPath string) (*Descriptor, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("resolving executable path: %w", err)
	}
	return &Descriptor{
		Name:         ServiceName,
		ExecPath:     exe,
		Args:         []string{"--config", configPath},
		Restart:      RestartOnFailure,
		RestartDelay: 5 * time.Second,
		StdoutPath:   "/tmp/rcpdaemon.out",
		StderrPath:   "/tmp/rcpdaemon.err",
	}, nil
}

// Validate checks the fields every generator depends on
func (d *Descriptor) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("descriptor name not specified")
	}
	if d.ExecPath == "" {
		return fmt.Errorf("descriptor executable path not specified")
	}
	return nil
}
