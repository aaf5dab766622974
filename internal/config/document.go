package config

// Document is the persisted configuration shared by the daemon and the
// CLI. It lives in a single TOML file; nothing here survives a process
// exit, the file is the sole source of truth.
type Document struct {
	Connection ConnectionConfig `toml:"connection" mapstructure:"connection"`
	Auth       AuthConfig       `toml:"auth" mapstructure:"auth"`
	Output     OutputConfig     `toml:"output" mapstructure:"output"`
	Other      OtherConfig      `toml:"other" mapstructure:"other"`
}

// ConnectionConfig describes how the CLI reaches the daemon
type ConnectionConfig struct {
	// Host is the daemon host
	Host string `toml:"host" mapstructure:"host"`
	// Port is the daemon port
	Port int `toml:"port" mapstructure:"port"`
	// UseTLS enables TLS on the connection
	UseTLS bool `toml:"use_tls" mapstructure:"use_tls"`
	// VerifyCert controls certificate verification when TLS is on
	VerifyCert bool `toml:"verify_cert" mapstructure:"verify_cert"`
}

// AuthConfig holds the optional credentials presented to the daemon.
// Token and Secret are secret-bearing: list output renders only a
// set/unset indicator for them, never the value.
type AuthConfig struct {
	Username string `toml:"username,omitempty" mapstructure:"username"`
	Token    string `toml:"token,omitempty" mapstructure:"token"`
	Secret   string `toml:"secret,omitempty" mapstructure:"secret"`
}

// OutputConfig controls CLI presentation
type OutputConfig struct {
	// LogLevel is one of debug, info, warn, error
	LogLevel string `toml:"log_level" mapstructure:"log_level"`
	// Format is one of human, json
	Format string `toml:"format" mapstructure:"format"`
	// Color enables colored human output
	Color bool `toml:"color" mapstructure:"color"`
	// JSONOutput forces structured output regardless of Format
	JSONOutput bool `toml:"json_output" mapstructure:"json_output"`
	// Quiet suppresses informational output
	Quiet bool `toml:"quiet" mapstructure:"quiet"`
}

// OtherConfig holds settings outside the named sections
type OtherConfig struct {
	// TimeoutSeconds bounds daemon requests
	TimeoutSeconds int `toml:"timeout_seconds" mapstructure:"timeout_seconds"`
}

// Default returns the documented first-run configuration. Load falls
// back to it when the config file does not exist yet.
func Default() Document {
	return Document{
		Connection: ConnectionConfig{
			Host:       "localhost",
			Port:       5000,
			UseTLS:     false,
			VerifyCert: true,
		},
		Output: OutputConfig{
			LogLevel:   "info",
			Format:     "human",
			Color:      true,
			JSONOutput: false,
			Quiet:      false,
		},
		Other: OtherConfig{
			TimeoutSeconds: 30,
		},
	}
}
