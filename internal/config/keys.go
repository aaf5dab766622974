package config

import (
	"strconv"
)

// KeyDescriptor binds a canonical key name to its section, renderer, and
// validating setter. The table below is the single authority for get,
// set, and list: every key it names is both gettable and settable.
type KeyDescriptor struct {
	// Key is the canonical name used on the command line
	Key string
	// Section is the config file section the field lives in
	Section string
	// Secret marks values list must never render in cleartext
	Secret bool
	// Domain is the human-readable accepted domain, used in help output
	Domain string

	get func(*Document) string
	set func(*Document, string) error
}

// Keys is the descriptor table in list order: connection, auth, output,
// other. Order is fixed so list output is stable.
var Keys = []KeyDescriptor{
	{
		Key: "host", Section: "connection", Domain: "host name or address",
		get: func(d *Document) string { return d.Connection.Host },
		set: func(d *Document, v string) error {
			d.Connection.Host = v
			return nil
		},
	},
	{
		Key: "port", Section: "connection", Domain: "number between 1-65535",
		get: func(d *Document) string { return strconv.Itoa(d.Connection.Port) },
		set: func(d *Document, v string) error {
			port, err := strconv.Atoi(v)
			if err != nil || port < 1 || port > 65535 {
				return &ValidationError{Key: "port", Message: "must be a valid number between 1-65535"}
			}
			d.Connection.Port = port
			return nil
		},
	},
	{
		Key: "use_tls", Section: "connection", Domain: "true or false",
		get: func(d *Document) string { return strconv.FormatBool(d.Connection.UseTLS) },
		set: setBool("use_tls", func(d *Document, v bool) { d.Connection.UseTLS = v }),
	},
	{
		Key: "verify_cert", Section: "connection", Domain: "true or false",
		get: func(d *Document) string { return strconv.FormatBool(d.Connection.VerifyCert) },
		set: setBool("verify_cert", func(d *Document, v bool) { d.Connection.VerifyCert = v }),
	},
	{
		Key: "username", Section: "auth", Domain: "user name",
		get: func(d *Document) string { return d.Auth.Username },
		set: func(d *Document, v string) error {
			d.Auth.Username = v
			return nil
		},
	},
	{
		Key: "token", Section: "auth", Secret: true, Domain: "authentication token",
		get: func(d *Document) string { return d.Auth.Token },
		set: func(d *Document, v string) error {
			d.Auth.Token = v
			return nil
		},
	},
	{
		Key: "secret", Section: "auth", Secret: true, Domain: "pre-shared secret",
		get: func(d *Document) string { return d.Auth.Secret },
		set: func(d *Document, v string) error {
			d.Auth.Secret = v
			return nil
		},
	},
	{
		Key: "log_level", Section: "output", Domain: "debug, info, warn, or error",
		get: func(d *Document) string { return d.Output.LogLevel },
		set: func(d *Document, v string) error {
			switch v {
			case "debug", "info", "warn", "error":
				d.Output.LogLevel = v
				return nil
			default:
				return &ValidationError{Key: "log_level", Message: "must be debug, info, warn, or error"}
			}
		},
	},
	{
		Key: "format", Section: "output", Domain: "human or json",
		get: func(d *Document) string { return d.Output.Format },
		set: func(d *Document, v string) error {
			switch v {
			case "human", "json":
				d.Output.Format = v
				return nil
			default:
				return &ValidationError{Key: "format", Message: "must be human or json"}
			}
		},
	},
	{
		Key: "color", Section: "output", Domain: "true or false",
		get: func(d *Document) string { return strconv.FormatBool(d.Output.Color) },
		set: setBool("color", func(d *Document, v bool) { d.Output.Color = v }),
	},
	{
		Key: "json_output", Section: "output", Domain: "true or false",
		get: func(d *Document) string { return strconv.FormatBool(d.Output.JSONOutput) },
		set: setBool("json_output", func(d *Document, v bool) { d.Output.JSONOutput = v }),
	},
	{
		Key: "quiet", Section: "output", Domain: "true or false",
		get: func(d *Document) string { return strconv.FormatBool(d.Output.Quiet) },
		set: setBool("quiet", func(d *Document, v bool) { d.Output.Quiet = v }),
	},
	{
		Key: "timeout_seconds", Section: "other", Domain: "number of seconds",
		get: func(d *Document) string { return strconv.Itoa(d.Other.TimeoutSeconds) },
		set: func(d *Document, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return &ValidationError{Key: "timeout_seconds", Message: "must be a valid number"}
			}
			d.Other.TimeoutSeconds = n
			return nil
		},
	},
}

// setBool builds a setter that accepts exactly "true" or "false"
func setBool(key string, assign func(*Document, bool)) func(*Document, string) error {
	return func(d *Document, v string) error {
		switch v {
		case "true":
			assign(d, true)
		case "false":
			assign(d, false)
		default:
			return &ValidationError{Key: key, Message: "must be true or false"}
		}
		return nil
	}
}

// IsSecret reports whether key holds a secret-bearing value
func IsSecret(key string) bool {
	kd, ok := lookupKey(key)
	return ok && kd.Secret
}

// lookupKey finds a key's descriptor in the table
func lookupKey(key string) (*KeyDescriptor, bool) {
	for i := range Keys {
		if Keys[i].Key == key {
			return &Keys[i], true
		}
	}
	return nil, false
}
