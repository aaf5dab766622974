package config

import "fmt"

// UnknownKeyError reports a key absent from the descriptor table
type UnknownKeyError struct {
	Key string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("unknown config key: %s", e.Key)
}

// ValidationError reports a value rejected by a key's validator. Message
// names the exact accepted domain so the user knows what to type next.
type ValidationError struct {
	Key     string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Key, e.Message)
}

// ParseError reports a config file that exists but cannot be decoded.
// The file is never auto-repaired.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing config file %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
