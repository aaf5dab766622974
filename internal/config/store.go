package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

// DefaultPath returns the well-known config file location used when the
// caller does not pass --config.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "rcpdaemon", "config.toml"), nil
}

// Load reads the document at path. A missing file is not an error: the
// documented defaults are returned so first-run invocations work without
// any setup. A file that exists but cannot be decoded is a ParseError.
func Load(path string) (*Document, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			doc := Default()
			return &doc, nil
		}
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			doc := Default()
			return &doc, nil
		}
		return nil, &ParseError{Path: path, Err: err}
	}

	var doc Document
	if err := v.Unmarshal(&doc); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &doc, nil
}

// setDefaults registers the documented defaults so keys absent from the
// file come back populated
func setDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("connection.host", def.Connection.Host)
	v.SetDefault("connection.port", def.Connection.Port)
	v.SetDefault("connection.use_tls", def.Connection.UseTLS)
	v.SetDefault("connection.verify_cert", def.Connection.VerifyCert)
	v.SetDefault("output.log_level", def.Output.LogLevel)
	v.SetDefault("output.format", def.Output.Format)
	v.SetDefault("output.color", def.Output.Color)
	v.SetDefault("output.json_output", def.Output.JSONOutput)
	v.SetDefault("output.quiet", def.Output.Quiet)
	v.SetDefault("other.timeout_seconds", def.Other.TimeoutSeconds)
}

// Get renders the value of key in its canonical string form
func Get(doc *Document, key string) (string, error) {
	kd, ok := lookupKey(key)
	if !ok {
		return "", &UnknownKeyError{Key: key}
	}
	return kd.get(doc), nil
}

// Set validates value against key's descriptor and returns an updated
// copy of the document. The input document is never touched, so a failed
// validation cannot leave a partial mutation behind. Persisting the
// returned copy is the caller's job.
func Set(doc *Document, key, value string) (*Document, error) {
	kd, ok := lookupKey(key)
	if !ok {
		return nil, &UnknownKeyError{Key: key}
	}
	updated := *doc
	if err := kd.set(&updated, value); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Entry is one row of list output
type Entry struct {
	Section string `json:"section"`
	Key     string `json:"key"`
	Value   string `json:"value"`
}

// List enumerates every key in table order (connection, auth, output,
// other). Secret-bearing values are rendered as a set/unset indicator
// only; cleartext secrets never appear in list output.
func List(doc *Document) []Entry {
	entries := make([]Entry, 0, len(Keys))
	for i := range Keys {
		kd := &Keys[i]
		value := kd.get(doc)
		if kd.Secret {
			if value == "" {
				value = "(unset)"
			} else {
				value = "(set)"
			}
		}
		entries = append(entries, Entry{Section: kd.Section, Key: kd.Key, Value: value})
	}
	return entries
}

// Save serializes the document and writes it atomically: the TOML goes
// to a temp file in the target directory and is renamed over the
// destination, so a crash mid-write cannot truncate the config. Mode is
// 0600 because the auth section may hold credentials.
func Save(doc *Document, path string) error {
	data, err := toml.Marshal(doc)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return renameio.WriteFile(path, data, 0o600)
}
