package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	doc := Default()

	assert.Equal(t, "localhost", doc.Connection.Host)
	assert.Equal(t, 5000, doc.Connection.Port)
	assert.False(t, doc.Connection.UseTLS)
	assert.True(t, doc.Connection.VerifyCert)
	assert.Equal(t, "info", doc.Output.LogLevel)
	assert.Equal(t, "human", doc.Output.Format)
	assert.True(t, doc.Output.Color)
	assert.False(t, doc.Output.JSONOutput)
	assert.False(t, doc.Output.Quiet)
	assert.Equal(t, 30, doc.Other.TimeoutSeconds)
}

func TestSetGetRoundTrip(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"host", "example.com"},
		{"port", "8080"},
		{"use_tls", "true"},
		{"verify_cert", "false"},
		{"username", "alice"},
		{"token", "tok123"},
		{"secret", "shh"},
		{"log_level", "debug"},
		{"format", "json"},
		{"color", "false"},
		{"json_output", "true"},
		{"quiet", "true"},
		{"timeout_seconds", "60"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			doc := Default()

			updated, err := Set(&doc, tt.key, tt.value)
			require.NoError(t, err)

			got, err := Get(updated, tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.value, got, "set then get must return the written value")
		})
	}
}

func TestSetInvalidValue(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		message string
	}{
		{"port", "99999", "must be a valid number between 1-65535"},
		{"port", "0", "must be a valid number between 1-65535"},
		{"port", "-1", "must be a valid number between 1-65535"},
		{"port", "abc", "must be a valid number between 1-65535"},
		{"use_tls", "yes", "must be true or false"},
		{"use_tls", "TRUE", "must be true or false"},
		{"verify_cert", "1", "must be true or false"},
		{"log_level", "trace", "must be debug, info, warn, or error"},
		{"format", "yaml", "must be human or json"},
		{"color", "maybe", "must be true or false"},
		{"timeout_seconds", "soon", "must be a valid number"},
		{"timeout_seconds", "-5", "must be a valid number"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			doc := Default()
			before := doc

			updated, err := Set(&doc, tt.key, tt.value)
			require.Error(t, err)
			assert.Nil(t, updated)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.key, verr.Key)
			assert.Equal(t, tt.message, verr.Message)
			assert.Equal(t, tt.key+" "+tt.message, verr.Error())

			// a rejected set leaves the input untouched
			assert.Equal(t, before, doc)
		})
	}
}

func TestUnknownKey(t *testing.T) {
	doc := Default()

	_, err := Get(&doc, "hostname")
	var unknown *UnknownKeyError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "unknown config key: hostname", unknown.Error())

	_, err = Set(&doc, "nope", "x")
	require.ErrorAs(t, err, &unknown)
}

func TestEveryKeyGettableAndSettable(t *testing.T) {
	// The descriptor table is the single authority for get, set, and
	// list; every key must work in both directions.
	doc := Default()
	for i := range Keys {
		kd := &Keys[i]

		value, err := Get(&doc, kd.Key)
		require.NoError(t, err, "get %s", kd.Key)
		if value == "" {
			value = "x"
		}
		_, err = Set(&doc, kd.Key, value)
		assert.NoError(t, err, "set %s", kd.Key)
	}
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	doc, err := Load(path)
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, &def, doc)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[connection\nhost ="), 0o600))

	_, err := Load(path)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, path, perr.Path)
}

func TestLoadPartialFileFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[connection]\nhost = \"db.internal\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	doc, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "db.internal", doc.Connection.Host)
	assert.Equal(t, 5000, doc.Connection.Port, "absent keys take defaults")
	assert.Equal(t, "human", doc.Output.Format)
	assert.Equal(t, 30, doc.Other.TimeoutSeconds)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	doc := Default()
	doc.Connection.Host = "rcp.example.com"
	doc.Connection.Port = 6000
	doc.Connection.UseTLS = true
	doc.Auth.Username = "alice"
	doc.Auth.Token = "tok123"
	doc.Output.Format = "json"
	doc.Other.TimeoutSeconds = 45

	require.NoError(t, Save(&doc, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm(), "config may hold credentials")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, &doc, loaded)
}

func TestListOrderAndMasking(t *testing.T) {
	doc := Default()
	doc.Auth.Token = "tok123"

	entries := List(&doc)
	require.Len(t, entries, len(Keys))

	// table order: connection, auth, output, other
	var order []string
	seen := map[string]bool{}
	for _, e := range entries {
		if !seen[e.Section] {
			seen[e.Section] = true
			order = append(order, e.Section)
		}
	}
	assert.Equal(t, []string{"connection", "auth", "output", "other"}, order)

	byKey := map[string]string{}
	for _, e := range entries {
		byKey[e.Key] = e.Value
	}
	assert.Equal(t, "(set)", byKey["token"])
	assert.Equal(t, "(unset)", byKey["secret"])
	assert.Equal(t, "localhost", byKey["host"])
	assert.NotContains(t, byKey["token"], "tok123")
}

func TestGetReturnsCleartextSecret(t *testing.T) {
	// get is the read side of set; masking applies to list only
	doc := Default()
	updated, err := Set(&doc, "token", "tok123")
	require.NoError(t, err)

	got, err := Get(updated, "token")
	require.NoError(t, err)
	assert.Equal(t, "tok123", got)
}

func TestIsSecret(t *testing.T) {
	assert.True(t, IsSecret("token"))
	assert.True(t, IsSecret("secret"))
	assert.False(t, IsSecret("host"))
	assert.False(t, IsSecret("username"))
	assert.False(t, IsSecret("no-such-key"))
}

func TestSetDoesNotMutateInput(t *testing.T) {
	doc := Default()

	updated, err := Set(&doc, "host", "elsewhere")
	require.NoError(t, err)

	assert.Equal(t, "localhost", doc.Connection.Host)
	assert.Equal(t, "elsewhere", updated.Connection.Host)
}

func TestParseErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	err := &ParseError{Path: "/tmp/c.toml", Err: inner}
	assert.ErrorIs(t, err, inner)
}
