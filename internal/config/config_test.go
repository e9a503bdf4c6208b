package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Port:   8080,
		DBPath: "data/folio.db",
		Session: Session{
			Secret: "0123456789abcdef",
			TTL:    time.Hour,
			Max:    10,
		},
		Log: Log{Level: "info", Format: "text"},
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "data/folio.db", cfg.DBPath)
	assert.Equal(t, "public", cfg.ExportDir)
	assert.Empty(t, cfg.DefaultsDir)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 256, cfg.Session.Max)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Empty(t, cfg.File)

	assert.True(t, cfg.Session.GeneratedSecret)
	assert.GreaterOrEqual(t, len(cfg.Session.Secret), MinSecretLength)
}

func TestLoad_GeneratedSecretsDiffer(t *testing.T) {
	t.Chdir(t.TempDir())

	a, err := Load(New(), "")
	require.NoError(t, err)
	b, err := Load(New(), "")
	require.NoError(t, err)

	assert.NotEqual(t, a.Session.Secret, b.Session.Secret)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	yaml := strings.Join([]string{
		"port: 9000",
		"db_path: /tmp/folio-test.db",
		"session:",
		"  secret: a-very-long-secret-value",
		"  ttl: 30m",
		"log:",
		"  format: json",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(New(), path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "/tmp/folio-test.db", cfg.DBPath)
	assert.Equal(t, "a-very-long-secret-value", cfg.Session.Secret)
	assert.False(t, cfg.Session.GeneratedSecret)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, 256, cfg.Session.Max, "keys missing from the file keep their defaults")
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, path, cfg.File)
}

func TestLoad_DefaultFileInWorkingDir(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "folio.yaml"), []byte("port: 7070\n"), 0o644))

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Port)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "folio.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 9000\nsession:\n  max: 5\n"), 0o644))

	t.Setenv("FOLIO_PORT", "9100")
	t.Setenv("FOLIO_SESSION_MAX", "7")
	t.Setenv("FOLIO_SESSION_TTL", "15m")

	cfg, err := Load(New(), path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, 7, cfg.Session.Max)
	assert.Equal(t, 15*time.Minute, cfg.Session.TTL)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FOLIO_SESSION_SECRET", "short")

	_, err := Load(New(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session.secret")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "port zero", mutate: func(c *Config) { c.Port = 0 }, wantErr: "port"},
		{name: "port too large", mutate: func(c *Config) { c.Port = 70000 }, wantErr: "port"},
		{name: "empty db path", mutate: func(c *Config) { c.DBPath = "" }, wantErr: "db_path"},
		{name: "short secret", mutate: func(c *Config) { c.Session.Secret = "abc" }, wantErr: "session.secret"},
		{name: "zero ttl", mutate: func(c *Config) { c.Session.TTL = 0 }, wantErr: "session.ttl"},
		{name: "negative max", mutate: func(c *Config) { c.Session.Max = -1 }, wantErr: "session.max"},
		{name: "bad level", mutate: func(c *Config) { c.Log.Level = "loud" }, wantErr: "log.level"},
		{name: "bad format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: "log.format"},
		{name: "format is case insensitive", mutate: func(c *Config) { c.Log.Format = "JSON" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := validConfig()
	cfg.Port = 0
	cfg.Session.Max = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "port")
	assert.Contains(t, err.Error(), "session.max")
}

func TestLog_SlogLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "DEBUG"} {
		_, err := Log{Level: level}.SlogLevel()
		assert.NoError(t, err, level)
	}
}

func TestLog_NewLogger(t *testing.T) {
	var buf strings.Builder

	logger := Log{Level: "warn", Format: "json"}.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"key":"value"`)
}
