// Package config loads folio's settings from defaults, an optional YAML file
// and FOLIO_* environment variables, in increasing order of precedence.
//
// Keys (env var in brackets):
//
//	port            8080                  [FOLIO_PORT]
//	db_path         data/folio.db         [FOLIO_DB_PATH]
//	defaults_dir    ""                    [FOLIO_DEFAULTS_DIR]
//	export_dir      public                [FOLIO_EXPORT_DIR]
//	session.secret  random per process    [FOLIO_SESSION_SECRET]
//	session.ttl     2h                    [FOLIO_SESSION_TTL]
//	session.max     256                   [FOLIO_SESSION_MAX]
//	log.level       info                  [FOLIO_LOG_LEVEL]
//	log.format      text                  [FOLIO_LOG_FORMAT]
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "FOLIO"

// MinSecretLength matches what the session token signer accepts.
const MinSecretLength = 16

// Config holds every setting.
type Config struct {
	Port        int     `mapstructure:"port"`
	DBPath      string  `mapstructure:"db_path"`
	DefaultsDir string  `mapstructure:"defaults_dir"`
	ExportDir   string  `mapstructure:"export_dir"`
	Session     Session `mapstructure:"session"`
	Log         Log     `mapstructure:"log"`

	// File is the config file that was read, empty if none.
	File string `mapstructure:"-"`
}

// Session configures editor sessions.
type Session struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
	Max    int           `mapstructure:"max"`

	// GeneratedSecret is true when no secret was configured and a random one
	// was made up. Editor cookies then stop working across restarts.
	GeneratedSecret bool `mapstructure:"-"`
}

// Log configures the slog handler.
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// setDefaults registers the default for every key. Viper only maps env vars
// onto keys it knows about, so every key needs a default here.
func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 8080)
	v.SetDefault("db_path", "data/folio.db")
	v.SetDefault("defaults_dir", "")
	v.SetDefault("export_dir", "public")
	v.SetDefault("session.secret", "")
	v.SetDefault("session.ttl", 2*time.Hour)
	v.SetDefault("session.max", 256)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// New returns a viper instance with defaults and environment binding set up.
// Callers may bind command-line flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads file (if non-empty; otherwise an optional ./folio.yaml) into v
// and decodes the result.
func Load(v *viper.Viper, file string) (Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("folio")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: reading %s: %w", describe(file), err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decoding: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if cfg.Session.Secret == "" {
		secret, err := randomSecret()
		if err != nil {
			return Config{}, err
		}
		cfg.Session.Secret = secret
		cfg.Session.GeneratedSecret = true
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port must be between 1 and 65535, got %d", c.Port))
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("db_path must not be empty"))
	}
	if len(c.Session.Secret) < MinSecretLength {
		errs = append(errs, fmt.Errorf("session.secret must be at least %d characters", MinSecretLength))
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, fmt.Errorf("session.ttl must be positive, got %s", c.Session.TTL))
	}
	if c.Session.Max <= 0 {
		errs = append(errs, fmt.Errorf("session.max must be positive, got %d", c.Session.Max))
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// SlogLevel parses Level ("debug", "info", "warn", "error").
func (l Log) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// NewLogger builds the process logger described by l, writing to w.
func (l Log) NewLogger(w io.Writer) *slog.Logger {
	level, err := l.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(l.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("config: generating session secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func describe(file string) string {
	if file == "" {
		return "folio.yaml"
	}
	return file
}
