// Package config loads CodeVault's settings.
//
// Sources, lowest priority first:
//
//  1. built-in defaults
//  2. a YAML file (codevault.yaml in the working directory, or --config)
//  3. environment variables prefixed CODEVAULT_, e.g. CODEVAULT_PORT=9000
//
// Nothing here is persisted; the app never writes its config back.
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

// Config holds every tunable setting.
type Config struct {
	Port           int           `mapstructure:"port"`
	SessionSecret  string        `mapstructure:"session_secret"`
	SessionTTL     time.Duration `mapstructure:"session_ttl"`
	SweepInterval  time.Duration `mapstructure:"sweep_interval"`
	AuthDelay      time.Duration `mapstructure:"auth_delay"`
	BcryptCost     int           `mapstructure:"bcrypt_cost"`
	Clipboard      string        `mapstructure:"clipboard"`
	Storage        string        `mapstructure:"storage"`
	HighlightStyle string        `mapstructure:"highlight_style"`
	LogLevel       string        `mapstructure:"log_level"`
	LogFormat      string        `mapstructure:"log_format"`

	// GeneratedSecret is true when no secret was configured and one was
	// made up for this process.
	GeneratedSecret bool `mapstructure:"-"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 8080)
	v.SetDefault("session_secret", "")
	v.SetDefault("session_ttl", "12h")
	v.SetDefault("sweep_interval", "5m")
	v.SetDefault("auth_delay", "1500ms")
	v.SetDefault("bcrypt_cost", 12)
	v.SetDefault("clipboard", "none")
	v.SetDefault("storage", "memory")
	v.SetDefault("highlight_style", "dracula")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
}

// Load reads the configuration. configFile may be empty, in which case an
// optional ./codevault.yaml is used when present.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("CODEVAULT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("codevault")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: reading %s: %w", describe(configFile), err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decoding: %w", err)
	}

	if cfg.SessionSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			return nil, err
		}
		cfg.SessionSecret = secret
		cfg.GeneratedSecret = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config: port %d out of range", c.Port)
	}
	if len(c.SessionSecret) < 16 {
		return fmt.Errorf("config: session_secret must be at least 16 characters")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("config: session_ttl must be positive")
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("config: sweep_interval must be positive")
	}
	if c.AuthDelay < 0 {
		return fmt.Errorf("config: auth_delay must not be negative")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("config: bcrypt_cost %d out of range 4..31", c.BcryptCost)
	}
	switch c.Clipboard {
	case "system", "none":
	default:
		return fmt.Errorf("config: clipboard must be system or none, got %q", c.Clipboard)
	}
	switch c.Storage {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("config: storage must be memory or sqlite, got %q", c.Storage)
	}
	if _, err := c.level(); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("config: log_format must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// Logger builds the process logger.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, err := c.level()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func (c *Config) level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("config: generating session secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func describe(configFile string) string {
	if configFile == "" {
		return "codevault.yaml"
	}
	return configFile
}
