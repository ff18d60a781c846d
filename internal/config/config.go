// Package config loads client settings with viper: defaults, an optional
// config.yaml, LOVEDHOMES_* environment variables and CLI flags.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/idilsaglam/lovedhomes/internal/auth"
)

// Config holds all client configuration.
type Config struct {
	BackendURL string
	Token      string

	API       APIConfig
	Checklist ChecklistConfig
	UI        UIConfig
	Logger    LoggerConfig
}

type APIConfig struct {
	Timeout   time.Duration
	RateLimit float64 // requests per second, 0 = unlimited
}

type ChecklistConfig struct {
	// Flat projects every checklist onto a single level of items.
	Flat bool
}

type UIConfig struct {
	Theme string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
	File         string
}

// Options tells Load where to look besides the defaults.
type Options struct {
	// File is an explicit config file; when set it must exist.
	File string
	// Flags are bound by key name (see FlagKeys).
	Flags *pflag.FlagSet
}

// FlagKeys maps CLI flag names to config keys.
var FlagKeys = map[string]string{
	"backend-url": "backend_url",
	"token":       "token",
	"flat":        "checklist.flat",
	"theme":       "ui.theme",
	"log-level":   "logger.level",
	"log-file":    "logger.file",
}

// Load resolves the configuration.
func Load(opt Options) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if opt.File != "" {
		v.SetConfigFile(opt.File)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if dir, err := auth.Dir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix("LOVEDHOMES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The web build read VITE_BACKEND_URL; accept it and BACKEND_URL too.
	if err := v.BindEnv("backend_url", "LOVEDHOMES_BACKEND_URL", "BACKEND_URL", "VITE_BACKEND_URL"); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	setDefaults(v)

	if opt.Flags != nil {
		for flag, key := range FlagKeys {
			if f := opt.Flags.Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", flag, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opt.File != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}
	cfg.BackendURL = strings.TrimRight(strings.TrimSpace(v.GetString("backend_url")), "/")
	cfg.Token = strings.TrimSpace(v.GetString("token"))

	cfg.API.Timeout = v.GetDuration("api.timeout")
	cfg.API.RateLimit = v.GetFloat64("api.rate_limit")

	cfg.Checklist.Flat = v.GetBool("checklist.flat")
	cfg.UI.Theme = v.GetString("ui.theme")

	cfg.Logger.Level = v.GetString("logger.level")
	cfg.Logger.Mode = v.GetString("logger.mode")
	cfg.Logger.Encoding = v.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = v.GetBool("logger.color_enabled")
	cfg.Logger.File = v.GetString("logger.file")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend_url", "http://localhost:8000")
	v.SetDefault("token", "")
	v.SetDefault("api.timeout", "30s")
	v.SetDefault("api.rate_limit", 0)
	v.SetDefault("checklist.flat", false)
	v.SetDefault("ui.theme", "classic")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.mode", "production")
	v.SetDefault("logger.encoding", "json")
	v.SetDefault("logger.color_enabled", false)
	if dir, err := auth.Dir(); err == nil {
		v.SetDefault("logger.file", filepath.Join(dir, "lovedhomes.log"))
	}
}

func (c *Config) validate() error {
	u, err := url.Parse(c.BackendURL)
	if err != nil {
		return fmt.Errorf("backend_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("backend_url: scheme must be http or https, got %q", c.BackendURL)
	}
	if u.Host == "" {
		return fmt.Errorf("backend_url: missing host in %q", c.BackendURL)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative")
	}
	if c.API.RateLimit < 0 {
		return fmt.Errorf("api.rate_limit must not be negative")
	}
	switch strings.ToLower(c.UI.Theme) {
	case "classic", "neon", "mono":
	default:
		return fmt.Errorf("ui.theme: unknown theme %q", c.UI.Theme)
	}
	return nil
}
