// Package config loads settings from ~/.botnology/config.yaml, BOTNOLOGY_* environment
// variables and an optional .env file, in increasing order of precedence for env over file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"botnology/internal/store"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	EnvPrefix      = "BOTNOLOGY"
	ConfigFileName = "config.yaml"
)

type Config struct {
	API  APIConfig  `mapstructure:"api"`
	Auth AuthConfig `mapstructure:"auth"`
	App  AppConfig  `mapstructure:"app"`
	Log  LogConfig  `mapstructure:"log"`
	TUI  TUIConfig  `mapstructure:"tui"`
}

type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type AuthConfig struct {
	SupabaseURL string `mapstructure:"supabase_url"`
	AnonKey     string `mapstructure:"anon_key"`
	// JWKSURL enables signature verification of stored sessions when set.
	JWKSURL string `mapstructure:"jwks_url"`
}

type AppConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	// File defaults to botnology.log in the config dir.
	File string `mapstructure:"file"`
}

type TUIConfig struct {
	HealthInterval time.Duration `mapstructure:"health_interval"`
}

func Default() *Config {
	return &Config{
		API:  APIConfig{BaseURL: "http://localhost:8000", Timeout: 60 * time.Second},
		App:  AppConfig{BaseURL: "http://localhost:8000"},
		Log:  LogConfig{Level: "info"},
		TUI:  TUIConfig{HealthInterval: 30 * time.Second},
		Auth: AuthConfig{},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.timeout", d.API.Timeout)
	v.SetDefault("auth.supabase_url", d.Auth.SupabaseURL)
	v.SetDefault("auth.anon_key", d.Auth.AnonKey)
	v.SetDefault("auth.jwks_url", d.Auth.JWKSURL)
	v.SetDefault("app.base_url", d.App.BaseURL)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("tui.health_interval", d.TUI.HealthInterval)
}

// DefaultPath is config.yaml inside the config dir.
func DefaultPath() (string, error) {
	dir, err := store.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// Load reads configuration. With an empty path the default file is used and created with
// commented defaults on first run. A .env in the working directory is loaded first; variables
// already set in the environment win.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			// First run; a read-only home is not fatal.
			_ = WriteDefault(path)
		}
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !(errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	c.API.BaseURL = strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")
	c.App.BaseURL = strings.TrimRight(strings.TrimSpace(c.App.BaseURL), "/")
	c.Auth.SupabaseURL = strings.TrimRight(strings.TrimSpace(c.Auth.SupabaseURL), "/")
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
}

func (c *Config) Validate() error {
	return validation.Errors{
		"api": validation.ValidateStruct(&c.API,
			validation.Field(&c.API.BaseURL, validation.Required, is.URL),
			validation.Field(&c.API.Timeout, validation.Required, validation.Min(time.Second)),
		),
		"auth": validation.ValidateStruct(&c.Auth,
			validation.Field(&c.Auth.SupabaseURL, is.URL),
			validation.Field(&c.Auth.JWKSURL, is.URL),
		),
		"app": validation.ValidateStruct(&c.App,
			validation.Field(&c.App.BaseURL, is.URL),
		),
		"log": validation.ValidateStruct(&c.Log,
			validation.Field(&c.Log.Level, validation.Required, validation.In("debug", "info", "warn", "error")),
		),
		"tui": validation.ValidateStruct(&c.TUI,
			validation.Field(&c.TUI.HealthInterval, validation.Required, validation.Min(time.Second)),
		),
	}.Filter()
}

// defaultFile mirrors Config with durations spelled as strings.
type defaultFile struct {
	API struct {
		BaseURL string `yaml:"base_url"`
		Timeout string `yaml:"timeout"`
	} `yaml:"api"`
	Auth struct {
		SupabaseURL string `yaml:"supabase_url"`
		AnonKey     string `yaml:"anon_key"`
		JWKSURL     string `yaml:"jwks_url"`
	} `yaml:"auth"`
	App struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"app"`
	Log struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"log"`
	TUI struct {
		HealthInterval string `yaml:"health_interval"`
	} `yaml:"tui"`
}

const defaultHeader = `# botnology configuration.
# Every key can be overridden with BOTNOLOGY_<SECTION>_<KEY>, e.g. BOTNOLOGY_API_BASE_URL.
`

// WriteDefault writes the default configuration to path. An existing file is left alone.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	d := Default()
	var f defaultFile
	f.API.BaseURL = d.API.BaseURL
	f.API.Timeout = d.API.Timeout.String()
	f.App.BaseURL = d.App.BaseURL
	f.Log.Level = d.Log.Level
	f.TUI.HealthInterval = d.TUI.HealthInterval.String()

	b, err := yaml.Marshal(&f)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, append([]byte(defaultHeader), b...), 0o644)
}
