// Package config loads questmap settings from a YAML file with
// QUESTMAP_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendSQLite   = "sqlite"
	BackendBadger   = "badger"
	BackendSupabase = "supabase"
	BackendMemory   = "memory"
)

// Config is the top-level configuration.
type Config struct {
	Storage  StorageConfig  `yaml:"storage"`
	Progress ProgressConfig `yaml:"progress"`
	Log      LogConfig      `yaml:"log"`
}

// StorageConfig selects and configures the key-value backend.
type StorageConfig struct {
	Backend string `yaml:"backend" validate:"oneof=sqlite badger supabase memory"`

	// Path is the SQLite database file. Empty means the XDG default.
	Path string `yaml:"path"`

	// BadgerDir is the BadgerDB directory. Empty means the XDG default.
	BadgerDir string `yaml:"badger_dir"`

	SupabaseURL   string `yaml:"supabase_url" validate:"required_if=Backend supabase"`
	SupabaseKey   string `yaml:"supabase_key" validate:"required_if=Backend supabase"`
	SupabaseTable string `yaml:"supabase_table"`
}

// ProgressConfig tunes the progress tracker.
type ProgressConfig struct {
	XPReward int `yaml:"xp_reward" validate:"min=1,max=1000"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level       string `yaml:"level" validate:"oneof=debug info warn error"`
	Development bool   `yaml:"development"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Backend:       BackendSQLite,
			SupabaseTable: "kv_store",
		},
		Progress: ProgressConfig{
			XPReward: 10,
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// DefaultPath resolves the config file location:
// $XDG_CONFIG_HOME/questmap/config.yaml, else ~/.config/questmap/config.yaml.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "questmap", "config.yaml"), nil
}

// Load reads the YAML file at path over the defaults, applies environment
// overrides and validates the result. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from QUESTMAP_* environment variables.
func (c *Config) ApplyEnv() {
	setString(&c.Storage.Backend, "QUESTMAP_STORAGE_BACKEND")
	setString(&c.Storage.Path, "QUESTMAP_DB")
	setString(&c.Storage.BadgerDir, "QUESTMAP_BADGER_DIR")
	setString(&c.Storage.SupabaseURL, "QUESTMAP_SUPABASE_URL")
	setString(&c.Storage.SupabaseKey, "QUESTMAP_SUPABASE_KEY")
	setString(&c.Storage.SupabaseTable, "QUESTMAP_SUPABASE_TABLE")

	if v := os.Getenv("QUESTMAP_XP_REWARD"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			c.Progress.XPReward = i
		}
	}

	if v := os.Getenv("QUESTMAP_LOG_LEVEL"); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("QUESTMAP_LOG_DEV"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Log.Development = b
		}
	}
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and reports every violation.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", field, fe.Param(), fe.Value())
	case "required_if":
		return fmt.Sprintf("%s is required when %s", field, fe.Param())
	case "min", "max":
		return fmt.Sprintf("%s must be %s %s", field, map[string]string{"min": "at least", "max": "at most"}[fe.Tag()], fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}
