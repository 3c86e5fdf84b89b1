package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures shelf's runtime settings.
type Config struct {
	Storage StorageConfig `toml:"storage"`
	Catalog CatalogConfig `toml:"catalog"`
	Log     LogConfig     `toml:"log"`
	Notify  NotifyConfig  `toml:"notify"`
}

// StorageConfig selects the key-value backend that holds favorites.
type StorageConfig struct {
	Backend string `toml:"backend" validate:"oneof=memory file sqlite"`
	Path    string `toml:"path"`
}

// CatalogConfig tunes the simulated product API.
type CatalogConfig struct {
	DelayMS int  `toml:"delay_ms" validate:"gte=0,lte=60000"`
	Fail    bool `toml:"fail"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level string `toml:"level" validate:"oneof=debug info warn error"`
	File  string `toml:"file"`
}

// NotifyConfig controls toast durations.
type NotifyConfig struct {
	AutoCloseMS int `toml:"auto_close_ms" validate:"gte=0,lte=60000"`
}

const (
	defaultConfigPath  = "~/.config/shelf/config.toml"
	defaultStorage     = "file"
	defaultFilePath    = "~/.local/share/shelf/favorites.toml"
	defaultSQLitePath  = "~/.local/share/shelf/favorites.db"
	defaultLogFile     = "~/.local/share/shelf/shelf.log"
	defaultLogLevel    = "info"
	defaultDelayMS     = 200
	defaultAutoCloseMS = 700
)

var validate = validator.New()

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Storage: StorageConfig{Backend: defaultStorage, Path: mustExpand(defaultFilePath)},
		Catalog: CatalogConfig{DelayMS: defaultDelayMS},
		Log:     LogConfig{Level: defaultLogLevel, File: mustExpand(defaultLogFile)},
		Notify:  NotifyConfig{AutoCloseMS: defaultAutoCloseMS},
	}
}

// Load locates and parses the shelf config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	raw := Config{Catalog: CatalogConfig{DelayMS: -1}, Notify: NotifyConfig{AutoCloseMS: -1}}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg := raw
	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(raw.Storage.Backend))
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = defaultStorage
	}
	cfg.Storage.Path = strings.TrimSpace(raw.Storage.Path)
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = defaultStoragePath(cfg.Storage.Backend)
	}
	if cfg.Storage.Path != "" && cfg.Storage.Path != ":memory:" {
		cfg.Storage.Path = mustExpand(cfg.Storage.Path)
	}

	if cfg.Catalog.DelayMS < 0 {
		cfg.Catalog.DelayMS = defaultDelayMS
	}
	if cfg.Notify.AutoCloseMS < 0 {
		cfg.Notify.AutoCloseMS = defaultAutoCloseMS
	}

	cfg.Log.Level = strings.ToLower(strings.TrimSpace(raw.Log.Level))
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaultLogLevel
	}
	cfg.Log.File = strings.TrimSpace(raw.Log.File)
	if cfg.Log.File == "" {
		cfg.Log.File = defaultLogFile
	}
	cfg.Log.File = mustExpand(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field ranges and enumerations.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// FetchDelay returns the simulated API latency.
func (c Config) FetchDelay() time.Duration {
	return time.Duration(c.Catalog.DelayMS) * time.Millisecond
}

// ToastDuration returns how long favorites toasts stay visible.
func (c Config) ToastDuration() time.Duration {
	return time.Duration(c.Notify.AutoCloseMS) * time.Millisecond
}

func defaultStoragePath(backend string) string {
	switch backend {
	case "sqlite":
		return defaultSQLitePath
	case "memory":
		return ""
	default:
		return defaultFilePath
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
