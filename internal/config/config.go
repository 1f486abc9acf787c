// Package config provides unified configuration management for wayfinder.
// Configuration is loaded from multiple sources with the following precedence:
// embedded defaults → global file → env vars → local file → CLI flags
package config

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/alexander-akhmetov/wayfinder/internal/dirs"
	"github.com/alexander-akhmetov/wayfinder/internal/kv"
)

//go:embed defaults/config.yaml
var defaultsFS embed.FS

// LocalDirName is the per-project config directory looked up in the
// working directory.
const LocalDirName = ".wayfinder"

// StoreConfig selects the key/value backend.
type StoreConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

// OutputConfig controls CLI output.
type OutputConfig struct {
	Plain bool `yaml:"plain"`

	PlainSet bool `yaml:"-"`
}

// Config holds all configuration settings for wayfinder.
// Fields ending in *Set track whether that field was explicitly set, so a
// later layer can override an earlier one with false.
type Config struct {
	Store  StoreConfig  `yaml:"store"`
	Output OutputConfig `yaml:"output"`
	Debug  bool         `yaml:"debug"`

	DebugSet bool `yaml:"-"`

	configDir string
	localDir  string
	sources   []string
}

// Sources returns the ordered list of sources that contributed to this config.
func (c *Config) Sources() []string {
	return c.sources
}

// LocalDir returns the local project config directory if one was detected.
func (c *Config) LocalDir() string {
	return c.localDir
}

// ConfigDir returns the global config directory.
func (c *Config) ConfigDir() string {
	return c.configDir
}

// StorePath returns the configured store path, or the default location in
// the state directory for the configured backend.
func (c *Config) StorePath() string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	switch c.Store.Backend {
	case kv.BackendSQLite:
		return dirs.StoreFile("store.db")
	default:
		return dirs.StoreFile("store.json")
	}
}

// Load loads configuration from the default locations, picking up
// .wayfinder/ in the current working directory for local overrides.
func Load() (*Config, error) {
	var localDir string
	if cwd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(cwd, LocalDirName)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			localDir = candidate
		}
	}
	return LoadWithDirs(dirs.ConfigDir(), localDir)
}

// LoadWithDirs loads configuration with explicit global and local
// directories. Either may be empty or missing.
func LoadWithDirs(globalDir, localDir string) (*Config, error) {
	cfg, err := loadEmbedded()
	if err != nil {
		return nil, fmt.Errorf("load embedded defaults: %w", err)
	}
	cfg.sources = append(cfg.sources, "embedded")

	if globalDir != "" {
		globalPath := filepath.Join(globalDir, "config.yaml")
		if globalCfg, err := loadFile(globalPath); err == nil {
			cfg.mergeFrom(globalCfg)
			cfg.sources = append(cfg.sources, globalPath)
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("load global config: %w", err)
		}
	}

	cfg.applyEnv()

	if localDir != "" {
		localPath := filepath.Join(localDir, "config.yaml")
		if localCfg, err := loadFile(localPath); err == nil {
			cfg.mergeFrom(localCfg)
			cfg.sources = append(cfg.sources, localPath)
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("load local config: %w", err)
		}
	}

	cfg.configDir = globalDir
	cfg.localDir = localDir

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the resolved configuration.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case kv.BackendMemory, kv.BackendFile, kv.BackendSQLite:
		return nil
	default:
		return fmt.Errorf("store.backend: %w: %q", kv.ErrUnknownBackend, c.Store.Backend)
	}
}

func loadEmbedded() (*Config, error) {
	data, err := defaultsFS.ReadFile("defaults/config.yaml")
	if err != nil {
		return nil, fmt.Errorf("read embedded defaults: %w", err)
	}
	return parseConfig(data)
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user's config file
	if err != nil {
		return nil, err
	}
	return parseConfigWithTracking(data)
}

func parseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// parseConfigWithTracking parses YAML config and tracks which fields were set.
func parseConfigWithTracking(data []byte) (*Config, error) {
	cfg, err := parseConfig(data)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	if _, ok := raw["debug"]; ok {
		cfg.DebugSet = true
	}
	if output, ok := raw["output"].(map[string]any); ok {
		if _, ok := output["plain"]; ok {
			cfg.Output.PlainSet = true
		}
	}

	return cfg, nil
}

// applyEnv applies environment variables to the config.
// Env vars sit between global and local config in precedence.
func (c *Config) applyEnv() {
	if v := os.Getenv("WAYFINDER_STORE_BACKEND"); v != "" {
		c.Store.Backend = v
		c.sources = append(c.sources, "env:WAYFINDER_STORE_BACKEND")
	}

	if v := os.Getenv("WAYFINDER_STORE_PATH"); v != "" {
		c.Store.Path = v
		c.sources = append(c.sources, "env:WAYFINDER_STORE_PATH")
	}

	if v := os.Getenv("WAYFINDER_DEBUG"); v != "" {
		c.Debug = v == "true" || v == "1"
		c.DebugSet = true
		c.sources = append(c.sources, "env:WAYFINDER_DEBUG")
	}

	if v := os.Getenv("NO_COLOR"); v != "" {
		c.Output.Plain = true
		c.Output.PlainSet = true
		c.sources = append(c.sources, "env:NO_COLOR")
	}
}

// mergeFrom merges non-empty/set values from src into c.
func (c *Config) mergeFrom(src *Config) {
	if src.Store.Backend != "" {
		c.Store.Backend = src.Store.Backend
	}
	if src.Store.Path != "" {
		c.Store.Path = src.Store.Path
	}
	if src.DebugSet {
		c.Debug = src.Debug
		c.DebugSet = true
	}
	if src.Output.PlainSet {
		c.Output.Plain = src.Output.Plain
		c.Output.PlainSet = true
	}
}

// ApplyCLIFlags applies CLI flag overrides to the config.
// CLI flags have the highest precedence; empty values are ignored.
func (c *Config) ApplyCLIFlags(backend, path string, debug bool) error {
	if backend != "" {
		c.Store.Backend = backend
		c.sources = append(c.sources, "cli:backend")
	}
	if path != "" {
		c.Store.Path = path
		c.sources = append(c.sources, "cli:store")
	}
	if debug {
		c.Debug = true
		c.DebugSet = true
		c.sources = append(c.sources, "cli:debug")
	}
	return c.Validate()
}
