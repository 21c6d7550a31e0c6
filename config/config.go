package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/brettbedarf/vfshell/internal/util"
	"gopkg.in/yaml.v3"
)

// Config contains runtime configuration values for the shell engine.
type Config struct {
	MountOptions

	LogLvl           util.LogLevel // Internal log level (Default warn)
	TreePath         string        // XML tree description to load at startup; empty leaves the VFS unloaded
	ScriptPath       string        // Startup script replayed after loading; empty skips replay
	ScriptDelay      time.Duration // Pause between script steps (Default 300ms)
	ScriptStartDelay time.Duration // Pause before the first script step (Default 200ms)
}

// ConfigOverride uses pointer fields to distinguish between unset and zero values
// when loading partial configuration. See [Config] for field descriptions.
//
// LogLvl is a CLI style verbosity between 1 (error) and 5 (trace) and delays are
// given in milliseconds.
type ConfigOverride struct {
	LogLvl             *int    `yaml:"verbose,omitempty" json:"verbose,omitempty"`
	TreePath           *string `yaml:"tree,omitempty" json:"tree,omitempty"`
	ScriptPath         *string `yaml:"script,omitempty" json:"script,omitempty"`
	ScriptDelayMs      *int    `yaml:"script_delay_ms,omitempty" json:"script_delay_ms,omitempty"`
	ScriptStartDelayMs *int    `yaml:"script_start_delay_ms,omitempty" json:"script_start_delay_ms,omitempty"`
	FsName             *string `yaml:"fs_name,omitempty" json:"fs_name,omitempty"`
	Name               *string `yaml:"name,omitempty" json:"name,omitempty"`
	Debug              *bool   `yaml:"debug,omitempty" json:"debug,omitempty"`
}

// NewDefaultConfig creates a new Config with all default values.
func NewDefaultConfig() *Config {
	return &Config{
		MountOptions: MountOptions{
			FsName: DefaultFsName,
			Name:   DefaultName,
		},
		LogLvl:           DefaultLogLvl,
		ScriptDelay:      DefaultScriptDelay,
		ScriptStartDelay: DefaultScriptStartDelay,
	}
}

// NewConfig creates a default Config and applies override on top of it.
// A nil override yields the defaults.
func NewConfig(override *ConfigOverride) *Config {
	cfg := NewDefaultConfig()
	if override != nil {
		cfg.Merge(override)
	}
	return cfg
}

// Merge applies non-nil values from override onto this Config.
// This allows partial configuration updates while preserving existing values.
func (c *Config) Merge(override *ConfigOverride) {
	if override.LogLvl != nil {
		c.LogLvl = VerboseToLogLevel(*override.LogLvl)
	}
	if override.TreePath != nil {
		c.TreePath = *override.TreePath
	}
	if override.ScriptPath != nil {
		c.ScriptPath = *override.ScriptPath
	}
	if override.ScriptDelayMs != nil {
		c.ScriptDelay = time.Duration(max(*override.ScriptDelayMs, 0)) * time.Millisecond
	}
	if override.ScriptStartDelayMs != nil {
		c.ScriptStartDelay = time.Duration(max(*override.ScriptStartDelayMs, 0)) * time.Millisecond
	}
	if override.FsName != nil {
		c.FsName = *override.FsName
	}
	if override.Name != nil {
		c.Name = *override.Name
	}
	if override.Debug != nil {
		c.Debug = *override.Debug
	}
}

// LoadConfigOverrideFile loads configuration overrides from a file without merging.
// Supports both YAML (.yaml, .yml) and JSON (.json) formats.
func LoadConfigOverrideFile(path string) (*ConfigOverride, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var override ConfigOverride

	// Determine format by file extension
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown config file extension: %s", path)
	}

	return &override, nil
}

// NewConfigFromFile creates a new Config by merging file overrides with defaults.
// This is a convenience function that combines NewDefaultConfig, LoadConfigOverrideFile, and Merge.
func NewConfigFromFile(path string) (*Config, error) {
	override, err := LoadConfigOverrideFile(path)
	if err != nil {
		return nil, err
	}
	return NewConfig(override), nil
}
