// Package config loads the assistant pipeline configuration from YAML with
// environment variable precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the pipeline configuration.
type Config struct {
	// FallbackMode answers data queries when mode inference finds no
	// keyword match.
	FallbackMode string `yaml:"fallback_mode"`

	// ReflectTarget resolves the virtual "reflect" destination to a
	// concrete stage (critic, historian or synthesis).
	ReflectTarget string `yaml:"reflect_target"`

	// Router names the router bound to the refiner stage.
	Router string `yaml:"router"`

	// PlannedAgents is the default stage plan for a request.
	PlannedAgents []string `yaml:"planned_agents"`

	// FetchTimeoutSeconds bounds one upstream fetch call.
	FetchTimeoutSeconds int `yaml:"fetch_timeout_seconds"`

	// AuditDir enables audit bundles when set.
	AuditDir string `yaml:"audit_dir"`

	// Aliases maps user-facing mode synonyms to canonical mode keys. An
	// inline aliases block wins over ~/.waypoint/aliases.yaml.
	Aliases *ModeAliases `yaml:"aliases"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		FallbackMode:        "students",
		ReflectTarget:       "critic",
		Router:              "route_query_or_end",
		PlannedAgents:       []string{"refiner", "final"},
		FetchTimeoutSeconds: 10,
		Aliases:             &ModeAliases{Aliases: map[string]string{}},
	}
}

// Load reads configuration from path. Missing fields keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	applyDefaults(cfg)
	return cfg, nil
}

// LoadWithFallback loads configuration from the user config dir, then the
// provided path, then the built-in defaults. When the config file carries no
// inline aliases, a standalone ~/.waypoint/aliases.yaml fills them in.
func LoadWithFallback(path string) (*Config, error) {
	cfg, err := loadFirstFound(path)
	if err != nil {
		return nil, err
	}
	if len(cfg.Aliases.Aliases) == 0 {
		if aliases := loadUserAliases(); aliases != nil {
			cfg.Aliases = aliases
		}
	}
	return cfg, nil
}

func loadFirstFound(path string) (*Config, error) {
	home, err := os.UserHomeDir()
	if err == nil {
		userPath := filepath.Join(home, ".waypoint", "config.yaml")
		if _, err := os.Stat(userPath); err == nil {
			return Load(userPath)
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}

	return Default(), nil
}

// loadUserAliases reads ~/.waypoint/aliases.yaml if present. A missing or
// unreadable file is not an error; the pipeline runs without aliases.
func loadUserAliases() *ModeAliases {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	path := filepath.Join(home, ".waypoint", "aliases.yaml")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	aliases, err := LoadAliases(path)
	if err != nil {
		return nil
	}
	return aliases
}

// Validate checks the loaded configuration for obvious mistakes.
func (c *Config) Validate() error {
	if c.FallbackMode == "" {
		return fmt.Errorf("fallback_mode is required")
	}
	if c.Router == "" {
		return fmt.Errorf("router is required")
	}
	switch c.ReflectTarget {
	case "critic", "historian", "synthesis":
	default:
		return fmt.Errorf("reflect_target must be critic, historian or synthesis, got %q", c.ReflectTarget)
	}
	if c.FetchTimeoutSeconds <= 0 {
		return fmt.Errorf("fetch_timeout_seconds must be positive")
	}
	return nil
}

func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.FallbackMode == "" {
		cfg.FallbackMode = def.FallbackMode
	}
	if cfg.ReflectTarget == "" {
		cfg.ReflectTarget = def.ReflectTarget
	}
	if cfg.Router == "" {
		cfg.Router = def.Router
	}
	if len(cfg.PlannedAgents) == 0 {
		cfg.PlannedAgents = def.PlannedAgents
	}
	if cfg.FetchTimeoutSeconds <= 0 {
		cfg.FetchTimeoutSeconds = def.FetchTimeoutSeconds
	}
	if cfg.Aliases == nil {
		cfg.Aliases = &ModeAliases{Aliases: map[string]string{}}
	}
}
