// Package config holds the game tunables and runtime settings. Values come
// from defaults, then an optional YAML file, then flags/env in cmd/soyu.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Game holds the economic tunables of one game.
type Game struct {
	StartingWallet     float64 `yaml:"starting_wallet"`      // Boss wallet at setup
	PersonalDrain      float64 `yaml:"personal_drain"`       // Boss living expense per turn
	InitialFeatures    float64 `yaml:"initial_features"`     // Remaining work at project start
	ManagerUnlockRatio float64 `yaml:"manager_unlock_ratio"` // Remaining/initial ratio that unlocks the manager
	BaselineFeatures   float64 `yaml:"baseline_features"`    // Project's own feature growth per turn
	BaselineDesignNeed float64 `yaml:"baseline_design_need"` // Project's own design-need growth per turn
}

// Config holds runtime settings.
type Config struct {
	DBPath   string `yaml:"db_path"`
	LogLevel string `yaml:"log_level"`
	Game     Game   `yaml:"game"`
}

// DefaultGame returns the standard economy.
func DefaultGame() Game {
	return Game{
		StartingWallet:     10000,
		PersonalDrain:      25,
		InitialFeatures:    1000,
		ManagerUnlockRatio: 0.9,
		BaselineFeatures:   5,
		BaselineDesignNeed: 5,
	}
}

// Default returns a complete configuration.
func Default() Config {
	return Config{
		DBPath:   "data/soyu.db",
		LogLevel: "info",
		Game:     DefaultGame(),
	}
}

// Load reads a YAML file over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	return FromYAML(data)
}

// FromYAML parses YAML over the defaults and validates the result.
func FromYAML(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects economies the engine cannot run.
func (c Config) Validate() error {
	return c.Game.Validate()
}

// Validate rejects economies the engine cannot run.
func (g Game) Validate() error {
	if g.StartingWallet <= 0 {
		return fmt.Errorf("config.game.starting_wallet must be positive")
	}
	if g.PersonalDrain < 0 {
		return fmt.Errorf("config.game.personal_drain must not be negative")
	}
	if g.InitialFeatures <= 0 {
		return fmt.Errorf("config.game.initial_features must be positive")
	}
	if g.ManagerUnlockRatio <= 0 || g.ManagerUnlockRatio > 1 {
		return fmt.Errorf("config.game.manager_unlock_ratio must be in (0, 1]")
	}
	return nil
}
