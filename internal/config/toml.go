// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Game   GameFileConfig   `toml:"game"`
	Server ServerFileConfig `toml:"server"`
}

// GameFileConfig maps game-related settings.
type GameFileConfig struct {
	Lang     *string `toml:"lang"`
	Words    *int    `toml:"words"`
	Duration *int    `toml:"duration"`
	Article  *string `toml:"article"`
}

// ServerFileConfig maps leaderboard server settings. Token is the bearer
// token issued by the scoreboard server; an empty token means the player is
// not authenticated and scores stay local.
type ServerFileConfig struct {
	BaseURL *string `toml:"base-url"`
	Token   *string `toml:"token"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
