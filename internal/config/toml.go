// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
}

// PracticeConfig maps practice-related settings. Nil fields were not set.
type PracticeConfig struct {
	RadicalFile   *string `toml:"radicals"`
	FrequencyFile *string `toml:"frequency"`
	Penalty       *int    `toml:"penalty"`
	MinPractice   *int    `toml:"min-practice"`
	Mode          *string `toml:"mode"`
	Order         *string `toml:"order"`
	Interface     *string `toml:"interface"`
	FocusWeak     *bool   `toml:"focus-weak"`
	WeakTop       *int    `toml:"weak-top"`
	WeakWindow    *int    `toml:"weak-window"`
	WeakBonus     *int    `toml:"weak-bonus"`
	LogFile       *string `toml:"log-file"`
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
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
