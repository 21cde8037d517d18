// Package config loads the optional cubetwist YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/SeamusWaldron/cubetwist/internal/drag"
	"github.com/SeamusWaldron/cubetwist/internal/model"
)

// EnvConfig names the environment variable consulted when no path is given.
const EnvConfig = "CUBETWIST_CONFIG"

// Journal location relative to the home directory when storage.db_path is
// unset.
const (
	DataDir = ".cubetwist"
	DBFile  = "cubetwist.db"
)

// Config is the root of the configuration file.
type Config struct {
	Puzzle    PuzzleConfig    `yaml:"puzzle"`
	Animation AnimationConfig `yaml:"animation"`
	Storage   StorageConfig   `yaml:"storage"`
	Log       LogConfig       `yaml:"log"`
}

type PuzzleConfig struct {
	Size     int    `yaml:"size"`
	Theme    string `yaml:"theme"`
	Flip     int    `yaml:"flip"`
	Scramble int    `yaml:"scramble_length"`
}

type AnimationConfig struct {
	TurnMs      int     `yaml:"turn_ms"`
	SettleMs    int     `yaml:"settle_ms"`
	Easing      string  `yaml:"easing"`
	EasingParam float64 `yaml:"easing_param"`
}

type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Puzzle:    PuzzleConfig{Size: 3, Theme: "classic", Flip: 0, Scramble: 15},
		Animation: AnimationConfig{TurnMs: 500, SettleMs: 500, Easing: "sine.out"},
		Log:       LogConfig{Level: "warn"},
	}
}

// Load reads the YAML file at path over the defaults. An empty path falls
// back to $CUBETWIST_CONFIG; with neither set the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv(EnvConfig)
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values no puzzle could be built with.
func (c *Config) Validate() error {
	if c.Puzzle.Size < model.MinSize || c.Puzzle.Size > model.MaxSize {
		return fmt.Errorf("config: puzzle.size %d out of range %d..%d", c.Puzzle.Size, model.MinSize, model.MaxSize)
	}
	if c.Puzzle.Flip < 0 || c.Puzzle.Flip >= len(drag.Flips) {
		return fmt.Errorf("config: puzzle.flip %d out of range 0..%d", c.Puzzle.Flip, len(drag.Flips)-1)
	}
	if c.Animation.TurnMs < 0 || c.Animation.SettleMs < 0 {
		return fmt.Errorf("config: animation durations must not be negative")
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// TurnDuration is the animation length of one quarter turn.
func (c *Config) TurnDuration() time.Duration {
	return time.Duration(c.Animation.TurnMs) * time.Millisecond
}

// SettleDelay is the pause between queued turns.
func (c *Config) SettleDelay() time.Duration {
	return time.Duration(c.Animation.SettleMs) * time.Millisecond
}

// LogLevel returns the parsed log level, defaulting to warn.
func (c *Config) LogLevel() logrus.Level {
	lvl, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		return logrus.WarnLevel
	}
	return lvl
}

// DBPath resolves the journal path. storage.db_path wins, with a leading ~
// expanded; otherwise the journal lives at ~/.cubetwist/cubetwist.db.
func (c *Config) DBPath() (string, error) {
	path := c.Storage.DBPath
	if path != "" && path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	if path == "" {
		return filepath.Join(home, DataDir, DBFile), nil
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
