// Package config loads runtime settings from defaults, an optional YAML file
// and ONECARD_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. ONECARD_GAME_SEED.
const EnvPrefix = "ONECARD"

// Config is the root configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Game    GameConfig    `mapstructure:"game"`
	Web     WebConfig     `mapstructure:"web"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// GameConfig controls new games.
type GameConfig struct {
	Seed               int64         `mapstructure:"seed"`
	ComputerDelay      time.Duration `mapstructure:"computer_delay"`
	ReplayLimit        int           `mapstructure:"replay_limit"`
	RevealComputerHand bool          `mapstructure:"reveal_computer_hand"`
}

// WebConfig controls the WebSocket demo server.
type WebConfig struct {
	Address string `mapstructure:"address"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Output: "stderr",
		},
		Game: GameConfig{
			ComputerDelay: 800 * time.Millisecond,
			ReplayLimit:   500,
		},
		Web: WebConfig{
			Address: ":8080",
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output", d.Logging.Output)
	v.SetDefault("game.seed", d.Game.Seed)
	v.SetDefault("game.computer_delay", d.Game.ComputerDelay)
	v.SetDefault("game.replay_limit", d.Game.ReplayLimit)
	v.SetDefault("game.reveal_computer_hand", d.Game.RevealComputerHand)
	v.SetDefault("web.address", d.Web.Address)
}

// Load reads the configuration. An empty path, or a path that does not
// exist, falls back to defaults and environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			// An explicit SetConfigFile reports a missing file as a path error.
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values no component can work with.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("invalid logging.format %q", c.Logging.Format)
	}
	if c.Logging.Output == "" {
		return fmt.Errorf("logging.output must not be empty")
	}
	if c.Game.ComputerDelay < 0 {
		return fmt.Errorf("game.computer_delay must not be negative")
	}
	if c.Web.Address == "" {
		return fmt.Errorf("web.address must not be empty")
	}
	return nil
}
