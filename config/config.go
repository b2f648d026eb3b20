package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"showdown-agent/client"
)

// EnvPrefix namespaces environment overrides, e.g. SHOWDOWN_POLICY=greedy.
const EnvPrefix = "SHOWDOWN"

// Config holds all agent configuration
type Config struct {
	// Decision policy
	Policy string `mapstructure:"policy"`
	Seed   int64  `mapstructure:"seed"`

	// Dex data, optional
	PokedexPath string `mapstructure:"pokedex"`
	MovesPath   string `mapstructure:"moves"`

	// Websocket play
	ServerURL string `mapstructure:"server_url"`
	Room      string `mapstructure:"room"`

	// Stdio play
	Side string `mapstructure:"side"`

	// Decision log, disabled when empty
	DBPath string `mapstructure:"db_path"`

	LogLevel string `mapstructure:"log_level"`
}

// Default returns a config with sensible defaults
func Default() *Config {
	return &Config{
		Policy:    "first",
		ServerURL: client.DefaultServerURL,
		LogLevel:  "info",
	}
}

// Load reads an optional .env file and config file, then environment
// variables, over the defaults. Flags bound to v win over all of them.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	v.SetDefault("policy", cfg.Policy)
	v.SetDefault("seed", cfg.Seed)
	v.SetDefault("pokedex", cfg.PokedexPath)
	v.SetDefault("moves", cfg.MovesPath)
	v.SetDefault("server_url", cfg.ServerURL)
	v.SetDefault("room", cfg.Room)
	v.SetDefault("side", cfg.Side)
	v.SetDefault("db_path", cfg.DBPath)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Policy {
	case "first", "random", "greedy":
	default:
		return fmt.Errorf("unknown policy %q", c.Policy)
	}
	if c.Policy == "greedy" && (c.PokedexPath == "" || c.MovesPath == "") {
		return fmt.Errorf("greedy policy needs pokedex and moves paths")
	}
	switch c.Side {
	case "", "p1", "p2", "p3", "p4":
	default:
		return fmt.Errorf("side must be p1-p4, got %q", c.Side)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// ValidateRemote checks the settings needed to play over websocket.
func (c *Config) ValidateRemote() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.ServerURL == "" {
		return fmt.Errorf("server_url is required")
	}
	if c.Room == "" {
		return fmt.Errorf("room is required")
	}
	return nil
}
