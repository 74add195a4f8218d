package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	App     AppConfig     `toml:"app"`
	Assets  AssetsConfig  `toml:"assets"`
	Logging LoggingConfig `toml:"logging"`
}

type AppConfig struct {
	Name     string        `toml:"name"`
	TickRate time.Duration `toml:"tick_rate"`
}

type AssetsConfig struct {
	Pack     string `toml:"pack"`     // sqlite asset pack, searched before the loose dir ("" = none)
	Dir      string `toml:"dir"`      // loose asset directory
	Manifest string `toml:"manifest"` // dynamic key manifest inside the asset tree ("" = none)
	Workers  int    `toml:"workers"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		App: AppConfig{
			Name:     "loadstate-demo",
			TickRate: 50 * time.Millisecond,
		},
		Assets: AssetsConfig{
			Dir:     "assets",
			Workers: 4,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
