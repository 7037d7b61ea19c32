package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:"127.0.0.1:8080"`

	StatsDriver       string        `env:"STATS_DB_DRIVER" envDefault:"sqlite"`
	StatsDSN          string        `env:"STATS_DB_DSN" envDefault:"data/stats.db"`
	StatsQueryTimeout time.Duration `env:"STATS_QUERY_TIMEOUT" envDefault:"2s"`

	TeamSlots  int    `env:"TEAM_SLOTS" envDefault:"5"`
	LoaderPath string `env:"LOADER_PATH"`

	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_TOPIC" envDefault:"lolnotes-lobby"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogDev   bool   `env:"LOG_DEV" envDefault:"false"`
}

// Load reads an optional .env file, then the process environment.
func Load(files ...string) (Config, error) {
	// a missing .env is fine
	_ = godotenv.Load(files...)
	return Parse()
}

func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.StatsDriver != "sqlite" && c.StatsDriver != "postgres":
		return fmt.Errorf("%w: STATS_DB_DRIVER must be sqlite or postgres, got %q", ErrInvalidConfig, c.StatsDriver)
	case c.StatsDSN == "":
		return fmt.Errorf("%w: STATS_DB_DSN is empty", ErrInvalidConfig)
	case c.StatsQueryTimeout <= 0:
		return fmt.Errorf("%w: STATS_QUERY_TIMEOUT must be positive", ErrInvalidConfig)
	case c.TeamSlots <= 0:
		return fmt.Errorf("%w: TEAM_SLOTS must be positive", ErrInvalidConfig)
	}
	return nil
}
