package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Config is the API server's optional YAML configuration.
type Config struct {
	Timing struct {
		UndoWindow   time.Duration `yaml:"undo_window"`
		RaceTimezone string        `yaml:"race_timezone"`
	} `yaml:"timing"`
	Server struct {
		Port           string        `yaml:"port"`
		AllowedOrigins []string      `yaml:"allowed_origins"`
		RequestTimeout time.Duration `yaml:"request_timeout"`
	} `yaml:"server"`
}

func defaultConfig() *Config {
	cfg := &Config{}
	cfg.Timing.UndoWindow = 5 * time.Second
	cfg.Timing.RaceTimezone = "Asia/Bangkok"
	cfg.Server.Port = "8080"
	cfg.Server.AllowedOrigins = []string{"*"}
	cfg.Server.RequestTimeout = 10 * time.Second
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// loadConfig reads path over the defaults. A missing file keeps the defaults.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn().Str("path", path).Msg("config file not found, using defaults")
			return applyEnv(cfg), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Timing.UndoWindow <= 0 {
		return nil, fmt.Errorf("timing.undo_window must be positive, got %s", cfg.Timing.UndoWindow)
	}
	return applyEnv(cfg), nil
}

func applyEnv(cfg *Config) *Config {
	cfg.Server.Port = getEnv("PORT", cfg.Server.Port)
	return cfg
}

// raceLocation resolves the race-day zone. Hosts without tzdata fall back to
// the fixed +07:00 offset races are run in.
func (c *Config) raceLocation() *time.Location {
	loc, err := time.LoadLocation(c.Timing.RaceTimezone)
	if err != nil {
		log.Warn().Err(err).Str("zone", c.Timing.RaceTimezone).Msg("falling back to UTC+7")
		return time.FixedZone("+07", 7*60*60)
	}
	return loc
}
