package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-multierror"
)

type Config struct {
	Sim     SimConfig     `toml:"sim"`
	Logging LoggingConfig `toml:"logging"`
}

type SimConfig struct {
	Steps        int           `toml:"steps"`
	TickRate     time.Duration `toml:"tick_rate"` // 0 runs as fast as possible
	Dt           float64       `toml:"dt"`
	Gravity      float64       `toml:"gravity"`
	Floor        float64       `toml:"floor"`
	SpawnPerStep int           `toml:"spawn_per_step"`
	MaxSpeed     float64       `toml:"max_speed"`
	Reserve      int           `toml:"reserve"` // pool entries reserved up front
	ReportEvery  int           `toml:"report_every"`
	Seed         int64         `toml:"seed"`
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
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func Default() *Config {
	return &Config{
		Sim: SimConfig{
			Steps:        1000,
			Dt:           0.01,
			Gravity:      -9.81,
			Floor:        0,
			SpawnPerStep: 4,
			MaxSpeed:     10,
			Reserve:      1024,
			ReportEvery:  100,
			Seed:         1,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs *multierror.Error

	if c.Sim.Steps <= 0 {
		errs = multierror.Append(errs, errors.New("sim.steps must be positive"))
	}
	if c.Sim.Dt <= 0 {
		errs = multierror.Append(errs, errors.New("sim.dt must be positive"))
	}
	if c.Sim.TickRate < 0 {
		errs = multierror.Append(errs, errors.New("sim.tick_rate must not be negative"))
	}
	if c.Sim.SpawnPerStep < 0 {
		errs = multierror.Append(errs, errors.New("sim.spawn_per_step must not be negative"))
	}
	if c.Sim.MaxSpeed < 0 {
		errs = multierror.Append(errs, errors.New("sim.max_speed must not be negative"))
	}
	if c.Sim.Reserve < 0 {
		errs = multierror.Append(errs, errors.New("sim.reserve must not be negative"))
	}
	if c.Sim.ReportEvery <= 0 {
		errs = multierror.Append(errs, errors.New("sim.report_every must be positive"))
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		errs = multierror.Append(errs, fmt.Errorf("logging.format %q: want json or console", c.Logging.Format))
	}

	return errs.ErrorOrNil()
}
