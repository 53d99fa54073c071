package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/waterrocket/internal/dynamo"
	"github.com/san-kum/waterrocket/internal/physics"
)

const (
	DefaultModel      = "vertical"
	DefaultIntegrator = "euler"
	DefaultDataDir    = "runs"
	DefaultAddr       = ":8080"
)

type Config struct {
	Model      string         `yaml:"model"`
	Integrator string         `yaml:"integrator"`
	Dt         float64        `yaml:"dt"`
	MaxTime    float64        `yaml:"max_time"`
	Rocket     physics.Design `yaml:"rocket"`
	DataDir    string         `yaml:"data_dir"`
	Server     ServerConfig   `yaml:"server"`
}

type ServerConfig struct {
	Addr    string `yaml:"addr"`
	Workers int    `yaml:"workers"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:      DefaultModel,
		Integrator: DefaultIntegrator,
		Dt:         dynamo.DefaultDt,
		MaxTime:    dynamo.DefaultMaxTime,
		Rocket:     physics.DefaultDesign(),
		DataDir:    DefaultDataDir,
		Server: ServerConfig{
			Addr: DefaultAddr,
		},
	}
}

// Load reads a YAML config over the defaults, so a file only needs the
// fields it changes.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) SimConfig() dynamo.Config {
	cfg := dynamo.DefaultConfig()
	cfg.Dt = c.Dt
	cfg.MaxTime = c.MaxTime
	return cfg
}

func (c *Config) Validate() error {
	var errs []error
	if c.Dt <= 0 {
		errs = append(errs, fmt.Errorf("%w: dt must be positive, got %g", dynamo.ErrInvalidConfig, c.Dt))
	}
	if c.MaxTime <= 0 {
		errs = append(errs, fmt.Errorf("%w: max_time must be positive, got %g", dynamo.ErrInvalidConfig, c.MaxTime))
	}
	if err := c.Rocket.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
