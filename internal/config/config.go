// Package config loads the simulator configuration from YAML files.
//
package config

import (
	"log/slog"
	"os"

	ls "github.com/db47h/logicsim"
	"github.com/db47h/logicsim/validate"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the simulator configuration.
//
type Config struct {
	Engine    Engine    `yaml:"engine"`
	Validator Validator `yaml:"validator"`
	Scope     Scope     `yaml:"scope"`
}

// Engine configures circuit settling.
//
type Engine struct {
	MaxIterations       int `yaml:"max_iterations" validate:"gte=0,lte=100000"`
	CompositeIterations int `yaml:"composite_iterations" validate:"gte=0,lte=100000"`
}

// Validator configures circuit analysis. Delays are in ns, power in μW. The
// Delays and Power tables override the built-in values by kind name or
// package id.
//
type Validator struct {
	MaxDelayNS float64            `yaml:"max_delay_ns" validate:"gte=0"`
	MaxPowerUW float64            `yaml:"max_power_uw" validate:"gte=0"`
	Delays     map[string]float64 `yaml:"delays,omitempty" validate:"dive,keys,required,endkeys,gte=0"`
	Power      map[string]float64 `yaml:"power,omitempty" validate:"dive,keys,required,endkeys,gte=0"`
}

// Scope configures signal tracing.
//
type Scope struct {
	History int `yaml:"history" validate:"gte=0,lte=1000000"`
}

var structs = validator.New()

// Default returns the built-in configuration.
//
func Default() *Config {
	vo := validate.DefaultOptions()
	return &Config{
		Engine: Engine{
			MaxIterations:       ls.DefaultMaxIterations,
			CompositeIterations: ls.DefaultCompositeIterations,
		},
		Validator: Validator{
			MaxDelayNS: vo.MaxDelay,
			MaxPowerUW: vo.MaxPower,
		},
		Scope: Scope{History: ls.DefaultHistory},
	}
}

// Load reads and parses the configuration file at path.
//
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Parse parses and validates a YAML configuration. Missing or zero values are
// replaced by their defaults.
//
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	d := Default()
	if c.Engine.MaxIterations == 0 {
		c.Engine.MaxIterations = d.Engine.MaxIterations
	}
	if c.Engine.CompositeIterations == 0 {
		c.Engine.CompositeIterations = d.Engine.CompositeIterations
	}
	if c.Validator.MaxDelayNS == 0 {
		c.Validator.MaxDelayNS = d.Validator.MaxDelayNS
	}
	if c.Validator.MaxPowerUW == 0 {
		c.Validator.MaxPowerUW = d.Validator.MaxPowerUW
	}
	if c.Scope.History == 0 {
		c.Scope.History = d.Scope.History
	}
}

// Validate checks the configuration values.
//
func (c *Config) Validate() error {
	if err := structs.Struct(c); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	return nil
}

// EngineOptions returns the circuit options for this configuration.
//
func (c *Config) EngineOptions(logger *slog.Logger) *ls.Options {
	return &ls.Options{
		MaxIterations:       c.Engine.MaxIterations,
		CompositeIterations: c.Engine.CompositeIterations,
		Logger:              logger,
	}
}

// ValidatorOptions returns the built-in analysis options with the
// configuration overrides applied.
//
func (c *Config) ValidatorOptions() *validate.Options {
	o := validate.DefaultOptions()
	for k, v := range c.Validator.Delays {
		o.Delays[k] = v
	}
	for k, v := range c.Validator.Power {
		o.Power[k] = v
	}
	if c.Validator.MaxDelayNS > 0 {
		o.MaxDelay = c.Validator.MaxDelayNS
	}
	if c.Validator.MaxPowerUW > 0 {
		o.MaxPower = c.Validator.MaxPowerUW
	}
	return o
}
