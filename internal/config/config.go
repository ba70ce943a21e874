package config

import (
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/dpend/internal/dynamo"
	"github.com/san-kum/dpend/internal/integrators"
	"github.com/san-kum/dpend/internal/sim"
)

const (
	DefaultTheta = math.Pi / 4
)

type Config struct {
	Params    dynamo.Params    `yaml:"params"`
	InitState InitStateConfig  `yaml:"init_state"`
	Dt        float64          `yaml:"dt"`
	Duration  float64          `yaml:"duration"`
	Method    string           `yaml:"method"`
	Tolerance dynamo.Tolerance `yaml:"tolerance"`
	MaxSteps  int              `yaml:"max_steps"`
}

type InitStateConfig struct {
	Theta1 float64 `yaml:"theta1"`
	Omega1 float64 `yaml:"omega1"`
	Theta2 float64 `yaml:"theta2"`
	Omega2 float64 `yaml:"omega2"`
}

func DefaultConfig() *Config {
	return &Config{
		Params: dynamo.DefaultParams(),
		InitState: InitStateConfig{
			Theta1: DefaultTheta,
			Theta2: DefaultTheta,
		},
		Dt:        sim.DefaultDt,
		Duration:  sim.DefaultDuration,
		Method:    integrators.DefaultMethod,
		Tolerance: dynamo.DefaultTolerance(),
		MaxSteps:  integrators.DefaultMaxSteps,
	}
}

// Load reads a YAML file over the defaults; keys absent from the file keep
// their default value.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
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

func (c *Config) Initial() dynamo.State {
	return dynamo.State{c.InitState.Theta1, c.InitState.Omega1, c.InitState.Theta2, c.InitState.Omega2}
}

// ToSim converts the file layout into run settings.
func (c *Config) ToSim() sim.Config {
	cfg := sim.DefaultConfig()
	cfg.Dt = c.Dt
	cfg.Duration = c.Duration
	cfg.Tolerance = c.Tolerance
	if c.Method != "" {
		cfg.Method = c.Method
	}
	if c.MaxSteps > 0 {
		cfg.MaxSteps = c.MaxSteps
	}
	return cfg
}

// Validate reports the first problem with the config as a
// *dynamo.ConfigError.
func (c *Config) Validate() error {
	return sim.Validate(c.Params, c.Initial(), c.ToSim())
}
