package config

import (
	"math"
	"sort"

	"github.com/samber/lo"
)

var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"gentle": withInit(InitStateConfig{Theta1: 0.3, Theta2: 0.3}, func(c *Config) {
		c.Duration = 20
	}),
	"symmetric": withInit(InitStateConfig{Theta1: 1.5, Theta2: 1.5}, func(c *Config) {
		c.Duration = 30
	}),
	"chaos": withInit(InitStateConfig{Theta1: 3 * math.Pi / 4, Theta2: 3 * math.Pi / 4}, nil),
	"flip": withInit(InitStateConfig{Theta1: math.Pi / 2, Omega2: 12}, func(c *Config) {
		c.Duration = 20
	}),
	"heavy-top": withInit(InitStateConfig{Theta1: 1, Theta2: -0.5}, func(c *Config) {
		c.Params.M1 = 10
		c.Duration = 20
	}),
}

func withInit(init InitStateConfig, tweak func(*Config)) *Config {
	cfg := DefaultConfig()
	cfg.InitState = init
	if tweak != nil {
		tweak(cfg)
	}
	return cfg
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	clone := *cfg
	return &clone
}

func ListPresets() []string {
	names := lo.Keys(Presets)
	sort.Strings(names)
	return names
}
