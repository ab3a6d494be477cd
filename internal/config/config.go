package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/eulersim/internal/dynamo"
	"github.com/san-kum/eulersim/internal/equations"
)

const (
	DefaultEquation = "decay"
	DefaultMethod   = "euler"
	DefaultT0       = 0.0
	DefaultY0       = 1.0
	DefaultH        = 0.01
	DefaultSteps    = 1000
	DefaultPrint    = 10
)

type Config struct {
	Equation string  `yaml:"equation"`
	Method   string  `yaml:"method"`
	// Rate is nil when the equation's default rate applies. An explicit zero
	// is kept as zero.
	Rate  *float64 `yaml:"rate,omitempty"`
	T0    float64  `yaml:"t0"`
	Y0    float64  `yaml:"y0"`
	H     float64  `yaml:"h"`
	Steps int      `yaml:"steps"`
	Print int      `yaml:"print"`
}

func DefaultConfig() *Config {
	return &Config{
		Equation: DefaultEquation,
		Method:   DefaultMethod,
		T0:       DefaultT0,
		Y0:       DefaultY0,
		H:        DefaultH,
		Steps:    DefaultSteps,
		Print:    DefaultPrint,
	}
}

// Load reads a YAML file over the defaults, so omitted keys keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, dynamo.InvalidParameter("parse %s: %v", path, err)
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

// Clone returns an independent copy, so presets are never mutated.
func (c *Config) Clone() *Config {
	cp := *c
	if c.Rate != nil {
		cp.Rate = RateOf(*c.Rate)
	}
	return &cp
}

// RateOf returns v as a value for Config.Rate.
func RateOf(v float64) *float64 { return &v }

// EffectiveRate resolves an unset Rate to the equation default.
func (c *Config) EffectiveRate(eq equations.Equation) float64 {
	if c.Rate == nil {
		return eq.DefaultRate
	}
	return *c.Rate
}

// Problem builds the initial value problem this configuration describes.
func (c *Config) Problem() (dynamo.Problem, equations.Equation, error) {
	eq, err := equations.Lookup(c.Equation)
	if err != nil {
		return dynamo.Problem{}, equations.Equation{}, err
	}
	p := eq.Problem(c.EffectiveRate(eq), c.T0, c.Y0, c.H, c.Steps)
	if err := p.Validate(); err != nil {
		return dynamo.Problem{}, eq, fmt.Errorf("config: %w", err)
	}
	return p, eq, nil
}
