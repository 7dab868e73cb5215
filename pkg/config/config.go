package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/strcalc/strcalc/pkg/calculator"
)

// Config is the top-level settings file.
// Fields map 1:1 to config.example.yaml.
type Config struct {
	Calculator CalculatorConfig `yaml:"calculator"`
}

// CalculatorConfig holds the summation rules.
type CalculatorConfig struct {
	// DefaultDelimiter splits numbers when the input declares no delimiters.
	DefaultDelimiter string `yaml:"default_delimiter"`

	// MaxValue is the largest number that still counts towards the sum.
	MaxValue int `yaml:"max_value"`

	// Workers bounds how many lines are evaluated concurrently.
	Workers int `yaml:"workers"`

	// RejectEmptyTokens makes "1,,2" a number format error instead of 3.
	RejectEmptyTokens bool `yaml:"reject_empty_tokens"`
}

// Options maps the file settings onto calculator.Options.
func (c *Config) Options() calculator.Options {
	return calculator.Options{
		DefaultDelimiter:  c.Calculator.DefaultDelimiter,
		MaxValue:          c.Calculator.MaxValue,
		Workers:           c.Calculator.Workers,
		RejectEmptyTokens: c.Calculator.RejectEmptyTokens,
	}
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with calculator defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML settings from data, applying defaults and validation.
func Parse(data []byte) (*Config, error) {
	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	d := calculator.DefaultOptions()
	return &Config{
		Calculator: CalculatorConfig{
			DefaultDelimiter:  d.DefaultDelimiter,
			MaxValue:          d.MaxValue,
			Workers:           d.Workers,
			RejectEmptyTokens: d.RejectEmptyTokens,
		},
	}
}

// validate checks structural constraints.
func validate(cfg *Config) error {
	c := cfg.Calculator
	if c.DefaultDelimiter == "" {
		return fmt.Errorf("calculator.default_delimiter must not be empty")
	}
	if strings.Contains(c.DefaultDelimiter, "\n") {
		return fmt.Errorf("calculator.default_delimiter must not contain a newline")
	}
	if c.MaxValue < 0 {
		return fmt.Errorf("calculator.max_value must not be negative")
	}
	if c.Workers < 1 {
		return fmt.Errorf("calculator.workers must be positive")
	}
	return nil
}
