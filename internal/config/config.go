package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/finsona-dev/finsona/internal/detect"
)

// Config represents the top-level finsona.yaml configuration.
type Config struct {
	Registry   string           `yaml:"registry"` // path to the persona registry YAML
	DataDir    string           `yaml:"data_dir"` // directory holding accounts.csv / transactions.csv
	LogLevel   string           `yaml:"log_level"`
	Thresholds ThresholdsConfig `yaml:"thresholds"`
}

// ThresholdsConfig tunes the signal detectors.
type ThresholdsConfig struct {
	SubscriptionLookbackDays int     `yaml:"subscription_lookback_days"`
	RecurringMinCount        int     `yaml:"recurring_min_count"`
	AmountTolerance          float64 `yaml:"amount_tolerance"`
	MinIncomeAmount          float64 `yaml:"min_income_amount"`
}

// Load reads a finsona.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with the standard detector thresholds.
func Default() *Config {
	d := detect.DefaultConfig()
	minIncome, _ := d.MinIncomeAmount.Float64()
	return &Config{
		Registry: "personas.yaml",
		DataDir:  "data",
		LogLevel: "info",
		Thresholds: ThresholdsConfig{
			SubscriptionLookbackDays: d.SubscriptionLookbackDays,
			RecurringMinCount:        d.RecurringMinCount,
			AmountTolerance:          d.AmountTolerance,
			MinIncomeAmount:          minIncome,
		},
	}
}

// Detect converts the configured thresholds to a detector Config,
// filling unset fields from the defaults.
func (c *Config) Detect() detect.Config {
	out := detect.DefaultConfig()
	if c.Thresholds.SubscriptionLookbackDays > 0 {
		out.SubscriptionLookbackDays = c.Thresholds.SubscriptionLookbackDays
	}
	if c.Thresholds.RecurringMinCount > 0 {
		out.RecurringMinCount = c.Thresholds.RecurringMinCount
	}
	if c.Thresholds.AmountTolerance > 0 {
		out.AmountTolerance = c.Thresholds.AmountTolerance
	}
	if c.Thresholds.MinIncomeAmount > 0 {
		out.MinIncomeAmount = decimal.NewFromFloat(c.Thresholds.MinIncomeAmount)
	}
	return out
}
