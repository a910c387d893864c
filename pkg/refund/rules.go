package refund

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// DefaultKey is the fallback entry every category map must carry.
const DefaultKey = "default"

var (
	ErrMissingDefault = errors.New("rule map has no default entry")
	ErrMissingRate    = errors.New("restocking fee entry must define opened and sealed rates")
)

// FeeRates are restocking fee fractions of the purchase price.
type FeeRates struct {
	Opened float64 `json:"opened"`
	Sealed float64 `json:"sealed"`
}

// RuleConfig is immutable after load.
type RuleConfig struct {
	ReturnWindowDaysByCategory map[string]int      `json:"return_window_days_by_category"`
	RestockingFees             map[string]FeeRates `json:"restocking_fees"`
}

type rawRuleConfig struct {
	ReturnWindowDaysByCategory map[string]int                 `json:"return_window_days_by_category"`
	RestockingFees             map[string]map[string]*float64 `json:"restocking_fees"`
}

// LoadRules reads and validates the rule JSON.
func LoadRules(path string) (*RuleConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	return ParseRules(data)
}

func ParseRules(data []byte) (*RuleConfig, error) {
	var raw rawRuleConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}

	cfg := &RuleConfig{
		ReturnWindowDaysByCategory: raw.ReturnWindowDaysByCategory,
		RestockingFees:             make(map[string]FeeRates, len(raw.RestockingFees)),
	}
	for category, rates := range raw.RestockingFees {
		opened, sealed := rates["opened"], rates["sealed"]
		if opened == nil || sealed == nil {
			return nil, fmt.Errorf("category %q: %w", category, ErrMissingRate)
		}
		cfg.RestockingFees[category] = FeeRates{Opened: *opened, Sealed: *sealed}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that both lookups can always resolve.
func (c *RuleConfig) Validate() error {
	if _, ok := c.ReturnWindowDaysByCategory[DefaultKey]; !ok {
		return fmt.Errorf("return_window_days_by_category: %w", ErrMissingDefault)
	}
	if _, ok := c.RestockingFees[DefaultKey]; !ok {
		return fmt.Errorf("restocking_fees: %w", ErrMissingDefault)
	}
	return nil
}

// ReturnWindow resolves the window for category, falling back to default.
func (c *RuleConfig) ReturnWindow(category string) int {
	if days, ok := c.ReturnWindowDaysByCategory[category]; ok {
		return days
	}
	return c.ReturnWindowDaysByCategory[DefaultKey]
}

// Rates resolves the restocking rates for category, falling back to default.
func (c *RuleConfig) Rates(category string) FeeRates {
	if rates, ok := c.RestockingFees[category]; ok {
		return rates
	}
	return c.RestockingFees[DefaultKey]
}
