package refund

import (
	"fmt"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Params is a complete set of refund inputs. Every field is required.
type Params struct {
	PurchasePrice     float64 `json:"purchase_price"`
	DaysSinceDelivery int     `json:"days_since_delivery"`
	Opened            bool    `json:"opened"`
	Category          string  `json:"category"`
}

// Condition is the item condition label used in rules.
func (p Params) Condition() string {
	if p.Opened {
		return "opened"
	}
	return "sealed"
}

// Result is the refund decision.
type Result struct {
	RefundAmount float64  `json:"refund_amount"`
	AppliedRules []string `json:"applied_rules"`
	Notes        []string `json:"notes"`
}

// Calculator evaluates Params against a RuleConfig. It holds no mutable state.
type Calculator struct {
	rules  *RuleConfig
	logger *zap.Logger
}

func NewCalculator(rules *RuleConfig, logger *zap.Logger) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calculator{rules: rules, logger: logger}
}

func (c *Calculator) Rules() *RuleConfig {
	return c.rules
}

// Compute applies the category return window, then the restocking fee.
func (c *Calculator) Compute(p Params) Result {
	window := c.rules.ReturnWindow(p.Category)

	if p.DaysSinceDelivery > window {
		c.logger.Debug("[REFUND] past return window",
			zap.String("category", p.Category),
			zap.Int("days", p.DaysSinceDelivery),
			zap.Int("window", window))
		return Result{
			RefundAmount: 0,
			AppliedRules: []string{fmt.Sprintf("Past %d-day return window", window)},
			Notes:        []string{"No refund available - past return window"},
		}
	}

	rates := c.rules.Rates(p.Category)
	rate := rates.Sealed
	if p.Opened {
		rate = rates.Opened
	}
	fee := p.PurchasePrice * rate

	result := Result{
		RefundAmount: roundCents(p.PurchasePrice - fee),
		AppliedRules: []string{fmt.Sprintf("%s item, %s", titleCase(p.Category), p.Condition())},
	}

	if fee > 0 {
		result.AppliedRules = append(result.AppliedRules, fmt.Sprintf("%.0f%% restocking fee applied", rate*100))
		result.Notes = append(result.Notes, fmt.Sprintf("Restocking fee: $%.2f", fee))
	} else {
		result.Notes = append(result.Notes, "No restocking fee for sealed items")
	}

	c.logger.Debug("[REFUND] computed",
		zap.String("category", p.Category),
		zap.String("condition", p.Condition()),
		zap.Float64("rate", rate),
		zap.Float64("refund", result.RefundAmount))

	return result
}

// roundCents rounds to the nearest correctly-rounded 2-decimal value
// (ties resolved on the exact binary value, half to even).
func roundCents(v float64) float64 {
	out, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	if err != nil {
		return v
	}
	return out
}

func titleCase(s string) string {
	return cases.Title(language.Und).String(s)
}
