package refund

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRules() *RuleConfig {
	return &RuleConfig{
		ReturnWindowDaysByCategory: map[string]int{
			"default":     30,
			"electronics": 15,
			"books":       14,
		},
		RestockingFees: map[string]FeeRates{
			"default":     {Opened: 0.10, Sealed: 0.0},
			"electronics": {Opened: 0.15, Sealed: 0.0},
			"apparel":     {Opened: 0.0, Sealed: 0.0},
		},
	}
}

func TestCompute(t *testing.T) {
	calc := NewCalculator(testRules(), nil)

	tests := []struct {
		name   string
		params Params
		want   Result
	}{
		{
			name:   "sealed home item inside window",
			params: Params{PurchasePrice: 300, DaysSinceDelivery: 10, Opened: false, Category: "home"},
			want: Result{
				RefundAmount: 300.00,
				AppliedRules: []string{"Home item, sealed"},
				Notes:        []string{"No restocking fee for sealed items"},
			},
		},
		{
			name:   "opened electronics pays restocking fee",
			params: Params{PurchasePrice: 200, DaysSinceDelivery: 12, Opened: true, Category: "electronics"},
			want: Result{
				RefundAmount: 170.00,
				AppliedRules: []string{"Electronics item, opened", "15% restocking fee applied"},
				Notes:        []string{"Restocking fee: $30.00"},
			},
		},
		{
			name:   "opened apparel has zero fee",
			params: Params{PurchasePrice: 120, DaysSinceDelivery: 7, Opened: true, Category: "apparel"},
			want: Result{
				RefundAmount: 120.00,
				AppliedRules: []string{"Apparel item, opened"},
				Notes:        []string{"No restocking fee for sealed items"},
			},
		},
		{
			name:   "past category window",
			params: Params{PurchasePrice: 900, DaysSinceDelivery: 16, Opened: false, Category: "electronics"},
			want: Result{
				RefundAmount: 0,
				AppliedRules: []string{"Past 15-day return window"},
				Notes:        []string{"No refund available - past return window"},
			},
		},
		{
			name:   "unknown category uses defaults",
			params: Params{PurchasePrice: 50, DaysSinceDelivery: 31, Opened: true, Category: "toys"},
			want: Result{
				RefundAmount: 0,
				AppliedRules: []string{"Past 30-day return window"},
				Notes:        []string{"No refund available - past return window"},
			},
		},
		{
			name:   "multi word category is title cased",
			params: Params{PurchasePrice: 80, DaysSinceDelivery: 3, Opened: true, Category: "home goods"},
			want: Result{
				RefundAmount: 72.00,
				AppliedRules: []string{"Home Goods item, opened", "10% restocking fee applied"},
				Notes:        []string{"Restocking fee: $8.00"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, calc.Compute(tt.params))
		})
	}
}

func TestComputeWindowBoundary(t *testing.T) {
	calc := NewCalculator(testRules(), nil)

	atWindow := calc.Compute(Params{PurchasePrice: 100, DaysSinceDelivery: 15, Opened: false, Category: "electronics"})
	assert.Equal(t, 100.0, atWindow.RefundAmount)
	assert.Equal(t, []string{"Electronics item, sealed"}, atWindow.AppliedRules)

	pastWindow := calc.Compute(Params{PurchasePrice: 100000, DaysSinceDelivery: 16, Opened: false, Category: "electronics"})
	assert.Equal(t, 0.0, pastWindow.RefundAmount)
	assert.Equal(t, []string{"Past 15-day return window"}, pastWindow.AppliedRules)
}

func TestComputeRoundsToCents(t *testing.T) {
	calc := NewCalculator(testRules(), nil)

	res := calc.Compute(Params{PurchasePrice: 19.99, DaysSinceDelivery: 1, Opened: true, Category: "electronics"})
	assert.Equal(t, 16.99, res.RefundAmount)
	assert.Equal(t, []string{"Restocking fee: $3.00"}, res.Notes)
}

func TestRoundCents(t *testing.T) {
	assert.Equal(t, 2.67, roundCents(2.675))
	assert.Equal(t, 0.12, roundCents(0.125))
	assert.Equal(t, 300.0, roundCents(300))
	assert.Equal(t, -1.5, roundCents(-1.5))
}

func TestParseRules(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cfg, err := ParseRules([]byte(`{
			"return_window_days_by_category": {"default": 30, "books": 14},
			"restocking_fees": {"default": {"opened": 0.1, "sealed": 0}}
		}`))
		require.NoError(t, err)
		assert.Equal(t, 14, cfg.ReturnWindow("books"))
		assert.Equal(t, 30, cfg.ReturnWindow("apparel"))
		assert.Equal(t, FeeRates{Opened: 0.1, Sealed: 0}, cfg.Rates("books"))
	})

	t.Run("missing window default", func(t *testing.T) {
		_, err := ParseRules([]byte(`{
			"return_window_days_by_category": {"books": 14},
			"restocking_fees": {"default": {"opened": 0.1, "sealed": 0}}
		}`))
		assert.ErrorIs(t, err, ErrMissingDefault)
	})

	t.Run("missing fee default", func(t *testing.T) {
		_, err := ParseRules([]byte(`{
			"return_window_days_by_category": {"default": 30},
			"restocking_fees": {"books": {"opened": 0.1, "sealed": 0}}
		}`))
		assert.ErrorIs(t, err, ErrMissingDefault)
	})

	t.Run("missing sealed rate", func(t *testing.T) {
		_, err := ParseRules([]byte(`{
			"return_window_days_by_category": {"default": 30},
			"restocking_fees": {"default": {"opened": 0.1}}
		}`))
		assert.ErrorIs(t, err, ErrMissingRate)
	})

	t.Run("bundled rules", func(t *testing.T) {
		cfg, err := LoadRules(filepath.Join("..", "..", "data", "config.json"))
		require.NoError(t, err)
		assert.Equal(t, 15, cfg.ReturnWindow("electronics"))
	})
}
