package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"returns-assistant-be/pkg/llm/llmtest"
	"returns-assistant-be/pkg/refund"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const extractMarker = "Extract information from this customer query"

func price(v float64) *float64  { return &v }
func days(v int) *int           { return &v }
func opened(v bool) *bool       { return &v }
func category(v string) *string { return &v }

func TestParseLLMResponse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ExtractedParams
		wantErr error
	}{
		{
			name:  "all fields typed",
			input: `{"purchase_price": 300, "days_since_delivery": 10, "opened": "sealed", "category": "home"}`,
			want:  ExtractedParams{PurchasePrice: price(300), DaysSinceDelivery: days(10), Opened: opened(false), Category: category("home")},
		},
		{
			name:  "object wrapped in prose",
			input: "Sure! Here you go:\n{\"purchase_price\": \"200\", \"days_since_delivery\": \"12\", \"opened\": \"OPENED\", \"category\": \"electronics\"}\nHope that helps.",
			want:  ExtractedParams{PurchasePrice: price(200), DaysSinceDelivery: days(12), Opened: opened(true), Category: category("electronics")},
		},
		{
			name:  "unknowns are absent",
			input: `{"purchase_price": "unknown", "days_since_delivery": "unknown", "opened": "unknown", "category": "unknown"}`,
			want:  ExtractedParams{},
		},
		{
			name:  "unparsable numbers are dropped",
			input: `{"purchase_price": "$120", "days_since_delivery": "about a week", "opened": "sealed", "category": "apparel"}`,
			want:  ExtractedParams{Opened: opened(false), Category: category("apparel")},
		},
		{
			name:  "fractional day number truncates",
			input: `{"purchase_price": 19.99, "days_since_delivery": 12.7, "opened": "opened", "category": "books"}`,
			want:  ExtractedParams{PurchasePrice: price(19.99), DaysSinceDelivery: days(12), Opened: opened(true), Category: category("books")},
		},
		{
			name:  "fractional day string is dropped",
			input: `{"purchase_price": null, "days_since_delivery": "12.5", "opened": "sealed", "category": "home"}`,
			want:  ExtractedParams{Opened: opened(false), Category: category("home")},
		},
		{
			name:  "huge day number clamps instead of overflowing",
			input: `{"purchase_price": 300, "days_since_delivery": 1e30, "opened": "sealed", "category": "home"}`,
			want:  ExtractedParams{PurchasePrice: price(300), DaysSinceDelivery: days(math.MaxInt), Opened: opened(false), Category: category("home")},
		},
		{
			name:  "huge negative day number clamps",
			input: `{"purchase_price": 300, "days_since_delivery": -1e30, "opened": "sealed", "category": "home"}`,
			want:  ExtractedParams{PurchasePrice: price(300), DaysSinceDelivery: days(math.MinInt), Opened: opened(false), Category: category("home")},
		},
		{
			name:  "overlong day string clamps",
			input: `{"purchase_price": 300, "days_since_delivery": "99999999999999999999999", "opened": "sealed", "category": "home"}`,
			want:  ExtractedParams{PurchasePrice: price(300), DaysSinceDelivery: days(math.MaxInt), Opened: opened(false), Category: category("home")},
		},
		{
			name:  "non ascii digit strings parse",
			input: `{"purchase_price": "١٢٠", "days_since_delivery": "１４", "opened": "sealed", "category": "home"}`,
			want:  ExtractedParams{PurchasePrice: price(120), DaysSinceDelivery: days(14), Opened: opened(false), Category: category("home")},
		},
		{
			name:  "missing price key is just absent",
			input: `{"days_since_delivery": 3, "opened": "sealed", "category": "home"}`,
			want:  ExtractedParams{DaysSinceDelivery: days(3), Opened: opened(false), Category: category("home")},
		},
		{
			name:  "category copied verbatim",
			input: `{"purchase_price": 5, "days_since_delivery": 1, "opened": "used", "category": "Toys"}`,
			want:  ExtractedParams{PurchasePrice: price(5), DaysSinceDelivery: days(1), Opened: opened(false), Category: category("Toys")},
		},
		{
			name:    "missing opened key",
			input:   `{"purchase_price": 5, "days_since_delivery": 1, "category": "home"}`,
			wantErr: ErrUnexpectedShape,
		},
		{
			name:    "non string opened",
			input:   `{"purchase_price": 5, "days_since_delivery": 1, "opened": true, "category": "home"}`,
			wantErr: ErrUnexpectedShape,
		},
		{
			name:    "null category",
			input:   `{"purchase_price": 5, "days_since_delivery": 1, "opened": "sealed", "category": null}`,
			wantErr: ErrUnexpectedShape,
		},
		{
			name:    "top level array",
			input:   `[1, 2, 3]`,
			wantErr: ErrUnexpectedShape,
		},
		{
			name:    "broken object",
			input:   `{purchase_price: 5}`,
			wantErr: ErrInvalidJSON,
		},
		{
			name:    "plain text",
			input:   "I could not find anything",
			wantErr: ErrInvalidJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLLMResponse(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractRegex(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		want        ExtractedParams
		wantMissing []string
	}{
		{
			name:        "sealed blender",
			query:       "$300 sealed blender, 10 days ago",
			want:        ExtractedParams{PurchasePrice: price(300), DaysSinceDelivery: days(10), Opened: opened(false), Category: category("home")},
			wantMissing: []string{},
		},
		{
			name:        "opened headphones",
			query:       "Headphones for $200, opened, delivered 12 days ago, refund?",
			want:        ExtractedParams{PurchasePrice: price(200), DaysSinceDelivery: days(12), Opened: opened(true), Category: category("electronics")},
			wantMissing: []string{},
		},
		{
			name:        "jacket last week",
			query:       "I bought a jacket last week for $120; how much can I get back?",
			want:        ExtractedParams{PurchasePrice: price(120), DaysSinceDelivery: days(7), Category: category("apparel")},
			wantMissing: []string{FieldOpened},
		},
		{
			name:        "days since delivery",
			query:       "Return policy + estimate for a sealed phone $900, 14 days since delivery.",
			want:        ExtractedParams{PurchasePrice: price(900), DaysSinceDelivery: days(14), Opened: opened(false), Category: category("electronics")},
			wantMissing: []string{},
		},
		{
			name:        "first number is taken as price",
			query:       "I'm past 35 days, can I still return?",
			want:        ExtractedParams{PurchasePrice: price(35)},
			wantMissing: []string{FieldDaysSinceDelivery, FieldOpened, FieldCategory},
		},
		{
			name:        "yesterday",
			query:       "got a dress yesterday, never worn",
			want:        ExtractedParams{DaysSinceDelivery: days(1), Category: category("apparel")},
			wantMissing: []string{FieldPurchasePrice, FieldOpened},
		},
		{
			name:        "opened check wins over unopened",
			query:       "unopened book $12.50",
			want:        ExtractedParams{PurchasePrice: price(12.50), Opened: opened(true), Category: category("books")},
			wantMissing: []string{FieldDaysSinceDelivery},
		},
		{
			name:        "overlong day count clamps past every window",
			query:       "$300 sealed blender, 99999999999999999999999 days ago",
			want:        ExtractedParams{PurchasePrice: price(300), DaysSinceDelivery: days(math.MaxInt), Opened: opened(false), Category: category("home")},
			wantMissing: []string{},
		},
		{
			name:        "arabic-indic digits",
			query:       "sealed blender for $٣٠٠, ١٠ days ago",
			want:        ExtractedParams{PurchasePrice: price(300), DaysSinceDelivery: days(10), Opened: opened(false), Category: category("home")},
			wantMissing: []string{},
		},
		{
			name:        "nothing",
			query:       "hello",
			want:        ExtractedParams{},
			wantMissing: []string{FieldPurchasePrice, FieldDaysSinceDelivery, FieldOpened, FieldCategory},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractRegex(tt.query)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantMissing, got.Missing())
		})
	}
}

func TestExtractRegexIsPure(t *testing.T) {
	queries := []string{
		"$300 sealed blender, 10 days ago",
		"I bought a jacket last week for $120",
		"what's the return window?",
	}
	for _, q := range queries {
		first := ExtractRegex(q)
		second := ExtractRegex(q)
		assert.Equal(t, first, second)
		assert.Equal(t, first.Missing(), second.Missing())

		raw, err := json.Marshal(first)
		require.NoError(t, err)
		var decoded ExtractedParams
		require.NoError(t, json.Unmarshal(raw, &decoded))
		assert.Equal(t, first, decoded)
	}
}

func TestComplete(t *testing.T) {
	full := ExtractedParams{PurchasePrice: price(300), DaysSinceDelivery: days(10), Opened: opened(false), Category: category("home")}
	p, ok := full.Complete()
	require.True(t, ok)
	assert.Equal(t, refund.Params{PurchasePrice: 300, DaysSinceDelivery: 10, Opened: false, Category: "home"}, p)

	_, ok = ExtractedParams{PurchasePrice: price(1)}.Complete()
	assert.False(t, ok)
}

func TestExtractorPaths(t *testing.T) {
	query := "$300 sealed blender, 10 days ago"

	t.Run("llm path", func(t *testing.T) {
		stub := &llmtest.Stub{Rules: []llmtest.Rule{{
			Match:    extractMarker,
			Response: `{"purchase_price": 300, "days_since_delivery": "unknown", "opened": "sealed", "category": "home"}`,
		}}}
		out := NewExtractor(stub, nil).ExtractWithSource(context.Background(), query)

		assert.Equal(t, SourceLLM, out.Source)
		assert.Equal(t, []string{FieldDaysSinceDelivery}, out.Missing)
		require.Len(t, stub.Calls(), 1)
		assert.Equal(t, 100, stub.Calls()[0].MaxTokens)
		assert.True(t, stub.Calls()[0].JSONFormat)
	})

	t.Run("generation error falls back", func(t *testing.T) {
		stub := &llmtest.Stub{DefaultErr: errors.New("connection refused")}
		params, missing := NewExtractor(stub, nil).Extract(context.Background(), query)

		assert.Equal(t, ExtractRegex(query), params)
		assert.Empty(t, missing)
	})

	t.Run("malformed output falls back", func(t *testing.T) {
		stub := &llmtest.Stub{Default: "Error generating response: rate limited"}
		out := NewExtractor(stub, nil).ExtractWithSource(context.Background(), query)

		assert.Equal(t, SourceRegex, out.Source)
		assert.Equal(t, ExtractRegex(query), out.Params)
	})

	t.Run("no provider uses patterns", func(t *testing.T) {
		out := NewExtractor(nil, nil).ExtractWithSource(context.Background(), query)
		assert.Equal(t, SourceRegex, out.Source)
	})
}

func TestHugeDayCountIsPastWindow(t *testing.T) {
	params, err := ParseLLMResponse(`{"purchase_price": 300, "days_since_delivery": 1e30, "opened": "sealed", "category": "home"}`)
	require.NoError(t, err)
	p, ok := params.Complete()
	require.True(t, ok)

	rules := &refund.RuleConfig{
		ReturnWindowDaysByCategory: map[string]int{"default": 30},
		RestockingFees:             map[string]refund.FeeRates{"default": {Opened: 0.10, Sealed: 0}},
	}
	result := refund.NewCalculator(rules, nil).Compute(p)
	assert.Zero(t, result.RefundAmount)
	assert.Equal(t, []string{"Past 30-day return window"}, result.AppliedRules)
}

func TestAsciiDigits(t *testing.T) {
	assert.Equal(t, "120", asciiDigits("١٢٠"))
	assert.Equal(t, "14", asciiDigits("１４"))
	assert.Equal(t, "07", asciiDigits("𝟎𝟕"))
	assert.Equal(t, "$12.50", asciiDigits("$12.50"))
}
