// Package extraction derives refund parameters from free text, first by
// asking the LLM for JSON, then by pattern matching.
package extraction

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"returns-assistant-be/pkg/llm"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const (
	unknownMarker    = "unknown"
	extractMaxTokens = 100
)

// Source records which path produced the parameters.
type Source string

const (
	SourceLLM   Source = "llm"
	SourceRegex Source = "regex"
)

var (
	ErrInvalidJSON     = errors.New("response is not valid JSON")
	ErrUnexpectedShape = errors.New("unexpected extraction shape")

	jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)
)

// Outcome is the result of one extraction.
type Outcome struct {
	Params  ExtractedParams
	Missing []string
	Source  Source
}

type Extractor struct {
	llmProvider llm.LLMProvider
	logger      *zap.Logger
}

func NewExtractor(llmProvider llm.LLMProvider, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{llmProvider: llmProvider, logger: logger}
}

// Extract returns the parameters and the missing fields in canonical order.
func (e *Extractor) Extract(ctx context.Context, query string) (ExtractedParams, []string) {
	out := e.ExtractWithSource(ctx, query)
	return out.Params, out.Missing
}

// ExtractWithSource tries the LLM path and falls back to ExtractRegex on any
// failure of that path.
func (e *Extractor) ExtractWithSource(ctx context.Context, query string) Outcome {
	params, err := e.extractLLM(ctx, query)
	source := SourceLLM
	if err != nil {
		e.logger.Warn("[EXTRACT] llm extraction failed, using pattern fallback", zap.Error(err))
		params = ExtractRegex(query)
		source = SourceRegex
	}

	return Outcome{
		Params:  params,
		Missing: params.Missing(),
		Source:  source,
	}
}

func (e *Extractor) extractLLM(ctx context.Context, query string) (ExtractedParams, error) {
	if e.llmProvider == nil {
		return ExtractedParams{}, errors.New("no llm provider configured")
	}
	response, err := e.llmProvider.Generate(ctx, buildExtractionPrompt(query), llm.WithMaxTokens(extractMaxTokens), llm.WithJSONFormat())
	if err != nil {
		return ExtractedParams{}, fmt.Errorf("generate: %w", err)
	}
	return ParseLLMResponse(response)
}

// ParseLLMResponse reads the first brace-delimited object in response (or
// the whole response) and maps each non-"unknown" field.
func ParseLLMResponse(response string) (ExtractedParams, error) {
	var params ExtractedParams

	candidate := response
	if m := jsonObjectPattern.FindString(response); m != "" {
		candidate = m
	}
	if !gjson.Valid(candidate) {
		return params, ErrInvalidJSON
	}

	doc := gjson.Parse(candidate)
	if !doc.IsObject() {
		return params, fmt.Errorf("%w: top level is not an object", ErrUnexpectedShape)
	}

	// Unparsable numbers are dropped, not errors
	if v := doc.Get(FieldPurchasePrice); !isUnknown(v) {
		if price, ok := toFloat(v); ok {
			params.setPrice(price)
		}
	}
	if v := doc.Get(FieldDaysSinceDelivery); !isUnknown(v) {
		if days, ok := toInt(v); ok {
			params.setDays(days)
		}
	}

	if v := doc.Get(FieldOpened); !isUnknown(v) {
		if v.Type != gjson.String {
			return ExtractedParams{}, fmt.Errorf("%w: opened must be a string", ErrUnexpectedShape)
		}
		params.setOpened(strings.ToLower(v.Str) == "opened")
	}

	if v := doc.Get(FieldCategory); !isUnknown(v) {
		if v.Type != gjson.String {
			return ExtractedParams{}, fmt.Errorf("%w: category must be a string", ErrUnexpectedShape)
		}
		params.setCategory(v.Str)
	}

	return params, nil
}

func isUnknown(v gjson.Result) bool {
	return v.Type == gjson.String && v.Str == unknownMarker
}

func toFloat(v gjson.Result) (float64, bool) {
	var f float64
	switch v.Type {
	case gjson.Number:
		f = v.Num
	case gjson.String:
		parsed, ok := parseFloat(v.Str)
		if !ok {
			return 0, false
		}
		f = parsed
	case gjson.True:
		f = 1
	case gjson.False:
		f = 0
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func toInt(v gjson.Result) (int, bool) {
	switch v.Type {
	case gjson.Number:
		return floatToInt(v.Num)
	case gjson.String:
		return parseInt(v.Str)
	case gjson.True:
		return 1, true
	case gjson.False:
		return 0, true
	}
	return 0, false
}
