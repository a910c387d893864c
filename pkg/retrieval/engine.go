// Package retrieval scores policies against a query with keyword and
// category heuristics. There are no embeddings involved.
package retrieval

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"returns-assistant-be/pkg/catalog"
	"returns-assistant-be/pkg/llm"
	"returns-assistant-be/pkg/policy"

	"go.uber.org/zap"
)

const (
	DefaultTopK = 3

	// Best scores below this trigger the keyword rewrite fallback.
	FallbackThreshold = 3

	rewriteMaxTokens = 50
)

var (
	tokenPattern = regexp.MustCompile(`[\p{L}\p{M}\p{N}_]+`)

	restockingCues = []string{"restocking", "fee", "charge", "opened", "sealed"}
	windowCues     = []string{"window", "return", "days"}
)

// Result is one scored policy.
type Result struct {
	Policy policy.Policy `json:"policy"`
	Score  int           `json:"score"`
}

type Engine struct {
	store       *policy.Store
	llmProvider llm.LLMProvider
	logger      *zap.Logger
}

func NewEngine(store *policy.Store, llmProvider llm.LLMProvider, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{store: store, llmProvider: llmProvider, logger: logger}
}

// Search runs KeywordSearch and, when the best score is weak, retries with
// LLM-extracted keywords.
func (e *Engine) Search(ctx context.Context, query string, topK int) []Result {
	results, _ := e.SearchDetailed(ctx, query, topK)
	return results
}

// SearchDetailed is Search that also reports the rewritten query when the
// fallback result was adopted ("" otherwise).
func (e *Engine) SearchDetailed(ctx context.Context, query string, topK int) ([]Result, string) {
	results := e.KeywordSearch(query, topK)
	if len(results) > 0 && results[0].Score >= FallbackThreshold {
		return results, ""
	}

	if e.llmProvider == nil {
		return results, ""
	}

	rewritten, err := e.rewriteQuery(ctx, query)
	if err != nil {
		e.logger.Warn("[RAG] keyword rewrite failed, keeping original results", zap.Error(err))
		return results, ""
	}

	enhanced := e.KeywordSearch(rewritten, topK)
	baseline := 0
	if len(results) > 0 {
		baseline = results[0].Score
	}
	if len(enhanced) > 0 && enhanced[0].Score > baseline {
		e.logger.Debug("[RAG] adopted rewritten query",
			zap.String("rewritten", rewritten),
			zap.Int("score", enhanced[0].Score),
			zap.Int("baseline", baseline))
		return enhanced, rewritten
	}
	return results, ""
}

func (e *Engine) rewriteQuery(ctx context.Context, query string) (string, error) {
	response, err := e.llmProvider.Generate(ctx, buildRewritePrompt(query), llm.WithMaxTokens(rewriteMaxTokens))
	if err != nil {
		return "", err
	}

	parts := strings.Split(response, ",")
	keywords := make([]string, len(parts))
	for i, kw := range parts {
		keywords[i] = strings.ToLower(strings.TrimSpace(kw))
	}
	return strings.Join(keywords, " "), nil
}

// KeywordSearch scores every policy, drops zero scores, and returns the
// top k sorted by score. Ties keep store order.
func (e *Engine) KeywordSearch(query string, topK int) []Result {
	queryLower := strings.ToLower(query)
	words := tokenPattern.FindAllString(queryLower, -1)
	detected := catalog.Detect(queryLower)

	wantsRestocking := catalog.ContainsAny(queryLower, restockingCues)
	wantsWindow := catalog.ContainsAny(queryLower, windowCues)

	var results []Result
	for _, p := range e.store.All() {
		id := strings.ToLower(p.ID)
		title := strings.ToLower(p.Title)
		content := strings.ToLower(p.Content)

		score := 0
		for _, w := range words {
			if strings.Contains(content, w) {
				score += 2
			}
			if strings.Contains(title, w) {
				score += 3
			}
		}

		score += categoryBonus(detected, id, title, content, score)

		if wantsRestocking && strings.Contains(id, "restocking") {
			score += 8
		}

		if wantsWindow && detected != "" && strings.Contains(id, "return") {
			if strings.Contains(id, detected) || strings.Contains(title, detected) {
				score += 8
			}
		}

		if score > 0 {
			results = append(results, Result{Policy: p, Score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if topK >= 0 && len(results) > topK {
		results = results[:topK]
	}
	return results
}

func categoryBonus(category, id, title, content string, score int) int {
	switch category {
	case catalog.Electronics, catalog.Apparel:
		if strings.Contains(id, category) || strings.Contains(title, category) {
			return 10
		}
		if strings.Contains(id, "general") && score > 0 {
			return 1
		}
	case catalog.Books:
		if strings.Contains(title, "books") || strings.Contains(title, "media") {
			return 10
		}
		if strings.Contains(id, "restocking") && strings.Contains(content, "books") {
			return 8
		}
	case catalog.Home:
		if strings.Contains(id, "general") && score > 0 {
			return 5
		}
	}
	return 0
}
