// Package cache memoizes generation calls. Identical (model, prompt,
// max tokens, temperature) requests are answered from a Store.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"returns-assistant-be/pkg/llm"

	"go.uber.org/zap"
)

// Store is the backing key/value store. A miss is ("", false, nil).
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

type Provider struct {
	next   llm.LLMProvider
	store  Store
	ttl    time.Duration
	logger *zap.Logger
}

var _ llm.LLMProvider = &Provider{}

func NewProvider(next llm.LLMProvider, store Store, ttl time.Duration, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{next: next, store: store, ttl: ttl, logger: logger}
}

func (p *Provider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	key := cacheKey(history, llm.ApplyOptions(opts...))

	if cached, ok, err := p.store.Get(ctx, key); err != nil {
		p.logger.Warn("[CACHE] lookup failed, calling provider", zap.Error(err))
	} else if ok {
		p.logger.Debug("[CACHE] hit", zap.String("key", key[:12]))
		return cached, nil
	}

	out, err := p.next.Chat(ctx, history, opts...)
	if err != nil {
		return "", err
	}

	if err := p.store.Set(ctx, key, out, p.ttl); err != nil {
		p.logger.Warn("[CACHE] store failed", zap.Error(err))
	}
	return out, nil
}

func (p *Provider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func cacheKey(history []llm.Message, o *llm.Options) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s|%d|%.3f|%t", o.Model, o.MaxTokens, o.Temperature, o.JSONFormat)
	for _, m := range history {
		sb.WriteString("|")
		sb.WriteString(m.Role)
		sb.WriteString(":")
		sb.WriteString(m.Content)
	}
	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}
