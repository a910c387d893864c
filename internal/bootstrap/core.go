package bootstrap

import (
	"context"
	"fmt"
	"time"

	"returns-assistant-be/internal/config"
	"returns-assistant-be/internal/pkg/logger"
	"returns-assistant-be/pkg/extraction"
	"returns-assistant-be/pkg/graph"
	"returns-assistant-be/pkg/llm"
	"returns-assistant-be/pkg/llm/cache"
	"returns-assistant-be/pkg/llm/factory"
	"returns-assistant-be/pkg/policy"
	"returns-assistant-be/pkg/refund"
	"returns-assistant-be/pkg/retrieval"
)

// Core is the assistant without any transport: the loaded data, the
// generation provider and the engines the graph drives.
type Core struct {
	Store      *policy.Store
	Rules      *refund.RuleConfig
	LLM        llm.LLMProvider
	Retrieval  *retrieval.Engine
	Extractor  *extraction.Extractor
	Calculator *refund.Calculator
	Graph      *graph.Graph

	closers []func() error
}

// NewCore loads policies and rules (fatal when missing) and builds the
// provider. A provider that cannot be built leaves LLM nil; the graph then
// runs on its deterministic fallbacks.
func NewCore(cfg *config.Config, sysLogger logger.ILogger) (*Core, error) {
	store, err := policy.LoadFile(cfg.Data.PoliciesPath)
	if err != nil {
		return nil, fmt.Errorf("load policies: %w", err)
	}
	rules, err := refund.LoadRules(cfg.Data.RulesPath)
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}
	sysLogger.Info("Bootstrap", "Data loaded", map[string]interface{}{
		"policies": store.Len(),
		"rules":    cfg.Data.RulesPath,
	})

	c := &Core{Store: store, Rules: rules}

	provider, err := factory.NewLLMProvider(
		cfg.LLM.Provider,
		cfg.LLM.Model,
		cfg.LLM.ProviderBaseURL(),
		cfg.LLM.GroqAPIKey,
	)
	if err != nil {
		sysLogger.Warn("Bootstrap", "LLM provider unavailable, using deterministic fallbacks", map[string]interface{}{
			"provider": cfg.LLM.Provider,
			"error":    err.Error(),
		})
	} else {
		c.LLM = c.withCache(cfg.LLM, provider, sysLogger)
		sysLogger.Info("Bootstrap", "Using LLM provider", map[string]interface{}{
			"provider": cfg.LLM.Provider,
			"model":    cfg.LLM.Model,
			"cache":    cfg.LLM.Cache,
		})
	}

	c.Retrieval = retrieval.NewEngine(store, c.LLM, sysLogger.Named("retrieval"))
	c.Extractor = extraction.NewExtractor(c.LLM, sysLogger.Named("extraction"))
	c.Calculator = refund.NewCalculator(rules, sysLogger.Named("refund"))
	c.Graph = graph.New(c.LLM, c.Retrieval, c.Extractor, c.Calculator, sysLogger.Named("graph"),
		graph.WithTopK(cfg.Data.TopK))

	return c, nil
}

func (c *Core) withCache(cfg config.LLMConfig, provider llm.LLMProvider, sysLogger logger.ILogger) llm.LLMProvider {
	switch cfg.Cache {
	case "memory":
		return cache.NewProvider(provider, cache.NewMemoryStore(cfg.CacheTTL), cfg.CacheTTL, sysLogger.Named("llm-cache"))
	case "redis":
		store, rdb := cache.NewRedisStoreFromURL(cfg.RedisURL)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			sysLogger.Warn("Bootstrap", "Failed to connect to Redis, cache calls will fall through", map[string]interface{}{
				"error": err.Error(),
			})
		}
		c.closers = append(c.closers, rdb.Close)
		return cache.NewProvider(provider, store, cfg.CacheTTL, sysLogger.Named("llm-cache"))
	}
	return provider
}

func (c *Core) Close() {
	for _, closeFn := range c.closers {
		_ = closeFn()
	}
}
