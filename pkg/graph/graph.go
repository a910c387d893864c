// Package graph runs the returns assistant pipeline: classify the query,
// retrieve policy, extract refund parameters, compute the refund and
// compose the answer.
package graph

import (
	"context"
	"fmt"
	"strings"

	"returns-assistant-be/pkg/extraction"
	"returns-assistant-be/pkg/llm"
	"returns-assistant-be/pkg/refund"
	"returns-assistant-be/pkg/retrieval"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	tracerName        = "returns-assistant-be/pkg/graph"
	classifyMaxTokens = 10
)

// Retriever finds the policies relevant to a query and reports the rewritten
// query when the fallback was adopted.
type Retriever interface {
	SearchDetailed(ctx context.Context, query string, topK int) ([]retrieval.Result, string)
}

// ParamExtractor derives refund parameters from a query.
type ParamExtractor interface {
	ExtractWithSource(ctx context.Context, query string) extraction.Outcome
}

// RefundCalculator computes a refund from complete parameters.
type RefundCalculator interface {
	Compute(p refund.Params) refund.Result
}

type Graph struct {
	llmProvider llm.LLMProvider
	retriever   Retriever
	extractor   ParamExtractor
	calculator  RefundCalculator
	topK        int
	tracer      trace.Tracer
	logger      *zap.Logger
}

type Option func(*Graph)

// WithTopK overrides the number of policies retrieved per query.
func WithTopK(k int) Option {
	return func(g *Graph) {
		if k > 0 {
			g.topK = k
		}
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(g *Graph) { g.tracer = t }
}

func New(llmProvider llm.LLMProvider, retriever Retriever, extractor ParamExtractor, calculator RefundCalculator, logger *zap.Logger, opts ...Option) *Graph {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Graph{
		llmProvider: llmProvider,
		retriever:   retriever,
		extractor:   extractor,
		calculator:  calculator,
		topK:        retrieval.DefaultTopK,
		tracer:      otel.Tracer(tracerName),
		logger:      logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Run executes one query from ClassifyIntent to End and returns the final
// state. Every collaborator failure is absorbed; Run always yields an answer.
func (g *Graph) Run(ctx context.Context, query string) State {
	ctx, span := g.tracer.Start(ctx, "graph.run")
	defer span.End()

	s := newState(uuid.NewString(), query)
	span.SetAttributes(attribute.String("returns.request_id", s.RequestID))

	for node := NodeClassifyIntent; node != NodeEnd; node = Next(node, s) {
		s = g.step(ctx, node, s).visit(node)
	}

	span.SetAttributes(
		attribute.String("returns.intent", string(s.Intent)),
		attribute.Int("returns.path_length", len(s.Path)),
	)
	return s
}

func (g *Graph) step(ctx context.Context, node Node, s State) State {
	ctx, span := g.tracer.Start(ctx, "graph."+node.String())
	defer span.End()

	switch node {
	case NodeClassifyIntent:
		return g.classifyIntent(ctx, s)
	case NodePerformRAGSearch:
		return g.performRAGSearch(ctx, s)
	case NodeExtractParameters:
		return g.extractParameters(ctx, s)
	case NodeComputeRefund:
		return g.computeRefund(s)
	case NodeGenerateResponse:
		return g.generateResponse(s)
	}
	panic(fmt.Sprintf("graph: no handler for %s", node))
}

func (g *Graph) classifyIntent(ctx context.Context, s State) State {
	s.Intent = IntentBoth

	if g.llmProvider == nil {
		return s
	}
	response, err := g.llmProvider.Generate(ctx, buildClassifyPrompt(s.UserQuery), llm.WithMaxTokens(classifyMaxTokens))
	if err != nil {
		g.logger.Warn("[CLASSIFY] generation failed, defaulting to both",
			zap.String("request_id", s.RequestID), zap.Error(err))
		return s
	}

	s.Intent = NormalizeIntent(response)
	g.logger.Info("[CLASSIFY] intent resolved",
		zap.String("request_id", s.RequestID),
		zap.String("intent", string(s.Intent)))
	return s
}

func (g *Graph) performRAGSearch(ctx context.Context, s State) State {
	results, rewritten := g.retriever.SearchDetailed(ctx, s.UserQuery, g.topK)
	if results == nil {
		results = []retrieval.Result{}
	}
	s.RAGResults = results
	s.RewrittenQuery = rewritten

	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.Policy.ID
	}
	g.logger.Info("[RAG] policies retrieved",
		zap.String("request_id", s.RequestID),
		zap.Strings("policy_ids", ids),
		zap.Bool("rewritten", rewritten != ""))
	return s
}

func (g *Graph) extractParameters(ctx context.Context, s State) State {
	out := g.extractor.ExtractWithSource(ctx, s.UserQuery)
	s.ExtractedParams = out.Params
	s.MissingParams = out.Missing
	if s.MissingParams == nil {
		s.MissingParams = []string{}
	}
	s.ExtractionSource = out.Source

	g.logger.Info("[EXTRACT] parameters extracted",
		zap.String("request_id", s.RequestID),
		zap.String("source", string(out.Source)),
		zap.Strings("missing", s.MissingParams))
	return s
}

// computeRefund is only reachable with complete parameters; anything else is
// a routing bug.
func (g *Graph) computeRefund(s State) State {
	params, ok := s.ExtractedParams.Complete()
	if !ok {
		panic(fmt.Sprintf("graph: compute_refund reached with missing params %v", s.ExtractedParams.Missing()))
	}

	result := g.calculator.Compute(params)
	s.ToolResult = &result

	g.logger.Info("[REFUND] refund computed",
		zap.String("request_id", s.RequestID),
		zap.Float64("refund_amount", result.RefundAmount),
		zap.String("applied_rules", strings.Join(result.AppliedRules, "; ")))
	return s
}

func (g *Graph) generateResponse(s State) State {
	c := Compose(s)
	s.FinalAnswer = c.Answer
	s.Citations = c.Citations
	s.UsedComponents = c.Components

	g.logger.Info("[RESPOND] answer composed",
		zap.String("request_id", s.RequestID),
		zap.Int("citations", len(s.Citations)))
	return s
}

// NormalizeIntent maps a raw classifier response onto the taxonomy.
// Unrecognised output resolves to IntentBoth.
func NormalizeIntent(response string) Intent {
	s := strings.ToLower(strings.TrimSpace(response))
	s = strings.Trim(s, "\"'`.!:; \t\n")
	s = strings.NewReplacer("-", "_", " ", "_").Replace(s)

	if i := Intent(s); i.Valid() {
		return i
	}
	return IntentBoth
}
