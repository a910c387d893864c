package service

import (
	"context"
	"time"

	"returns-assistant-be/internal/dto"
	"returns-assistant-be/internal/mapper"
	"returns-assistant-be/internal/metrics"
	"returns-assistant-be/internal/pkg/logger"
	"returns-assistant-be/pkg/events"
	"returns-assistant-be/pkg/graph"
	"returns-assistant-be/pkg/policy"
	"returns-assistant-be/pkg/refund"
	"returns-assistant-be/pkg/retrieval"
)

const defaultAuditLimit = 50

type IReturnsService interface {
	Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error)
	Search(ctx context.Context, req *dto.SearchRequest) (*dto.SearchResponse, error)
	Refund(ctx context.Context, req *dto.RefundRequest) (*refund.Result, error)
	GetPolicies(ctx context.Context) ([]dto.PolicyResponse, error)
	GetAuditLog(ctx context.Context, q *dto.AuditQuery) ([]logger.LogEntry, error)
}

// Runner executes one assistant query end to end.
type Runner interface {
	Run(ctx context.Context, query string) graph.State
}

type returnsService struct {
	runner      Runner
	retriever   graph.Retriever
	calculator  graph.RefundCalculator
	store       *policy.Store
	publisher   IPublisherService
	metrics     *metrics.Metrics
	auditLogger logger.ILogger
	logger      logger.ILogger
	mapper      *mapper.ReturnsMapper
}

func NewReturnsService(
	runner Runner,
	retriever graph.Retriever,
	calculator graph.RefundCalculator,
	store *policy.Store,
	publisher IPublisherService,
	m *metrics.Metrics,
	auditLogger logger.ILogger,
	log logger.ILogger,
) IReturnsService {
	return &returnsService{
		runner:      runner,
		retriever:   retriever,
		calculator:  calculator,
		store:       store,
		publisher:   publisher,
		metrics:     m,
		auditLogger: auditLogger,
		logger:      log,
		mapper:      mapper.NewReturnsMapper(),
	}
}

func (s *returnsService) Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error) {
	start := time.Now()
	state := s.runner.Run(ctx, req.Query)
	elapsed := time.Since(start)

	var firstMissing string
	if len(state.MissingParams) > 0 && state.ToolResult == nil {
		firstMissing = state.MissingParams[0]
	}
	if s.metrics != nil {
		s.metrics.ObserveRun(metrics.RunObservation{
			Intent:           string(state.Intent),
			ExtractionSource: string(state.ExtractionSource),
			QueryRewritten:   state.RewrittenQuery != "",
			FirstMissing:     firstMissing,
			Duration:         elapsed,
		})
	}

	if s.publisher != nil {
		if err := s.publisher.SendQueryAnswered(ctx, queryAnsweredEvent(state, elapsed)); err != nil {
			s.logger.Warn("ReturnsService", "Failed to publish answered event", map[string]interface{}{
				"request_id": state.RequestID,
				"error":      err.Error(),
			})
		}
	}

	return s.mapper.StateToAskResponse(state), nil
}

func (s *returnsService) Search(ctx context.Context, req *dto.SearchRequest) (*dto.SearchResponse, error) {
	topK := req.TopK
	if topK <= 0 {
		topK = retrieval.DefaultTopK
	}

	results, rewritten := s.retriever.SearchDetailed(ctx, req.Query, topK)
	return &dto.SearchResponse{
		Query:          req.Query,
		RewrittenQuery: rewritten,
		Results:        s.mapper.ResultsToHits(results),
	}, nil
}

func (s *returnsService) Refund(ctx context.Context, req *dto.RefundRequest) (*refund.Result, error) {
	result := s.calculator.Compute(req.Params())
	return &result, nil
}

func (s *returnsService) GetPolicies(ctx context.Context) ([]dto.PolicyResponse, error) {
	return s.mapper.PoliciesToResponse(s.store.All()), nil
}

func (s *returnsService) GetAuditLog(ctx context.Context, q *dto.AuditQuery) ([]logger.LogEntry, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	return s.auditLogger.GetLogs("", limit, q.Offset)
}

func queryAnsweredEvent(s graph.State, elapsed time.Duration) events.QueryAnswered {
	path := make([]string, len(s.Path))
	for i, n := range s.Path {
		path[i] = n.String()
	}
	policyIDs := make([]string, len(s.RAGResults))
	for i, r := range s.RAGResults {
		policyIDs[i] = r.Policy.ID
	}

	var amount *float64
	if s.ToolResult != nil {
		v := s.ToolResult.RefundAmount
		amount = &v
	}

	return events.QueryAnswered{
		RequestID:        s.RequestID,
		Query:            s.UserQuery,
		Intent:           string(s.Intent),
		Path:             path,
		PolicyIDs:        policyIDs,
		MissingParams:    s.MissingParams,
		RefundAmount:     amount,
		ExtractionSource: string(s.ExtractionSource),
		QueryRewritten:   s.RewrittenQuery != "",
		DurationMs:       elapsed.Milliseconds(),
		OccurredAt:       time.Now().UTC(),
	}
}
