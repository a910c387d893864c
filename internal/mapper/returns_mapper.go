package mapper

import (
	"returns-assistant-be/internal/dto"
	"returns-assistant-be/pkg/graph"
	"returns-assistant-be/pkg/policy"
	"returns-assistant-be/pkg/retrieval"
)

type ReturnsMapper struct{}

func NewReturnsMapper() *ReturnsMapper {
	return &ReturnsMapper{}
}

func (m *ReturnsMapper) StateToAskResponse(s graph.State) *dto.AskResponse {
	path := make([]string, len(s.Path))
	for i, n := range s.Path {
		path[i] = n.String()
	}

	return &dto.AskResponse{
		RequestId:        s.RequestID,
		Intent:           string(s.Intent),
		ExtractedParams:  s.ExtractedParams,
		RagResults:       m.ResultsToHits(s.RAGResults),
		ToolResult:       s.ToolResult,
		MissingParams:    s.MissingParams,
		FinalAnswer:      s.FinalAnswer,
		Citations:        s.Citations,
		Path:             path,
		ExtractionSource: string(s.ExtractionSource),
		RewrittenQuery:   s.RewrittenQuery,
	}
}

func (m *ReturnsMapper) ResultsToHits(results []retrieval.Result) []dto.PolicyHitDTO {
	hits := make([]dto.PolicyHitDTO, len(results))
	for i, r := range results {
		hits[i] = dto.PolicyHitDTO{
			Id:      r.Policy.ID,
			Title:   r.Policy.Title,
			Content: r.Policy.Content,
			Score:   r.Score,
		}
	}
	return hits
}

func (m *ReturnsMapper) PoliciesToResponse(policies []policy.Policy) []dto.PolicyResponse {
	out := make([]dto.PolicyResponse, len(policies))
	for i, p := range policies {
		out[i] = dto.PolicyResponse{Id: p.ID, Title: p.Title, Content: p.Content}
	}
	return out
}
