package dto

import (
	"returns-assistant-be/pkg/extraction"
	"returns-assistant-be/pkg/refund"
)

// --- Ask ---

type AskRequest struct {
	Query string `json:"query" validate:"required,max=2000"`
}

type AskResponse struct {
	RequestId        string                     `json:"request_id"`
	Intent           string                     `json:"intent"`
	ExtractedParams  extraction.ExtractedParams `json:"extracted_params"`
	RagResults       []PolicyHitDTO             `json:"rag_results"`
	ToolResult       *refund.Result             `json:"tool_result"`
	MissingParams    []string                   `json:"missing_params"`
	FinalAnswer      string                     `json:"final_answer"`
	Citations        []string                   `json:"citations"`
	Path             []string                   `json:"path"`
	ExtractionSource string                     `json:"extraction_source,omitempty"`
	RewrittenQuery   string                     `json:"rewritten_query,omitempty"`
}

// --- Search ---

type SearchRequest struct {
	Query string `json:"query" validate:"required,max=2000"`
	TopK  int    `json:"top_k" validate:"omitempty,min=1,max=10"`
}

type SearchResponse struct {
	Query          string         `json:"query"`
	RewrittenQuery string         `json:"rewritten_query,omitempty"`
	Results        []PolicyHitDTO `json:"results"`
}

type PolicyHitDTO struct {
	Id      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Score   int    `json:"score"`
}

// --- Refund ---

type RefundRequest struct {
	PurchasePrice     *float64 `json:"purchase_price" validate:"required,gte=0"`
	DaysSinceDelivery *int     `json:"days_since_delivery" validate:"required,gte=0"`
	Opened            *bool    `json:"opened" validate:"required"`
	Category          string   `json:"category" validate:"required,max=64"`
}

func (r RefundRequest) Params() refund.Params {
	return refund.Params{
		PurchasePrice:     *r.PurchasePrice,
		DaysSinceDelivery: *r.DaysSinceDelivery,
		Opened:            *r.Opened,
		Category:          r.Category,
	}
}

// --- Policies ---

type PolicyResponse struct {
	Id      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// --- Audit ---

type AuditQuery struct {
	Limit  int `query:"limit" validate:"omitempty,min=1,max=200"`
	Offset int `query:"offset" validate:"omitempty,min=0"`
}
