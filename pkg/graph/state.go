package graph

import (
	"fmt"

	"returns-assistant-be/pkg/extraction"
	"returns-assistant-be/pkg/refund"
	"returns-assistant-be/pkg/retrieval"
)

// Intent is the closed taxonomy produced by ClassifyIntent.
type Intent string

const (
	IntentRAGOnly  Intent = "rag_only"
	IntentToolOnly Intent = "tool_only"
	IntentBoth     Intent = "both"
)

func (i Intent) Valid() bool {
	switch i {
	case IntentRAGOnly, IntentToolOnly, IntentBoth:
		return true
	}
	return false
}

func (i Intent) wantsPolicy() bool {
	return i == IntentRAGOnly || i == IntentBoth
}

func (i Intent) wantsRefund() bool {
	return i == IntentToolOnly || i == IntentBoth
}

// Node identifies a processing step of the graph.
type Node int

const (
	NodeClassifyIntent Node = iota
	NodePerformRAGSearch
	NodeExtractParameters
	NodeComputeRefund
	NodeGenerateResponse
	NodeEnd
)

var nodeNames = [...]string{
	NodeClassifyIntent:    "classify_intent",
	NodePerformRAGSearch:  "perform_rag_search",
	NodeExtractParameters: "extract_parameters",
	NodeComputeRefund:     "compute_refund",
	NodeGenerateResponse:  "generate_response",
	NodeEnd:               "end",
}

func (n Node) String() string {
	if n < 0 || int(n) >= len(nodeNames) {
		return fmt.Sprintf("node(%d)", int(n))
	}
	return nodeNames[n]
}

func (n Node) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

// State is the per-request working record. Nodes receive it by value and
// return the updated copy; nothing else holds a reference to it.
type State struct {
	RequestID       string                     `json:"request_id"`
	UserQuery       string                     `json:"user_query"`
	Intent          Intent                     `json:"intent"`
	ExtractedParams extraction.ExtractedParams `json:"extracted_params"`
	RAGResults      []retrieval.Result         `json:"rag_results"`
	ToolResult      *refund.Result             `json:"tool_result,omitempty"`
	MissingParams   []string                   `json:"missing_params"`
	FinalAnswer     string                     `json:"final_answer"`
	Citations       []string                   `json:"citations"`

	UsedComponents   []string          `json:"used_components"`
	ExtractionSource extraction.Source `json:"extraction_source,omitempty"`
	RewrittenQuery   string            `json:"rewritten_query,omitempty"`
	Path             []Node            `json:"path"`
}

func newState(requestID, query string) State {
	return State{
		RequestID:      requestID,
		UserQuery:      query,
		RAGResults:     []retrieval.Result{},
		MissingParams:  []string{},
		Citations:      []string{},
		UsedComponents: []string{},
		Path:           []Node{},
	}
}

// visit returns s with n appended to its path without sharing the backing array.
func (s State) visit(n Node) State {
	s.Path = append(s.Path[:len(s.Path):len(s.Path)], n)
	return s
}
