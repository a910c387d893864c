package events

import (
	"encoding/json"
	"time"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "RETURNS_QUERY_ANSWERED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the untyped form used when an event is read back off the bus.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

const TypeQueryAnswered = "RETURNS_QUERY_ANSWERED"

// QueryAnswered is emitted once per completed assistant run.
type QueryAnswered struct {
	RequestID        string    `json:"request_id"`
	Query            string    `json:"query"`
	Intent           string    `json:"intent"`
	Path             []string  `json:"path"`
	PolicyIDs        []string  `json:"policy_ids"`
	MissingParams    []string  `json:"missing_params"`
	RefundAmount     *float64  `json:"refund_amount,omitempty"`
	ExtractionSource string    `json:"extraction_source,omitempty"`
	QueryRewritten   bool      `json:"query_rewritten"`
	DurationMs       int64     `json:"duration_ms"`
	OccurredAt       time.Time `json:"occurred_at"`
}

func (e QueryAnswered) EventType() string {
	return TypeQueryAnswered
}

func (e QueryAnswered) Payload() map[string]interface{} {
	p := map[string]interface{}{
		"request_id":      e.RequestID,
		"query":           e.Query,
		"intent":          e.Intent,
		"path":            e.Path,
		"policy_ids":      e.PolicyIDs,
		"missing_params":  e.MissingParams,
		"query_rewritten": e.QueryRewritten,
		"duration_ms":     e.DurationMs,
		"occurred_at":     e.OccurredAt.Format(time.RFC3339Nano),
	}
	if e.RefundAmount != nil {
		p["refund_amount"] = *e.RefundAmount
	}
	if e.ExtractionSource != "" {
		p["extraction_source"] = e.ExtractionSource
	}
	return p
}

func (e QueryAnswered) Timestamp() time.Time {
	return e.OccurredAt
}

func (e QueryAnswered) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

func DecodeQueryAnswered(data []byte) (QueryAnswered, error) {
	var e QueryAnswered
	err := json.Unmarshal(data, &e)
	return e, err
}
