// Package llmtest provides a scripted LLMProvider for tests.
package llmtest

import (
	"context"
	"strings"
	"sync"

	"returns-assistant-be/pkg/llm"
)

// Rule answers every prompt containing Match.
type Rule struct {
	Match    string
	Response string
	Err      error
}

// Call records one generation request.
type Call struct {
	Prompt     string
	MaxTokens  int
	JSONFormat bool
}

// Stub returns the first matching rule's response, else Default/DefaultErr.
type Stub struct {
	Rules      []Rule
	Default    string
	DefaultErr error

	mu    sync.Mutex
	calls []Call
}

var _ llm.LLMProvider = &Stub{}

func (s *Stub) Generate(_ context.Context, prompt string, opts ...llm.Option) (string, error) {
	o := llm.ApplyOptions(opts...)

	s.mu.Lock()
	s.calls = append(s.calls, Call{Prompt: prompt, MaxTokens: o.MaxTokens, JSONFormat: o.JSONFormat})
	s.mu.Unlock()

	for _, r := range s.Rules {
		if strings.Contains(prompt, r.Match) {
			return r.Response, r.Err
		}
	}
	return s.Default, s.DefaultErr
}

func (s *Stub) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	var last string
	if len(history) > 0 {
		last = history[len(history)-1].Content
	}
	return s.Generate(ctx, last, opts...)
}

// Calls returns a copy of the recorded requests.
func (s *Stub) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallsMatching counts recorded prompts containing substr.
func (s *Stub) CallsMatching(substr string) int {
	n := 0
	for _, c := range s.Calls() {
		if strings.Contains(c.Prompt, substr) {
			n++
		}
	}
	return n
}
