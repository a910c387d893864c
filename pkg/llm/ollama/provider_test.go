package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"returns-assistant-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatServer(t *testing.T, got *chatRequest, reply chatResponse) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, chatPath, r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		if got != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(got))
		}
		_ = json.NewEncoder(w).Encode(reply)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGenerateSendsChatRequest(t *testing.T) {
	var got chatRequest
	srv := chatServer(t, &got, chatResponse{Message: chatMessage{Role: "assistant", Content: " rag_only\n"}, Done: true})

	out, err := NewProvider(srv.URL+"/", "llama3.2").Generate(context.Background(), "classify me", llm.WithMaxTokens(10))
	require.NoError(t, err)
	assert.Equal(t, "rag_only", out)

	assert.Equal(t, "llama3.2", got.Model)
	assert.False(t, got.Stream)
	assert.Empty(t, got.Format)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "classify me", got.Messages[0].Content)
	assert.Equal(t, 10, got.Options.NumPredict)
	assert.InDelta(t, llm.DefaultTemperature, got.Options.Temperature, 1e-9)
}

func TestGenerateJSONFormat(t *testing.T) {
	var got chatRequest
	srv := chatServer(t, &got, chatResponse{Message: chatMessage{Content: `{"category": "books"}`}})

	out, err := NewProvider(srv.URL, "").Generate(context.Background(), "extract", llm.WithJSONFormat())
	require.NoError(t, err)
	assert.JSONEq(t, `{"category": "books"}`, out)
	assert.Equal(t, "json", got.Format)
	assert.Equal(t, DefaultModel, got.Model)
}

func TestChatMapsModelRoleAndOverride(t *testing.T) {
	var got chatRequest
	srv := chatServer(t, &got, chatResponse{Message: chatMessage{Content: "ok"}})

	_, err := NewProvider(srv.URL, "llama3.2").Chat(context.Background(), []llm.Message{
		{Role: "system", Content: "be brief"},
		{Role: "model", Content: "earlier answer"},
	}, llm.WithModel("mistral"))
	require.NoError(t, err)

	assert.Equal(t, "mistral", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "assistant", got.Messages[1].Role)
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "error body", status: http.StatusNotFound, body: `{"error":"model 'missing' not found"}`, wantErr: "status 404: model 'missing' not found"},
		{name: "plain body", status: http.StatusServiceUnavailable, body: "overloaded", wantErr: "status 503: overloaded"},
		{name: "malformed 200", status: http.StatusOK, body: "not json", wantErr: "unmarshal response"},
		{name: "empty message", status: http.StatusOK, body: `{"message":{"role":"assistant","content":"  "},"done":true}`, wantErr: ErrEmptyResponse.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewProvider(srv.URL, "m").Generate(context.Background(), "hi")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGenerateHonoursClientTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	p := NewProvider(srv.URL, "m", WithHTTPClient(&http.Client{Timeout: 20 * time.Millisecond}))
	_, err := p.Generate(context.Background(), "hi")
	assert.ErrorContains(t, err, "ollama request failed")
}

func TestDefaults(t *testing.T) {
	p := NewProvider("", "")
	assert.Equal(t, DefaultBaseURL, p.BaseURL())
	assert.Equal(t, DefaultModel, p.model)
}
