package factory

import (
	"testing"

	"returns-assistant-be/pkg/llm/groq"
	"returns-assistant-be/pkg/llm/ollama"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMProvider(t *testing.T) {
	p, err := NewLLMProvider("ollama", "llama3.2", "", "")
	require.NoError(t, err)
	assert.IsType(t, &ollama.Provider{}, p)

	p, err = NewLLMProvider("groq", "", "", "key")
	require.NoError(t, err)
	assert.IsType(t, &groq.Provider{}, p)

	p, err = NewLLMProvider("openai", "gpt-4o-mini", "https://api.openai.com/v1", "key")
	require.NoError(t, err)
	assert.IsType(t, &groq.Provider{}, p)
}

func TestNewLLMProviderErrors(t *testing.T) {
	_, err := NewLLMProvider("groq", "", "", "")
	assert.ErrorContains(t, err, "requires an API key")

	_, err = NewLLMProvider("none", "", "", "")
	assert.ErrorContains(t, err, "unsupported LLM provider: none")
}
