package factory

import (
	"fmt"

	"returns-assistant-be/pkg/llm"
	"returns-assistant-be/pkg/llm/groq"
	"returns-assistant-be/pkg/llm/ollama"
)

func NewLLMProvider(providerType, modelName, baseURL, apiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "ollama":
		return ollama.NewProvider(baseURL, modelName), nil
	case "groq", "openai":
		if apiKey == "" {
			return nil, fmt.Errorf("%s provider requires an API key", providerType)
		}
		return groq.NewProvider(apiKey, baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
