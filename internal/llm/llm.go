package llm

import (
	"fmt"

	"esgchat/internal/chat"
)

type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderOllama    Provider = "ollama"
)

func NewAdapter(provider Provider, model, baseURL string) (chat.Adapter, error) {
	switch provider {
	case ProviderGemini:
		return NewGeminiAdapter(model, baseURL)
	case ProviderOpenAI:
		return NewOpenAIAdapter(model, baseURL)
	case ProviderAnthropic:
		return NewAnthropicAdapter(model)
	case ProviderOllama:
		return NewOllamaAdapter(model, baseURL)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}
