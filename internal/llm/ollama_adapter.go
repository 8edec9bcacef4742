package llm

import (
	"context"
	"fmt"

	"esgchat/internal/chat"

	"github.com/tmc/langchaingo/llms/ollama"
)

type OllamaAdapter struct {
	client *ollama.LLM
	model  string
}

func NewOllamaAdapter(model, baseURL string) (chat.Adapter, error) {
	var opts []ollama.Option
	if baseURL != "" {
		opts = append(opts, ollama.WithServerURL(baseURL))
	}
	client, err := ollama.New(opts...)
	if err != nil {
		return nil, err
	}
	return &OllamaAdapter{client: client, model: model}, nil
}

func (a *OllamaAdapter) Reply(ctx context.Context, history []chat.Message, params *chat.Params) (string, []chat.ToolCall, error) {
	resp, err := a.client.GenerateContent(ctx, convertHistory(history), callOptions(a.model, params)...)
	if err != nil {
		return "", nil, err
	}
	if len(resp.Choices) == 0 {
		return "", nil, fmt.Errorf("empty response from model")
	}

	choice := resp.Choices[0]
	return choice.Content, extractToolCalls(choice), nil
}
