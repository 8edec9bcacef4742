package llm

import (
	"context"
	"fmt"
	"os"

	"esgchat/internal/chat"

	"github.com/tmc/langchaingo/llms/anthropic"
)

type AnthropicAdapter struct {
	client *anthropic.LLM
	model  string
}

func NewAnthropicAdapter(model string) (chat.Adapter, error) {
	opts := []anthropic.Option{
		anthropic.WithModel(model),
	}
	apiKey := os.Getenv("ESGCHAT_ANTHROPIC_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey != "" {
		opts = append(opts, anthropic.WithToken(apiKey))
	}

	client, err := anthropic.New(opts...)
	if err != nil {
		return nil, err
	}
	return &AnthropicAdapter{client: client, model: model}, nil
}

func (a *AnthropicAdapter) Reply(ctx context.Context, history []chat.Message, params *chat.Params) (string, []chat.ToolCall, error) {
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
