package chat

import (
	"context"

	"github.com/tmc/langchaingo/llms"
)

// Params tunes one completion request.
type Params struct {
	Model       string
	Temperature float64
	TopP        float64
	MaxTokens   int

	// Tool / function calling schema (LangChainGo).
	Tools []llms.Tool // llms.WithTools(...)
}

// Adapter abstracts chat completion providers: an ordered role-tagged
// history goes in, one completion comes out. Timeouts and retries are the
// provider's concern.
type Adapter interface {
	Reply(ctx context.Context, history []Message, params *Params) (text string, toolCalls []ToolCall, err error)
}

// ToolCall mirrors llms.ToolCall but keeps the adapter boundary decoupled.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}
