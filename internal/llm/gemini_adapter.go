package llm

import (
	"context"
	"fmt"
	"os"

	"esgchat/internal/chat"

	"github.com/tmc/langchaingo/llms/googleai"
)

type GeminiAdapter struct {
	client *googleai.GoogleAI
	model  string
}

func NewGeminiAdapter(model, baseURL string) (chat.Adapter, error) {
	effectiveModel := model
	if effectiveModel == "" {
		effectiveModel = googleai.DefaultOptions().DefaultModel
	}

	opts := []googleai.Option{
		googleai.WithDefaultModel(effectiveModel),
	}
	if baseURL != "" {
		opts = append(opts, googleai.WithRest())
	}
	key := os.Getenv("ESGCHAT_GEMINI_API_KEY")
	if key == "" {
		key = os.Getenv("GEMINI_API_KEY")
	}
	if key == "" {
		key = os.Getenv("GOOGLE_API_KEY")
	}
	if key != "" {
		opts = append(opts, googleai.WithAPIKey(key))
	}

	client, err := googleai.New(context.Background(), opts...)
	if err != nil {
		return nil, err
	}

	return &GeminiAdapter{client: client, model: effectiveModel}, nil
}

func (a *GeminiAdapter) Reply(ctx context.Context, history []chat.Message, params *chat.Params) (string, []chat.ToolCall, error) {
	resp, err := a.client.GenerateContent(ctx, convertHistory(history), callOptions(a.model, params)...)
	if err != nil {
		return "", nil, err
	}
	if len(resp.Choices) == 0 {
		return "", nil, fmt.Errorf("empty response from Gemini model")
	}

	choice := resp.Choices[0]
	return choice.Content, extractToolCalls(choice), nil
}
