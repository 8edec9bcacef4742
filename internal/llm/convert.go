package llm

import (
	"esgchat/internal/chat"

	"github.com/tmc/langchaingo/llms"
)

// convertHistory maps the adapter-neutral transcript onto langchaingo
// message contents. Assistant messages carry their tool calls as parts;
// tool results are linked back through the call ID.
func convertHistory(history []chat.Message) []llms.MessageContent {
	messages := make([]llms.MessageContent, 0, len(history))
	for _, m := range history {
		switch m.Role {
		case chat.RoleUser:
			text := m.Content.Text()
			// Providers reject fully empty user messages (the proxy sends them).
			if text == "" {
				text = " "
			}
			messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, text))
		case chat.RoleSystem:
			messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, m.Content.Text()))
		case chat.RoleAssistant:
			var parts []llms.ContentPart
			if text := m.Content.Text(); text != "" {
				parts = append(parts, llms.TextPart(text))
			}
			for _, tc := range m.ToolCalls {
				parts = append(parts, llms.ToolCall{
					ID:   tc.ID,
					Type: "function",
					FunctionCall: &llms.FunctionCall{
						Name:      tc.Name,
						Arguments: tc.Arguments,
					},
				})
			}
			// Providers reject assistant messages with no parts at all.
			if len(parts) == 0 {
				parts = append(parts, llms.TextPart(" "))
			}
			messages = append(messages, llms.MessageContent{
				Role:  llms.ChatMessageTypeAI,
				Parts: parts,
			})
		case chat.RoleTool:
			messages = append(messages, llms.MessageContent{
				Role: llms.ChatMessageTypeTool,
				Parts: []llms.ContentPart{
					llms.ToolCallResponse{
						ToolCallID: m.ToolCallID,
						Name:       m.ToolName,
						Content:    m.Content.Text(),
					},
				},
			})
		}
	}
	return messages
}

func callOptions(model string, params *chat.Params) []llms.CallOption {
	opts := make([]llms.CallOption, 0, 8)
	opts = append(opts, llms.WithModel(model))
	if params == nil {
		return opts
	}
	if params.Model != "" {
		opts = append(opts, llms.WithModel(params.Model))
	}
	if params.Temperature != 0 {
		opts = append(opts, llms.WithTemperature(params.Temperature))
	}
	if params.TopP != 0 {
		opts = append(opts, llms.WithTopP(params.TopP))
	}
	if params.MaxTokens != 0 {
		opts = append(opts, llms.WithMaxTokens(params.MaxTokens))
	}
	if len(params.Tools) > 0 {
		opts = append(opts, llms.WithTools(params.Tools))
	}
	return opts
}

func extractToolCalls(choice *llms.ContentChoice) []chat.ToolCall {
	var toolCalls []chat.ToolCall
	for _, tc := range choice.ToolCalls {
		if tc.FunctionCall == nil {
			continue
		}
		toolCalls = append(toolCalls, chat.ToolCall{
			ID:        tc.ID,
			Name:      tc.FunctionCall.Name,
			Arguments: tc.FunctionCall.Arguments,
		})
	}
	return toolCalls
}
