package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"esgchat/internal/chat"
	"esgchat/internal/tools"
)

// Party is one side of an exchange: an adapter binding plus its standing
// persona and registered tools. A passive party (the user proxy) never
// generates content; its turns yield empty messages that keep the exchange
// alternating.
type Party struct {
	Name    string
	Persona string
	Adapter chat.Adapter
	Tools   *tools.Registry

	// ToolSender attributes tool results to a different party (the reader
	// executes document tools in three-agent mode). Defaults to Name.
	ToolSender string

	Passive bool
}

func (p *Party) toolSender() string {
	if p.ToolSender != "" {
		return p.ToolSender
	}
	return p.Name
}

// Driver executes a bounded alternating exchange and materializes the
// transcript. One turn is one party's production step; executing a
// requested tool belongs to the turn that requested it.
type Driver struct {
	MaxTurns int
}

// Run drives the exchange. The initiator contributes the opening prompt,
// then the responder takes the first turn. The exchange stops when the
// termination check fires on the newest message or the turn ceiling is
// reached, whichever comes first. Backend or tool failures abort the
// exchange; the partial transcript is returned alongside the error.
func (d *Driver) Run(ctx context.Context, prompt string, initiator, responder *Party) ([]chat.Message, error) {
	maxTurns := d.MaxTurns
	if maxTurns <= 0 {
		maxTurns = DefaultBudgets().Single
	}

	transcript := []chat.Message{{
		Role:    chat.RoleUser,
		Sender:  initiator.Name,
		Content: chat.TextContent(prompt),
	}}

	active, waiting := responder, initiator
	for turn := 0; turn < maxTurns; turn++ {
		var err error
		transcript, err = d.takeTurn(ctx, transcript, active)
		if err != nil {
			return transcript, fmt.Errorf("turn %d (%s): %w", turn+1, active.Name, err)
		}
		if Terminated(transcript[len(transcript)-1]) {
			break
		}
		active, waiting = waiting, active
	}
	return transcript, nil
}

func (d *Driver) takeTurn(ctx context.Context, transcript []chat.Message, p *Party) ([]chat.Message, error) {
	if p.Passive {
		// The proxy has nothing to say after the opening prompt.
		return append(transcript, chat.Message{
			Role:   chat.RoleUser,
			Sender: p.Name,
		}), nil
	}

	params := &chat.Params{}
	if p.Tools != nil {
		params.Tools = p.Tools.Schemas()
	}
	text, toolCalls, err := p.Adapter.Reply(ctx, viewFor(p, transcript), params)
	if err != nil {
		return transcript, err
	}

	reply := chat.Message{
		Role:      chat.RoleAssistant,
		Sender:    p.Name,
		ToolCalls: toolCalls,
	}
	if strings.TrimSpace(text) != "" {
		reply.Content = chat.TextContent(text)
	}
	transcript = append(transcript, reply)

	// A tool invocation is fulfilled within the same turn: the registry runs
	// the named tool and the wrapped result joins the transcript before
	// control returns to the driver.
	for _, tc := range toolCalls {
		result, err := d.executeTool(ctx, p, tc)
		if err != nil {
			return transcript, err
		}
		transcript = append(transcript, result)
	}
	return transcript, nil
}

func (d *Driver) executeTool(ctx context.Context, p *Party, tc chat.ToolCall) (chat.Message, error) {
	if p.Tools == nil {
		return chat.Message{}, fmt.Errorf("no tools registered for %s", p.Name)
	}
	tool, ok := p.Tools.Get(tc.Name)
	if !ok {
		return chat.Message{}, fmt.Errorf("unknown tool %q", tc.Name)
	}
	output, err := tool.Execute(ctx, parseToolArgs(tc.Arguments))
	if err != nil {
		return chat.Message{}, fmt.Errorf("tool %s: %w", tc.Name, err)
	}
	return chat.Message{
		Role:       chat.RoleTool,
		Sender:     p.toolSender(),
		Content:    chat.ToolResultContent(output),
		ToolCallID: tc.ID,
		ToolName:   tc.Name,
	}, nil
}

// viewFor renders the shared transcript from one party's perspective: its
// own messages as assistant, the counterpart's as user, with the persona as
// the standing system message. Tool results for the party's own calls keep
// the tool role so the provider can pair them; the counterpart's tool
// traffic is flattened into plain user text.
func viewFor(p *Party, transcript []chat.Message) []chat.Message {
	view := make([]chat.Message, 0, len(transcript)+1)
	view = append(view, chat.Message{
		Role:    chat.RoleSystem,
		Sender:  p.Name,
		Content: chat.TextContent(p.Persona),
	})

	lastCaller := ""
	for _, m := range transcript {
		switch {
		case m.Role == chat.RoleTool:
			if lastCaller == p.Name {
				view = append(view, m)
			} else if text := m.Content.Text(); text != "" {
				view = append(view, chat.Message{
					Role:    chat.RoleUser,
					Sender:  m.Sender,
					Content: chat.TextContent(fmt.Sprintf("[%s output]: %s", m.ToolName, text)),
				})
			}
		case m.Sender == p.Name:
			own := m
			own.Role = chat.RoleAssistant
			view = append(view, own)
			if m.HasPendingToolCalls() {
				lastCaller = p.Name
			}
		default:
			other := m
			other.Role = chat.RoleUser
			other.ToolCalls = nil
			view = append(view, other)
			if m.HasPendingToolCalls() {
				lastCaller = m.Sender
			}
		}
	}
	return view
}

// parseToolArgs decodes a JSON argument blob; malformed input falls back to
// a single raw field so the tool can decide what to do with it.
func parseToolArgs(raw string) map[string]any {
	args := make(map[string]any)
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return map[string]any{"raw": raw}
	}
	return args
}
