package orchestrator

import (
	"context"
	"errors"
	"testing"

	"esgchat/internal/chat"
	"esgchat/internal/tools"
)

type scriptedReply struct {
	text      string
	toolCalls []chat.ToolCall
	err       error
}

// fakeAdapter pops scripted replies; once exhausted it keeps answering with
// plain filler so budget tests can run past the script.
type fakeAdapter struct {
	replies     []scriptedReply
	calls       int
	lastHistory []chat.Message
}

func (f *fakeAdapter) Reply(_ context.Context, history []chat.Message, _ *chat.Params) (string, []chat.ToolCall, error) {
	f.lastHistory = history
	i := f.calls
	f.calls++
	if i >= len(f.replies) {
		return "filler reply", nil, nil
	}
	r := f.replies[i]
	return r.text, r.toolCalls, r.err
}

type fakeTool struct {
	name    string
	output  string
	err     error
	gotArgs map[string]any
}

func (t *fakeTool) Name() string               { return t.name }
func (t *fakeTool) Description() string        { return "test tool" }
func (t *fakeTool) Parameters() map[string]any { return map[string]any{"type": "object"} }
func (t *fakeTool) Execute(_ context.Context, args map[string]any) (string, error) {
	t.gotArgs = args
	return t.output, t.err
}

func countTurns(transcript []chat.Message) int {
	// Production steps: everything except the initiating prompt and the
	// tool-result messages appended within a turn.
	n := 0
	for i, m := range transcript {
		if i == 0 || m.Role == chat.RoleTool {
			continue
		}
		n++
	}
	return n
}

func TestDriverRespectsTurnBudget(t *testing.T) {
	a := &Party{Name: "Student", Persona: "s", Adapter: &fakeAdapter{}}
	b := &Party{Name: "Teacher", Persona: "t", Adapter: &fakeAdapter{}}

	d := &Driver{MaxTurns: 5}
	conv, err := d.Run(context.Background(), "go", a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := countTurns(conv); got != 5 {
		t.Fatalf("expected exactly 5 turns without termination, got %d", got)
	}
}

func TestDriverStopsOnSentinel(t *testing.T) {
	responder := &Party{
		Name:    "Teacher",
		Persona: "t",
		Adapter: &fakeAdapter{replies: []scriptedReply{
			{text: "reviewing"},
			{text: "approved " + chat.TerminationSentinel},
		}},
	}
	initiator := &Party{
		Name:    "Student",
		Persona: "s",
		Adapter: &fakeAdapter{replies: []scriptedReply{{text: "my findings"}}},
	}

	d := &Driver{MaxTurns: 6}
	conv, err := d.Run(context.Background(), "analyze", initiator, responder)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := countTurns(conv); got != 3 {
		t.Fatalf("expected stop right after sentinel turn, got %d turns", got)
	}
	last := conv[len(conv)-1]
	if !chat.HasSentinel(last.Content.Text()) {
		t.Fatalf("expected sentinel in final message, got %+v", last)
	}
}

func TestDriverExecutesToolWithinTurn(t *testing.T) {
	reg := tools.NewRegistry()
	tool := &fakeTool{name: "show_report_page", output: "[Page 2]: content\n\n" + chat.TerminationSentinel}
	reg.Register(tool)

	assistant := &Party{
		Name:    "Assistant",
		Persona: "a",
		Adapter: &fakeAdapter{replies: []scriptedReply{
			{toolCalls: []chat.ToolCall{{ID: "c1", Name: "show_report_page", Arguments: `{"page":2}`}}},
		}},
		Tools: reg,
	}
	proxy := &Party{Name: "user_proxy", Passive: true}

	d := &Driver{MaxTurns: 2}
	conv, err := d.Run(context.Background(), "show page 2", proxy, assistant)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Prompt, tool invocation, fulfilling tool result; terminated by the
	// result's sentinel.
	if len(conv) != 3 {
		t.Fatalf("unexpected transcript length %d: %+v", len(conv), conv)
	}
	result := conv[2]
	if result.Role != chat.RoleTool || result.ToolCallID != "c1" || result.Content.Kind != chat.ContentToolResult {
		t.Fatalf("unexpected tool result message: %+v", result)
	}
	if got := tool.gotArgs["page"]; got != float64(2) {
		t.Fatalf("tool args not decoded: %#v", tool.gotArgs)
	}
}

func TestDriverToolFailureAborts(t *testing.T) {
	reg := tools.NewRegistry()
	reg.Register(&fakeTool{name: "esg_analysis", err: errors.New("backend down")})

	assistant := &Party{
		Name:    "Assistant",
		Persona: "a",
		Adapter: &fakeAdapter{replies: []scriptedReply{
			{toolCalls: []chat.ToolCall{{ID: "c1", Name: "esg_analysis", Arguments: "{}"}}},
		}},
		Tools: reg,
	}
	proxy := &Party{Name: "user_proxy", Passive: true}

	d := &Driver{MaxTurns: 2}
	_, err := d.Run(context.Background(), "analyze", proxy, assistant)
	if err == nil {
		t.Fatal("expected tool failure to abort the exchange")
	}
}

func TestDriverBackendFailureAborts(t *testing.T) {
	assistant := &Party{
		Name:    "Assistant",
		Persona: "a",
		Adapter: &fakeAdapter{replies: []scriptedReply{{err: errors.New("remote call failed")}}},
	}
	proxy := &Party{Name: "user_proxy", Passive: true}

	d := &Driver{MaxTurns: 2}
	conv, err := d.Run(context.Background(), "hello", proxy, assistant)
	if err == nil {
		t.Fatal("expected backend failure to surface")
	}
	if len(conv) != 1 {
		t.Fatalf("expected only the prompt in the partial transcript, got %d", len(conv))
	}
}

func TestDriverPassiveProxyNeverGenerates(t *testing.T) {
	adapter := &fakeAdapter{}
	assistant := &Party{Name: "Assistant", Persona: "a", Adapter: adapter}
	proxy := &Party{Name: "user_proxy", Passive: true}

	d := &Driver{MaxTurns: 3}
	conv, err := d.Run(context.Background(), "hi", proxy, assistant)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Turns: assistant, proxy (empty), assistant. The proxy's turn is an
	// empty message, not a backend call.
	if adapter.calls != 2 {
		t.Fatalf("expected 2 backend calls, got %d", adapter.calls)
	}
	proxyTurn := conv[2]
	if proxyTurn.Sender != "user_proxy" || proxyTurn.Content.Text() != "" {
		t.Fatalf("expected empty proxy turn, got %+v", proxyTurn)
	}
}

func TestViewForPerspective(t *testing.T) {
	adapter := &fakeAdapter{}
	teacher := &Party{Name: "Teacher", Persona: "teacher persona", Adapter: adapter}
	student := &Party{
		Name:    "Student",
		Persona: "student persona",
		Adapter: &fakeAdapter{replies: []scriptedReply{{text: "findings"}}},
	}

	d := &Driver{MaxTurns: 3}
	if _, err := d.Run(context.Background(), "prompt", student, teacher); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Teacher's last view: its persona as system, the student's messages as
	// user, its own as assistant.
	view := adapter.lastHistory
	if view[0].Role != chat.RoleSystem || view[0].Content.Text() != "teacher persona" {
		t.Fatalf("persona should lead the view: %+v", view[0])
	}
	for _, m := range view[1:] {
		switch m.Sender {
		case "Teacher":
			if m.Role != chat.RoleAssistant {
				t.Fatalf("own message not assistant: %+v", m)
			}
		default:
			if m.Role != chat.RoleUser {
				t.Fatalf("counterpart message not user: %+v", m)
			}
		}
	}
}

func TestParseToolArgsJSON(t *testing.T) {
	args := parseToolArgs(`{"page":2,"name":"tsmc"}`)
	if args["page"] != float64(2) {
		t.Fatalf("expected page 2, got %#v", args["page"])
	}
	if args["name"] != "tsmc" {
		t.Fatalf("expected name tsmc, got %#v", args["name"])
	}
}

func TestParseToolArgsInvalidJSONFallsBackToRaw(t *testing.T) {
	raw := `{"page":`
	args := parseToolArgs(raw)
	if args["raw"] != raw {
		t.Fatalf("expected raw fallback, got %#v", args)
	}
}
