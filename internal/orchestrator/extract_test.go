package orchestrator

import (
	"strings"
	"testing"

	"esgchat/internal/chat"
)

func userMsg(text string) chat.Message {
	return chat.Message{Role: chat.RoleUser, Sender: "user_proxy", Content: chat.TextContent(text)}
}

func assistantMsg(sender, text string) chat.Message {
	m := chat.Message{Role: chat.RoleAssistant, Sender: sender}
	if text != "" {
		m.Content = chat.TextContent(text)
	}
	return m
}

func toolCallMsg(sender, tool string) chat.Message {
	return chat.Message{
		Role:      chat.RoleAssistant,
		Sender:    sender,
		ToolCalls: []chat.ToolCall{{ID: "call-1", Name: tool, Arguments: "{}"}},
	}
}

func toolResultMsg(sender, output string) chat.Message {
	return chat.Message{
		Role:       chat.RoleTool,
		Sender:     sender,
		Content:    chat.ToolResultContent(output),
		ToolCallID: "call-1",
	}
}

func TestExtractToolPairingJoinsBothTrailingMessages(t *testing.T) {
	conv := []chat.Message{
		userMsg("analyze the report"),
		toolCallMsg("Assistant", "esg_analysis"),
		toolResultMsg("Assistant", "analysis body "+chat.TerminationSentinel),
		assistantMsg("Assistant", "summary follow-up"),
	}

	got := ExtractFinalResponse(conv)
	if !strings.Contains(got, "analysis body") || !strings.Contains(got, "summary follow-up") {
		t.Fatalf("expected both paired messages, got %q", got)
	}
	if !strings.Contains(got, "\n\n") {
		t.Fatalf("expected blank-line join, got %q", got)
	}
}

func TestExtractToolPairingBeatsEarlierSentinelText(t *testing.T) {
	conv := []chat.Message{
		userMsg("analyze"),
		assistantMsg("Assistant", "early answer "+chat.TerminationSentinel),
		toolCallMsg("Assistant", "esg_analysis"),
		toolResultMsg("Assistant", "tool answer one"),
		assistantMsg("Assistant", "tool answer two"),
	}

	got := ExtractFinalResponse(conv)
	if !strings.Contains(got, "tool answer one") {
		t.Fatalf("expected tool-paired text to win, got %q", got)
	}
	if strings.Contains(got, "early answer") {
		t.Fatalf("sentinel-tagged text should lose to tool pairing: %q", got)
	}
}

func TestExtractSentinelTaggedOldestFirst(t *testing.T) {
	conv := []chat.Message{
		userMsg("hello"),
		assistantMsg("Assistant", "first done "+chat.TerminationSentinel),
		assistantMsg("Assistant", "second done "+chat.TerminationSentinel),
	}

	got := ExtractFinalResponse(conv)
	if got != "first done" {
		t.Fatalf("expected oldest sentinel-tagged message, got %q", got)
	}
}

func TestExtractNeverReturnsSentinel(t *testing.T) {
	convs := [][]chat.Message{
		{userMsg("q"), assistantMsg("Assistant", chat.TerminationSentinel+" answer")},
		{userMsg("q"), toolCallMsg("Assistant", "show_report_content"), toolResultMsg("Assistant", "pages "+chat.TerminationSentinel)},
	}
	for i, conv := range convs {
		if got := ExtractFinalResponse(conv); chat.HasSentinel(got) {
			t.Fatalf("conv %d: sentinel leaked into %q", i, got)
		}
	}
}

func TestExtractBackwardFallbackSkipsEmptyProxyMessage(t *testing.T) {
	conv := []chat.Message{
		userMsg("question"),
		assistantMsg("Assistant", "the real reply"),
		{Role: chat.RoleUser, Sender: "user_proxy"}, // empty proxy turn
	}

	if got := ExtractFinalResponse(conv); got != "the real reply" {
		t.Fatalf("expected scan to skip empty proxy message, got %q", got)
	}
}

func TestExtractEmptyConversationYieldsDiagnostic(t *testing.T) {
	if got := ExtractFinalResponse([]chat.Message{userMsg("only prompt")}); got != NoValidResponse {
		t.Fatalf("expected diagnostic, got %q", got)
	}
	if got := ExtractFinalResponse(nil); got != NoValidResponse {
		t.Fatalf("expected diagnostic for nil conversation, got %q", got)
	}
}

func TestExtractFirstMessageExcluded(t *testing.T) {
	// The initiating prompt itself carries the sentinel; it must never be
	// treated as an answer.
	conv := []chat.Message{
		userMsg("prompt " + chat.TerminationSentinel),
	}
	if got := ExtractFinalResponse(conv); got != NoValidResponse {
		t.Fatalf("initiating prompt leaked as answer: %q", got)
	}
}
