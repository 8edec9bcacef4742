package orchestrator

import (
	"testing"

	"esgchat/internal/chat"
)

func TestTerminatedOnSentinelText(t *testing.T) {
	if !Terminated(assistantMsg("Assistant", "done "+chat.TerminationSentinel)) {
		t.Fatal("sentinel text should terminate")
	}
	if Terminated(assistantMsg("Assistant", "still working")) {
		t.Fatal("plain text without sentinel should not terminate")
	}
}

func TestTerminatedIgnoresPendingToolCalls(t *testing.T) {
	m := toolCallMsg("Assistant", "esg_analysis")
	m.Content = chat.TextContent("calling tool " + chat.TerminationSentinel)
	if Terminated(m) {
		t.Fatal("unfulfilled tool invocation must not terminate")
	}
}

func TestTerminatedOnToolResultOutput(t *testing.T) {
	if !Terminated(toolResultMsg("Assistant", "result "+chat.TerminationSentinel)) {
		t.Fatal("tool result output should be inspected")
	}
}

func TestTerminatedEmptyContent(t *testing.T) {
	if Terminated(chat.Message{Role: chat.RoleUser, Sender: "user_proxy"}) {
		t.Fatal("empty content should not terminate")
	}
}
