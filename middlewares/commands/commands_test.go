package commands

import (
	"context"
	"strings"
	"testing"

	"esgchat/internal/chat"
	"esgchat/internal/document"
	mw "esgchat/internal/middleware"
	"esgchat/internal/tools"
)

func eventFor(prompt string, reg *tools.Registry) *mw.Event {
	return &mw.Event{
		Name:     mw.EventBeforeLLMRequest,
		UserText: prompt,
		Context:  map[string]any{"tools": reg},
	}
}

func twoPageRegistry(t *testing.T) *tools.Registry {
	t.Helper()
	docs := document.NewStore()
	docs.Load([]document.Page{
		{Number: 1, Text: "first page text"},
		{Number: 2, Text: "second page text"},
	})
	reg := tools.NewRegistry()
	reg.Register(&tools.ShowContentTool{Docs: docs})
	reg.Register(&tools.ShowPageTool{Docs: docs})
	return reg
}

func TestShowContentShortcut(t *testing.T) {
	dec, err := Commands{}.OnEvent(context.Background(), eventFor("Show Content", twoPageRegistry(t)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !dec.Cancel || dec.ReplaceText == nil {
		t.Fatalf("expected direct answer, got %+v", dec)
	}
	out := *dec.ReplaceText
	if !strings.Contains(out, "first page text") || !strings.Contains(out, "second page text") {
		t.Fatalf("expected both pages, got %q", out)
	}
}

func TestShowPageShortcutParsesNumber(t *testing.T) {
	dec, err := Commands{}.OnEvent(context.Background(), eventFor("show report page 2", twoPageRegistry(t)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dec.ReplaceText == nil || !strings.Contains(*dec.ReplaceText, "[Page 2]: second page text") {
		t.Fatalf("expected page 2, got %+v", dec)
	}
}

func TestUnknownPromptPassesThrough(t *testing.T) {
	dec, err := Commands{}.OnEvent(context.Background(), eventFor("what does the report say about emissions?", twoPageRegistry(t)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dec.Cancel || dec.ReplaceText != nil {
		t.Fatalf("free-form prompt should reach the agents, got %+v", dec)
	}
}

func TestCommandFailureFallsThroughToAgents(t *testing.T) {
	reg := tools.NewRegistry()
	reg.Register(&tools.ShowContentTool{Docs: document.NewStore()}) // nothing loaded

	dec, err := Commands{}.OnEvent(context.Background(), eventFor("show content", reg))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dec.Cancel {
		t.Fatalf("failed command should not cancel, got %+v", dec)
	}
}

func TestShortcutAnswerCarriesSentinelForStripping(t *testing.T) {
	dec, _ := Commands{}.OnEvent(context.Background(), eventFor("show content", twoPageRegistry(t)))
	if dec.ReplaceText == nil || !chat.HasSentinel(*dec.ReplaceText) {
		t.Fatalf("tool output convention lost: %+v", dec)
	}
}
