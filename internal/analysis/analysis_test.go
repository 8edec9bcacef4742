package analysis

import (
	"context"
	"strings"
	"testing"

	"esgchat/internal/chat"
	"esgchat/internal/document"
)

type recordingAdapter struct {
	gotPrompt string
	reply     string
}

func (a *recordingAdapter) Reply(_ context.Context, history []chat.Message, _ *chat.Params) (string, []chat.ToolCall, error) {
	a.gotPrompt = history[len(history)-1].Content.Text()
	return a.reply, nil, nil
}

func TestAnalyzePicksLanguageTemplate(t *testing.T) {
	a := &recordingAdapter{reply: "breakdown"}
	an := New(a)

	if _, err := an.Analyze(context.Background(), "report text", document.LangEnglish); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(a.gotPrompt, "professional ESG report analyst") || !strings.Contains(a.gotPrompt, "report text") {
		t.Fatalf("english template not applied: %q", a.gotPrompt)
	}

	if _, err := an.Analyze(context.Background(), "報告內容", document.LangChinese); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(a.gotPrompt, "ESG 報告分析師") {
		t.Fatalf("chinese template not applied: %q", a.gotPrompt)
	}
}

func TestAnalyzeRejectsEmptyReport(t *testing.T) {
	an := New(&recordingAdapter{})
	if _, err := an.Analyze(context.Background(), "   ", document.LangEnglish); err == nil {
		t.Fatal("expected error for empty report text")
	}
}

func TestCleanChineseMarkdown(t *testing.T) {
	got := CleanChineseMarkdown("策略一。- 行動一")
	if !strings.Contains(got, "。\n") {
		t.Fatalf("missing sentence break: %q", got)
	}
	if !strings.Contains(got, "\n- 行動一") {
		t.Fatalf("missing bullet break: %q", got)
	}
}
