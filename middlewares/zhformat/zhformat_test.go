package zhformat

import (
	"context"
	"strings"
	"testing"

	mw "esgchat/internal/middleware"
)

func TestShouldLoadOnlyForChineseReports(t *testing.T) {
	zh := &mw.Event{Context: map[string]any{"doc_language": "chinese"}}
	if !(ZhFormat{}).ShouldLoad(context.Background(), zh) {
		t.Fatal("expected load for chinese reports")
	}
	en := &mw.Event{Context: map[string]any{"doc_language": "english"}}
	if (ZhFormat{}).ShouldLoad(context.Background(), en) {
		t.Fatal("expected skip for english reports")
	}
}

func TestInsertsSentenceBreaks(t *testing.T) {
	e := &mw.Event{
		Name:    mw.EventAfterLLMResponse,
		LLMText: "核心策略明確。關鍵行動具體。",
		Context: map[string]any{"doc_language": "chinese"},
	}
	dec, err := ZhFormat{}.OnEvent(context.Background(), e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dec.ReplaceText == nil || !strings.Contains(*dec.ReplaceText, "。\n") {
		t.Fatalf("expected sentence breaks, got %+v", dec)
	}
}
