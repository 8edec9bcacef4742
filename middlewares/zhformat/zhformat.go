// Package zhformat normalizes markdown spacing in Chinese responses before
// they reach the UI.
package zhformat

import (
	"context"

	"esgchat/internal/analysis"
	mw "esgchat/internal/middleware"
)

func init() {
	mw.Register(ZhFormat{})
}

type ZhFormat struct{}

func (ZhFormat) ID() string    { return "zhformat" }
func (ZhFormat) Priority() int { return 50 }

func (ZhFormat) ShouldLoad(_ context.Context, e *mw.Event) bool {
	if e == nil || e.Context == nil {
		return false
	}
	lang, _ := e.Context["doc_language"].(string)
	return lang == "chinese"
}

func (ZhFormat) OnEvent(_ context.Context, e *mw.Event) (mw.Decision, error) {
	if e == nil || e.Name != mw.EventAfterLLMResponse || e.LLMText == "" {
		return mw.Decision{}, nil
	}
	cleaned := analysis.CleanChineseMarkdown(e.LLMText)
	if cleaned == e.LLMText {
		return mw.Decision{}, nil
	}
	return mw.Decision{ReplaceText: &cleaned, Reason: "chinese markdown spacing"}, nil
}
