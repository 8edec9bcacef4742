// Package scrub removes any residual termination sentinel from responses
// right before they are handed to the UI.
package scrub

import (
	"context"

	"esgchat/internal/chat"
	mw "esgchat/internal/middleware"
)

func init() {
	mw.Register(Scrub{})
}

type Scrub struct{}

func (Scrub) ID() string    { return "scrub" }
func (Scrub) Priority() int { return 10 } // run last

func (Scrub) OnEvent(_ context.Context, e *mw.Event) (mw.Decision, error) {
	if e == nil || e.Name != mw.EventAfterLLMResponse {
		return mw.Decision{}, nil
	}
	if !chat.HasSentinel(e.LLMText) {
		return mw.Decision{}, nil
	}
	cleaned := chat.StripSentinel(e.LLMText)
	return mw.Decision{ReplaceText: &cleaned, Reason: "sentinel scrub"}, nil
}
