package middleware

import (
	"context"
)

type EventName string

const (
	EventBeforeLLMRequest EventName = "before_llm_request"
	EventAfterLLMResponse EventName = "after_llm_response"
	EventBeforeUserReply  EventName = "before_user_reply"
)

type Decision struct {
	Cancel      bool   // stop the pipeline for this event
	Reason      string // for logs
	ReplaceText *string
}

type Event struct {
	Name     EventName
	UserText string         // for before_llm_request
	LLMText  string         // for after_llm_response
	Context  map[string]any // mode, tool registry, document language, etc.
}

type Middleware interface {
	ID() string
	Priority() int
	OnEvent(ctx context.Context, e *Event) (Decision, error)
}

// ConditionalMiddleware is an optional extension that allows a middleware to
// be dynamically enabled/disabled per request/event.
//
// If a middleware implements this interface and returns false, it will be
// skipped during dispatch (but still recorded in results with a "skipped"
// reason).
type ConditionalMiddleware interface {
	ShouldLoad(ctx context.Context, e *Event) bool
}
