package orchestrator

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"

	"esgchat/internal/chat"
	"esgchat/internal/document"
	"esgchat/internal/middleware"
	"esgchat/internal/tools"
)

// Orchestrator ties persona building, the turn driver, and response
// extraction into one callable per conversational mode. Whatever happens
// inside, Run hands the caller a displayable string: the UI layer never
// sees an error value or a panic from here.
type Orchestrator struct {
	adapter    chat.Adapter
	docs       *document.Store
	tools      *tools.Registry
	budgets    Budgets
	outputLang string
	chain      *middleware.Chain
}

type Option func(*Orchestrator)

// WithBudgets overrides the per-mode turn ceilings.
func WithBudgets(b Budgets) Option {
	return func(o *Orchestrator) { o.budgets = b }
}

// WithOutputLanguage sets the display-language directive injected into
// every persona.
func WithOutputLanguage(lang string) Option {
	return func(o *Orchestrator) { o.outputLang = lang }
}

// WithMiddlewareChain attaches the pre/post dispatch chain (command
// shortcuts, response cleanup).
func WithMiddlewareChain(c *middleware.Chain) Option {
	return func(o *Orchestrator) { o.chain = c }
}

func New(adapter chat.Adapter, docs *document.Store, reg *tools.Registry, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		adapter:    adapter,
		docs:       docs,
		tools:      reg,
		budgets:    DefaultBudgets(),
		outputLang: "English",
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// SetOutputLanguage updates the display-language directive between calls.
func (o *Orchestrator) SetOutputLanguage(lang string) {
	if strings.TrimSpace(lang) != "" {
		o.outputLang = lang
	}
}

// OutputLanguage returns the current display-language directive.
func (o *Orchestrator) OutputLanguage() string { return o.outputLang }

// Run answers one user prompt in the given mode and always returns a
// displayable string. Backend failures, tool failures, and panics anywhere
// in the pipeline come back as a formatted error report, never as an error
// value.
func (o *Orchestrator) Run(ctx context.Context, prompt string, mode Mode) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = formatFailure(fmt.Errorf("panic: %v", r))
		}
	}()

	prompt = strings.TrimSpace(prompt)

	if o.chain != nil {
		e := &middleware.Event{
			Name:     middleware.EventBeforeLLMRequest,
			UserText: prompt,
			Context:  o.eventContext(mode),
		}
		results, err := o.chain.Dispatch(ctx, e)
		if err != nil {
			return formatFailure(err)
		}
		text, canceled := applyTextDecisions(e.UserText, results)
		if canceled {
			return chat.StripSentinel(text)
		}
		prompt = text
	}

	cc := o.snapshot()
	conv, err := o.runExchange(ctx, prompt, mode, cc)
	if err != nil {
		return formatFailure(err)
	}
	answer := ExtractFinalResponse(conv)

	if o.chain != nil {
		e := &middleware.Event{
			Name:     middleware.EventAfterLLMResponse,
			UserText: prompt,
			LLMText:  answer,
			Context:  o.eventContext(mode),
		}
		results, err := o.chain.Dispatch(ctx, e)
		if err != nil {
			return formatFailure(err)
		}
		if text, _ := applyTextDecisions(e.LLMText, results); strings.TrimSpace(text) != "" {
			answer = text
		}
	}

	// Defense in depth: extraction already strips, middleware may not.
	return chat.StripSentinel(answer)
}

func (o *Orchestrator) runExchange(ctx context.Context, prompt string, mode Mode, cc Context) ([]chat.Message, error) {
	driver := &Driver{MaxTurns: o.budgets.For(mode)}

	switch mode {
	case ModeTwoAgent:
		student := &Party{
			Name:    "Student",
			Persona: BuildPersona(AgentRoleStudent, cc),
			Adapter: o.adapter,
			Tools:   o.tools,
		}
		teacher := &Party{
			Name:    "Teacher",
			Persona: BuildPersona(AgentRoleTeacher, cc),
			Adapter: o.adapter,
			Tools:   o.tools,
		}
		return driver.Run(ctx, prompt, student, teacher)

	case ModeThreeAgent:
		student := &Party{
			Name:       "Student",
			Persona:    BuildPersona(AgentRoleStudent, cc),
			Adapter:    o.adapter,
			Tools:      o.tools,
			ToolSender: "Reader",
		}
		teacher := &Party{
			Name:       "Teacher",
			Persona:    BuildPersona(AgentRoleTeacher, cc),
			Adapter:    o.adapter,
			Tools:      o.tools,
			ToolSender: "Reader",
		}
		return driver.Run(ctx, prompt, student, teacher)

	default:
		proxy := &Party{Name: "user_proxy", Passive: true}
		assistant := &Party{
			Name:    "Assistant",
			Persona: BuildPersona(AgentRoleNone, cc),
			Adapter: o.adapter,
			Tools:   o.tools,
		}
		return driver.Run(ctx, prompt, proxy, assistant)
	}
}

// snapshot builds the immutable per-call context threaded through persona
// building and tools.
func (o *Orchestrator) snapshot() Context {
	return Context{
		DocumentLoaded:   o.docs != nil && o.docs.Loaded(),
		DocumentLanguage: o.docLanguage(),
		OutputLanguage:   o.outputLang,
	}
}

func (o *Orchestrator) docLanguage() document.Language {
	if o.docs == nil {
		return document.LangUnknown
	}
	return o.docs.Language()
}

func (o *Orchestrator) eventContext(mode Mode) map[string]any {
	return map[string]any{
		"mode":         string(mode),
		"tools":        o.tools,
		"doc_language": string(o.docLanguage()),
	}
}

func applyTextDecisions(current string, results []middleware.DecisionResult) (string, bool) {
	text := strings.TrimSpace(current)
	for _, r := range results {
		if r.Decision.ReplaceText != nil {
			text = strings.TrimSpace(*r.Decision.ReplaceText)
		}
		if r.Decision.Cancel {
			return text, true
		}
	}
	return text, false
}

// formatFailure turns any pipeline failure into the user-visible error
// report: type, message, and a stack trace for the session log.
func formatFailure(err error) string {
	return fmt.Sprintf("⚠️ Agent error: %T - %v\n\n%s", err, err, debug.Stack())
}
