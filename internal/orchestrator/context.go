// Package orchestrator drives bounded multi-turn exchanges between
// LLM-backed agents, decides when an exchange is finished, and extracts the
// final answer from the transcript.
package orchestrator

import (
	"esgchat/internal/document"
)

// Mode selects which cast of agents handles a prompt.
type Mode string

const (
	// ModeSingle runs a passive proxy against one tool-equipped assistant.
	ModeSingle Mode = "single"
	// ModeTwoAgent runs a student/teacher review exchange.
	ModeTwoAgent Mode = "two_agent"
	// ModeThreeAgent adds a reader that executes the document tools.
	ModeThreeAgent Mode = "three_agent"
)

// ParseMode maps a config/UI string onto a Mode, defaulting to single.
func ParseMode(s string) Mode {
	switch Mode(s) {
	case ModeTwoAgent, ModeThreeAgent:
		return Mode(s)
	default:
		return ModeSingle
	}
}

// Budgets holds the per-mode turn ceilings. The ceilings are deliberately
// small: a party that never emits the termination sentinel runs to the
// ceiling, never forever.
type Budgets struct {
	Single     int `json:"single"`
	TwoAgent   int `json:"two_agent"`
	ThreeAgent int `json:"three_agent"`
}

func DefaultBudgets() Budgets {
	return Budgets{Single: 2, TwoAgent: 5, ThreeAgent: 6}
}

// For returns the turn ceiling for a mode, falling back to the default when
// unset or nonsensical.
func (b Budgets) For(mode Mode) int {
	var n int
	switch mode {
	case ModeTwoAgent:
		n = b.TwoAgent
	case ModeThreeAgent:
		n = b.ThreeAgent
	default:
		n = b.Single
	}
	if n <= 0 {
		switch mode {
		case ModeTwoAgent:
			return DefaultBudgets().TwoAgent
		case ModeThreeAgent:
			return DefaultBudgets().ThreeAgent
		default:
			return DefaultBudgets().Single
		}
	}
	return n
}

// Context is the immutable per-call snapshot of session state threaded
// through the persona builder and the tools. It is rebuilt for every Run so
// no component reads ambient session storage mid-exchange.
type Context struct {
	DocumentLoaded   bool
	DocumentLanguage document.Language
	OutputLanguage   string // display language directive, e.g. "English"
}
