// Package commands short-circuits well-known report commands straight to
// the matching tool, skipping the model round trip entirely.
package commands

import (
	"context"
	"regexp"
	"strings"

	mw "esgchat/internal/middleware"
	"esgchat/internal/tools"
)

func init() {
	mw.Register(Commands{})
}

type Commands struct{}

func (Commands) ID() string    { return "commands" }
func (Commands) Priority() int { return 110 } // run early

var pageCmd = regexp.MustCompile(`^show (?:report|pdf) page (\d+)$`)
var companyCmd = regexp.MustCompile(`^company (?:info|lookup) (.+)$`)

func (Commands) OnEvent(ctx context.Context, e *mw.Event) (mw.Decision, error) {
	if e == nil || e.Name != mw.EventBeforeLLMRequest {
		return mw.Decision{}, nil
	}
	reg, ok := registryFrom(e)
	if !ok {
		return mw.Decision{}, nil
	}

	prompt := strings.ToLower(strings.TrimSpace(e.UserText))

	var (
		toolName string
		args     map[string]any
	)
	switch {
	case prompt == "show content":
		toolName = "show_report_content"
	case prompt == "esg analysis":
		toolName = "esg_analysis"
	case pageCmd.MatchString(prompt):
		toolName = "show_report_page"
		args = map[string]any{"page": pageCmd.FindStringSubmatch(prompt)[1]}
	case companyCmd.MatchString(prompt):
		toolName = "company_lookup"
		args = map[string]any{"name": companyCmd.FindStringSubmatch(prompt)[1]}
	default:
		return mw.Decision{}, nil
	}

	tool, ok := reg.Get(toolName)
	if !ok {
		return mw.Decision{}, nil
	}
	out, err := tool.Execute(ctx, args)
	if err != nil {
		// Fall through to the agents; they will explain (e.g. no report
		// loaded yet).
		return mw.Decision{Reason: "command failed: " + err.Error()}, nil
	}
	return mw.Decision{
		Cancel:      true,
		ReplaceText: &out,
		Reason:      "direct command: " + toolName,
	}, nil
}

func registryFrom(e *mw.Event) (*tools.Registry, bool) {
	if e.Context == nil {
		return nil, false
	}
	reg, ok := e.Context["tools"].(*tools.Registry)
	return reg, ok && reg != nil
}
