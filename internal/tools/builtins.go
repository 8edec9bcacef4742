package tools

import (
	"context"
	"fmt"
	"strings"

	"esgchat/internal/analysis"
	"esgchat/internal/chat"
	"esgchat/internal/document"
	"esgchat/internal/registry"
)

// WithSentinel appends the termination sentinel to a successful tool
// response. Every tool reply carries it so the termination check fires on
// the turn that delivered the result.
func WithSentinel(text string) string {
	text = strings.TrimRight(text, "\n ")
	if strings.Contains(text, chat.TerminationSentinel) {
		return text
	}
	return text + "\n\n" + chat.TerminationSentinel
}

// ShowContentTool displays the full text of the loaded report.
type ShowContentTool struct {
	Docs *document.Store
}

func (t *ShowContentTool) Name() string { return "show_report_content" }
func (t *ShowContentTool) Description() string {
	return "Displays the full text of the uploaded ESG report."
}
func (t *ShowContentTool) Parameters() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}
func (t *ShowContentTool) Execute(_ context.Context, _ map[string]any) (string, error) {
	if !t.Docs.Loaded() {
		return "", fmt.Errorf("no report loaded")
	}
	return WithSentinel(t.Docs.All()), nil
}

// ShowPageTool displays one page of the loaded report.
type ShowPageTool struct {
	Docs *document.Store
}

func (t *ShowPageTool) Name() string { return "show_report_page" }
func (t *ShowPageTool) Description() string {
	return "Shows the content of a specific page of the uploaded ESG report, e.g. page 2."
}
func (t *ShowPageTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"page": map[string]any{
				"type":        "integer",
				"description": "The 1-based page number to show.",
			},
		},
		"required": []string{"page"},
	}
}
func (t *ShowPageTool) Execute(_ context.Context, args map[string]any) (string, error) {
	if !t.Docs.Loaded() {
		return "", fmt.Errorf("no report loaded")
	}
	page, ok := intArg(args, "page")
	if !ok {
		return "", fmt.Errorf("page is required")
	}
	return WithSentinel(t.Docs.Page(page)), nil
}

// AnalysisTool extracts the three-dimension ESG breakdown from the loaded
// report.
type AnalysisTool struct {
	Docs     *document.Store
	Analyzer *analysis.Analyzer
}

func (t *AnalysisTool) Name() string { return "esg_analysis" }
func (t *AnalysisTool) Description() string {
	return "Extracts ESG insights (environmental, social, governance) from the uploaded report."
}
func (t *AnalysisTool) Parameters() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}
func (t *AnalysisTool) Execute(ctx context.Context, _ map[string]any) (string, error) {
	if !t.Docs.Loaded() {
		return "", fmt.Errorf("no report loaded")
	}
	result, err := t.Analyzer.Analyze(ctx, t.Docs.All(), t.Docs.Language())
	if err != nil {
		return "", err
	}
	return WithSentinel(result), nil
}

// CompanyLookupTool answers questions about listed companies and their
// filed sustainability reports.
type CompanyLookupTool struct {
	Companies *registry.Store
}

func (t *CompanyLookupTool) Name() string { return "company_lookup" }
func (t *CompanyLookupTool) Description() string {
	return "Looks up a listed company's industry and filed sustainability report years by name."
}
func (t *CompanyLookupTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name": map[string]any{
				"type":        "string",
				"description": "Company name (Chinese or English), full or partial.",
			},
		},
		"required": []string{"name"},
	}
}
func (t *CompanyLookupTool) Execute(_ context.Context, args map[string]any) (string, error) {
	name, _ := args["name"].(string)
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("name is required")
	}
	matches := t.Companies.Lookup(name, 5)
	if len(matches) == 0 {
		return WithSentinel(fmt.Sprintf("No listed company matching %q was found.", name)), nil
	}
	lines := make([]string, 0, len(matches))
	for _, c := range matches {
		lines = append(lines, registry.Describe(c))
	}
	return WithSentinel(strings.Join(lines, "\n")), nil
}

func intArg(args map[string]any, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case string:
		var n int
		if _, err := fmt.Sscanf(strings.TrimSpace(v), "%d", &n); err == nil {
			return n, true
		}
	}
	return 0, false
}
