package tools

import (
	"context"
	"strings"
	"testing"

	"esgchat/internal/chat"
	"esgchat/internal/document"
	"esgchat/internal/registry"
)

func loadedDocs(t *testing.T) *document.Store {
	t.Helper()
	s := document.NewStore()
	s.Load([]document.Page{
		{Number: 1, Text: "emissions overview"},
		{Number: 2, Text: "board governance"},
	})
	return s
}

func TestWithSentinelAppendsOnce(t *testing.T) {
	out := WithSentinel("result")
	if !strings.HasSuffix(out, chat.TerminationSentinel) {
		t.Fatalf("sentinel missing: %q", out)
	}
	if again := WithSentinel(out); strings.Count(again, chat.TerminationSentinel) != 1 {
		t.Fatalf("sentinel duplicated: %q", again)
	}
}

func TestShowContentTool(t *testing.T) {
	tool := &ShowContentTool{Docs: loadedDocs(t)}
	out, err := tool.Execute(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "[Page 1]: emissions overview") || !strings.Contains(out, "[Page 2]: board governance") {
		t.Fatalf("missing pages: %q", out)
	}
	if !chat.HasSentinel(out) {
		t.Fatalf("tool response must carry the sentinel: %q", out)
	}
}

func TestShowContentToolNoDocument(t *testing.T) {
	tool := &ShowContentTool{Docs: document.NewStore()}
	if _, err := tool.Execute(context.Background(), nil); err == nil {
		t.Fatal("expected error without a loaded report")
	}
}

func TestShowPageTool(t *testing.T) {
	tool := &ShowPageTool{Docs: loadedDocs(t)}

	out, err := tool.Execute(context.Background(), map[string]any{"page": float64(2)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "[Page 2]: board governance") {
		t.Fatalf("wrong page: %q", out)
	}

	out, err = tool.Execute(context.Background(), map[string]any{"page": "3"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Page 3 not found.") {
		t.Fatalf("expected not-found notice: %q", out)
	}

	if _, err := tool.Execute(context.Background(), map[string]any{}); err == nil {
		t.Fatal("expected error for missing page argument")
	}
}

func TestCompanyLookupTool(t *testing.T) {
	companies := registry.NewStore()
	companies.Add(registry.Company{Name: "台積電", NameEnglish: "TSMC", Industry: "半導體", ReportYears: []int{2023}})
	tool := &CompanyLookupTool{Companies: companies}

	out, err := tool.Execute(context.Background(), map[string]any{"name": "tsmc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "半導體") || !chat.HasSentinel(out) {
		t.Fatalf("unexpected output: %q", out)
	}

	out, err = tool.Execute(context.Background(), map[string]any{"name": "nonexistent"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "No listed company") {
		t.Fatalf("expected no-match notice: %q", out)
	}
}

func TestRegistrySchemas(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&ShowContentTool{Docs: document.NewStore()})
	reg.Register(&ShowPageTool{Docs: document.NewStore()})

	schemas := reg.Schemas()
	if len(schemas) != 2 {
		t.Fatalf("expected 2 schemas, got %d", len(schemas))
	}
	if schemas[0].Function.Name != "show_report_content" {
		t.Fatalf("registration order lost: %+v", schemas[0])
	}
	if schemas[1].Function.Parameters == nil {
		t.Fatal("parameters schema missing")
	}
}
