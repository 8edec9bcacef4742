package orchestrator

import (
	"strings"
	"testing"

	"esgchat/internal/chat"
	"esgchat/internal/document"
)

func TestPersonaSingleAgentSections(t *testing.T) {
	p := BuildPersona(AgentRoleNone, Context{
		DocumentLoaded:   true,
		DocumentLanguage: document.LangEnglish,
		OutputLanguage:   "English",
	})

	for _, want := range []string{
		"ESG analysis assistant",
		"gently remind the user",
		"show_report_content",
		"show_report_page",
		"esg_analysis",
		"company_lookup",
		chat.TerminationSentinel,
		"Please output in English.",
	} {
		if !strings.Contains(p, want) {
			t.Fatalf("persona missing %q:\n%s", want, p)
		}
	}

	// Output-language directive is the closing section.
	if !strings.HasSuffix(strings.TrimSpace(p), "Please output in English.") {
		t.Fatalf("language directive should close the persona:\n%s", p)
	}
}

func TestPersonaNoDocumentAsksForUpload(t *testing.T) {
	p := BuildPersona(AgentRoleNone, Context{OutputLanguage: "English"})
	if !strings.Contains(p, "remind them to upload one") {
		t.Fatalf("expected upload reminder:\n%s", p)
	}
	if strings.Contains(p, "show_report_page") {
		t.Fatalf("tool guide should be absent without a document:\n%s", p)
	}
	// The termination contract survives regardless of tool availability.
	if !strings.Contains(p, chat.TerminationSentinel) {
		t.Fatalf("termination contract missing:\n%s", p)
	}
}

func TestPersonaRoleFramings(t *testing.T) {
	cc := Context{DocumentLoaded: true, OutputLanguage: "繁體中文"}

	student := BuildPersona(AgentRoleStudent, cc)
	if !strings.Contains(student, "Send your findings to the teacher") {
		t.Fatalf("student framing missing:\n%s", student)
	}
	if strings.Contains(student, "ESG analysis assistant") {
		t.Fatalf("assistant framing should be replaced by the role framing:\n%s", student)
	}
	if !strings.Contains(student, "Please output in 繁體中文.") {
		t.Fatalf("output language directive missing:\n%s", student)
	}

	reader := BuildPersona(AgentRoleReader, cc)
	if !strings.Contains(reader, "Do not analyze ESG content") {
		t.Fatalf("reader framing missing:\n%s", reader)
	}

	teacher := BuildPersona(AgentRoleTeacher, cc)
	if !strings.Contains(teacher, "Review the student's work") {
		t.Fatalf("teacher framing missing:\n%s", teacher)
	}
}

func TestPersonaDefaultsOutputLanguage(t *testing.T) {
	p := BuildPersona(AgentRoleNone, Context{})
	if !strings.Contains(p, "Please output in English.") {
		t.Fatalf("expected English default:\n%s", p)
	}
}
