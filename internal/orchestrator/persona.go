package orchestrator

import (
	"fmt"
	"strings"

	"esgchat/internal/chat"
)

// AgentRole is the conversational part an agent plays within a mode.
type AgentRole string

const (
	AgentRoleNone    AgentRole = ""
	AgentRoleReader  AgentRole = "reader"
	AgentRoleStudent AgentRole = "student"
	AgentRoleTeacher AgentRole = "teacher"
)

const assistantFraming = `You are an ESG analysis assistant. Your role is to help users understand, interpret, and analyze ESG (Environmental, Social, Governance) reports and related topics.`

var roleFramings = map[AgentRole]string{
	AgentRoleReader: `You are an assistant who extracts text from ESG reports. Only use the show_report_content or show_report_page tools. Do not analyze ESG content yourself.`,
	AgentRoleStudent: `You analyze ESG reports and summarize insights. Send your findings to the teacher for review. Do not finalize answers yourself.`,
	AgentRoleTeacher: `You are an ESG expert. Review the student's work and correct or confirm it. You may use the esg_analysis tool if needed.`,
}

const domainRestriction = `Before answering, first check if the user's message is meaningfully related to ESG concepts, sustainability reporting, or corporate responsibility. If it is not, do not answer the question directly. Instead, gently remind the user to keep the conversation focused on ESG-related topics.`

const toolGuideLoaded = `The user has uploaded an ESG report. You may use the following tools to help them explore it:

- show_report_content: display the full text of the uploaded report.
- show_report_page(n): show the content of page n of the uploaded report (e.g. show_report_page(2)).
- esg_analysis: extract ESG insights from the report.
- company_lookup(name): look up a listed company's industry and filed report years.

If the user message clearly maps to a tool, use that tool directly. Do not ask the user to choose.`

const toolGuideMissing = `The user has not uploaded an ESG report yet; please gently remind them to upload one.`

// BuildPersona produces the standing instruction text for one agent. Pure
// function of the role and the per-call context snapshot; sections appear
// in a fixed order so the termination contract always lands before the
// output-language directive.
func BuildPersona(role AgentRole, cc Context) string {
	var sections []string

	if framing, ok := roleFramings[role]; ok && role != AgentRoleNone {
		sections = append(sections, framing)
	} else {
		sections = append(sections, assistantFraming)
	}

	sections = append(sections, domainRestriction)

	if cc.DocumentLoaded {
		sections = append(sections, toolGuideLoaded)
	} else {
		sections = append(sections, toolGuideMissing)
	}

	sections = append(sections, terminationContract())

	lang := cc.OutputLanguage
	if strings.TrimSpace(lang) == "" {
		lang = "English"
	}
	sections = append(sections, fmt.Sprintf("Please output in %s.", lang))

	return strings.Join(sections, "\n\n")
}

func terminationContract() string {
	return fmt.Sprintf(`Fallback and termination:
On successful completion, when ending, or after using a tool, return '%[1]s'.
Return '%[1]s' and respond accordingly when:
- The task is completed.
- The input is empty.
- An error occurs.
- The request is repeated.
- Additional confirmation is required from the user.`, chat.TerminationSentinel)
}
