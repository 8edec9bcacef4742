package orchestrator

import (
	"strings"

	"esgchat/internal/chat"
)

// NoValidResponse is returned when the transcript yields nothing usable.
const NoValidResponse = "⚠️ No valid response found."

// extractStrategy inspects a transcript (initiating prompt already removed)
// and either produces a candidate answer or defers to the next strategy.
type extractStrategy func(msgs []chat.Message) (string, bool)

// ExtractFinalResponse picks the best-candidate final answer out of a
// completed conversation. Strategies run in priority order and the first
// non-empty result wins: a tool's own output is normally the authoritative
// answer, then sentinel-tagged text, then the last non-empty message. The
// returned string never contains the termination sentinel, and this
// function never panics; a strategy that blows up simply defers to the
// next one.
func ExtractFinalResponse(conv []chat.Message) string {
	if len(conv) == 0 {
		return NoValidResponse
	}
	// The first message is the initiating prompt, never an answer.
	msgs := conv[1:]

	for _, strategy := range []extractStrategy{
		extractToolPaired,
		extractSentinelTagged,
		extractLastNonEmpty,
	} {
		if text, ok := applyStrategy(strategy, msgs); ok {
			return chat.StripSentinel(text)
		}
	}
	return NoValidResponse
}

func applyStrategy(s extractStrategy, msgs []chat.Message) (text string, ok bool) {
	defer func() {
		if recover() != nil {
			text, ok = "", false
		}
	}()
	return s(msgs)
}

// extractToolPaired finds the first tool invocation and joins the one or
// two messages that follow it. Some pipelines split the answer across the
// tool-result message and a follow-up summarization, so both are taken.
func extractToolPaired(msgs []chat.Message) (string, bool) {
	for i, m := range msgs {
		if !m.HasPendingToolCalls() {
			continue
		}
		var parts []string
		for j := i + 1; j <= i+2 && j < len(msgs); j++ {
			if text := strings.TrimSpace(msgs[j].Content.Text()); text != "" {
				parts = append(parts, text)
			}
		}
		combined := strings.TrimSpace(strings.Join(parts, "\n\n"))
		if combined != "" {
			return combined, true
		}
	}
	return "", false
}

// extractSentinelTagged returns the oldest plain message whose text carries
// the termination sentinel. Tool-invocation messages are skipped; their
// results are covered by the pairing strategy.
func extractSentinelTagged(msgs []chat.Message) (string, bool) {
	for _, m := range msgs {
		if m.HasPendingToolCalls() {
			continue
		}
		if text := m.Content.Text(); chat.HasSentinel(text) {
			return text, true
		}
	}
	return "", false
}

// extractLastNonEmpty scans backward for the newest message with any text.
// Empty proxy messages do not stop the scan; they mean "look further back",
// not "nothing valid exists".
func extractLastNonEmpty(msgs []chat.Message) (string, bool) {
	for i := len(msgs) - 1; i >= 0; i-- {
		if text := strings.TrimSpace(msgs[i].Content.Text()); text != "" {
			return text, true
		}
	}
	return "", false
}
