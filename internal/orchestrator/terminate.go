package orchestrator

import (
	"esgchat/internal/chat"
)

// Terminated decides, given one message, whether the exchange should stop.
//
// A message still waiting on tool execution never terminates; the tool must
// run first. Otherwise the sentinel is searched in the extracted text,
// whatever shape the content has. Any failure during extraction counts as
// "keep going": the turn ceiling bounds the cost, a false stop would lose
// the answer.
func Terminated(m chat.Message) (terminated bool) {
	defer func() {
		if recover() != nil {
			terminated = false
		}
	}()

	if m.HasPendingToolCalls() {
		return false
	}
	return chat.HasSentinel(m.Content.Text())
}
