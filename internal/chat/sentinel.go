package chat

import "strings"

// TerminationSentinel is the marker an agent (or tool) emits to signal that
// the exchange is complete. The persona instructions and the extraction
// logic both key off this exact literal.
const TerminationSentinel = "##ALL DONE##"

// HasSentinel reports whether the text contains the termination marker.
func HasSentinel(s string) bool {
	return strings.Contains(s, TerminationSentinel)
}

// StripSentinel removes every occurrence of the termination marker and trims
// surrounding whitespace. Stripping an already-stripped string is a no-op.
func StripSentinel(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, TerminationSentinel, ""))
}
