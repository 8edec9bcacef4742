package chat

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
)

// ContentKind tags the shape of a message body. Provider replies and tool
// executions produce different shapes; the tag keeps consumers from
// re-deriving the shape inline at every call site.
type ContentKind int

const (
	ContentEmpty ContentKind = iota
	ContentText
	ContentToolResult
)

// Content is a tagged variant: plain text, a structured tool result carrying
// an output field, or nothing at all.
type Content struct {
	Kind   ContentKind
	Body   string // ContentText
	Output string // ContentToolResult
}

func TextContent(s string) Content {
	return Content{Kind: ContentText, Body: s}
}

func ToolResultContent(output string) Content {
	return Content{Kind: ContentToolResult, Output: output}
}

// Text extracts the displayable text regardless of shape. Empty content
// yields "".
func (c Content) Text() string {
	switch c.Kind {
	case ContentText:
		return c.Body
	case ContentToolResult:
		return c.Output
	default:
		return ""
	}
}

type Message struct {
	Role    Role
	Sender  string // producing agent or proxy name
	Content Content

	// For Assistant messages: the tool calls they made
	ToolCalls []ToolCall

	// For Tool messages: the ID of the call being answered
	ToolCallID string
	ToolName   string
}

// HasPendingToolCalls reports whether this message requests tool execution
// that has not been fulfilled yet.
func (m Message) HasPendingToolCalls() bool {
	return len(m.ToolCalls) > 0
}
