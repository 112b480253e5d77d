package conversation

// Role identifies the author of a turn.
type Role string

// Roles recognized by the conversation log.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall is a request, emitted by the model, to invoke a named tool.
// CallID is unique within the batch of calls on a single assistant turn.
type ToolCall struct {
	Name      string
	Arguments map[string]any
	CallID    string
}

// ToolResult is the textual outcome of one tool invocation. CallID links it
// back to the originating ToolCall. Failed invocations are represented the
// same way, with an error description as Content.
type ToolResult struct {
	CallID  string
	Content string
}

// Turn is one entry in the conversation log.
//
// ToolCalls is set only on assistant turns that request tool use.
// ToolCallID is set only on tool turns and must match a CallID emitted by a
// preceding assistant turn.
type Turn struct {
	Role       Role
	Content    string
	ToolCalls  []ToolCall
	ToolCallID string
}

// HasToolCalls reports whether the turn requests at least one tool
// invocation.
func (t Turn) HasToolCalls() bool {
	return len(t.ToolCalls) > 0
}

// NewSystemTurn creates a system priming turn.
func NewSystemTurn(content string) Turn {
	return Turn{Role: RoleSystem, Content: content}
}

// NewUserTurn creates a user turn.
func NewUserTurn(content string) Turn {
	return Turn{Role: RoleUser, Content: content}
}

// NewAssistantTurn creates a plain assistant turn with no tool calls.
func NewAssistantTurn(content string) Turn {
	return Turn{Role: RoleAssistant, Content: content}
}

// NewToolTurn creates a tool turn carrying one tool result.
func NewToolTurn(res ToolResult) Turn {
	return Turn{Role: RoleTool, Content: res.Content, ToolCallID: res.CallID}
}
