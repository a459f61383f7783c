package chat

// Role identifies the author of one conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleFunction  Role = "function"
)

// Message is one turn of a conversation, carrying a role and content.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`

	// Name identifies the function a RoleFunction message carries the
	// result of.
	Name string `json:"name,omitempty"`
}

// NewFunctionMessage wraps a dispatch result so it can be fed back into the
// conversation as the named function's output.
func NewFunctionMessage(name, result string) Message {
	return Message{
		Role:    RoleFunction,
		Content: result,
		Name:    name,
	}
}
