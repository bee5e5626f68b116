// Package protocol defines the conversation types shared by the generation
// client and the interview audit log.
package protocol

// Role identifies the sender of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// Message represents a single text message in a conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// NewMessage creates a Message with the given role and content.
//
// Example:
//
//	msg := protocol.NewMessage(protocol.RoleUser, "Hello, world!")
func NewMessage(role Role, content string) Message {
	return Message{Role: role, Content: content}
}

// InitMessages builds the two-message conversation used for single-shot
// generation: a system instruction followed by the user prompt. An empty
// system instruction is omitted.
func InitMessages(system, prompt string) []Message {
	if system == "" {
		return []Message{NewMessage(RoleUser, prompt)}
	}
	return []Message{
		NewMessage(RoleSystem, system),
		NewMessage(RoleUser, prompt),
	}
}
