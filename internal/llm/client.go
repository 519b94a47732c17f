package llm

import "context"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one chat message in OpenAI wire format.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client is the AI collaborator: it turns a message list into a completion.
// Implementations must respect ctx deadlines; callers always bound the call.
type Client interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}
