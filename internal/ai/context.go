package ai

import "sync"

// Role identifies the sender of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a single message in the conversation history.
type Message struct {
	Role    Role
	Content string
}

// ConversationContext keeps the most recent query and chat exchanges so
// follow-up questions have context. Messages are stored in user/assistant
// pairs and the oldest pair is dropped when the limit is reached.
type ConversationContext struct {
	mu          sync.Mutex
	messages    []Message
	maxMessages int
}

// NewConversationContext creates a context holding up to maxExchanges
// exchanges (two messages each). A non-positive value means 5.
func NewConversationContext(maxExchanges int) *ConversationContext {
	if maxExchanges <= 0 {
		maxExchanges = 5
	}
	return &ConversationContext{
		messages:    make([]Message, 0, maxExchanges*2),
		maxMessages: maxExchanges * 2,
	}
}

// AddExchange records a user message and the assistant reply.
func (c *ConversationContext) AddExchange(user, assistant string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.messages = append(c.messages,
		Message{Role: RoleUser, Content: user},
		Message{Role: RoleAssistant, Content: assistant},
	)

	if excess := len(c.messages) - c.maxMessages; excess > 0 {
		c.messages = append(c.messages[:0:0], c.messages[excess:]...)
	}
}

// GetMessages returns a copy of the current conversation messages.
func (c *ConversationContext) GetMessages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make([]Message, len(c.messages))
	copy(result, c.messages)
	return result
}

// Reset clears all messages from the conversation context.
func (c *ConversationContext) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.messages = c.messages[:0]
}

// Len returns the number of messages in the conversation context.
func (c *ConversationContext) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.messages)
}
