package conversation

import (
	"sync"
	"time"
)

// Message roles mirror the chat completions wire format.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Conversation is a short-lived, append-only message history. Messages are
// never reordered or removed individually; the whole conversation is
// dropped atomically on expiry or explicit delete.
type Conversation struct {
	ID        string
	CreatedAt time.Time

	mu             sync.Mutex
	lastAccessedAt time.Time
	messages       []Message
}

func newConversation(id string, createdAt time.Time) *Conversation {
	return &Conversation{
		ID:             id,
		CreatedAt:      createdAt,
		lastAccessedAt: createdAt,
		messages:       []Message{},
	}
}

// Messages returns a snapshot of the history in insertion order.
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	snapshot := make([]Message, len(c.messages))
	copy(snapshot, c.messages)
	return snapshot
}

// LastAccessedAt returns the sliding-expiry anchor.
func (c *Conversation) LastAccessedAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastAccessedAt
}

func (c *Conversation) append(role, content string, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, Message{Role: role, Content: content})
	c.lastAccessedAt = now
}

func (c *Conversation) touch(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastAccessedAt = now
}
