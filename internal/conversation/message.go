package conversation

import (
	"sync"
	"time"

	"github.com/shivraj110504/RuralCare/internal/knowledge"
)

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in a conversation log. Messages are never edited
// after they are appended.
type Message struct {
	Seq             int64                   `json:"seq"`
	Role            Role                    `json:"role"`
	Text            string                  `json:"text"`
	CreatedAt       time.Time               `json:"created_at"`
	Recommendations []knowledge.CatalogItem `json:"recommendations,omitempty"`
	// ReplyTo is the Seq of the user message an assistant reply answers.
	ReplyTo int64 `json:"reply_to,omitempty"`
}

// Conversation is an append-only, ordered message log for one chat session.
type Conversation struct {
	id string

	mu       sync.RWMutex
	messages []Message
	lastSeq  int64
}

func NewConversation(id string) *Conversation {
	return &Conversation{id: id}
}

func (c *Conversation) ID() string {
	return c.id
}

// append assigns the next sequence number and stores msg.
func (c *Conversation) append(msg Message, at time.Time) Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastSeq++
	msg.Seq = c.lastSeq
	msg.CreatedAt = at
	msg.Recommendations = cloneItems(msg.Recommendations)
	c.messages = append(c.messages, msg)
	return cloneMessage(msg)
}

// Messages returns a snapshot of the log in display order.
func (c *Conversation) Messages() []Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Message, len(c.messages))
	for i, m := range c.messages {
		out[i] = cloneMessage(m)
	}
	return out
}

// Since returns the messages with a sequence number greater than seq.
func (c *Conversation) Since(seq int64) []Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []Message
	for _, m := range c.messages {
		if m.Seq > seq {
			out = append(out, cloneMessage(m))
		}
	}
	return out
}

func (c *Conversation) Last() (Message, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.messages) == 0 {
		return Message{}, false
	}
	return cloneMessage(c.messages[len(c.messages)-1]), true
}

func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.messages)
}

func cloneMessage(m Message) Message {
	m.Recommendations = cloneItems(m.Recommendations)
	return m
}

func cloneItems(items []knowledge.CatalogItem) []knowledge.CatalogItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]knowledge.CatalogItem, len(items))
	copy(out, items)
	return out
}
