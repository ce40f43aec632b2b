package state

import (
	"sync"

	"github.com/cloudwego/eino/schema"
)

// Conversation is the canonical, append-only message log of one chat session.
// Bounded views are derived with Window; the log itself is only reset by Clear.
type Conversation struct {
	mu       sync.RWMutex
	initial  []*schema.Message
	messages []*schema.Message
}

func NewConversation(system ...*schema.Message) *Conversation {
	initial := make([]*schema.Message, 0, len(system))
	for _, m := range system {
		if m != nil {
			initial = append(initial, m)
		}
	}
	c := &Conversation{initial: initial}
	c.messages = append(make([]*schema.Message, 0, 16), initial...)
	return c
}

func (c *Conversation) Append(msgs ...*schema.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, m := range msgs {
		if m != nil {
			c.messages = append(c.messages, m)
		}
	}
}

// Messages returns a copy of the log.
func (c *Conversation) Messages() []*schema.Message {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cp := make([]*schema.Message, len(c.messages))
	copy(cp, c.messages)
	return cp
}

func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.messages)
}

// Clear resets the log to the initial system instruction.
func (c *Conversation) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(make([]*schema.Message, 0, 16), c.initial...)
}
