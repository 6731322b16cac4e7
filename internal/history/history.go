// Package history keeps the chat transcript of each conversation.
package history

import (
	"context"
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role Role      `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Store persists messages per conversation. Messages come back in append
// order; a missing conversation has no messages.
type Store interface {
	Append(ctx context.Context, conversationID string, m Message) error
	Messages(ctx context.Context, conversationID string) ([]Message, error)
	Delete(ctx context.Context, conversationID string) error
	Close() error
}
