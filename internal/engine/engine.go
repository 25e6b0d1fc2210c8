// Package engine adapts model-provider SDKs to the small streaming surface
// the demo responder needs: a chat history in, a channel of text deltas out.
package engine

import "context"

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of the model conversation.
type Message struct {
	Role    Role
	Content string
}

// StreamEvent is one step of a model stream. Delta carries incremental text;
// Done marks the final event; Err reports a mid-stream failure and is
// terminal.
type StreamEvent struct {
	Delta string
	Done  bool
	Err   error
}

// Streamer produces a streaming chat completion. The returned channel is
// closed after the Done or Err event.
type Streamer interface {
	StreamChat(ctx context.Context, messages []Message) (<-chan StreamEvent, error)
}
