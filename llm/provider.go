// Package llm wraps the remote chat-completion endpoint behind a small
// Provider interface and adds registry-aware cost accounting on top.
package llm

import "context"

// Role identifies the sender of a message in the chat conversation.
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Message is a single entry in the conversation sent to the model.
type Message struct {
	Role    Role
	Content string
}

// Request is one completion call as the remote service sees it: an API
// model identifier, ordered messages, and sampling parameters. A nil
// Temperature leaves the choice to the remote service; an explicit
// value, zero included, is always sent.
type Request struct {
	Model       string
	Messages    []Message
	Temperature *float64
	MaxTokens   int
}

// Response holds the model's reply along with token usage metadata.
type Response struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Provider is the interface for completion backends. Implementations
// must be safe for concurrent use.
type Provider interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}
