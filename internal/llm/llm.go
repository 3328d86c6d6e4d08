package llm

import (
	"context"
	"errors"
)

// Message roles, following the OpenAI-style chat convention.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry of a chat transcript.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ToolSchema describes a tool the model may request. Parameters maps
// argument names to human-readable descriptions; all arguments are passed
// as strings or JSON values and validated by the executor.
type ToolSchema struct {
	Name        string
	Description string
	Parameters  map[string]string
}

// ToolInvocation is a tool call requested by the model.
type ToolInvocation struct {
	Name string
	Args map[string]any
}

// Usage reports token consumption for one model call.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
}

// Reply is the model's answer to one chat request.
type Reply struct {
	Content   string
	ToolCalls []ToolInvocation
	Usage     Usage
	Model     string
}

// ErrNoContent is returned when the model answers with neither text nor
// tool calls.
var ErrNoContent = errors.New("no content generated")

// ChatModel is a conversational model that can request tool invocations.
// Implementations must honor the context deadline and never block
// indefinitely.
type ChatModel interface {
	Chat(ctx context.Context, messages []Message, tools []ToolSchema) (*Reply, error)
}

// IsTimeout reports whether an error is a deadline or cancellation failure
// from a model call.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
