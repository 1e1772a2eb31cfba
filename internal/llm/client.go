package llm

import "context"

// Message is one entry in the chat-completion conversation. Tool results go
// back with role "tool" and the originating ToolCallID.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	Name       string     `json:"name,omitempty"`
}

type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"` // JSON-encoded by the model
}

// ToolSpec is the function schema advertised to the model.
type ToolSpec struct {
	Type     string      `json:"type"`
	Function FunctionDef `json:"function"`
}

type FunctionDef struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Client is a chat-completion endpoint able to suggest tool calls.
type Client interface {
	Ping(ctx context.Context) error
	Chat(ctx context.Context, messages []Message, tools []ToolSpec) (Message, error)
}
