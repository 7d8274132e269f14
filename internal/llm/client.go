package llm

import (
	"context"

	"github.com/dileep-u-k/quakebot/internal/tools"
)

// GenerationResult is one model turn: its text and any tool calls it requested.
type GenerationResult struct {
	Content   string
	ToolCalls []*tools.ToolCall
}

// ChatSession is a single conversation with the model. It is not safe for
// concurrent use; each prompt gets its own session.
type ChatSession interface {
	// SendText sends a user message.
	SendText(ctx context.Context, text string) (*GenerationResult, error)
	// SendToolResult answers a tool call with the tool's output.
	SendToolResult(ctx context.Context, name, result string) (*GenerationResult, error)
}

// LLMClient starts chat sessions against a configured model.
type LLMClient interface {
	StartChat() ChatSession
}
