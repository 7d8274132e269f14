package tools

import "context"

// ToolExecutor is implemented by every runnable tool.
type ToolExecutor interface {
	// Definition returns the declaration sent to the model.
	Definition() Tool

	// Execute runs the tool with the model-supplied JSON arguments and
	// returns the text handed back to the model.
	Execute(ctx context.Context, arguments string) (string, error)
}
