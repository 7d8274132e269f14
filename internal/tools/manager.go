package tools

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

// ErrUnknownTool is returned for a name outside the registry.
var ErrUnknownTool = errors.New("unknown tool")

// ToolManager holds the registry of runnable tools.
type ToolManager struct {
	tools map[ToolName]ToolExecutor
}

func NewToolManager() *ToolManager {
	return &ToolManager{
		tools: make(map[ToolName]ToolExecutor),
	}
}

// Register adds a tool. Only names from KnownToolNames are accepted.
func (tm *ToolManager) Register(tool ToolExecutor) error {
	name := ToolName(tool.Definition().Function.Name)
	if !slices.Contains(KnownToolNames, name) {
		return fmt.Errorf("register %q: %w", name, ErrUnknownTool)
	}
	tm.tools[name] = tool
	return nil
}

// GetDefinitions returns the declarations of all registered tools, ordered by name.
func (tm *ToolManager) GetDefinitions() []Tool {
	defs := make([]Tool, 0, len(tm.tools))
	for _, tool := range tm.tools {
		defs = append(defs, tool.Definition())
	}
	slices.SortFunc(defs, func(a, b Tool) int {
		switch {
		case a.Function.Name < b.Function.Name:
			return -1
		case a.Function.Name > b.Function.Name:
			return 1
		}
		return 0
	})
	return defs
}

func (tm *ToolManager) lookup(name string) (ToolExecutor, error) {
	tool, ok := tm.tools[ToolName(name)]
	if !ok {
		return nil, fmt.Errorf("tool %q: %w", name, ErrUnknownTool)
	}
	return tool, nil
}

// Execute runs a tool by model-supplied name. Unregistered names fail with
// ErrUnknownTool.
func (tm *ToolManager) Execute(ctx context.Context, name, arguments string) (string, error) {
	tool, err := tm.lookup(name)
	if err != nil {
		return "", err
	}
	return tool.Execute(ctx, arguments)
}

// ToolCount returns the number of registered tools.
func (tm *ToolManager) ToolCount() int {
	return len(tm.tools)
}
