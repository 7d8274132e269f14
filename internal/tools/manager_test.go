package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedTool struct{ name string }

func (n namedTool) Definition() Tool {
	return NewFunctionTool(ToolName(n.name), "", JSONSchema{Type: "object"})
}

func (n namedTool) Execute(context.Context, string) (string, error) { return "ran " + n.name, nil }

func TestManagerRejectsUnlistedTools(t *testing.T) {
	tm := NewToolManager()
	err := tm.Register(namedTool{name: "getCurrentWeather"})
	assert.ErrorIs(t, err, ErrUnknownTool)
	assert.Equal(t, 0, tm.ToolCount())
}

func TestManagerExecute(t *testing.T) {
	tm := NewToolManager()
	require.NoError(t, tm.Register(namedTool{name: string(EarthquakeSearch)}))
	assert.Equal(t, 1, tm.ToolCount())
	assert.Len(t, tm.GetDefinitions(), 1)

	out, err := tm.Execute(context.Background(), string(EarthquakeSearch), "{}")
	require.NoError(t, err)
	assert.Equal(t, "ran call_earthquake_search_tool", out)

	_, err = tm.Execute(context.Background(), "search_web", "{}")
	assert.ErrorIs(t, err, ErrUnknownTool)
	assert.Contains(t, err.Error(), "search_web")
}
