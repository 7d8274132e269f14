// Package tools defines the function-calling surface offered to the model:
// provider-neutral tool declarations, the calls the model sends back, and a
// closed registry of the tools this bot can actually run.
package tools

// ToolTypeFunction is the standard type for function-based tools.
const ToolTypeFunction = "function"

// ToolName identifies a registered tool. The set is closed: a name the model
// invents that is not listed here never reaches an executor.
type ToolName string

const (
	EarthquakeSearch ToolName = "call_earthquake_search_tool"
)

// KnownToolNames lists every tool the bot can run.
var KnownToolNames = []ToolName{EarthquakeSearch}

// Tool defines the schema for a function that can be described to an LLM.
type Tool struct {
	Type     string   `json:"type"`
	Function Function `json:"function"`
}

// Function defines the name, description, and parameters of a callable tool.
type Function struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Parameters  JSONSchema `json:"parameters"`
}

// JSONSchema is the subset of JSON Schema used for tool parameters.
type JSONSchema struct {
	Type        string                 `json:"type"`
	Description string                 `json:"description,omitempty"`
	Properties  map[string]*JSONSchema `json:"properties,omitempty"`
	Required    []string               `json:"required,omitempty"`
}

// ToolCall is a request from the model to run a tool.
type ToolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Function ToolCallFunction `json:"function"`
}

// ToolCallFunction holds the name and the JSON-encoded arguments of a call.
type ToolCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// NewFunctionTool builds a Tool of type "function".
func NewFunctionTool(name ToolName, description string, parameters JSONSchema) Tool {
	return Tool{
		Type: ToolTypeFunction,
		Function: Function{
			Name:        string(name),
			Description: description,
			Parameters:  parameters,
		},
	}
}
