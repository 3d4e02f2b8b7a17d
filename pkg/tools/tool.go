// Package tools defines the capability functions the assistant and its
// specialist agents can invoke: arithmetic, weather lookup, Bible
// verses, X posting, Google Calendar access, and email sending.
package tools

import "context"

// Tool is one callable capability. Parameters returns a JSON-schema
// object describing the arguments.
type Tool interface {
	Name() string
	Description() string
	Parameters() map[string]any
	Execute(ctx context.Context, args map[string]any) *ToolResult
}

// ToolResult carries the outcome of a tool execution. ForLLM is the
// text handed back to the model (or directly to the user for
// deterministic paths); IsError marks a handled failure. Tools never
// panic or return Go errors to callers.
type ToolResult struct {
	ForLLM  string
	IsError bool
	Err     error
}

func NewToolResult(forLLM string) *ToolResult {
	return &ToolResult{ForLLM: forLLM}
}

func ErrorResult(message string) *ToolResult {
	return &ToolResult{ForLLM: message, IsError: true}
}

func (r *ToolResult) WithError(err error) *ToolResult {
	r.Err = err
	return r
}

// ToolToSchema renders a tool as the function-calling schema shape used
// by provider APIs.
func ToolToSchema(t Tool) map[string]any {
	return map[string]any{
		"type": "function",
		"function": map[string]any{
			"name":        t.Name(),
			"description": t.Description(),
			"parameters":  t.Parameters(),
		},
	}
}
