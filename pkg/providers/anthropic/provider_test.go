package anthropic

import (
	"testing"

	"github.com/buddyagent/buddy/pkg/providers/protocol"
)

func toolDef(params map[string]any) ToolDefinition {
	return ToolDefinition{
		Type: "function",
		Function: protocol.ToolFunctionDefinition{
			Name:        "calculator",
			Description: "Evaluate an arithmetic expression",
			Parameters:  params,
		},
	}
}

func TestTranslateToolsRequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]any
		want   []string
	}{
		{
			name: "string slice from in-process schema",
			params: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"expression": map[string]any{"type": "string"},
				},
				"required": []string{"expression"},
			},
			want: []string{"expression"},
		},
		{
			name: "any slice from decoded JSON",
			params: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"expression": map[string]any{"type": "string"},
				},
				"required": []any{"expression"},
			},
			want: []string{"expression"},
		},
		{
			name: "no required fields",
			params: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateTools([]ToolDefinition{toolDef(tt.params)})
			if len(got) != 1 || got[0].OfTool == nil {
				t.Fatalf("translateTools() = %v, want one tool", got)
			}
			req := got[0].OfTool.InputSchema.Required
			if len(req) != len(tt.want) {
				t.Fatalf("Required = %v, want %v", req, tt.want)
			}
			for i := range tt.want {
				if req[i] != tt.want[i] {
					t.Errorf("Required[%d] = %q, want %q", i, req[i], tt.want[i])
				}
			}
		})
	}
}
