package tools

import (
	"context"
	"testing"
)

func TestCalculator_Evaluate(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"15 * 23", "345"},
		{"2 + 3 * 4", "14"},
		{"(2 + 3) * 4", "20"},
		{"sqrt(144)", "12"},
		{"2 ^ 10", "1024"},
		{"10 % 3", "1"},
		{"-5 + 8", "3"},
		{"7 / 2", "3.5"},
		{"2 ^ 3 ^ 2", "512"},
	}

	calc := NewCalculatorTool()
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			result := calc.Execute(context.Background(), map[string]any{"expression": tt.expr})
			if result.IsError {
				t.Fatalf("Execute(%q) errored: %s", tt.expr, result.ForLLM)
			}
			if result.ForLLM != tt.want {
				t.Errorf("Execute(%q) = %q, want %q", tt.expr, result.ForLLM, tt.want)
			}
		})
	}
}

func TestCalculator_Errors(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{"division by zero", "1 / 0"},
		{"mod by zero", "5 % 0"},
		{"unbalanced parens", "(1 + 2"},
		{"garbage", "hello world"},
		{"sqrt of negative", "sqrt(-4)"},
		{"empty", ""},
	}

	calc := NewCalculatorTool()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := calc.Execute(context.Background(), map[string]any{"expression": tt.expr})
			if !result.IsError {
				t.Errorf("Execute(%q) should fail, got %q", tt.expr, result.ForLLM)
			}
		})
	}
}
