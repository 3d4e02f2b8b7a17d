// Package providers abstracts the language-model backends the assistant
// can talk to and selects one from configuration.
package providers

import (
	"context"
	"errors"

	"github.com/buddyagent/buddy/pkg/providers/protocol"
)

type (
	ToolCall               = protocol.ToolCall
	FunctionCall           = protocol.FunctionCall
	LLMResponse            = protocol.LLMResponse
	UsageInfo              = protocol.UsageInfo
	Message                = protocol.Message
	ToolDefinition         = protocol.ToolDefinition
	ToolFunctionDefinition = protocol.ToolFunctionDefinition
)

// ErrNotConfigured is returned when no provider credential is present.
var ErrNotConfigured = errors.New(
	"no LLM provider configured: set OPENAI_API_KEY or ANTHROPIC_API_KEY")

type LLMProvider interface {
	Chat(ctx context.Context, messages []Message, tools []ToolDefinition, model string, options map[string]any) (*LLMResponse, error)
	GetDefaultModel() string
}
