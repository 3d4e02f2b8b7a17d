// Package anthropic implements the LLM provider contract on top of the
// official Anthropic Go SDK.
package anthropic

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/buddyagent/buddy/pkg/logger"
	"github.com/buddyagent/buddy/pkg/providers/protocol"
)

type (
	ToolCall       = protocol.ToolCall
	LLMResponse    = protocol.LLMResponse
	UsageInfo      = protocol.UsageInfo
	Message        = protocol.Message
	ToolDefinition = protocol.ToolDefinition
)

const defaultModel = "claude-3-5-sonnet-latest"

type Provider struct {
	client *anthropic.Client
}

func NewProvider(apiKey string) *Provider {
	return NewProviderWithBaseURL(apiKey, "")
}

func NewProviderWithBaseURL(apiKey, apiBase string) *Provider {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if apiBase != "" {
		opts = append(opts, option.WithBaseURL(apiBase))
	}
	client := anthropic.NewClient(opts...)
	return &Provider{client: &client}
}

func (p *Provider) GetDefaultModel() string {
	return defaultModel
}

func (p *Provider) Chat(
	ctx context.Context,
	messages []Message,
	tools []ToolDefinition,
	model string,
	options map[string]any,
) (*LLMResponse, error) {
	if model == "" {
		model = defaultModel
	}

	params := buildParams(messages, tools, model, options)

	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic API call: %w", err)
	}

	return parseResponse(resp), nil
}

func buildParams(
	messages []Message,
	tools []ToolDefinition,
	model string,
	options map[string]any,
) anthropic.MessageNewParams {
	var system []anthropic.TextBlockParam
	var anthropicMessages []anthropic.MessageParam

	// The Anthropic API requires all tool_result blocks for a given
	// assistant tool_use turn to appear in one user message, so
	// consecutive tool results are merged.
	for i := 0; i < len(messages); i++ {
		msg := messages[i]
		switch msg.Role {
		case "system":
			system = append(system, anthropic.TextBlockParam{Text: msg.Content})
		case "assistant":
			if len(msg.ToolCalls) > 0 {
				var blocks []anthropic.ContentBlockParamUnion
				if msg.Content != "" {
					blocks = append(blocks, anthropic.NewTextBlock(msg.Content))
				}
				for _, tc := range msg.ToolCalls {
					args := tc.Arguments
					if args == nil && tc.Function != nil && tc.Function.Arguments != "" {
						_ = json.Unmarshal([]byte(tc.Function.Arguments), &args)
					}
					if args == nil {
						args = map[string]any{}
					}
					blocks = append(blocks, anthropic.NewToolUseBlock(tc.ID, args, tc.Name))
				}
				anthropicMessages = append(anthropicMessages, anthropic.NewAssistantMessage(blocks...))
			} else {
				anthropicMessages = append(anthropicMessages,
					anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
			}
		case "tool":
			var toolBlocks []anthropic.ContentBlockParamUnion
			for i < len(messages) && messages[i].Role == "tool" {
				toolBlocks = append(toolBlocks,
					anthropic.NewToolResultBlock(messages[i].ToolCallID, messages[i].Content, false))
				i++
			}
			i-- // outer loop will increment
			anthropicMessages = append(anthropicMessages, anthropic.NewUserMessage(toolBlocks...))
		default:
			anthropicMessages = append(anthropicMessages,
				anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}

	maxTokens := int64(4096)
	if mt, ok := options["max_tokens"].(int); ok && mt > 0 {
		maxTokens = int64(mt)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		Messages:  anthropicMessages,
		MaxTokens: maxTokens,
	}

	if len(system) > 0 {
		params.System = system
	}

	if temp, ok := options["temperature"].(float64); ok {
		params.Temperature = anthropic.Float(temp)
	}

	if len(tools) > 0 {
		params.Tools = translateTools(tools)
	}

	return params
}

func translateTools(tools []ToolDefinition) []anthropic.ToolUnionParam {
	result := make([]anthropic.ToolUnionParam, 0, len(tools))
	for _, t := range tools {
		tool := anthropic.ToolParam{
			Name: t.Function.Name,
			InputSchema: anthropic.ToolInputSchemaParam{
				Properties: t.Function.Parameters["properties"],
			},
		}
		if desc := t.Function.Description; desc != "" {
			tool.Description = anthropic.String(desc)
		}
		// Schemas built in-process carry []string; schemas decoded
		// from JSON carry []any.
		switch req := t.Function.Parameters["required"].(type) {
		case []string:
			tool.InputSchema.Required = req
		case []any:
			required := make([]string, 0, len(req))
			for _, r := range req {
				if s, ok := r.(string); ok {
					required = append(required, s)
				}
			}
			tool.InputSchema.Required = required
		}
		result = append(result, anthropic.ToolUnionParam{OfTool: &tool})
	}
	return result
}

func parseResponse(resp *anthropic.Message) *LLMResponse {
	var content string
	var toolCalls []ToolCall

	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			content += block.AsText().Text
		case "tool_use":
			tu := block.AsToolUse()
			var args map[string]any
			if err := json.Unmarshal(tu.Input, &args); err != nil {
				logger.WarnCF("anthropic", "failed to decode tool call input",
					map[string]any{"tool": tu.Name, "error": err.Error()})
				args = map[string]any{"raw": string(tu.Input)}
			}
			toolCalls = append(toolCalls, ToolCall{
				ID:        tu.ID,
				Name:      tu.Name,
				Arguments: args,
			})
		}
	}

	finishReason := "stop"
	switch resp.StopReason {
	case anthropic.StopReasonToolUse:
		finishReason = "tool_calls"
	case anthropic.StopReasonMaxTokens:
		finishReason = "length"
	case anthropic.StopReasonEndTurn:
		finishReason = "stop"
	}

	return &LLMResponse{
		Content:      content,
		ToolCalls:    toolCalls,
		FinishReason: finishReason,
		Usage: &UsageInfo{
			PromptTokens:     int(resp.Usage.InputTokens),
			CompletionTokens: int(resp.Usage.OutputTokens),
			TotalTokens:      int(resp.Usage.InputTokens + resp.Usage.OutputTokens),
		},
	}
}
