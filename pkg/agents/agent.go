// Package agents implements the specialist agents the router delegates
// to: weather, calendar, email, decision and social media. Each
// specialist wraps the shared LLM loop with a role prompt and its own
// tool set, and records successful results into context memory.
package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/buddyagent/buddy/pkg/config"
	"github.com/buddyagent/buddy/pkg/logger"
	"github.com/buddyagent/buddy/pkg/providers"
	"github.com/buddyagent/buddy/pkg/tools"
)

// LLMAgent runs the chat loop against one provider with a fixed system
// prompt and tool registry. Tool calls requested by the model are
// executed and fed back until the model produces a final text answer or
// the iteration cap is reached.
type LLMAgent struct {
	provider      providers.LLMProvider
	model         string
	systemPrompt  string
	registry      *tools.Registry
	maxIterations int
	options       map[string]any
}

func NewLLMAgent(provider providers.LLMProvider, model, systemPrompt string, registry *tools.Registry, llmCfg config.LLMConfig) *LLMAgent {
	if model == "" {
		model = provider.GetDefaultModel()
	}
	maxIter := llmCfg.MaxToolIterations
	if maxIter <= 0 {
		maxIter = 10
	}

	options := map[string]any{}
	if llmCfg.MaxTokens > 0 {
		options["max_tokens"] = llmCfg.MaxTokens
	}
	if llmCfg.Temperature > 0 {
		options["temperature"] = llmCfg.Temperature
	}

	return &LLMAgent{
		provider:      provider,
		model:         model,
		systemPrompt:  systemPrompt,
		registry:      registry,
		maxIterations: maxIter,
		options:       options,
	}
}

// Ask runs one query through the loop and returns the model's final
// text.
func (a *LLMAgent) Ask(ctx context.Context, query string) (string, error) {
	messages := []providers.Message{
		{Role: "system", Content: a.systemPrompt},
		{Role: "user", Content: query},
	}

	var defs []providers.ToolDefinition
	if a.registry != nil {
		defs = a.registry.ToProviderDefs()
	}

	for i := 0; i < a.maxIterations; i++ {
		resp, err := a.provider.Chat(ctx, messages, defs, a.model, a.options)
		if err != nil {
			return "", err
		}

		if len(resp.ToolCalls) == 0 {
			return resp.Content, nil
		}

		messages = append(messages, providers.Message{
			Role:      "assistant",
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		for _, tc := range resp.ToolCalls {
			name, args := callDetails(tc)
			result := a.registry.Execute(ctx, name, args)
			messages = append(messages, providers.Message{
				Role:       "tool",
				Content:    result.ForLLM,
				ToolCallID: tc.ID,
			})
		}
	}

	logger.WarnCF("agent", "tool iteration cap reached", map[string]any{"max": a.maxIterations})
	return "", fmt.Errorf("no final answer after %d tool iterations", a.maxIterations)
}

func callDetails(tc providers.ToolCall) (string, map[string]any) {
	name := tc.Name
	args := tc.Arguments
	if name == "" && tc.Function != nil {
		name = tc.Function.Name
	}
	if args == nil && tc.Function != nil && tc.Function.Arguments != "" {
		if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
			args = map[string]any{}
		}
	}
	if args == nil {
		args = map[string]any{}
	}
	return name, args
}

func timestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
