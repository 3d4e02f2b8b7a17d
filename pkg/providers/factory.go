package providers

import (
	"time"

	"github.com/buddyagent/buddy/pkg/config"
	"github.com/buddyagent/buddy/pkg/logger"
	"github.com/buddyagent/buddy/pkg/providers/anthropic"
	"github.com/buddyagent/buddy/pkg/providers/openai"
)

// CreateProvider picks a backend from configuration. Selection order is
// OpenAI, then Anthropic; an explicit cfg.LLM.Provider overrides it.
// Returns the provider and the model it will use.
func CreateProvider(cfg *config.Config) (LLMProvider, string, error) {
	timeout := time.Duration(cfg.LLM.TimeoutSeconds) * time.Second

	switch cfg.LLM.Provider {
	case "openai":
		if cfg.LLM.OpenAIAPIKey == "" {
			return nil, "", ErrNotConfigured
		}
		return newOpenAI(cfg, timeout)
	case "anthropic":
		if cfg.LLM.AnthropicAPIKey == "" {
			return nil, "", ErrNotConfigured
		}
		return newAnthropic(cfg)
	}

	if cfg.LLM.OpenAIAPIKey != "" {
		return newOpenAI(cfg, timeout)
	}
	if cfg.LLM.AnthropicAPIKey != "" {
		return newAnthropic(cfg)
	}
	return nil, "", ErrNotConfigured
}

func newOpenAI(cfg *config.Config, timeout time.Duration) (LLMProvider, string, error) {
	p := openai.NewProvider(cfg.LLM.OpenAIAPIKey, cfg.LLM.BaseURL,
		openai.WithRequestTimeout(timeout))
	model := cfg.LLM.Model
	if model == "" {
		model = p.GetDefaultModel()
	}
	logger.InfoCF("providers", "Using OpenAI provider", map[string]any{"model": model})
	return p, model, nil
}

func newAnthropic(cfg *config.Config) (LLMProvider, string, error) {
	p := anthropic.NewProviderWithBaseURL(cfg.LLM.AnthropicAPIKey, cfg.LLM.BaseURL)
	model := cfg.LLM.Model
	if model == "" {
		model = p.GetDefaultModel()
	}
	logger.InfoCF("providers", "Using Anthropic provider", map[string]any{"model": model})
	return p, model, nil
}
