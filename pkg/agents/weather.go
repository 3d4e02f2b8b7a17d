package agents

import (
	"context"
	"time"

	"github.com/buddyagent/buddy/pkg/config"
	"github.com/buddyagent/buddy/pkg/memory"
	"github.com/buddyagent/buddy/pkg/providers"
	"github.com/buddyagent/buddy/pkg/tools"
)

const weatherAgentPrompt = `You are a weather specialist agent. You have access to real-time weather data via the get_weather tool.
Use the weather tool to get current conditions and provide detailed analysis including temperature, conditions,
and recommendations for outdoor activities. Always use the weather tool when asked about weather conditions.`

// WeatherAgent analyzes current conditions and their impact on
// activities, recording each successful analysis.
type WeatherAgent struct {
	name string
	llm  *LLMAgent
	mem  *memory.ContextMemory
	now  func() time.Time
}

func NewWeatherAgent(provider providers.LLMProvider, cfg *config.Config, mem *memory.ContextMemory) *WeatherAgent {
	registry := tools.NewRegistry()
	registry.Register(tools.NewCalculatorTool())
	registry.Register(tools.NewWeatherTool(cfg.Weather))

	return &WeatherAgent{
		name: "WeatherBot",
		llm:  NewLLMAgent(provider, cfg.LLM.Model, weatherAgentPrompt, registry, cfg.LLM),
		mem:  mem,
		now:  time.Now,
	}
}

func (a *WeatherAgent) Name() string { return a.name }

// AnalyzeWeatherImpact fetches and analyzes the weather for city. The
// analysis is recorded only on success.
func (a *WeatherAgent) AnalyzeWeatherImpact(ctx context.Context, city string) (string, error) {
	query := "Analyze the weather in " + city + " and provide recommendations for outdoor activities. Include temperature, conditions, and suitability rating."

	analysis, err := a.llm.Ask(ctx, query)
	if err != nil {
		return "", err
	}

	a.mem.Append(memory.TopicWeatherAnalysis, a.name, map[string]any{
		"city":      city,
		"analysis":  analysis,
		"timestamp": timestamp(a.now()),
	})
	return analysis, nil
}
