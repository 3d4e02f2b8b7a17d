package agents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/buddyagent/buddy/pkg/config"
	"github.com/buddyagent/buddy/pkg/memory"
	"github.com/buddyagent/buddy/pkg/providers"
)

const decisionAgentPrompt = `You are a decision-making specialist agent. Analyze complex situations,
weigh pros and cons, and provide intelligent recommendations based on multiple factors.
Focus on practical, actionable advice.`

// DecisionAgent produces recommendations from weather, calendar and
// stored context data.
type DecisionAgent struct {
	name string
	llm  *LLMAgent
	mem  *memory.ContextMemory
	now  func() time.Time
}

func NewDecisionAgent(provider providers.LLMProvider, cfg *config.Config, mem *memory.ContextMemory) *DecisionAgent {
	return &DecisionAgent{
		name: "DecisionBot",
		llm:  NewLLMAgent(provider, cfg.LLM.Model, decisionAgentPrompt, nil, cfg.LLM),
		mem:  mem,
		now:  time.Now,
	}
}

func (a *DecisionAgent) Name() string { return a.name }

// Advise answers an open-ended recommendation request.
func (a *DecisionAgent) Advise(ctx context.Context, request string) string {
	answer, err := a.llm.Ask(ctx, "Provide intelligent advice and recommendations for: "+request)
	if err != nil {
		return fmt.Sprintf("❌ Decision analysis error: %v", err)
	}
	return answer
}

// MakeWeatherDecision combines a weather analysis with calendar
// conflict findings and records the decision on success.
func (a *DecisionAgent) MakeWeatherDecision(ctx context.Context, weatherAnalysis, calendarConflicts string) string {
	if weatherAnalysis == "" {
		weatherAnalysis = "No weather data"
	}

	query := fmt.Sprintf(`Make intelligent recommendations based on this information:

Weather Analysis:
%s

Calendar Conflicts:
%s

Provide:
1. Key insights
2. Recommended actions
3. Alternative suggestions
4. Risk assessment

Focus on practical, actionable advice.`, weatherAnalysis, calendarConflicts)

	decision, err := a.llm.Ask(ctx, query)
	if err != nil {
		return fmt.Sprintf("❌ Decision analysis error: %v", err)
	}

	a.mem.Append(memory.TopicDecisions, a.name, map[string]any{
		"decision":  decision,
		"factors":   []string{"weather", "calendar"},
		"timestamp": timestamp(a.now()),
	})
	return "🧠 Intelligent Recommendations:\n" + decision
}

// QueryContextMemory answers a recall request against the stored
// context, exposing per-topic counts rather than payloads.
func (a *DecisionAgent) QueryContextMemory(ctx context.Context, query string) string {
	summaries := a.mem.Summarize()

	contextText := "No context memory available"
	if len(summaries) > 0 {
		lines := make([]string, 0, len(summaries))
		for _, s := range summaries {
			lines = append(lines, fmt.Sprintf("%s: %d items", s.Topic, s.Count))
		}
		contextText = strings.Join(lines, "\n")
	}

	aiQuery := fmt.Sprintf(`Analyze this context memory query and provide relevant information:

User Query: %s

Available Context:
%s

Provide a helpful summary of relevant context information.`, query, contextText)

	answer, err := a.llm.Ask(ctx, aiQuery)
	if err != nil {
		return fmt.Sprintf("❌ Error querying context memory: %v", err)
	}
	return "🧠 Context Memory Analysis:\n" + answer
}
