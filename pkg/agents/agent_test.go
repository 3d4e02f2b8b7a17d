package agents

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/buddyagent/buddy/pkg/config"
	"github.com/buddyagent/buddy/pkg/memory"
	"github.com/buddyagent/buddy/pkg/providers"
	"github.com/buddyagent/buddy/pkg/tools"
)

type scriptedProvider struct {
	steps []func(messages []providers.Message) (*providers.LLMResponse, error)
	calls int
}

func (s *scriptedProvider) Chat(ctx context.Context, messages []providers.Message, defs []providers.ToolDefinition, model string, options map[string]any) (*providers.LLMResponse, error) {
	if s.calls >= len(s.steps) {
		return &providers.LLMResponse{Content: "out of script", FinishReason: "stop"}, nil
	}
	step := s.steps[s.calls]
	s.calls++
	return step(messages)
}

func (s *scriptedProvider) GetDefaultModel() string { return "scripted" }

func calcRegistry() *tools.Registry {
	r := tools.NewRegistry()
	r.Register(tools.NewCalculatorTool())
	return r
}

func TestAskExecutesToolCalls(t *testing.T) {
	p := &scriptedProvider{steps: []func([]providers.Message) (*providers.LLMResponse, error){
		func([]providers.Message) (*providers.LLMResponse, error) {
			return &providers.LLMResponse{
				ToolCalls: []providers.ToolCall{{
					ID:        "c1",
					Name:      "calculator",
					Arguments: map[string]any{"expression": "6 * 7"},
				}},
			}, nil
		},
		func(messages []providers.Message) (*providers.LLMResponse, error) {
			last := messages[len(messages)-1]
			if last.Role != "tool" || last.ToolCallID != "c1" {
				return nil, errors.New("tool result not appended")
			}
			return &providers.LLMResponse{Content: "the answer is " + last.Content}, nil
		},
	}}

	agent := NewLLMAgent(p, "m", "you calculate", calcRegistry(), config.LLMConfig{})
	got, err := agent.Ask(context.Background(), "what is 6 * 7")
	if err != nil {
		t.Fatalf("Ask() error: %v", err)
	}
	if !strings.Contains(got, "42") {
		t.Errorf("Ask() = %q, want it to contain 42", got)
	}
}

func TestAskOpenAIStyleFunctionCall(t *testing.T) {
	p := &scriptedProvider{steps: []func([]providers.Message) (*providers.LLMResponse, error){
		func([]providers.Message) (*providers.LLMResponse, error) {
			return &providers.LLMResponse{
				ToolCalls: []providers.ToolCall{{
					ID:       "c1",
					Function: &providers.FunctionCall{Name: "calculator", Arguments: `{"expression":"2 + 2"}`},
				}},
			}, nil
		},
		func(messages []providers.Message) (*providers.LLMResponse, error) {
			return &providers.LLMResponse{Content: messages[len(messages)-1].Content}, nil
		},
	}}

	agent := NewLLMAgent(p, "m", "you calculate", calcRegistry(), config.LLMConfig{})
	got, err := agent.Ask(context.Background(), "add")
	if err != nil {
		t.Fatalf("Ask() error: %v", err)
	}
	if !strings.Contains(got, "4") {
		t.Errorf("Ask() = %q, want the calculator result", got)
	}
}

func TestAskIterationCap(t *testing.T) {
	loop := func([]providers.Message) (*providers.LLMResponse, error) {
		return &providers.LLMResponse{
			ToolCalls: []providers.ToolCall{{
				ID:        "again",
				Name:      "calculator",
				Arguments: map[string]any{"expression": "1 + 1"},
			}},
		}, nil
	}
	p := &scriptedProvider{steps: []func([]providers.Message) (*providers.LLMResponse, error){loop, loop, loop, loop}}

	agent := NewLLMAgent(p, "m", "", calcRegistry(), config.LLMConfig{MaxToolIterations: 3})
	_, err := agent.Ask(context.Background(), "loop forever")
	if err == nil {
		t.Fatal("Ask() should fail once the iteration cap is hit")
	}
	if !strings.Contains(err.Error(), "3") {
		t.Errorf("error %q should report the iteration cap", err)
	}
	if p.calls != 3 {
		t.Errorf("provider called %d times, want 3", p.calls)
	}
}

func TestDecisionRecordsOnSuccessOnly(t *testing.T) {
	cfg := config.DefaultConfig()
	mem := memory.NewContextMemory()

	failing := &scriptedProvider{steps: []func([]providers.Message) (*providers.LLMResponse, error){
		func([]providers.Message) (*providers.LLMResponse, error) {
			return nil, errors.New("backend down")
		},
	}}
	agent := NewDecisionAgent(failing, cfg, mem)
	got := agent.MakeWeatherDecision(context.Background(), "rainy", "busy afternoon")
	if !strings.HasPrefix(got, "❌") {
		t.Fatalf("MakeWeatherDecision() = %q, want an error reply", got)
	}
	if got := mem.Count(memory.TopicDecisions); got != 0 {
		t.Fatalf("failed decision recorded, count = %d", got)
	}

	working := &scriptedProvider{steps: []func([]providers.Message) (*providers.LLMResponse, error){
		func([]providers.Message) (*providers.LLMResponse, error) {
			return &providers.LLMResponse{Content: "move it indoors"}, nil
		},
	}}
	agent = NewDecisionAgent(working, cfg, mem)
	decision := agent.MakeWeatherDecision(context.Background(), "rainy", "busy afternoon")
	if !strings.Contains(decision, "move it indoors") {
		t.Errorf("decision = %q", decision)
	}
	if got := mem.Count(memory.TopicDecisions); got != 1 {
		t.Fatalf("decision count = %d, want 1", got)
	}

	records, ok := mem.Read(memory.TopicDecisions)
	if !ok || len(records) != 1 {
		t.Fatalf("Read() = %v, %v", records, ok)
	}
	if records[0].ProducingAgent != "DecisionBot" {
		t.Errorf("producing agent = %q", records[0].ProducingAgent)
	}
	if _, err := time.Parse("2006-01-02 15:04:05", records[0].Payload["timestamp"].(string)); err != nil {
		t.Errorf("timestamp not in canonical format: %v", err)
	}
}

func TestCalendarListingWinsOverCreation(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Calendar.TokenFile = "/nonexistent/token.json"
	mem := memory.NewContextMemory()
	cal := tools.NewCalendarTool(cfg.Calendar)

	// The provider must never be consulted: listing is deterministic.
	p := &scriptedProvider{steps: []func([]providers.Message) (*providers.LLMResponse, error){
		func([]providers.Message) (*providers.LLMResponse, error) {
			return nil, errors.New("should not be called")
		},
	}}

	agent := NewCalendarAgent(p, cfg, cal, mem)
	got := agent.ProcessCalendarRequest(context.Background(), "Schedule a meeting tomorrow")
	if p.calls != 0 {
		t.Fatalf("listing path consulted the model %d times", p.calls)
	}
	if !strings.Contains(got, "Google Calendar not connected") {
		t.Errorf("ProcessCalendarRequest() = %q, want setup guidance", got)
	}
}
