package router

import (
	"context"
	"errors"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buddyagent/buddy/pkg/config"
	"github.com/buddyagent/buddy/pkg/memory"
	"github.com/buddyagent/buddy/pkg/providers"
	"github.com/buddyagent/buddy/pkg/safety"
	"github.com/buddyagent/buddy/pkg/tools"
)

// fakeProvider replays scripted steps. A step can inspect the
// accumulated messages, which lets a script route tool results back
// into the final answer.
type fakeProvider struct {
	steps []func(messages []providers.Message) (*providers.LLMResponse, error)
	calls int
}

func (f *fakeProvider) Chat(ctx context.Context, messages []providers.Message, tools []providers.ToolDefinition, model string, options map[string]any) (*providers.LLMResponse, error) {
	if f.calls >= len(f.steps) {
		return &providers.LLMResponse{Content: "done", FinishReason: "stop"}, nil
	}
	step := f.steps[f.calls]
	f.calls++
	return step(messages)
}

func (f *fakeProvider) GetDefaultModel() string { return "fake-model" }

func textStep(content string) func([]providers.Message) (*providers.LLMResponse, error) {
	return func([]providers.Message) (*providers.LLMResponse, error) {
		return &providers.LLMResponse{Content: content, FinishReason: "stop"}, nil
	}
}

func errorStep(err error) func([]providers.Message) (*providers.LLMResponse, error) {
	return func([]providers.Message) (*providers.LLMResponse, error) {
		return nil, err
	}
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Calendar.TokenFile = "/nonexistent/token.json"
	cfg.Calendar.CredentialsFile = "/nonexistent/credentials.json"
	return cfg
}

func TestProcessRequest_CalculatorThroughToolLoop(t *testing.T) {
	fake := &fakeProvider{
		steps: []func([]providers.Message) (*providers.LLMResponse, error){
			// Ask for the calculator.
			func([]providers.Message) (*providers.LLMResponse, error) {
				return &providers.LLMResponse{
					ToolCalls: []providers.ToolCall{{
						ID:        "call_1",
						Name:      "calculator",
						Arguments: map[string]any{"expression": "15 * 23"},
					}},
					FinishReason: "tool_calls",
				}, nil
			},
			// Answer from the tool result.
			func(messages []providers.Message) (*providers.LLMResponse, error) {
				last := messages[len(messages)-1]
				if last.Role != "tool" {
					return nil, errors.New("expected tool result message")
				}
				return &providers.LLMResponse{Content: "15 * 23 = " + last.Content, FinishReason: "stop"}, nil
			},
		},
	}

	a := NewWithProvider(testConfig(), fake, "fake-model")
	reply := a.ProcessRequest(context.Background(), "What's 15 * 23?")

	assert.Contains(t, reply, "345")
}

func TestProcessRequest_ReminderCreateAndList(t *testing.T) {
	a := NewWithProvider(testConfig(), nil, "")

	reply := a.ProcessRequest(context.Background(), "Remind me to call mom tomorrow")
	assert.Contains(t, reply, "Call mom tomorrow")

	a.ProcessRequest(context.Background(), "Remind me to buy groceries")

	reminders := a.Reminders()
	require.Len(t, reminders, 2)
	assert.Equal(t, "reminder_0", reminders[0].ID)
	assert.Equal(t, "reminder_1", reminders[1].ID)
	assert.Equal(t, "Call mom tomorrow", reminders[0].Message)
	assert.Equal(t, "Buy groceries", reminders[1].Message)

	listing := a.ProcessRequest(context.Background(), "Show my reminders")
	assert.Contains(t, listing, "Call mom tomorrow")
	assert.Contains(t, listing, "Buy groceries")
}

func TestProcessRequest_ShowEventsWithoutCalendar(t *testing.T) {
	// No provider: deterministic in-memory path, must not panic.
	a := NewWithProvider(testConfig(), nil, "")
	reply := a.ProcessRequest(context.Background(), "Show my events")
	assert.Equal(t, "📅 No events scheduled.", reply)

	// With a model: the calendar specialist reports setup guidance
	// because no Google Calendar token exists.
	withModel := NewWithProvider(testConfig(), &fakeProvider{}, "fake-model")
	reply = withModel.ProcessRequest(context.Background(), "Show my events")
	assert.Contains(t, reply, "Google Calendar not connected")
	assert.NotContains(t, reply, "panic")
}

func TestProcessRequest_WeatherRecordsOnlyOnSuccess(t *testing.T) {
	cfg := testConfig()

	success := NewWithProvider(cfg, &fakeProvider{steps: []func([]providers.Message) (*providers.LLMResponse, error){
		textStep("Clear skies in Paris, great day for a walk."),
	}}, "fake-model")

	reply := success.ProcessRequest(context.Background(), "What's the weather in Paris?")
	assert.Contains(t, reply, "great day for a walk")
	assert.Equal(t, 1, success.Memory().Count(memory.TopicWeatherAnalysis))

	failure := NewWithProvider(cfg, &fakeProvider{steps: []func([]providers.Message) (*providers.LLMResponse, error){
		errorStep(errors.New("model unavailable")),
	}}, "fake-model")

	reply = failure.ProcessRequest(context.Background(), "What's the weather in Paris?")
	assert.Contains(t, reply, "❌ Unable to analyze weather for Paris")
	assert.Equal(t, 0, failure.Memory().Count(memory.TopicWeatherAnalysis),
		"failed analyses must not be recorded")
}

func TestProcessRequest_CityExtraction(t *testing.T) {
	tests := []struct {
		request string
		want    string
	}{
		{"What's the weather in Tokyo", "Tokyo"},
		{"weather for San Francisco", "San Francisco"},
		{"forecast for London", "London"},
		{"temperature in New Delhi", "New Delhi"},
		{"is it sunny", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, extractCity(tt.request), "request: %s", tt.request)
	}
}

func TestProcessRequest_EmailSend(t *testing.T) {
	a := NewWithProvider(testConfig(), nil, "")

	// Unconfigured: remediation, nothing recorded.
	reply := a.ProcessRequest(context.Background(), "Send email to a@b.com with subject Hi and message Hello")
	assert.Contains(t, reply, "Email service not configured")
	assert.Equal(t, 0, a.Memory().Count(memory.TopicSentEmails))

	// Configured with a failing transport: distinct auth message,
	// still nothing recorded.
	emailCfg := config.EmailConfig{Address: "me@example.com", AppPassword: "pw", SMTPHost: "smtp.example.com", SMTPPort: 587}
	a.emailTool = tools.NewEmailToolWithSender(emailCfg, "Buddy",
		func(string, smtp.Auth, string, []string, []byte) error {
			return tools.ErrSMTPAuth
		})
	reply = a.ProcessRequest(context.Background(), "Send email to a@b.com with subject Hi and message Hello")
	assert.Contains(t, reply, "authentication failed")
	assert.Equal(t, 0, a.Memory().Count(memory.TopicSentEmails))

	// Working transport: success reply and a sent_emails record.
	a.emailTool = tools.NewEmailToolWithSender(emailCfg, "Buddy",
		func(string, smtp.Auth, string, []string, []byte) error { return nil })
	reply = a.ProcessRequest(context.Background(), "Send email to a@b.com with subject Hi and message Hello")
	assert.Contains(t, reply, "✅ Email sent successfully")
	assert.Equal(t, 1, a.Memory().Count(memory.TopicSentEmails))
}

func TestGetServiceStatus_IdempotentAndNamesRemediation(t *testing.T) {
	a := NewWithProvider(testConfig(), nil, "")

	first := a.GetServiceStatus()
	second := a.GetServiceStatus()
	assert.Equal(t, first, second, "status report must not change between probes")

	for _, want := range []string{"OPENAI_API_KEY", "WEATHER_API_KEY", "GMAIL_EMAIL", "GMAIL_APP_PASSWORD"} {
		assert.Contains(t, first, want)
	}
}

func TestProcessRequest_AlwaysReplies(t *testing.T) {
	a := NewWithProvider(testConfig(), nil, "")

	for _, req := range []string{
		"help",
		"status",
		"Show my reminders",
		"Show my events",
		"daily summary",
		"tell me a joke",
		"what do you recall",
	} {
		reply := a.ProcessRequest(context.Background(), req)
		assert.NotEmpty(t, reply, "request %q must produce a reply", req)
	}
}

func TestUnsafeInputNeverReachesRouter(t *testing.T) {
	a := NewWithProvider(testConfig(), nil, "")
	gate := safety.NewGate(0)

	clean := gate.Sanitize("please delete all my calendar events")
	trigger, ok := gate.Check(clean)
	require.False(t, ok)
	assert.Equal(t, "delete", trigger)

	// The hosting loop stops here: the router is never invoked, so
	// session state stays untouched.
	assert.Empty(t, a.Memory().Topics())
	assert.Empty(t, a.Events())
}

func TestDailySummary_WithoutModel(t *testing.T) {
	a := NewWithProvider(testConfig(), nil, "")
	reply := a.ProcessRequest(context.Background(), "daily summary")

	assert.Contains(t, reply, "Daily Summary")
	assert.Contains(t, reply, "Context Memory")
}
