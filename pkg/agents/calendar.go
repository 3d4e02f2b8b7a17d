package agents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/buddyagent/buddy/pkg/config"
	"github.com/buddyagent/buddy/pkg/memory"
	"github.com/buddyagent/buddy/pkg/providers"
	"github.com/buddyagent/buddy/pkg/tools"
)

const calendarAgentPrompt = `You are a calendar and scheduling specialist agent with Google Calendar integration.
You can create, read, update, and delete calendar events using Google Calendar API.
Help with event management, conflict detection, and schedule optimization.`

var (
	calendarListWords   = []string{"show", "list", "display", "events", "schedule"}
	calendarCreateWords = []string{"create", "schedule", "add", "meeting", "appointment"}
)

// CalendarAgent handles scheduling requests: listing real calendar
// events, guiding event creation, and weather-conflict analysis.
type CalendarAgent struct {
	name     string
	llm      *LLMAgent
	calendar *tools.CalendarTool
	mem      *memory.ContextMemory
	now      func() time.Time
}

func NewCalendarAgent(provider providers.LLMProvider, cfg *config.Config, calendar *tools.CalendarTool, mem *memory.ContextMemory) *CalendarAgent {
	return &CalendarAgent{
		name:     "CalendarBot",
		llm:      NewLLMAgent(provider, cfg.LLM.Model, calendarAgentPrompt, nil, cfg.LLM),
		calendar: calendar,
		mem:      mem,
		now:      time.Now,
	}
}

func (a *CalendarAgent) Name() string { return a.name }

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// ProcessCalendarRequest dispatches on the request wording: listing
// wins over creation when both kinds of words appear.
func (a *CalendarAgent) ProcessCalendarRequest(ctx context.Context, request string) string {
	lower := strings.ToLower(request)

	if containsAny(lower, calendarListWords) {
		return a.calendar.ListEvents(ctx, 7)
	}

	if containsAny(lower, calendarCreateWords) {
		query := fmt.Sprintf(`Extract event details from this request: %s

Provide the following information:
- Title: [event title]
- Start time: [YYYY-MM-DDTHH:MM:SS format]
- End time: [YYYY-MM-DDTHH:MM:SS format]
- Description: [optional description]
- Location: [optional location]

If specific times aren't provided, suggest reasonable defaults.`, request)

		analysis, err := a.llm.Ask(ctx, query)
		if err != nil {
			return fmt.Sprintf("❌ Calendar processing error: %v", err)
		}

		return fmt.Sprintf(`🤖 AI Analysis of Calendar Request:
%s

💡 To create this event in Google Calendar, please provide:
• Event title
• Start time (YYYY-MM-DDTHH:MM:SS format)
• End time (YYYY-MM-DDTHH:MM:SS format)
• Description (optional)
• Location (optional)

Example: "Create event 'Team Meeting' from '2024-01-15T10:00:00' to '2024-01-15T11:00:00' with description 'Weekly team sync' at 'Conference Room A'"`, analysis)
	}

	query := fmt.Sprintf(`Process this calendar request and provide appropriate guidance:

Request: %s

Available Google Calendar actions:
- Create event
- List events
- Update event
- Delete event

Provide clear guidance on how to accomplish the user's request.`, request)

	guidance, err := a.llm.Ask(ctx, query)
	if err != nil {
		return fmt.Sprintf("❌ Calendar processing error: %v", err)
	}
	return "📅 Calendar Assistant:\n" + guidance
}

// CheckWeatherConflicts reviews upcoming events against a weather
// analysis and records the outcome on success.
func (a *CalendarAgent) CheckWeatherConflicts(ctx context.Context, weatherAnalysis string) string {
	events := a.calendar.ListEvents(ctx, 7)
	if strings.Contains(events, "No upcoming events") {
		return "📅 No calendar events to check for weather conflicts."
	}
	if weatherAnalysis == "" {
		weatherAnalysis = "Weather information not available"
	}

	query := fmt.Sprintf(`Analyze these calendar events for weather-related conflicts:

Events from Google Calendar:
%s

Weather Analysis:
%s

Identify any outdoor events that might be affected by weather conditions and suggest alternatives.`, events, weatherAnalysis)

	analysis, err := a.llm.Ask(ctx, query)
	if err != nil {
		return fmt.Sprintf("❌ Calendar conflict analysis error: %v", err)
	}

	a.mem.Append(memory.TopicCalendarConflicts, a.name, map[string]any{
		"analysis":      analysis,
		"events_source": "Google Calendar",
		"timestamp":     timestamp(a.now()),
	})
	return "📅 Calendar Conflict Analysis:\n" + analysis
}
