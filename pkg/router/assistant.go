// Package router classifies sanitized requests into intents and
// dispatches them to deterministic handlers or specialist agents. It
// owns the session state: context memory, reminders, in-memory events
// and the specialist roster.
package router

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/buddyagent/buddy/pkg/agents"
	"github.com/buddyagent/buddy/pkg/config"
	"github.com/buddyagent/buddy/pkg/logger"
	"github.com/buddyagent/buddy/pkg/memory"
	"github.com/buddyagent/buddy/pkg/providers"
	"github.com/buddyagent/buddy/pkg/tools"
)

const coordinatorPrompt = `You are an AI assistant that coordinates with specialized agents.
You have access to calculator, weather, Bible verse, X posting and calendar tools.
Use the get_weather tool for real-time weather data, get_daily_bible_verse for daily inspiration,
and post_to_x for social media posting.
When users ask complex questions, break them down and use the appropriate tools.
Provide comprehensive, contextual responses that consider multiple factors.`

const aiNotConfiguredReply = "❌ AI service not configured. Please set OPENAI_API_KEY or ANTHROPIC_API_KEY."

// Reminder is a session-scoped note. Never updated or deleted once
// created.
type Reminder struct {
	ID        string
	Message   string
	Recipient string
	Created   string
}

// Event is the in-memory calendar entry used by the deterministic
// scheduling path (distinct from Google Calendar events).
type Event struct {
	ID          string
	Title       string
	Date        string
	Time        string
	Description string
	Created     string
}

// Assistant is one chat session: configuration snapshot, provider,
// context memory, specialist agents and the deterministic-handler
// state. Built once per session and processes one request at a time.
type Assistant struct {
	Name string

	cfg      *config.Config
	provider providers.LLMProvider
	mem      *memory.ContextMemory

	weatherAgent  *agents.WeatherAgent
	calendarAgent *agents.CalendarAgent
	emailAgent    *agents.EmailAgent
	decisionAgent *agents.DecisionAgent
	socialAgent   *agents.SocialAgent

	mainAgent *agents.LLMAgent

	weatherTool *tools.WeatherTool
	emailTool   *tools.EmailTool
	xTool       *tools.XTool
	bibleTool   *tools.BibleTool
	calTool     *tools.CalendarTool

	reminders []Reminder
	events    []Event

	now func() time.Time
}

// New builds a session from configuration. A missing LLM credential is
// not fatal: deterministic handlers keep working and model-dependent
// paths reply with remediation guidance.
func New(cfg *config.Config) *Assistant {
	provider, model, err := providers.CreateProvider(cfg)
	if err != nil {
		if !errors.Is(err, providers.ErrNotConfigured) {
			logger.ErrorCF("router", "provider init failed", map[string]any{"error": err.Error()})
		}
		provider = nil
	}
	return NewWithProvider(cfg, provider, model)
}

// NewWithProvider builds a session around an explicit provider. A nil
// provider disables the specialist agents and the model fallback.
func NewWithProvider(cfg *config.Config, provider providers.LLMProvider, model string) *Assistant {
	a := &Assistant{
		Name: cfg.Name,
		cfg:  cfg,
		mem:  memory.NewContextMemory(),
		now:  time.Now,
	}

	a.weatherTool = tools.NewWeatherTool(cfg.Weather)
	a.emailTool = tools.NewEmailTool(cfg.Email, cfg.Name)
	a.xTool = tools.NewXTool(cfg.X)
	a.bibleTool = tools.NewBibleTool(cfg.Bible)
	a.calTool = tools.NewCalendarTool(cfg.Calendar)

	if provider == nil {
		return a
	}
	a.provider = provider

	a.weatherAgent = agents.NewWeatherAgent(provider, cfg, a.mem)
	a.calendarAgent = agents.NewCalendarAgent(provider, cfg, a.calTool, a.mem)
	a.emailAgent = agents.NewEmailAgent(provider, cfg, a.emailTool.Configured)
	a.decisionAgent = agents.NewDecisionAgent(provider, cfg, a.mem)
	a.socialAgent = agents.NewSocialAgent(provider, cfg, a.bibleTool, a.xTool, a.mem)

	registry := tools.NewRegistry()
	registry.Register(tools.NewCalculatorTool())
	registry.Register(a.weatherTool)
	registry.Register(a.bibleTool)
	registry.Register(a.xTool)
	a.mainAgent = agents.NewLLMAgent(provider, model, coordinatorPrompt, registry, cfg.LLM)

	logger.InfoCF("router", "assistant initialized",
		map[string]any{"name": cfg.Name, "tools": registry.Count(), "specialists": 5})
	return a
}

// Memory exposes the session's context memory.
func (a *Assistant) Memory() *memory.ContextMemory { return a.mem }

// ProcessRequest is the single entry point: it classifies the request
// and guarantees a reply string for every input. Panics from handlers
// are recovered here so one failed turn never ends the session.
func (a *Assistant) ProcessRequest(ctx context.Context, request string) (reply string) {
	defer func() {
		if r := recover(); r != nil {
			logger.ErrorCF("router", "handler panic", map[string]any{"panic": fmt.Sprint(r)})
			reply = fmt.Sprintf("❌ Sorry, something went wrong: %v", r)
		}
	}()

	intent := Classify(request)
	logger.DebugCF("router", "classified", map[string]any{"intent": intent.String()})

	switch intent {
	case IntentHelp:
		return a.ShowHelp()
	case IntentServiceStatus:
		return a.GetServiceStatus()
	case IntentWeather:
		return a.handleWeather(ctx, request)
	case IntentSocialBibleVerse:
		if a.socialAgent == nil {
			return aiNotConfiguredReply
		}
		return a.socialAgent.PostBibleVerse(ctx)
	case IntentSocialTrends:
		if a.socialAgent == nil {
			return aiNotConfiguredReply
		}
		return a.socialAgent.AnalyzeTrends(ctx)
	case IntentSocialContent:
		if a.socialAgent == nil {
			return aiNotConfiguredReply
		}
		return a.socialAgent.GenerateContent(ctx, contentTopic(request))
	case IntentSocialXStatus:
		return a.xTool.AccountInfo(ctx)
	case IntentEmailSend:
		return a.handleEmailSend(request)
	case IntentEmailCompose:
		if a.emailAgent == nil {
			return aiNotConfiguredReply
		}
		return a.emailAgent.ProcessEmailRequest(ctx, request, a.mem)
	case IntentCalendarList, IntentCalendarCreate, IntentCalendarOther:
		return a.handleCalendar(ctx, request, intent)
	case IntentDecision:
		if a.decisionAgent == nil {
			return aiNotConfiguredReply
		}
		return a.decisionAgent.Advise(ctx, request)
	case IntentDailySummary:
		return a.generateDailySummary(ctx)
	case IntentContextQuery:
		if a.decisionAgent == nil {
			return aiNotConfiguredReply
		}
		return a.decisionAgent.QueryContextMemory(ctx, request)
	case IntentReminderList:
		return a.listReminders()
	case IntentReminderCreate:
		return a.createReminder(extractReminderMessage(request), "yourself")
	default:
		return a.askMainAgent(ctx, request)
	}
}

func (a *Assistant) askMainAgent(ctx context.Context, request string) string {
	if a.mainAgent == nil {
		return aiNotConfiguredReply
	}
	answer, err := a.mainAgent.Ask(ctx, request)
	if err != nil {
		return fmt.Sprintf("❌ Assistant error: %v", err)
	}
	return answer
}

// --- weather ---

var cityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)weather in ([a-zA-Z\s]+)`),
	regexp.MustCompile(`(?i)weather for ([a-zA-Z\s]+)`),
	regexp.MustCompile(`(?i)forecast for ([a-zA-Z\s]+)`),
	regexp.MustCompile(`(?i)temperature in ([a-zA-Z\s]+)`),
}

func extractCity(request string) string {
	for _, p := range cityPatterns {
		if m := p.FindStringSubmatch(request); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

func (a *Assistant) handleWeather(ctx context.Context, request string) string {
	city := extractCity(request)
	if city == "" {
		city = a.cfg.Weather.DefaultCity
	}

	if a.weatherAgent == nil {
		// No model available, report raw conditions.
		return a.weatherTool.Lookup(ctx, city)
	}

	analysis, err := a.weatherAgent.AnalyzeWeatherImpact(ctx, city)
	if err != nil {
		logger.WarnCF("router", "weather analysis failed", map[string]any{"city": city, "error": err.Error()})
		return fmt.Sprintf("❌ Unable to analyze weather for %s. Please check your weather API configuration.", city)
	}
	return analysis
}

// --- social ---

func contentTopic(request string) string {
	topic := request
	topic = strings.ReplaceAll(topic, "create content about", "")
	topic = strings.ReplaceAll(topic, "post about", "")
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "general inspiration"
	}
	return topic
}

// --- email ---

func (a *Assistant) handleEmailSend(request string) string {
	if !a.emailTool.Configured() {
		return "📧 Email service not configured. Please set GMAIL_EMAIL and GMAIL_APP_PASSWORD."
	}

	m := sendEmailPattern.FindStringSubmatch(request)
	if m == nil {
		return "📧 Please provide the email in the format: 'Send email to [email] with subject [subject] and message [message]'."
	}

	to := strings.TrimSpace(m[1])
	subject := strings.TrimSpace(m[2])
	message := strings.TrimSpace(m[3])

	result := a.emailTool.Send(to, subject, message)
	if strings.HasPrefix(result, "✅") {
		a.mem.Append(memory.TopicSentEmails, "Router", map[string]any{
			"to":      to,
			"subject": subject,
			"message": message,
			"sent_at": a.now().Format("2006-01-02 15:04:05"),
		})
	}
	return result
}

// --- calendar ---

func (a *Assistant) handleCalendar(ctx context.Context, request string, intent Intent) string {
	if a.calendarAgent != nil {
		return a.calendarAgent.ProcessCalendarRequest(ctx, request)
	}

	// Without a model, fall back to the in-memory scheduling path.
	switch intent {
	case IntentCalendarList:
		if a.calTool.Configured() {
			return a.calTool.ListEvents(ctx, 7)
		}
		return a.listEvents()
	case IntentCalendarCreate:
		title, date, timeOfDay := extractEventDetails(request)
		return a.createEvent(title, date, timeOfDay, "")
	default:
		return a.calTool.ListEvents(ctx, 7)
	}
}

// --- reminders ---

func extractReminderMessage(request string) string {
	message := strings.ToLower(request)
	for _, phrase := range []string{"remind me to", "reminder to", "remember to", "remind me", "create a reminder"} {
		message = strings.ReplaceAll(message, phrase, "")
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return message
	}
	runes := []rune(message)
	return strings.ToUpper(string(runes[0])) + string(runes[1:])
}

func (a *Assistant) createReminder(message, recipient string) string {
	r := Reminder{
		ID:        fmt.Sprintf("reminder_%d", len(a.reminders)),
		Message:   message,
		Recipient: recipient,
		Created:   a.now().Format("2006-01-02 15:04"),
	}
	a.reminders = append(a.reminders, r)
	return fmt.Sprintf("📝 Reminder created: '%s' for %s", message, recipient)
}

func (a *Assistant) listReminders() string {
	if len(a.reminders) == 0 {
		return "📝 No reminders found."
	}

	var b strings.Builder
	b.WriteString("📝 Your reminders:\n")
	for i, r := range a.reminders {
		fmt.Fprintf(&b, "%d. %s (created: %s)\n", i+1, r.Message, r.Created)
	}
	return b.String()
}

// Reminders returns the session's reminders in creation order.
func (a *Assistant) Reminders() []Reminder {
	out := make([]Reminder, len(a.reminders))
	copy(out, a.reminders)
	return out
}

// --- in-memory events ---

var weekdayWords = []string{"today", "tomorrow", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

func extractEventDetails(request string) (title, date, timeOfDay string) {
	title = "Meeting"
	date = "Tomorrow"
	timeOfDay = "10:00 AM"

	words := strings.Fields(request)
	for i, word := range words {
		lower := strings.ToLower(word)
		if strings.Contains(lower, "am") || strings.Contains(lower, "pm") || strings.Contains(lower, ":") {
			if i > 0 {
				timeOfDay = words[i-1] + " " + word
			} else {
				timeOfDay = word
			}
			break
		}
	}

	for _, word := range words {
		lower := strings.ToLower(word)
		for _, day := range weekdayWords {
			if lower == day {
				date = strings.ToUpper(lower[:1]) + lower[1:]
				return title, date, timeOfDay
			}
		}
	}
	return title, date, timeOfDay
}

func (a *Assistant) createEvent(title, date, timeOfDay, description string) string {
	ev := Event{
		ID:          fmt.Sprintf("event_%d", len(a.events)),
		Title:       title,
		Date:        date,
		Time:        timeOfDay,
		Description: description,
		Created:     a.now().Format("2006-01-02 15:04"),
	}
	a.events = append(a.events, ev)
	return fmt.Sprintf("📅 Calendar event created: '%s' on %s at %s", title, date, timeOfDay)
}

func (a *Assistant) listEvents() string {
	if len(a.events) == 0 {
		return "📅 No events scheduled."
	}

	var b strings.Builder
	b.WriteString("📅 Your upcoming events:\n")
	for _, ev := range a.events {
		fmt.Fprintf(&b, "• %s - %s at %s\n", ev.Title, ev.Date, ev.Time)
		if ev.Description != "" {
			fmt.Fprintf(&b, "  Description: %s\n", ev.Description)
		}
	}
	return b.String()
}

// Events returns the session's in-memory events in creation order.
func (a *Assistant) Events() []Event {
	out := make([]Event, len(a.events))
	copy(out, a.events)
	return out
}
