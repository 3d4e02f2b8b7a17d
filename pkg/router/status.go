package router

import (
	"context"
	"fmt"
	"strings"
)

// ServiceStatus reports per-capability availability, recomputed from
// configuration on every call.
type ServiceStatus struct {
	AI       bool
	Weather  bool
	Email    bool
	X        bool
	Calendar bool
}

func (a *Assistant) serviceStatus() ServiceStatus {
	return ServiceStatus{
		AI:       a.cfg.LLM.OpenAIAPIKey != "" || a.cfg.LLM.AnthropicAPIKey != "",
		Weather:  a.weatherTool.Configured(),
		Email:    a.emailTool.Configured(),
		X:        a.xTool.Configured(),
		Calendar: a.calTool.Configured(),
	}
}

// GetServiceStatus renders the availability report with remediation
// guidance for anything not configured.
func (a *Assistant) GetServiceStatus() string {
	status := a.serviceStatus()

	var b strings.Builder
	b.WriteString("🔧 Service Status Report:\n\n")

	report := func(name string, available bool, remediation string) {
		if available {
			fmt.Fprintf(&b, "✅ %s: Ready and configured\n", name)
			return
		}
		fmt.Fprintf(&b, "❌ %s: Not configured\n", name)
		fmt.Fprintf(&b, "   → %s\n", remediation)
	}

	report("AI", status.AI, "Add OPENAI_API_KEY or ANTHROPIC_API_KEY")
	report("Weather", status.Weather, "Add WEATHER_API_KEY for enhanced weather features")
	report("Email", status.Email, "Add GMAIL_EMAIL and GMAIL_APP_PASSWORD")
	report("X", status.X, "Add X_API_KEY, X_API_SECRET, X_ACCESS_TOKEN and X_ACCESS_TOKEN_SECRET")
	report("Calendar", status.Calendar, "Connect Google Calendar (see 'help' for setup)")

	b.WriteString("\n🤖 Multi-Agent System Status:\n")
	for _, s := range []struct {
		role   string
		name   string
		active bool
	}{
		{"Weather", "WeatherBot", a.weatherAgent != nil},
		{"Calendar", "CalendarBot", a.calendarAgent != nil},
		{"Email", "EmailBot", a.emailAgent != nil},
		{"Decision", "DecisionBot", a.decisionAgent != nil},
		{"Social", "SocialBot", a.socialAgent != nil},
	} {
		if s.active {
			fmt.Fprintf(&b, "   ✅ %s Agent (%s): Active\n", s.role, s.name)
		} else {
			fmt.Fprintf(&b, "   ❌ %s Agent (%s): Inactive (AI not configured)\n", s.role, s.name)
		}
	}

	fmt.Fprintf(&b, "\n🧠 Context Memory: %d active contexts\n", len(a.mem.Topics()))
	fmt.Fprintf(&b, "📊 Decisions recorded: %d\n", a.mem.Count("decisions"))

	return b.String()
}

// ShowHelp returns the static capability listing.
func (a *Assistant) ShowHelp() string {
	return fmt.Sprintf(`🤖 Hi! I'm %s, your AI assistant with multi-agent capabilities!

🚀 **Multi-Agent System Features**:
   • Weather Agent - Advanced weather analysis and activity recommendations
   • Calendar Agent - Intelligent scheduling and conflict detection
   • Email Agent - Contextual email composition and management
   • Decision Agent - Cross-domain reasoning and smart recommendations
   • Social Media Agent - Content creation and trend analysis

🧮 **Built-in Tools**:
   • Calculator - "What's 15 * 23?"
   • Weather - "What's the weather in Paris?"
   • Bible Verses - "Get a Bible verse" or "Post a Bible verse"
   • X (Twitter) - "Post to X" or "Check X status"
   • Google Calendar - "Create event", "Show events"

📝 **Reminders**:
   • "Remind me to call mom tomorrow"
   • "Create a reminder to buy groceries"
   • "Show my reminders"

📅 **Calendar**:
   • "Show my events" - View upcoming events
   • "Schedule a meeting tomorrow at 2 PM"

📧 **Email**:
   • "Help me write a professional email" - AI-powered composition
   • "Send email to friend@example.com with subject Hello and message How are you" - direct send

📱 **Social Media**:
   • "Post a Bible verse" - Get the daily verse and post it to X
   • "What's trending now?" - Current trend analysis
   • "Create content about AI" - Generate engaging posts

🧠 **Decisions & Summaries**:
   • "Should I reschedule my outdoor event?" - Multi-factor analysis
   • "Daily summary" - Briefing with weather, calendar and trends
   • "What do you remember about our conversations?" - Context recall

🔧 **System**:
   • "Check services" - See agent and service status
   • "Help" - Show this message

Just tell me what you need - I'll coordinate with my specialist agents to help!`, a.Name)
}

// generateDailySummary assembles weather, schedule, trends and context
// counts into one briefing. Sections that fail are skipped rather than
// failing the whole summary.
func (a *Assistant) generateDailySummary(ctx context.Context) string {
	var parts []string

	if a.weatherAgent != nil {
		if analysis, err := a.weatherAgent.AnalyzeWeatherImpact(ctx, a.cfg.Weather.DefaultCity); err == nil {
			parts = append(parts, "🌤️ Weather Update:\n"+analysis)
		}
	}

	if n := len(a.events); n > 0 {
		parts = append(parts, fmt.Sprintf("📅 Today's Schedule:\n%d events planned", n))
	}

	if a.socialAgent != nil {
		trends := a.socialAgent.AnalyzeTrends(ctx)
		if !strings.HasPrefix(trends, "❌") {
			parts = append(parts, "📱 Current Trends:\n"+trends)
		} else {
			parts = append(parts, "📱 Trends: Unable to fetch current trends")
		}
	}

	parts = append(parts, fmt.Sprintf("🧠 Context Memory: %d active contexts", len(a.mem.Topics())))

	divider := strings.Repeat("=", 60)
	return fmt.Sprintf("🌅 Daily Summary - %s\n%s\n\n%s\n\n%s\n📊 Summary generated at: %s",
		a.now().Format("Monday, January 2, 2006"),
		divider,
		strings.Join(parts, "\n\n"),
		divider,
		a.now().Format("2006-01-02 15:04:05"))
}
