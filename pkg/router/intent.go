package router

import (
	"regexp"
	"strings"
)

// Intent is the closed set of request classifications.
type Intent int

const (
	IntentHelp Intent = iota
	IntentServiceStatus
	IntentWeather
	IntentSocialBibleVerse
	IntentSocialTrends
	IntentSocialContent
	IntentSocialXStatus
	IntentEmailSend
	IntentEmailCompose
	IntentCalendarList
	IntentCalendarCreate
	IntentCalendarOther
	IntentDecision
	IntentDailySummary
	IntentContextQuery
	IntentReminderList
	IntentReminderCreate
	IntentFallback
)

func (i Intent) String() string {
	switch i {
	case IntentHelp:
		return "help"
	case IntentServiceStatus:
		return "service_status"
	case IntentWeather:
		return "weather"
	case IntentSocialBibleVerse:
		return "social_bible_verse"
	case IntentSocialTrends:
		return "social_trends"
	case IntentSocialContent:
		return "social_content"
	case IntentSocialXStatus:
		return "social_x_status"
	case IntentEmailSend:
		return "email_send"
	case IntentEmailCompose:
		return "email_compose"
	case IntentCalendarList:
		return "calendar_list"
	case IntentCalendarCreate:
		return "calendar_create"
	case IntentCalendarOther:
		return "calendar_other"
	case IntentDecision:
		return "decision"
	case IntentDailySummary:
		return "daily_summary"
	case IntentContextQuery:
		return "context_query"
	case IntentReminderList:
		return "reminder_list"
	case IntentReminderCreate:
		return "reminder_create"
	default:
		return "fallback"
	}
}

// Phrase sets, evaluated top to bottom. The order matters: the sets
// overlap (for example "post" appears in social phrasing and "event"
// in calendar phrasing), so the first set intersecting the lower-cased
// request decides the intent.
var (
	helpPhrases          = []string{"help", "what can you do", "commands"}
	statusPhrases        = []string{"check services", "service status", "status"}
	weatherPhrases       = []string{"weather", "temperature", "forecast", "rain", "sunny", "cloudy"}
	socialPhrases        = []string{"trends", "trending", "social media", "content", "post", "what's popular", "bible verse"}
	bibleVersePhrases    = []string{"post bible verse", "bible verse", "daily verse", "scripture"}
	trendPhrases         = []string{"trends", "trending", "popular"}
	contentPhrases       = []string{"content", "post", "create"}
	emailPhrases          = []string{"send email", "email", "compose email"}
	calendarPhrases       = []string{"calendar", "schedule", "meeting", "appointment", "event"}
	calendarListPhrases   = []string{"show", "list", "display", "events", "schedule"}
	calendarCreatePhrases = []string{"create", "schedule", "add", "meeting", "appointment"}
	decisionPhrases       = []string{"should i", "what do you recommend", "help me decide", "advice", "suggestion"}
	summaryPhrases        = []string{"daily summary", "daily briefing", "overview"}
	contextQueryPhrases   = []string{"remember", "recall", "context", "history"}
	reminderPhrases       = []string{"remind", "reminder", "remember"}
	reminderListPhrases   = []string{"show", "list"}
	xStatusPhrases        = []string{"x status", "twitter status"}
)

// sendEmailPattern is the literal send syntax handled deterministically
// by the router instead of the email specialist.
var sendEmailPattern = regexp.MustCompile(`(?i)to (.+?) with subject (.+?) and message (.+)`)

func matchAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

// Classify maps one sanitized request to exactly one intent by ordered
// first-match evaluation.
func Classify(request string) Intent {
	lower := strings.ToLower(request)

	switch {
	case matchAny(lower, helpPhrases):
		return IntentHelp

	case matchAny(lower, statusPhrases):
		return IntentServiceStatus

	case matchAny(lower, weatherPhrases):
		return IntentWeather

	case matchAny(lower, socialPhrases):
		switch {
		case matchAny(lower, bibleVersePhrases):
			return IntentSocialBibleVerse
		case matchAny(lower, trendPhrases):
			return IntentSocialTrends
		case matchAny(lower, contentPhrases):
			return IntentSocialContent
		case matchAny(lower, xStatusPhrases):
			return IntentSocialXStatus
		default:
			return IntentSocialTrends
		}

	case matchAny(lower, emailPhrases):
		if sendEmailPattern.MatchString(request) {
			return IntentEmailSend
		}
		return IntentEmailCompose

	case matchAny(lower, calendarPhrases):
		// Read-only phrasing wins when both listing and creation
		// words appear.
		if matchAny(lower, calendarListPhrases) {
			return IntentCalendarList
		}
		if matchAny(lower, calendarCreatePhrases) {
			return IntentCalendarCreate
		}
		return IntentCalendarOther

	case matchAny(lower, decisionPhrases):
		return IntentDecision

	case matchAny(lower, summaryPhrases):
		return IntentDailySummary

	case matchAny(lower, contextQueryPhrases):
		return IntentContextQuery

	case matchAny(lower, reminderPhrases):
		if matchAny(lower, reminderListPhrases) {
			return IntentReminderList
		}
		return IntentReminderCreate

	default:
		return IntentFallback
	}
}
