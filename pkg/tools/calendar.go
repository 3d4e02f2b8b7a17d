package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/buddyagent/buddy/pkg/config"
	"github.com/buddyagent/buddy/pkg/logger"
)

const calendarRequestTimeout = 15 * time.Second

// CalendarTool manages events on the user's primary Google Calendar.
// Authentication uses a stored OAuth2 token; when credentials or token
// are missing every operation returns setup guidance instead of an
// error.
type CalendarTool struct {
	cfg        config.CalendarConfig
	httpClient *http.Client // overrides the oauth2 client when set, for tests
	now        func() time.Time
}

func NewCalendarTool(cfg config.CalendarConfig) *CalendarTool {
	return &CalendarTool{cfg: cfg, now: time.Now}
}

// CalendarEvent is the subset of the Google Calendar event resource
// this tool reads and writes.
type CalendarEvent struct {
	ID          string             `json:"id,omitempty"`
	Summary     string             `json:"summary,omitempty"`
	Description string             `json:"description,omitempty"`
	Location    string             `json:"location,omitempty"`
	Start       *calendarEventTime `json:"start,omitempty"`
	End         *calendarEventTime `json:"end,omitempty"`
	Attendees   []calendarAttendee `json:"attendees,omitempty"`
	HTMLLink    string             `json:"htmlLink,omitempty"`
}

type calendarEventTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

type calendarAttendee struct {
	Email string `json:"email"`
}

// Configured reports whether a stored token exists.
func (t *CalendarTool) Configured() bool {
	if t.httpClient != nil {
		return true
	}
	_, err := os.Stat(config.ExpandHome(t.cfg.TokenFile))
	return err == nil
}

func (t *CalendarTool) setupText() string {
	return fmt.Sprintf("❌ Google Calendar not connected.\n\nTo enable calendar integration:\n1. Go to https://console.cloud.google.com/ and enable the Google Calendar API\n2. Create an OAuth 2.0 Client ID and save it as %s\n3. Complete the authorization flow so the token is stored at %s",
		t.cfg.CredentialsFile, t.cfg.TokenFile)
}

// client builds an authenticated HTTP client from the stored
// credentials and token. Returns nil when setup is incomplete.
func (t *CalendarTool) client(ctx context.Context) *http.Client {
	if t.httpClient != nil {
		return t.httpClient
	}

	tokenData, err := os.ReadFile(config.ExpandHome(t.cfg.TokenFile))
	if err != nil {
		return nil
	}
	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		logger.WarnCF("calendar", "token file unreadable", map[string]any{"error": err.Error()})
		return nil
	}

	credData, err := os.ReadFile(config.ExpandHome(t.cfg.CredentialsFile))
	if err != nil {
		// No client secrets: the token still works until it expires.
		return oauth2.NewClient(ctx, oauth2.StaticTokenSource(&token))
	}

	var creds struct {
		Installed struct {
			ClientID     string `json:"client_id"`
			ClientSecret string `json:"client_secret"`
		} `json:"installed"`
	}
	if err := json.Unmarshal(credData, &creds); err != nil {
		return oauth2.NewClient(ctx, oauth2.StaticTokenSource(&token))
	}

	oc := &oauth2.Config{
		ClientID:     creds.Installed.ClientID,
		ClientSecret: creds.Installed.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{"https://www.googleapis.com/auth/calendar"},
	}
	return oc.Client(ctx, &token)
}

func (t *CalendarTool) doJSON(ctx context.Context, client *http.Client, method, path string, body any, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(data)
	}

	ctx, cancel := context.WithTimeout(ctx, calendarRequestTimeout)
	defer cancel()

	endpoint := strings.TrimRight(t.cfg.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, err
		}
	}
	return resp.StatusCode, nil
}

// CreateEvent inserts an event on the primary calendar. Times are ISO
// 8601 local datetimes; attendees is a comma separated email list.
func (t *CalendarTool) CreateEvent(ctx context.Context, title, startTime, endTime, description, location, attendees string) string {
	client := t.client(ctx)
	if client == nil {
		return t.setupText() + fmt.Sprintf("\n\n📅 Event details (not yet created):\nTitle: %s\nStart: %s\nEnd: %s", title, startTime, endTime)
	}

	event := CalendarEvent{
		Summary:     title,
		Description: description,
		Location:    location,
		Start:       &calendarEventTime{DateTime: startTime, TimeZone: "America/Los_Angeles"},
		End:         &calendarEventTime{DateTime: endTime, TimeZone: "America/Los_Angeles"},
	}
	for _, email := range strings.Split(attendees, ",") {
		if email = strings.TrimSpace(email); email != "" {
			event.Attendees = append(event.Attendees, calendarAttendee{Email: email})
		}
	}

	var created CalendarEvent
	status, err := t.doJSON(ctx, client, http.MethodPost, "/calendars/primary/events", event, &created)
	if err != nil {
		return fmt.Sprintf("❌ Error creating calendar event: %v\n\nEvent details:\n• Title: %s\n• Start: %s\n• End: %s", err, title, startTime, endTime)
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return "❌ Google Calendar authentication failed.\n\nPlease re-authorize: the stored token may have expired or been revoked."
	}
	if status < 200 || status >= 300 {
		return fmt.Sprintf("❌ Google Calendar API error: HTTP %d\n\nEvent details:\n• Title: %s\n• Start: %s\n• End: %s\n\nPlease check your API permissions and try again.", status, title, startTime, endTime)
	}

	attendeeText := attendees
	if attendeeText == "" {
		attendeeText = "None"
	}
	return fmt.Sprintf("✅ Calendar event created successfully!\n\n📅 Event Details:\n• Title: %s\n• Start: %s\n• End: %s\n• Description: %s\n• Location: %s\n• Attendees: %s\n\n🔗 Event ID: %s\n🌐 View in Calendar: %s\n\n🎉 Your event has been added to Google Calendar!",
		title, startTime, endTime, description, location, attendeeText, created.ID, created.HTMLLink)
}

// ListEvents returns the next daysAhead days of events (max 20).
func (t *CalendarTool) ListEvents(ctx context.Context, daysAhead int) string {
	if daysAhead <= 0 {
		daysAhead = 7
	}

	client := t.client(ctx)
	if client == nil {
		return t.setupText()
	}

	now := t.now().UTC()
	q := url.Values{}
	q.Set("timeMin", now.Format(time.RFC3339))
	q.Set("timeMax", now.AddDate(0, 0, daysAhead).Format(time.RFC3339))
	q.Set("maxResults", "20")
	q.Set("singleEvents", "true")
	q.Set("orderBy", "startTime")

	var listing struct {
		Items []CalendarEvent `json:"items"`
	}
	status, err := t.doJSON(ctx, client, http.MethodGet, "/calendars/primary/events?"+q.Encode(), nil, &listing)
	if err != nil {
		return fmt.Sprintf("❌ Error fetching calendar events: %v\n\nPlease try again.", err)
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return "❌ Google Calendar authentication failed.\n\nPlease re-authorize: the stored token may have expired or been revoked."
	}
	if status != http.StatusOK {
		return fmt.Sprintf("❌ Google Calendar API error: HTTP %d\n\nPlease check your API permissions and try again.", status)
	}

	if len(listing.Items) == 0 {
		return fmt.Sprintf("📅 No upcoming events found in the next %d days.\n\nYour calendar is clear! 🎉", daysAhead)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📅 Upcoming Events (Next %d days):\n\n", daysAhead)
	for i, ev := range listing.Items {
		title := ev.Summary
		if title == "" {
			title = "No Title"
		}
		fmt.Fprintf(&b, "%d. **%s**\n   ⏰ %s\n", i+1, title, formatEventTime(ev))
		if ev.Location != "" {
			fmt.Fprintf(&b, "   📍 %s\n", ev.Location)
		}
		if ev.Description != "" {
			desc := ev.Description
			if runeLen(desc) > 100 {
				desc = string([]rune(desc)[:100]) + "..."
			}
			fmt.Fprintf(&b, "   📝 %s\n", desc)
		}
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

// UpdateEvent patches the named fields of an existing event. Empty
// strings leave the field unchanged.
func (t *CalendarTool) UpdateEvent(ctx context.Context, eventID, title, startTime, endTime, description, location string) string {
	client := t.client(ctx)
	if client == nil {
		return t.setupText() + "\n\nEvent ID: " + eventID
	}

	path := "/calendars/primary/events/" + url.PathEscape(eventID)

	var existing CalendarEvent
	status, err := t.doJSON(ctx, client, http.MethodGet, path, nil, &existing)
	if err != nil {
		return fmt.Sprintf("❌ Error updating calendar event: %v\n\nEvent ID: %s", err, eventID)
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return "❌ Google Calendar authentication failed.\n\nEvent ID: " + eventID
	}
	if status != http.StatusOK {
		return fmt.Sprintf("❌ Google Calendar API error: HTTP %d\n\nEvent ID: %s\nPlease check the event ID and your permissions.", status, eventID)
	}

	if title != "" {
		existing.Summary = title
	}
	if startTime != "" {
		if existing.Start == nil {
			existing.Start = &calendarEventTime{}
		}
		existing.Start.DateTime = startTime
	}
	if endTime != "" {
		if existing.End == nil {
			existing.End = &calendarEventTime{}
		}
		existing.End.DateTime = endTime
	}
	if description != "" {
		existing.Description = description
	}
	if location != "" {
		existing.Location = location
	}

	var updated CalendarEvent
	status, err = t.doJSON(ctx, client, http.MethodPut, path, existing, &updated)
	if err != nil {
		return fmt.Sprintf("❌ Error updating calendar event: %v\n\nEvent ID: %s", err, eventID)
	}
	if status != http.StatusOK {
		return fmt.Sprintf("❌ Google Calendar API error: HTTP %d\n\nEvent ID: %s\nPlease check the event ID and your permissions.", status, eventID)
	}

	name := updated.Summary
	if name == "" {
		name = "No Title"
	}
	return fmt.Sprintf("✅ Calendar event updated successfully!\n\n📅 Event: %s\n🆔 Event ID: %s\n🔗 View: %s\n\n🎉 Your event has been updated in Google Calendar!",
		name, eventID, updated.HTMLLink)
}

// DeleteEvent removes an event from the primary calendar.
func (t *CalendarTool) DeleteEvent(ctx context.Context, eventID string) string {
	client := t.client(ctx)
	if client == nil {
		return t.setupText() + "\n\nEvent ID to delete: " + eventID
	}

	path := "/calendars/primary/events/" + url.PathEscape(eventID)
	status, err := t.doJSON(ctx, client, http.MethodDelete, path, nil, nil)
	if err != nil {
		return fmt.Sprintf("❌ Error deleting calendar event: %v\n\nEvent ID: %s", err, eventID)
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return "❌ Google Calendar authentication failed.\n\nEvent ID: " + eventID
	}
	if status != http.StatusNoContent && status != http.StatusOK {
		return fmt.Sprintf("❌ Google Calendar API error: HTTP %d\n\nEvent ID: %s\nPlease check the event ID and your permissions.", status, eventID)
	}

	return fmt.Sprintf("✅ Calendar event deleted successfully!\n\n🗑️ Event ID: %s\n\nThe event has been removed from your Google Calendar.", eventID)
}

func formatEventTime(ev CalendarEvent) string {
	if ev.Start == nil {
		return "unscheduled"
	}
	if ev.Start.Date != "" {
		return ev.Start.Date + " (All day)"
	}

	start, err1 := time.Parse(time.RFC3339, ev.Start.DateTime)
	var end time.Time
	var err2 error
	if ev.End != nil {
		end, err2 = time.Parse(time.RFC3339, ev.End.DateTime)
	}
	if err1 != nil || ev.End == nil || err2 != nil {
		endText := ""
		if ev.End != nil {
			endText = " - " + ev.End.DateTime
		}
		return ev.Start.DateTime + endText
	}
	return fmt.Sprintf("%s - %s", start.Format("2006-01-02 15:04"), end.Format("15:04"))
}
