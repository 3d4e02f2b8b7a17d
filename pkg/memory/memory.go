// Package memory holds the session-scoped context log written by the
// specialist agents and consulted for summaries and recall.
package memory

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Well-known topics. Agents may introduce new topics freely; these are
// the ones the built-in agents write.
const (
	TopicWeatherAnalysis   = "weather_analysis"
	TopicCalendarConflicts = "calendar_conflicts"
	TopicDecisions         = "decisions"
	TopicSocialTrends      = "social_trends"
	TopicSentEmails        = "sent_emails"
)

// Record is one entry in the context log. Records are appended by
// specialist agents on success and never mutated or removed afterwards.
type Record struct {
	ID             string
	Topic          string
	Payload        map[string]any
	ProducingAgent string
	CreatedAt      time.Time
}

// TopicSummary describes one topic for summaries and recall output.
type TopicSummary struct {
	Topic  string
	Count  int
	Latest time.Time
}

// ContextMemory is an append-only, topic-keyed log with process
// lifetime. Growth is unbounded within a session. Safe for concurrent
// use, though a session processes one request at a time.
type ContextMemory struct {
	mu     sync.RWMutex
	topics map[string][]Record
	now    func() time.Time
}

func NewContextMemory() *ContextMemory {
	return &ContextMemory{
		topics: make(map[string][]Record),
		now:    time.Now,
	}
}

// Append stores a record under topic, creating the topic on first use.
// Returns the stored record with ID and CreatedAt filled in.
func (m *ContextMemory) Append(topic, producingAgent string, payload map[string]any) Record {
	rec := Record{
		ID:             uuid.NewString(),
		Topic:          topic,
		Payload:        payload,
		ProducingAgent: producingAgent,
		CreatedAt:      m.now(),
	}

	m.mu.Lock()
	m.topics[topic] = append(m.topics[topic], rec)
	m.mu.Unlock()

	return rec
}

// Read returns the topic's records in append order. The second return
// is false when the topic has never been written.
func (m *ContextMemory) Read(topic string) ([]Record, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	recs, ok := m.topics[topic]
	if !ok {
		return nil, false
	}
	out := make([]Record, len(recs))
	copy(out, recs)
	return out, true
}

// Count returns the number of records under topic, zero for unknown
// topics.
func (m *ContextMemory) Count(topic string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.topics[topic])
}

// Topics returns all topic keys in sorted order.
func (m *ContextMemory) Topics() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.topics))
	for k := range m.topics {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Summarize reports per-topic counts and most recent timestamps,
// sorted by topic key.
func (m *ContextMemory) Summarize() []TopicSummary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]TopicSummary, 0, len(m.topics))
	for topic, recs := range m.topics {
		s := TopicSummary{Topic: topic, Count: len(recs)}
		if len(recs) > 0 {
			s.Latest = recs[len(recs)-1].CreatedAt
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Topic < out[j].Topic })
	return out
}

// Digest renders the summary as "topic: N items" lines for prompt
// context. Returns an empty-state message when nothing is stored.
func (m *ContextMemory) Digest() string {
	summaries := m.Summarize()
	if len(summaries) == 0 {
		return "No context stored yet."
	}

	lines := make([]string, 0, len(summaries))
	for _, s := range summaries {
		lines = append(lines, fmt.Sprintf("%s: %d items", s.Topic, s.Count))
	}
	return strings.Join(lines, "\n")
}
