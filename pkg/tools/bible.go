package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/buddyagent/buddy/pkg/config"
	"github.com/buddyagent/buddy/pkg/logger"
)

const (
	bibleRequestTimeout = 10 * time.Second
	postingHashtags     = "#BibleVerse #Faith #Inspiration"
	maxPostLength       = 280
)

type verse struct {
	Text      string
	Reference string
}

// curatedVerses is the offline fallback, indexed by day of year so the
// selection stays stable within a calendar day.
var curatedVerses = []verse{
	{"For I know the plans I have for you, declares the Lord, plans for welfare and not for evil, to give you a future and a hope.", "Jeremiah 29:11"},
	{"Trust in the Lord with all your heart, and do not lean on your own understanding. In all your ways acknowledge him, and he will make straight your paths.", "Proverbs 3:5-6"},
	{"And we know that for those who love God all things work together for good, for those who are called according to his purpose.", "Romans 8:28"},
	{"Be strong and courageous. Do not fear or be in dread of them, for it is the Lord your God who goes with you. He will not leave you or forsake you.", "Deuteronomy 31:6"},
	{"The Lord is my shepherd; I shall not want. He makes me lie down in green pastures. He leads me beside still waters.", "Psalm 23:1-2"},
	{"Have I not commanded you? Be strong and courageous. Do not be frightened, and do not be dismayed, for the Lord your God is with you wherever you go.", "Joshua 1:9"},
	{"But those who hope in the Lord will renew their strength. They will soar on wings like eagles; they will run and not grow weary, they will walk and not be faint.", "Isaiah 40:31"},
	{"And my God will meet all your needs according to the riches of his glory in Christ Jesus.", "Philippians 4:19"},
	{"Cast all your anxiety on him because he cares for you.", "1 Peter 5:7"},
	{"For God so loved the world that he gave his one and only Son, that whoever believes in him shall not perish but have eternal life.", "John 3:16"},
}

// BibleTool serves the verse of the day, preferring the labs.bible.org
// API and falling back to the curated collection when the network is
// unavailable. Both entry points always return usable text.
type BibleTool struct {
	cfg        config.BibleConfig
	httpClient *http.Client
	now        func() time.Time
}

func NewBibleTool(cfg config.BibleConfig) *BibleTool {
	return &BibleTool{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: bibleRequestTimeout},
		now:        time.Now,
	}
}

func (t *BibleTool) Name() string {
	return "get_daily_bible_verse"
}

func (t *BibleTool) Description() string {
	return "Get the daily Bible verse with reference and an inspirational message."
}

func (t *BibleTool) Parameters() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}

func (t *BibleTool) Execute(ctx context.Context, args map[string]any) *ToolResult {
	return NewToolResult(t.DailyVerse(ctx))
}

type votdEntry struct {
	BookName string `json:"bookname"`
	Chapter  string `json:"chapter"`
	Verse    string `json:"verse"`
	Text     string `json:"text"`
}

func (t *BibleTool) fetchVerse(ctx context.Context) verse {
	endpoint := strings.TrimRight(t.cfg.BaseURL, "/") + "/?passage=votd&type=json"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err == nil {
		resp, doErr := t.httpClient.Do(req)
		if doErr == nil {
			defer resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				var entries []votdEntry
				if decErr := json.NewDecoder(resp.Body).Decode(&entries); decErr == nil && len(entries) > 0 {
					e := entries[0]
					text := strings.TrimSpace(e.Text)
					if text != "" {
						return verse{
							Text:      text,
							Reference: fmt.Sprintf("%s %s:%s", e.BookName, e.Chapter, e.Verse),
						}
					}
				}
			}
		} else {
			logger.DebugCF("bible", "votd fetch failed, using curated verse", map[string]any{"error": doErr.Error()})
		}
	}

	day := t.now().YearDay()
	return curatedVerses[day%len(curatedVerses)]
}

// DailyVerse returns the fully formatted verse of the day.
func (t *BibleTool) DailyVerse(ctx context.Context) string {
	v := t.fetchVerse(ctx)
	return fmt.Sprintf("📖 Daily Bible Verse\n\n%q\n\n— %s\n\n🙏 May this verse bring you peace, strength, and inspiration today.\n\n📅 %s",
		v.Text, v.Reference, t.now().Format("Monday, January 2, 2006"))
}

// VerseForPosting returns the verse formatted for X. The combined post
// never exceeds 280 characters; when trimming is needed only the verse
// body shrinks, never the reference or the hashtag line.
func (t *BibleTool) VerseForPosting(ctx context.Context) string {
	v := t.fetchVerse(ctx)
	return FormatVersePost(v.Text, v.Reference)
}

// FormatVersePost builds the social post for a verse, enforcing the
// 280-character limit by truncating the verse body only.
func FormatVersePost(text, reference string) string {
	build := func(body string) string {
		return fmt.Sprintf("%q — %s\n\n%s", body, reference, postingHashtags)
	}

	post := build(text)
	if runeLen(post) <= maxPostLength {
		return post
	}

	overhead := runeLen(build("")) + runeLen("...")
	budget := maxPostLength - overhead
	if budget < 0 {
		budget = 0
	}
	body := string([]rune(text)[:budget]) + "..."
	return build(body)
}

func runeLen(s string) int {
	return len([]rune(s))
}
