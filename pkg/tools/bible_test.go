package tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/buddyagent/buddy/pkg/config"
)

func TestFormatVersePost_ShortVerse(t *testing.T) {
	post := FormatVersePost("Cast all your anxiety on him because he cares for you.", "1 Peter 5:7")

	if !strings.HasSuffix(post, postingHashtags) {
		t.Errorf("post missing hashtag suffix: %q", post)
	}
	if !strings.Contains(post, "1 Peter 5:7") {
		t.Errorf("post missing reference: %q", post)
	}
	if strings.Contains(post, "...") {
		t.Errorf("short verse should not be truncated: %q", post)
	}
	if n := runeLen(post); n > maxPostLength {
		t.Errorf("post length %d exceeds %d", n, maxPostLength)
	}
}

func TestFormatVersePost_LongVerseTruncatesBodyOnly(t *testing.T) {
	long := strings.Repeat("blessed are the peacemakers ", 20)
	ref := "Matthew 5:9"

	post := FormatVersePost(long, ref)

	if n := runeLen(post); n > maxPostLength {
		t.Fatalf("post length %d exceeds %d", n, maxPostLength)
	}
	if !strings.HasSuffix(post, postingHashtags) {
		t.Errorf("hashtag suffix was truncated: %q", post)
	}
	if !strings.Contains(post, "— "+ref) {
		t.Errorf("reference was truncated: %q", post)
	}
	if !strings.Contains(post, "...") {
		t.Errorf("truncated body missing ellipsis marker: %q", post)
	}
}

func TestFormatVersePost_BoundaryLengths(t *testing.T) {
	// Any body length must keep the total within the limit with the
	// suffix intact.
	for n := 150; n <= 400; n += 25 {
		body := strings.Repeat("x", n)
		post := FormatVersePost(body, "John 3:16")
		if l := runeLen(post); l > maxPostLength {
			t.Errorf("body length %d: post length %d exceeds %d", n, l, maxPostLength)
		}
		if !strings.HasSuffix(post, postingHashtags) {
			t.Errorf("body length %d: suffix truncated", n)
		}
	}
}

func TestBibleTool_DailyVerse_APISuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"bookname":"John","chapter":"3","verse":"16","text":"For God so loved the world."}]`))
	}))
	defer srv.Close()

	tool := NewBibleTool(config.BibleConfig{BaseURL: srv.URL})
	got := tool.DailyVerse(context.Background())

	if !strings.Contains(got, "For God so loved the world.") {
		t.Errorf("verse text missing: %q", got)
	}
	if !strings.Contains(got, "John 3:16") {
		t.Errorf("reference missing: %q", got)
	}
	if !strings.Contains(got, "📖 Daily Bible Verse") {
		t.Errorf("header missing: %q", got)
	}
}

func TestBibleTool_DailyVerse_FallsBackWhenAPIDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	tool := NewBibleTool(config.BibleConfig{BaseURL: srv.URL})
	got := tool.DailyVerse(context.Background())

	// Must still produce a complete verse from the curated set.
	if !strings.Contains(got, "📖 Daily Bible Verse") || !strings.Contains(got, "—") {
		t.Errorf("fallback verse malformed: %q", got)
	}
}

func TestBibleTool_FallbackStableWithinDay(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	tool := NewBibleTool(config.BibleConfig{BaseURL: srv.URL})

	first := tool.VerseForPosting(context.Background())
	second := tool.VerseForPosting(context.Background())
	if first != second {
		t.Errorf("fallback verse changed within a day:\n%q\n%q", first, second)
	}
}
