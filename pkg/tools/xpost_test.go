package tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/buddyagent/buddy/pkg/config"
)

func configuredX(baseURL string) config.XConfig {
	return config.XConfig{
		APIKey:            "ck",
		APISecret:         "cs",
		AccessToken:       "at",
		AccessTokenSecret: "as",
		BaseURL:           baseURL,
	}
}

func TestXPost_FailsClosedWithoutCredentials(t *testing.T) {
	tool := NewXTool(config.XConfig{BaseURL: "http://localhost:0"})
	got := tool.Post(context.Background(), "hello")

	if !strings.HasPrefix(got, "❌") {
		t.Errorf("missing-credential post should fail closed, got %q", got)
	}
	for _, envVar := range []string{"X_API_KEY", "X_API_SECRET", "X_ACCESS_TOKEN", "X_ACCESS_TOKEN_SECRET"} {
		if !strings.Contains(got, envVar) {
			t.Errorf("setup text should name %s: %q", envVar, got)
		}
	}
	if !strings.Contains(got, "hello") {
		t.Errorf("setup text should echo the pending content: %q", got)
	}
}

func TestXPost_RejectsOverlongContent(t *testing.T) {
	tool := NewXTool(configuredX("http://localhost:0"))
	content := strings.Repeat("a", 281)

	got := tool.Post(context.Background(), content)
	if !strings.Contains(got, "too long") {
		t.Errorf("overlong content should be rejected locally: %q", got)
	}
	if !strings.Contains(got, "281") {
		t.Errorf("rejection should report the actual length: %q", got)
	}
}

func TestXPost_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "OAuth ") {
			t.Errorf("missing OAuth header, got %q", auth)
		}
		if !strings.Contains(auth, "oauth_signature=") {
			t.Error("authorization header missing signature")
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data":{"id":"12345"}}`))
	}))
	defer srv.Close()

	tool := NewXTool(configuredX(srv.URL))
	got := tool.Post(context.Background(), "hello world")

	if !strings.Contains(got, "✅ Successfully posted to X!") {
		t.Errorf("unexpected result: %q", got)
	}
	if !strings.Contains(got, "12345") {
		t.Errorf("result should carry the post id: %q", got)
	}
}

func TestXPost_StatusSpecificMessages(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{http.StatusBadRequest, "bad request"},
		{http.StatusUnauthorized, "authentication error"},
		{http.StatusForbidden, "forbidden"},
		{http.StatusTooManyRequests, "rate limit exceeded"},
		{http.StatusBadGateway, "HTTP 502"},
	}

	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			w.Write([]byte(`{"errors":[{"message":"nope"}]}`))
		}))

		tool := NewXTool(configuredX(srv.URL))
		got := tool.Post(context.Background(), "content")
		srv.Close()

		if !strings.Contains(got, tt.want) {
			t.Errorf("status %d: got %q, want substring %q", tt.status, got, tt.want)
		}
	}
}

func TestXAccountInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"id":"9","name":"Test User","username":"testuser"}}`))
	}))
	defer srv.Close()

	tool := NewXTool(configuredX(srv.URL))
	got := tool.AccountInfo(context.Background())

	if !strings.Contains(got, "@testuser") || !strings.Contains(got, "Test User") {
		t.Errorf("account info incomplete: %q", got)
	}
}

func TestOAuthPercentEncode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"with space", "with%20space"},
		{"a~b-c_d.e", "a~b-c_d.e"},
		{"a+b&c=d", "a%2Bb%26c%3Dd"},
	}
	for _, tt := range tests {
		if got := percentEncode(tt.in); got != tt.want {
			t.Errorf("percentEncode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
