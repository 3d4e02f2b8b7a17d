package tools

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/buddyagent/buddy/pkg/config"
	"github.com/buddyagent/buddy/pkg/logger"
)

const (
	xPostTimeout = 30 * time.Second
	xInfoTimeout = 10 * time.Second
)

// XTool posts to X (Twitter) over the v2 API with OAuth 1.0a request
// signing. Posting fails closed: missing credentials or over-length
// content return explanatory text instead of attempting the request.
type XTool struct {
	cfg        config.XConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	now        func() time.Time
}

func NewXTool(cfg config.XConfig) *XTool {
	return &XTool{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: xPostTimeout},
		// X allows roughly 50 posts per hour on the basic tier.
		limiter: rate.NewLimiter(rate.Every(72*time.Second), 3),
		now:     time.Now,
	}
}

func (t *XTool) Name() string {
	return "post_to_x"
}

func (t *XTool) Description() string {
	return "Post content to X (Twitter). Content must be 280 characters or fewer."
}

func (t *XTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"content": map[string]any{
				"type":        "string",
				"description": "The text to post (max 280 characters).",
			},
		},
		"required": []string{"content"},
	}
}

func (t *XTool) Execute(ctx context.Context, args map[string]any) *ToolResult {
	content, _ := args["content"].(string)
	return NewToolResult(t.Post(ctx, content))
}

// Configured reports whether all four X credentials are present.
func (t *XTool) Configured() bool {
	return t.cfg.APIKey != "" && t.cfg.APISecret != "" &&
		t.cfg.AccessToken != "" && t.cfg.AccessTokenSecret != ""
}

func credentialSetupText(content string) string {
	var b strings.Builder
	b.WriteString("❌ X (Twitter) API credentials not configured.\n\n")
	b.WriteString("To enable X posting, please set these environment variables:\n")
	b.WriteString("• X_API_KEY\n• X_API_SECRET\n• X_ACCESS_TOKEN\n• X_ACCESS_TOKEN_SECRET\n\n")
	b.WriteString("Create an app at https://developer.twitter.com/ with \"Read and Write\" permissions to obtain them.")
	if content != "" {
		b.WriteString("\n\n📝 Content ready to post:\n")
		b.WriteString(content)
	}
	return b.String()
}

// Post publishes content to X. All failure modes return user-facing
// text; the error return of the HTTP layer never escapes.
func (t *XTool) Post(ctx context.Context, content string) string {
	if !t.Configured() {
		return credentialSetupText(content)
	}

	if n := runeLen(content); n > maxPostLength {
		return fmt.Sprintf("❌ Content too long for X posting.\n\nContent length: %d characters\nX limit: %d characters\n\n💡 Please shorten the content and try again.", n, maxPostLength)
	}

	if !t.limiter.Allow() {
		return "❌ X posting failed: local rate limit reached. Please wait a moment before posting again."
	}

	endpoint := strings.TrimRight(t.cfg.BaseURL, "/") + "/tweets"

	payload, err := json.Marshal(map[string]string{"text": content})
	if err != nil {
		return fmt.Sprintf("❌ X posting failed: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Sprintf("❌ X posting failed: %v", err)
	}
	req.Header.Set("Authorization", t.authorizationHeader(http.MethodPost, endpoint))
	req.Header.Set("Content-Type", "application/json")

	logger.InfoCF("x", "posting", map[string]any{"length": runeLen(content)})

	resp, err := t.httpClient.Do(req)
	if err != nil {
		if os.IsTimeout(err) || ctx.Err() == context.DeadlineExceeded {
			return "❌ X posting failed: request timeout.\n\nThe X API is taking too long to respond. Please try again."
		}
		return "❌ X posting failed: network error.\n\nPlease check your internet connection and try again."
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	switch resp.StatusCode {
	case http.StatusCreated:
		var parsed struct {
			Data struct {
				ID string `json:"id"`
			} `json:"data"`
		}
		tweetID := "unknown"
		if json.Unmarshal(body, &parsed) == nil && parsed.Data.ID != "" {
			tweetID = parsed.Data.ID
		}
		return fmt.Sprintf("✅ Successfully posted to X!\n\n📱 Post ID: %s\n🔗 URL: https://twitter.com/i/web/status/%s\n📝 Content: %s\n⏰ Posted at: %s\n\n🎉 Your post is now live on X!",
			tweetID, tweetID, content, t.now().Format("2006-01-02 15:04:05"))

	case http.StatusBadRequest:
		return fmt.Sprintf("❌ X posting failed: bad request.\n\n%s\n\n💡 Common issues: duplicate content, content that violates X policies, invalid formatting. Please modify your content and try again.",
			apiErrorSummary(body))

	case http.StatusUnauthorized:
		return "❌ X posting failed: authentication error.\n\nPlease check X_API_KEY, X_API_SECRET, X_ACCESS_TOKEN and X_ACCESS_TOKEN_SECRET, and make sure your X app has \"Read and Write\" permissions."

	case http.StatusForbidden:
		return "❌ X posting failed: forbidden.\n\nThe app may lack write permissions, the account may be restricted, or the content may violate X policies. Please check your X developer account settings."

	case http.StatusTooManyRequests:
		return "❌ X posting failed: rate limit exceeded.\n\nYou've reached the posting rate limit. Please wait before posting again."

	default:
		return fmt.Sprintf("❌ X posting failed: HTTP %d.\n\nPlease check the X API status and try again.", resp.StatusCode)
	}
}

// AccountInfo fetches details about the connected X account.
func (t *XTool) AccountInfo(ctx context.Context) string {
	if !t.Configured() {
		return credentialSetupText("")
	}

	endpoint := strings.TrimRight(t.cfg.BaseURL, "/") + "/users/me"

	ctx, cancel := context.WithTimeout(ctx, xInfoTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Sprintf("❌ Error fetching X account info: %v", err)
	}
	req.Header.Set("Authorization", t.authorizationHeader(http.MethodGet, endpoint))

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "❌ Error fetching X account info: network error. Please check your X API configuration."
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	if resp.StatusCode != http.StatusOK {
		return fmt.Sprintf("❌ Unable to fetch X account info (HTTP %d). Please check your X API credentials and app permissions.", resp.StatusCode)
	}

	var parsed struct {
		Data struct {
			ID       string `json:"id"`
			Name     string `json:"name"`
			Username string `json:"username"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "❌ Unable to fetch X account info: unreadable response."
	}

	return fmt.Sprintf("✅ X Account Connected\n\n👤 Username: @%s\n📝 Name: %s\n🆔 User ID: %s\n\n🔗 Profile: https://twitter.com/%s\n\n✅ Ready to post content to X!",
		parsed.Data.Username, parsed.Data.Name, parsed.Data.ID, parsed.Data.Username)
}

func apiErrorSummary(body []byte) string {
	var parsed struct {
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil {
		var msgs []string
		for _, e := range parsed.Errors {
			if e.Message != "" {
				msgs = append(msgs, e.Message)
			}
		}
		if len(msgs) > 0 {
			return "Errors: " + strings.Join(msgs, ", ")
		}
		if parsed.Detail != "" {
			return "Errors: " + parsed.Detail
		}
	}
	return "Errors: unknown error"
}

// authorizationHeader builds the OAuth 1.0a header for a request with
// no query or form parameters (the v2 endpoints take JSON bodies, which
// are excluded from the signature base string).
func (t *XTool) authorizationHeader(method, rawURL string) string {
	params := map[string]string{
		"oauth_consumer_key":     t.cfg.APIKey,
		"oauth_token":            t.cfg.AccessToken,
		"oauth_signature_method": "HMAC-SHA1",
		"oauth_timestamp":        fmt.Sprintf("%d", t.now().Unix()),
		"oauth_nonce":            oauthNonce(),
		"oauth_version":          "1.0",
	}
	params["oauth_signature"] = oauthSignature(method, rawURL, params, t.cfg.APISecret, t.cfg.AccessTokenSecret)

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%q", k, percentEncode(params[k])))
	}
	return "OAuth " + strings.Join(parts, ", ")
}

func oauthSignature(method, rawURL string, params map[string]string, consumerSecret, tokenSecret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+percentEncode(params[k]))
	}
	paramString := strings.Join(pairs, "&")

	baseString := method + "&" + percentEncode(rawURL) + "&" + percentEncode(paramString)
	signingKey := percentEncode(consumerSecret) + "&" + percentEncode(tokenSecret)

	mac := hmac.New(sha1.New, []byte(signingKey))
	mac.Write([]byte(baseString))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func oauthNonce() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}

// percentEncode applies the RFC 3986 encoding OAuth 1.0a requires,
// which differs from url.QueryEscape (spaces become %20, and ~ is
// left alone).
func percentEncode(s string) string {
	var b strings.Builder
	for _, c := range []byte(s) {
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9',
			c == '-', c == '.', c == '_', c == '~':
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}
