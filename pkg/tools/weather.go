package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/buddyagent/buddy/pkg/config"
	"github.com/buddyagent/buddy/pkg/logger"
)

const weatherRequestTimeout = 10 * time.Second

// WeatherTool wraps the OpenWeatherMap current-conditions endpoint.
// Lookup never returns a Go error: every failure mode (missing key,
// unknown city, bad key, timeout, network) becomes a distinct
// user-facing message in the returned text.
type WeatherTool struct {
	cfg        config.WeatherConfig
	httpClient *http.Client
}

func NewWeatherTool(cfg config.WeatherConfig) *WeatherTool {
	return &WeatherTool{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: weatherRequestTimeout},
	}
}

func (t *WeatherTool) Name() string {
	return "get_weather"
}

func (t *WeatherTool) Description() string {
	return "Get current weather conditions for a city (temperature, conditions, humidity, wind)."
}

func (t *WeatherTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"city": map[string]any{
				"type":        "string",
				"description": "City name, e.g. 'Paris' or 'New York'.",
			},
		},
		"required": []string{"city"},
	}
}

func (t *WeatherTool) Execute(ctx context.Context, args map[string]any) *ToolResult {
	city, _ := args["city"].(string)
	if strings.TrimSpace(city) == "" {
		city = t.cfg.DefaultCity
	}
	return NewToolResult(t.Lookup(ctx, city))
}

// Configured reports whether a weather API key is present.
func (t *WeatherTool) Configured() bool {
	return t.cfg.APIKey != ""
}

type weatherResponse struct {
	Name    string `json:"name"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

func (t *WeatherTool) Lookup(ctx context.Context, city string) string {
	if t.cfg.APIKey == "" {
		return "❌ Weather service not configured. Set WEATHER_API_KEY to enable live weather lookups."
	}

	endpoint := fmt.Sprintf("%s/weather?q=%s&appid=%s&units=metric",
		strings.TrimRight(t.cfg.BaseURL, "/"),
		url.QueryEscape(city),
		url.QueryEscape(t.cfg.APIKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Sprintf("❌ Weather lookup failed: %v", err)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
			return fmt.Sprintf("❌ Weather lookup for %s timed out. Please try again.", city)
		}
		logger.WarnCF("weather", "request failed", map[string]any{"city": city, "error": err.Error()})
		return fmt.Sprintf("❌ Weather lookup for %s failed: network error.", city)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusNotFound:
		return fmt.Sprintf("❌ City %q not found. Please check the spelling.", city)
	case http.StatusUnauthorized:
		return "❌ Weather API authentication failed. Please check WEATHER_API_KEY."
	default:
		return fmt.Sprintf("❌ Weather service returned HTTP %d for %s.", resp.StatusCode, city)
	}

	var data weatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return fmt.Sprintf("❌ Weather service returned an unreadable response for %s.", city)
	}

	conditions := "unknown"
	if len(data.Weather) > 0 {
		conditions = data.Weather[0].Description
	}

	return fmt.Sprintf(
		"🌤️ Weather in %s:\n• Conditions: %s\n• Temperature: %.1f°C (feels like %.1f°C)\n• Humidity: %d%%\n• Wind: %.1f m/s",
		data.Name, conditions, data.Main.Temp, data.Main.FeelsLike, data.Main.Humidity, data.Wind.Speed)
}
