package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

type LLMConfig struct {
	Provider          string  `json:"provider" env:"BUDDY_LLM_PROVIDER"` // "", "openai", "anthropic"
	Model             string  `json:"model" env:"BUDDY_LLM_MODEL"`
	OpenAIAPIKey      string  `json:"openai_api_key" env:"OPENAI_API_KEY"`
	AnthropicAPIKey   string  `json:"anthropic_api_key" env:"ANTHROPIC_API_KEY"`
	BaseURL           string  `json:"base_url" env:"BUDDY_LLM_BASE_URL"`
	TimeoutSeconds    int     `json:"timeout_seconds" env:"BUDDY_LLM_TIMEOUT_SECONDS"`
	MaxTokens         int     `json:"max_tokens" env:"BUDDY_LLM_MAX_TOKENS"`
	Temperature       float64 `json:"temperature" env:"BUDDY_LLM_TEMPERATURE"`
	MaxToolIterations int     `json:"max_tool_iterations" env:"BUDDY_LLM_MAX_TOOL_ITERATIONS"`
}

type WeatherConfig struct {
	APIKey      string `json:"api_key" env:"WEATHER_API_KEY"`
	DefaultCity string `json:"default_city" env:"DEFAULT_CITY"`
	BaseURL     string `json:"base_url" env:"BUDDY_WEATHER_BASE_URL"`
}

type EmailConfig struct {
	Address     string `json:"address" env:"GMAIL_EMAIL"`
	AppPassword string `json:"app_password" env:"GMAIL_APP_PASSWORD"`
	SMTPHost    string `json:"smtp_host" env:"BUDDY_SMTP_HOST"`
	SMTPPort    int    `json:"smtp_port" env:"BUDDY_SMTP_PORT"`
}

type XConfig struct {
	APIKey            string `json:"api_key" env:"X_API_KEY"`
	APISecret         string `json:"api_secret" env:"X_API_SECRET"`
	AccessToken       string `json:"access_token" env:"X_ACCESS_TOKEN"`
	AccessTokenSecret string `json:"access_token_secret" env:"X_ACCESS_TOKEN_SECRET"`
	BaseURL           string `json:"base_url" env:"BUDDY_X_BASE_URL"`
}

type CalendarConfig struct {
	CredentialsFile string `json:"credentials_file" env:"BUDDY_CALENDAR_CREDENTIALS_FILE"`
	TokenFile       string `json:"token_file" env:"BUDDY_CALENDAR_TOKEN_FILE"`
	BaseURL         string `json:"base_url" env:"BUDDY_CALENDAR_BASE_URL"`
}

type BibleConfig struct {
	BaseURL string `json:"base_url" env:"BUDDY_BIBLE_BASE_URL"`
}

type SafetyConfig struct {
	MaxInputLength int `json:"max_input_length" env:"BUDDY_SAFETY_MAX_INPUT_LENGTH"`
}

type Config struct {
	Name     string         `json:"name" env:"BUDDY_NAME"`
	LLM      LLMConfig      `json:"llm"`
	Weather  WeatherConfig  `json:"weather"`
	Email    EmailConfig    `json:"email"`
	X        XConfig        `json:"x"`
	Calendar CalendarConfig `json:"calendar"`
	Bible    BibleConfig    `json:"bible"`
	Safety   SafetyConfig   `json:"safety"`
}

func DefaultConfig() *Config {
	return &Config{
		Name: "Buddy",
		LLM: LLMConfig{
			TimeoutSeconds:    120,
			MaxTokens:         4096,
			Temperature:       0,
			MaxToolIterations: 10,
		},
		Weather: WeatherConfig{
			DefaultCity: "New York",
			BaseURL:     "https://api.openweathermap.org/data/2.5",
		},
		Email: EmailConfig{
			SMTPHost: "smtp.gmail.com",
			SMTPPort: 587,
		},
		X: XConfig{
			BaseURL: "https://api.twitter.com/2",
		},
		Calendar: CalendarConfig{
			CredentialsFile: "~/.google_calendar_credentials.json",
			TokenFile:       "~/.google_calendar_token.json",
			BaseURL:         "https://www.googleapis.com/calendar/v3",
		},
		Bible: BibleConfig{
			BaseURL: "https://labs.bible.org/api",
		},
		Safety: SafetyConfig{
			MaxInputLength: 1000,
		},
	}
}

// LoadConfig reads the JSON config file at path (missing file is fine),
// then overlays environment variables on top.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func SaveConfig(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

// DefaultPath returns the standard config file location (~/.buddy/config.json).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.json"
	}
	return filepath.Join(home, ".buddy", "config.json")
}

// ExpandHome resolves a leading ~ in path against the user's home directory.
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if len(path) > 1 && path[1] == '/' {
		return home + path[1:]
	}
	return home
}
