package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port           int
	DatabaseURL    string
	NatsURL        string
	NatsToken      string
	LogLevel       string
	APIToken       string
	SourcesPath    string
	DataDir        string
	LLMProvider    string // gemini | openai
	GeminiAPIKey   string
	GeminiModel    string
	OpenAIAPIKey   string
	OpenAIModel    string
	OpenAIBaseURL  string
	LLMMinInterval time.Duration
	SlackBotToken  string
	SlackChannel   string
}

func Load() Config {
	return Config{
		Port:           envInt("PROSORA_PORT", 8760),
		DatabaseURL:    envStr("DATABASE_URL", ""),
		NatsURL:        envStr("NATS_URL", "nats://localhost:4222"),
		NatsToken:      envStr("NATS_TOKEN", ""),
		LogLevel:       envStr("LOG_LEVEL", "info"),
		APIToken:       envStr("PROSORA_API_TOKEN", ""),
		SourcesPath:    envStr("PROSORA_SOURCES", "configs/prosora_sources.yaml"),
		DataDir:        envStr("PROSORA_DATA_DIR", "data"),
		LLMProvider:    envStr("LLM_PROVIDER", "gemini"),
		GeminiAPIKey:   envStr("GEMINI_API_KEY", ""),
		GeminiModel:    envStr("GEMINI_MODEL", "gemini-1.5-flash"),
		OpenAIAPIKey:   envStr("OPENAI_API_KEY", ""),
		OpenAIModel:    envStr("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:  envStr("OPENAI_BASE_URL", ""),
		LLMMinInterval: envDur("LLM_MIN_INTERVAL", 1500*time.Millisecond),
		SlackBotToken:  envStr("SLACK_BOT_TOKEN", ""),
		SlackChannel:   envStr("SLACK_REVIEW_CHANNEL", ""),
	}
}

// APIKey returns the key for the configured LLM provider.
func (c Config) APIKey() string {
	if c.LLMProvider == "openai" {
		return c.OpenAIAPIKey
	}
	return c.GeminiAPIKey
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDur(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
