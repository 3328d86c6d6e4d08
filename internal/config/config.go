package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the configuration for the application.
type Config struct {
	DatabasePath string

	// LLM Config
	LLMProvider  string // "groq", "gemini" or "" for none
	GroqAPIKey   string
	GeminiAPIKey string

	DefaultLanguage string
	TurnTimeout     time.Duration
	LLMTimeout      time.Duration

	// HTTP Config
	HTTPPort string

	// Telegram Config (optional for the HTTP server, required for the bot)
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
	AdminTelegramID        int64
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	cfg := &Config{
		DatabasePath:       getEnv("CHEF_AGENT_DB_PATH", "data/chef-agent.db"),
		LLMProvider:        strings.ToLower(os.Getenv("LLM_PROVIDER")),
		GroqAPIKey:         os.Getenv("GROQ_API_KEY"),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		DefaultLanguage:    getEnv("DEFAULT_LANGUAGE", "en"),
		HTTPPort:           getEnv("PORT", "8080"),
		TelegramBotToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL: os.Getenv("TELEGRAM_WEBHOOK_URL"),
	}

	var err error
	if cfg.TurnTimeout, err = getDuration("TURN_TIMEOUT", 45*time.Second); err != nil {
		return nil, err
	}
	if cfg.LLMTimeout, err = getDuration("LLM_TIMEOUT", 20*time.Second); err != nil {
		return nil, err
	}

	switch cfg.LLMProvider {
	case "groq":
		if cfg.GroqAPIKey == "" {
			return nil, fmt.Errorf("GROQ_API_KEY environment variable not set")
		}
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
		}
	case "":
		// No model configured; the agent runs on deterministic extraction only.
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q (expected groq or gemini)", cfg.LLMProvider)
	}

	if admin := os.Getenv("ADMIN_TELEGRAM_ID"); admin != "" {
		id, err := strconv.ParseInt(admin, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_ID %q: %w", admin, err)
		}
		cfg.AdminTelegramID = id
	}

	if ids := os.Getenv("TELEGRAM_ALLOWED_USER_IDS"); ids != "" {
		for _, part := range strings.Split(ids, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid TELEGRAM_ALLOWED_USER_IDS entry %q: %w", part, err)
			}
			cfg.TelegramAllowedUserIDs = append(cfg.TelegramAllowedUserIDs, id)
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}
