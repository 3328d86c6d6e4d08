package config

import (
	"testing"
	"time"
)

func TestNewFromEnv(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("LLM_PROVIDER", "")
		t.Setenv("CHEF_AGENT_DB_PATH", "")
		t.Setenv("PORT", "")
		t.Setenv("DEFAULT_LANGUAGE", "")
		t.Setenv("TURN_TIMEOUT", "")
		t.Setenv("LLM_TIMEOUT", "")
		t.Setenv("ADMIN_TELEGRAM_ID", "")
		t.Setenv("TELEGRAM_ALLOWED_USER_IDS", "")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.DatabasePath != "data/chef-agent.db" {
			t.Errorf("DatabasePath = %q", cfg.DatabasePath)
		}
		if cfg.HTTPPort != "8080" {
			t.Errorf("HTTPPort = %q", cfg.HTTPPort)
		}
		if cfg.DefaultLanguage != "en" {
			t.Errorf("DefaultLanguage = %q", cfg.DefaultLanguage)
		}
		if cfg.TurnTimeout != 45*time.Second || cfg.LLMTimeout != 20*time.Second {
			t.Errorf("timeouts = %v / %v", cfg.TurnTimeout, cfg.LLMTimeout)
		}
	})

	t.Run("GroqProvider", func(t *testing.T) {
		t.Setenv("LLM_PROVIDER", "groq")
		t.Setenv("GROQ_API_KEY", "groq_key")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.GroqAPIKey != "groq_key" {
			t.Errorf("GroqAPIKey = %q", cfg.GroqAPIKey)
		}
	})

	t.Run("GroqProviderWithoutKey", func(t *testing.T) {
		t.Setenv("LLM_PROVIDER", "groq")
		t.Setenv("GROQ_API_KEY", "")

		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error for missing GROQ_API_KEY, got nil")
		}
	})

	t.Run("UnknownProvider", func(t *testing.T) {
		t.Setenv("LLM_PROVIDER", "openai")

		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error for unknown provider, got nil")
		}
	})

	t.Run("Timeouts", func(t *testing.T) {
		t.Setenv("LLM_PROVIDER", "")
		t.Setenv("TURN_TIMEOUT", "90s")
		t.Setenv("LLM_TIMEOUT", "5s")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.TurnTimeout != 90*time.Second || cfg.LLMTimeout != 5*time.Second {
			t.Errorf("timeouts = %v / %v", cfg.TurnTimeout, cfg.LLMTimeout)
		}
	})

	t.Run("InvalidTimeout", func(t *testing.T) {
		t.Setenv("LLM_PROVIDER", "")
		t.Setenv("TURN_TIMEOUT", "banana")

		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error for invalid TURN_TIMEOUT, got nil")
		}
	})

	t.Run("AllowedUserIDs", func(t *testing.T) {
		t.Setenv("LLM_PROVIDER", "")
		t.Setenv("TURN_TIMEOUT", "")
		t.Setenv("TELEGRAM_ALLOWED_USER_IDS", "123, 456,789")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		want := []int64{123, 456, 789}
		if len(cfg.TelegramAllowedUserIDs) != len(want) {
			t.Fatalf("ids = %v", cfg.TelegramAllowedUserIDs)
		}
		for i, id := range want {
			if cfg.TelegramAllowedUserIDs[i] != id {
				t.Errorf("ids[%d] = %d, want %d", i, cfg.TelegramAllowedUserIDs[i], id)
			}
		}
	})

	t.Run("InvalidAllowedUserIDs", func(t *testing.T) {
		t.Setenv("LLM_PROVIDER", "")
		t.Setenv("TELEGRAM_ALLOWED_USER_IDS", "123,abc")

		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error for invalid user id, got nil")
		}
	})
}
