package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "LOG_LEVEL", "LLM_PROVIDER", "GEMINI_MODEL_ID", "GENERATION_TIMEOUT", "GENERATION_MIN_CHARS", "DELIVERY_FEE", "EMAIL_PROVIDER", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.LLMProvider != "auto" {
		t.Fatalf("expected auto provider, got %s", cfg.LLMProvider)
	}
	if cfg.GeminiModelID != "gemini-1.5-pro" {
		t.Fatalf("expected default gemini model, got %s", cfg.GeminiModelID)
	}
	if cfg.GenerationTimeout != 30*time.Second {
		t.Fatalf("expected default generation timeout, got %s", cfg.GenerationTimeout)
	}
	if cfg.GenerationMinChars != 10 {
		t.Fatalf("expected default min chars, got %d", cfg.GenerationMinChars)
	}
	if cfg.DeliveryFee != 40 {
		t.Fatalf("expected default delivery fee, got %d", cfg.DeliveryFee)
	}
	if cfg.EmailProvider != "stub" {
		t.Fatalf("expected stub email provider, got %s", cfg.EmailProvider)
	}
	if cfg.CORSAllowedOrigins != nil {
		t.Fatalf("expected no cors origins, got %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LLM_PROVIDER", " Bedrock ")
	t.Setenv("GENERATION_TIMEOUT", "5s")
	t.Setenv("GENERATION_MIN_CHARS", "25")
	t.Setenv("DELIVERY_FEE", "60")
	t.Setenv("REDIS_TLS", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.LLMProvider != "bedrock" {
		t.Fatalf("expected normalized provider, got %q", cfg.LLMProvider)
	}
	if cfg.GenerationTimeout != 5*time.Second {
		t.Fatalf("expected timeout override, got %s", cfg.GenerationTimeout)
	}
	if cfg.GenerationMinChars != 25 {
		t.Fatalf("expected min chars override, got %d", cfg.GenerationMinChars)
	}
	if cfg.DeliveryFee != 60 {
		t.Fatalf("expected fee override, got %d", cfg.DeliveryFee)
	}
	if !cfg.RedisTLS {
		t.Fatalf("expected redis tls enabled")
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected cors origins: %v", cfg.CORSAllowedOrigins)
	}
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("GENERATION_TIMEOUT", "soon")
	t.Setenv("DELIVERY_FEE", "forty")
	cfg := Load()
	if cfg.GenerationTimeout != 30*time.Second {
		t.Fatalf("expected default timeout, got %s", cfg.GenerationTimeout)
	}
	if cfg.DeliveryFee != 40 {
		t.Fatalf("expected default fee, got %d", cfg.DeliveryFee)
	}
}

func TestChatSessionSettings(t *testing.T) {
	t.Setenv("CHAT_RATE_PER_SECOND", "0.5")
	t.Setenv("CHAT_RATE_BURST", "")
	t.Setenv("SESSION_IDLE_TIMEOUT", "30m")
	cfg := Load()
	if cfg.ChatRatePerSecond != 0.5 {
		t.Fatalf("expected rate override, got %v", cfg.ChatRatePerSecond)
	}
	if cfg.ChatRateBurst != 5 {
		t.Fatalf("expected default burst, got %d", cfg.ChatRateBurst)
	}
	if cfg.SessionIdleTimeout != 30*time.Minute {
		t.Fatalf("expected idle timeout override, got %s", cfg.SessionIdleTimeout)
	}
}
