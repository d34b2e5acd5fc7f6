package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.DevWebhookBase != "https://n8n-dev.flossly.ai/webhook" {
		t.Fatalf("expected default dev webhook base, got %s", cfg.DevWebhookBase)
	}
	if cfg.TypingDuration != 800*time.Millisecond {
		t.Fatalf("expected default typing duration, got %s", cfg.TypingDuration)
	}
	if cfg.OpeningStagger != 1400*time.Millisecond {
		t.Fatalf("expected default opening stagger, got %s", cfg.OpeningStagger)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("expected wildcard CORS default, got %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("PRODUCTION_WEBHOOK_BASE", "https://hooks.example.com/webhook")
	t.Setenv("CALLBACK_WEBHOOK_PATH", "/cb")
	t.Setenv("DISPATCH_TIMEOUT", "3s")
	t.Setenv("OPENING_STAGGER", "10ms")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.flossly.ai, https://dev.flossly.ai")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.ProductionWebhookBase != "https://hooks.example.com/webhook" {
		t.Fatalf("expected webhook base override, got %s", cfg.ProductionWebhookBase)
	}
	if cfg.CallbackPath != "/cb" {
		t.Fatalf("expected callback path override, got %s", cfg.CallbackPath)
	}
	if cfg.DispatchTimeout != 3*time.Second {
		t.Fatalf("expected dispatch timeout override, got %s", cfg.DispatchTimeout)
	}
	if cfg.OpeningStagger != 10*time.Millisecond {
		t.Fatalf("expected stagger override, got %s", cfg.OpeningStagger)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://dev.flossly.ai" {
		t.Fatalf("expected CORS origins override, got %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadBadDuration(t *testing.T) {
	t.Setenv("DISPATCH_TIMEOUT", "not-a-duration")
	cfg := Load()
	if cfg.DispatchTimeout != 10*time.Second {
		t.Fatalf("expected fallback to default, got %s", cfg.DispatchTimeout)
	}
}
