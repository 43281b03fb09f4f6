package config

import (
	"testing"
	"time"
)

func TestLoadRequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("CONFIG_ENV", "does-not-exist")

	if _, err := Load(); err != ErrMissingAPIKey {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("CONFIG_ENV", "does-not-exist")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 8080 {
		t.Errorf("default port = %d, want 8080", cfg.Port)
	}
	if cfg.Model != "gpt-4o-realtime-preview" {
		t.Errorf("default model = %s", cfg.Model)
	}
	if cfg.UpstreamURL != "wss://api.openai.com/v1/realtime" {
		t.Errorf("default upstream url = %s", cfg.UpstreamURL)
	}
	if cfg.ConnectTimeout != 10*time.Second {
		t.Errorf("default connect timeout = %s", cfg.ConnectTimeout)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("REALTIME_MODEL", "gpt-4o-realtime-mini")
	t.Setenv("BASE_URL", "https://translate.example.com")
	t.Setenv("PORT", "9090")
	t.Setenv("CONFIG_ENV", "does-not-exist")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIKey != "sk-test" {
		t.Errorf("api key not bound from env")
	}
	if cfg.Model != "gpt-4o-realtime-mini" {
		t.Errorf("model override not applied: %s", cfg.Model)
	}
	if cfg.BaseURL != "https://translate.example.com" {
		t.Errorf("base url override not applied: %s", cfg.BaseURL)
	}
	if cfg.Port != 9090 {
		t.Errorf("port override not applied: %d", cfg.Port)
	}
}
