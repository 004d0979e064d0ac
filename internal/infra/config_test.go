package infra

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "")
	t.Setenv("DEFAULT_LOCALE", "")
	t.Setenv("FREE_DAILY_QUOTA", "")
	t.Setenv("PROVIDER_TIMEOUT_SECONDS", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port = %q, want %q", cfg.Port, "8080")
	}
	if cfg.DefaultLocale != "zh" {
		t.Fatalf("DefaultLocale = %q, want %q", cfg.DefaultLocale, "zh")
	}
	if cfg.FreeDailyQuota != 10 {
		t.Fatalf("FreeDailyQuota = %d, want 10", cfg.FreeDailyQuota)
	}
	if cfg.ProviderTimeout != 15*time.Second {
		t.Fatalf("ProviderTimeout = %v, want 15s", cfg.ProviderTimeout)
	}
	if cfg.DeepSeekBaseURL != "https://api.deepseek.com/v1" {
		t.Fatalf("DeepSeekBaseURL = %q", cfg.DeepSeekBaseURL)
	}
	if cfg.QwenBaseURL != "https://dashscope.aliyuncs.com/compatible-mode/v1" {
		t.Fatalf("QwenBaseURL = %q", cfg.QwenBaseURL)
	}
}

func TestLoadConfigRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "test-secret")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for missing DATABASE_URL")
	}
}

func TestLoadConfigRequiresJWTSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("JWT_SECRET", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for missing JWT_SECRET")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "1919")
	t.Setenv("FREE_DAILY_QUOTA", "25")
	t.Setenv("PROVIDER_TIMEOUT_SECONDS", "5")
	t.Setenv("ALLOWED_ORIGIN", "https://chat.example.com")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Port != "1919" {
		t.Fatalf("Port = %q, want %q", cfg.Port, "1919")
	}
	if cfg.FreeDailyQuota != 25 {
		t.Fatalf("FreeDailyQuota = %d, want 25", cfg.FreeDailyQuota)
	}
	if cfg.ProviderTimeout != 5*time.Second {
		t.Fatalf("ProviderTimeout = %v, want 5s", cfg.ProviderTimeout)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "https://chat.example.com" {
		t.Fatalf("AllowedOrigins = %#v", cfg.AllowedOrigins)
	}
}

func TestGetEnvIntIgnoresGarbage(t *testing.T) {
	t.Setenv("SOME_INT", "not-a-number")
	if got := getEnvInt("SOME_INT", 7); got != 7 {
		t.Fatalf("getEnvInt = %d, want fallback 7", got)
	}
}
