package config

import (
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadConfig_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	for _, key := range []string{
		"SERVER_PORT", "PORT", "JWT_TTL_HOURS", "RETURNS_EVENT_EXCHANGE", "REDIS_RATE_LIMIT_PREFIX",
		"RETURN_SUBMIT_RATE_LIMIT_PER_MINUTE", "WALLET_TOPUP_RATE_LIMIT_PER_MINUTE",
		"CORS_ALLOWED_ORIGINS", "DEFAULT_ADMIN_EMAIL", "RECONCILE_SCHEDULE",
	} {
		unsetEnvWithCleanup(t, key)
	}

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.ServerPort != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.ServerPort)
	}
	if cfg.TokenTTL() != 24*time.Hour {
		t.Fatalf("expected default token ttl 24h, got %s", cfg.TokenTTL())
	}
	if cfg.ReturnsEventExchange != "returns.events" {
		t.Fatalf("expected default exchange, got %q", cfg.ReturnsEventExchange)
	}
	if cfg.RedisRateLimitPrefix != "returns:rate_limit" {
		t.Fatalf("expected default rate limit prefix, got %q", cfg.RedisRateLimitPrefix)
	}
	if cfg.ReturnSubmitRateLimitPerMinute != 10 || cfg.WalletTopUpRateLimitPerMinute != 20 {
		t.Fatalf("unexpected rate limits: submit=%d topup=%d", cfg.ReturnSubmitRateLimitPerMinute, cfg.WalletTopUpRateLimitPerMinute)
	}
	if cfg.DefaultAdminEmail != "admin@example.com" {
		t.Fatalf("expected default admin email, got %q", cfg.DefaultAdminEmail)
	}
	if cfg.ReconcileSchedule != "@every 1h" {
		t.Fatalf("expected default reconcile schedule, got %q", cfg.ReconcileSchedule)
	}
}

func TestLoadConfig_PortOverridesServerPort(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	setEnvWithCleanup(t, "SERVER_PORT", "9000")
	setEnvWithCleanup(t, "PORT", "7000")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.ServerPort != "7000" {
		t.Fatalf("expected PORT to win, got %q", cfg.ServerPort)
	}
}

func TestLoadConfig_InvalidTTLFallsBackToDefault(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	setEnvWithCleanup(t, "JWT_TTL_HOURS", "0")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.JWTTTLHours != 24 {
		t.Fatalf("expected fallback ttl 24, got %d", cfg.JWTTTLHours)
	}
}

func TestLoadConfig_RedisURLAlias(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	unsetEnvWithCleanup(t, "REDIS_URL")
	setEnvWithCleanup(t, "RETURNS_REDIS_URL", " redis://cache:6379/0 ")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.RedisURL != "redis://cache:6379/0" {
		t.Fatalf("expected RedisURL from alias env var, got %q", cfg.RedisURL)
	}
}

func TestConfig_AllowedOrigins(t *testing.T) {
	cfg := Config{CORSAllowedOrigins: " http://a.test , ,http://b.test"}
	got := cfg.AllowedOrigins()
	want := []string{"http://a.test", "http://b.test"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func setEnvWithCleanup(t *testing.T, key string, value string) {
	t.Helper()
	prev, hadPrev := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set env %s: %v", key, err)
	}
	t.Cleanup(func() {
		if hadPrev {
			_ = os.Setenv(key, prev)
			return
		}
		_ = os.Unsetenv(key)
	})
}

func unsetEnvWithCleanup(t *testing.T, key string) {
	t.Helper()
	prev, hadPrev := os.LookupEnv(key)
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("failed to unset env %s: %v", key, err)
	}
	t.Cleanup(func() {
		if hadPrev {
			_ = os.Setenv(key, prev)
			return
		}
		_ = os.Unsetenv(key)
	})
}
