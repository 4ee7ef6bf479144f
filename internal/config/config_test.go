package config

import (
	"testing"
	"time"
)

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is unset")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/astrotalk_test")
	t.Setenv("RAZORPAY_KEY_ID", "")
	t.Setenv("RAZORPAY_KEY_SECRET", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("TOKEN_TTL_HOURS", "")
	t.Setenv("ALLOWED_ORIGINS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.PaymentMode != PaymentDummy {
		t.Fatal("without gateway keys the payment mode must be dummy")
	}
	if cfg.AssistantMode != AssistantEcho {
		t.Fatal("without a model key the assistant must echo")
	}
	if cfg.TokenTTL != 168*time.Hour {
		t.Fatalf("expected 7 day token ttl, got %v", cfg.TokenTTL)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Fatalf("unexpected origins: %v", cfg.AllowedOrigins)
	}
}

func TestLoadLiveModes(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/astrotalk_test")
	t.Setenv("RAZORPAY_KEY_ID", "rzp_test_key")
	t.Setenv("RAZORPAY_KEY_SECRET", "rzp_test_secret")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("TOKEN_TTL_HOURS", "24")
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.PaymentMode != PaymentLive {
		t.Fatal("both gateway keys present must enable live payments")
	}
	if cfg.AssistantMode != AssistantLive {
		t.Fatal("model key present must enable the live assistant")
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("unexpected token ttl: %v", cfg.TokenTTL)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://admin.example.com" {
		t.Fatalf("unexpected origins: %v", cfg.AllowedOrigins)
	}
}

func TestLoadPartialGatewayKeysStayDummy(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/astrotalk_test")
	t.Setenv("RAZORPAY_KEY_ID", "rzp_test_key")
	t.Setenv("RAZORPAY_KEY_SECRET", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.PaymentMode != PaymentDummy {
		t.Fatal("a lone key id must not enable live payments")
	}
}
