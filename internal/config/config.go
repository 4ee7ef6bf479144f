package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type PaymentMode int

const (
	PaymentDummy PaymentMode = iota
	PaymentLive
)

type AssistantMode int

const (
	AssistantEcho AssistantMode = iota
	AssistantLive
)

type Config struct {
	AppEnv            string
	Port              string
	DatabaseURL       string
	JWTSecret         string
	TokenTTL          time.Duration
	AllowedOrigins    []string
	PaymentMode       PaymentMode
	RazorpayKeyID     string
	RazorpayKeySecret string
	AssistantMode     AssistantMode
	OpenAIKey         string
}

// Load reads configuration from the environment (and .env, if present).
// Payment and assistant modes are resolved here, once, from credential
// presence; nothing else in the process reads those env vars.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		AppEnv:            getEnv("APP_ENV", "development"),
		Port:              getEnv("PORT", "8080"),
		DatabaseURL:       strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:         getEnv("JWT_SECRET", "dev-secret-change-me"),
		TokenTTL:          getHours("TOKEN_TTL_HOURS", 168),
		AllowedOrigins:    parseCSV(getEnv("ALLOWED_ORIGINS", "*")),
		RazorpayKeyID:     strings.TrimSpace(os.Getenv("RAZORPAY_KEY_ID")),
		RazorpayKeySecret: strings.TrimSpace(os.Getenv("RAZORPAY_KEY_SECRET")),
		OpenAIKey:         strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is required")
	}
	if cfg.RazorpayKeyID != "" && cfg.RazorpayKeySecret != "" {
		cfg.PaymentMode = PaymentLive
	}
	if cfg.OpenAIKey != "" {
		cfg.AssistantMode = AssistantLive
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getHours(key string, fallbackHours int) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return time.Duration(fallbackHours) * time.Hour
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return time.Duration(fallbackHours) * time.Hour
	}
	return time.Duration(parsed) * time.Hour
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
