// Package config loads and validates service configuration from the
// environment. The resulting Config is built once at startup and passed
// explicitly to the components that need it.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the service.
type Config struct {
	Port string

	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// CodeTTL is the validity window of an issued access code.
	CodeTTL time.Duration
	// CodeSingleUse rejects re-verification of an already redeemed code.
	// Off by default: a valid code may be verified any number of times
	// until it expires.
	CodeSingleUse bool
	// CodeReapInterval controls how often expired codes are purged.
	// Zero disables the reaper.
	CodeReapInterval time.Duration

	SessionTTL time.Duration

	PayPalMode         string // "mock", "sandbox" or "live"
	PayPalClientID     string
	PayPalClientSecret string
	FrontendURL        string

	JWTSecret string

	AWSRegion   string
	S3Bucket    string
	S3Endpoint  string // optional, for MinIO-style deployments
	S3AccessKey string
	S3SecretKey string

	AllowedOrigins []string

	LogLevel  string
	LogFormat string

	SecureCookies bool
}

// Load reads configuration from the environment, applying defaults and
// validating required values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnv("PORT", "5000"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:            getInt("REDIS_DB", 0),
		CodeTTL:            getDuration("CODE_TTL", time.Hour),
		CodeSingleUse:      getBool("CODE_SINGLE_USE", false),
		CodeReapInterval:   getDuration("CODE_REAP_INTERVAL", 15*time.Minute),
		SessionTTL:         getDuration("SESSION_TTL", time.Hour),
		PayPalMode:         getEnv("PAYPAL_MODE", "mock"),
		PayPalClientID:     os.Getenv("PAYPAL_CLIENT_ID"),
		PayPalClientSecret: os.Getenv("PAYPAL_CLIENT_SECRET"),
		FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:5173"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		S3Bucket:           os.Getenv("S3_BUCKET"),
		S3Endpoint:         os.Getenv("S3_ENDPOINT"),
		S3AccessKey:        os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:        os.Getenv("S3_SECRET_KEY"),
		AllowedOrigins:     splitCSV(getEnv("ALLOWED_ORIGINS", "http://localhost:5173")),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
		SecureCookies:      getBool("SECURE_COOKIES", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that required values are present and sane.
func (c *Config) Validate() error {
	var missing []string

	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.PayPalMode != "mock" {
		if c.PayPalClientID == "" {
			missing = append(missing, "PAYPAL_CLIENT_ID")
		}
		if c.PayPalClientSecret == "" {
			missing = append(missing, "PAYPAL_CLIENT_SECRET")
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	switch c.PayPalMode {
	case "mock", "sandbox", "live":
	default:
		return fmt.Errorf("invalid PAYPAL_MODE %q (want mock, sandbox or live)", c.PayPalMode)
	}

	if c.CodeTTL <= 0 {
		return fmt.Errorf("CODE_TTL must be positive")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
