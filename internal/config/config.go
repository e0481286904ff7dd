package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAppName          = "Tally"
	defaultAppEnv           = "development"
	defaultPort             = "8080"
	defaultLogLevel         = "info"
	defaultLogFormat        = "json"
	defaultKafkaTopic       = "ledger.transactions"
	defaultShutdownDelay    = 10 * time.Second
	defaultIdempotencyTTL   = 24 * time.Hour
	defaultPostingRateLimit = 60
	idemTTLSecondsEnvVar    = "IDEMPOTENCY_TTL_SECONDS"
	idemTTLDurEnvVar        = "IDEMPOTENCY_TTL"
	shutdownSecondsEnvVar   = "SHUTDOWN_TIMEOUT_SECONDS"
	shutdownDurationEnvVar  = "SHUTDOWN_TIMEOUT"
	postingRateLimitEnvVar  = "POSTING_RATE_LIMIT"
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName          string
	AppEnv           string
	Port             string
	LogLevel         string
	LogFormat        string
	DatabaseURL      string
	RedisURL         string
	KafkaBrokers     []string
	KafkaTopic       string
	ShutdownPeriod   time.Duration
	IdempotencyTTL   time.Duration
	PostingRateLimit int
}

// Load reads configuration values from the environment, after seeding it
// from a .env file when one is present, and populates a Config instance.
func Load() (Config, error) {
	// Variables already set in the environment take precedence over .env.
	_ = godotenv.Load()

	cfg := Config{
		AppName:          getEnv("APP_NAME", defaultAppName),
		AppEnv:           getEnv("APP_ENV", defaultAppEnv),
		Port:             getEnv("PORT", defaultPort),
		LogLevel:         strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		LogFormat:        strings.ToLower(getEnv("LOG_FORMAT", defaultLogFormat)),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		KafkaBrokers:     splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:       getEnv("KAFKA_TOPIC", defaultKafkaTopic),
		ShutdownPeriod:   defaultShutdownDelay,
		IdempotencyTTL:   defaultIdempotencyTTL,
		PostingRateLimit: defaultPostingRateLimit,
	}

	var err error
	if cfg.ShutdownPeriod, err = durationFromEnv(shutdownSecondsEnvVar, shutdownDurationEnvVar, cfg.ShutdownPeriod); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = durationFromEnv(idemTTLSecondsEnvVar, idemTTLDurEnvVar, cfg.IdempotencyTTL); err != nil {
		return Config{}, err
	}

	if v := os.Getenv(postingRateLimitEnvVar); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			return Config{}, fmt.Errorf("invalid %s: %q", postingRateLimitEnvVar, v)
		}
		cfg.PostingRateLimit = limit
	}

	if !cfg.IsDev() {
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL must be set when APP_ENV=%s", cfg.AppEnv)
		}
		if cfg.RedisURL == "" {
			return Config{}, fmt.Errorf("REDIS_URL must be set when APP_ENV=%s", cfg.AppEnv)
		}
	}

	return cfg, nil
}

// IsDev reports whether the service runs in a local development environment,
// where missing backends fall back to in-memory implementations.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func durationFromEnv(secondsKey, durationKey string, fallback time.Duration) (time.Duration, error) {
	if v := os.Getenv(secondsKey); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", secondsKey, err)
		}
		return time.Duration(seconds) * time.Second, nil
	}
	if v := os.Getenv(durationKey); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", durationKey, err)
		}
		return d, nil
	}
	return fallback, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
