package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr string
	LogLevel string

	// Evaluator provider
	GeminiAPIKey string
	GeminiModel  string

	// Scoring taxonomy overrides (optional YAML file)
	TaxonomyPath string

	// Session housekeeping
	SessionIdleTTL time.Duration

	// Request bounds
	MaxUploadBytes  int64
	AnalysisTimeout time.Duration

	// Error monitoring
	SentryDSN string
}

func LoadConfigFromEnv() Config {
	return Config{
		HTTPAddr: getenv("HTTP_ADDR", ":8080"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getenv("GEMINI_MODEL", "gemini-2.0-flash"),

		TaxonomyPath: getenv("TAXONOMY_PATH", ""),

		SessionIdleTTL: getDuration("SESSION_IDLE_TTL", 2*time.Hour),

		MaxUploadBytes:  getInt64("MAX_UPLOAD_BYTES", 20<<20),
		AnalysisTimeout: getDuration("ANALYSIS_TIMEOUT", 3*time.Minute),

		SentryDSN: getenv("SENTRY_DSN", ""),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func getInt64(k string, def int64) int64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
