package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Redis backs the durable workspace store and the session marker.
	RedisURL string
	// SessionTTL bounds the silent-restore window for the session marker.
	SessionTTL time.Duration
	// DatabaseURL switches the tenant directory from the static pilot
	// roster to Postgres when set.
	DatabaseURL string
	// Gemini API key; the offline canned generator is used when empty.
	GeminiAPIKey string
	// QuotaRefundOnFailure returns the consumed credit when a generation
	// fails. Default is the charge-before-attempt metering.
	QuotaRefundOnFailure bool
	// Meilisearch configuration; review search falls back to a local scan
	// when empty.
	MeiliURL       string
	MeiliMasterKey string
	// Object storage for listing photos; in-memory when endpoint is empty.
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
}

func Load() Config {
	// Local development convenience; absence of a .env file is not an error.
	_ = godotenv.Load()

	return Config{
		RedisURL:             getenv("REDIS_URL", "redis://localhost:6379/0"),
		SessionTTL:           time.Duration(getenvInt("RECENSIONI_SESSION_TTL_SECONDS", 43200)) * time.Second,
		DatabaseURL:          getenv("DATABASE_URL", ""),
		GeminiAPIKey:         getenv("GEMINI_API_KEY", ""),
		QuotaRefundOnFailure: getenvBool("RECENSIONI_QUOTA_REFUND_ON_FAILURE", false),
		MeiliURL:             getenv("MEILI_URL", ""),
		MeiliMasterKey:       getenv("MEILI_MASTER_KEY", ""),
		MinioEndpoint:        getenv("MINIO_ENDPOINT", ""),
		MinioAccessKey:       getenv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey:       getenv("MINIO_SECRET_KEY", ""),
		MinioBucket:          getenv("MINIO_BUCKET", "recensioni-photos"),
		MinioUseSSL:          getenvBool("MINIO_USE_SSL", false),
	}
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
