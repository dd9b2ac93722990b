package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	Environment string

	// Database
	DatabaseURL string
	RedisURL    string

	// OpenAI
	OpenAIAPIKey   string
	LLMModel       string
	LLMMaxTokens   int
	LLMTemperature float64

	// Sync pipeline
	SyncMaxResults      int
	SyncBatchSize       int
	SyncClassifyPause   time.Duration
	SyncBatchPause      time.Duration
	SyncDefaultLookback time.Duration
	SyncFloorFallback   time.Duration
	SyncLockTTL         time.Duration

	// Provider retry
	FetchMaxAttempts int
	FetchBaseDelay   time.Duration

	// CORS
	AllowedOrigins []string
}

func Load() (*Config, error) {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENV", "development"),

		// Database
		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),

		// OpenAI
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		LLMModel:       getEnv("LLM_MODEL", "gpt-4o"),
		LLMMaxTokens:   getEnvInt("LLM_MAX_TOKENS", 1024),
		LLMTemperature: getEnvFloat("LLM_TEMPERATURE", 0.7),

		// Sync pipeline
		SyncMaxResults:      getEnvInt("SYNC_MAX_RESULTS", 100),
		SyncBatchSize:       getEnvInt("SYNC_BATCH_SIZE", 10),
		SyncClassifyPause:   time.Duration(getEnvInt("SYNC_CLASSIFY_PAUSE_MS", 2000)) * time.Millisecond,
		SyncBatchPause:      time.Duration(getEnvInt("SYNC_BATCH_PAUSE_MS", 1000)) * time.Millisecond,
		SyncDefaultLookback: time.Duration(getEnvInt("SYNC_DEFAULT_LOOKBACK_DAYS", 20)) * 24 * time.Hour,
		SyncFloorFallback:   time.Duration(getEnvInt("SYNC_FLOOR_FALLBACK_DAYS", 7)) * 24 * time.Hour,
		SyncLockTTL:         time.Duration(getEnvInt("SYNC_LOCK_TTL_MIN", 15)) * time.Minute,

		// Provider retry
		FetchMaxAttempts: getEnvInt("FETCH_MAX_ATTEMPTS", 3),
		FetchBaseDelay:   time.Duration(getEnvInt("FETCH_BASE_DELAY_MS", 1000)) * time.Millisecond,

		// CORS
		AllowedOrigins: getEnvSlice("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
