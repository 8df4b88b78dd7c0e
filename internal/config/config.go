package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr             string
	DBDriver         string
	DBDSN            string
	LogLevel         string
	AdminPhone       string
	SessionWordLimit int
	CORSOrigin       string
	AudioDir         string
	AudioTTSAPIKey   string
	AudioTTSLanguage string
	AudioWorkerCount int
	AudioQueueSize   int
	AudioBatchSize   int
	MaintenanceHour  int
}

// Load reads configuration from a .env file (if present) and environment
// variables, applying defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:             envOr("ADDR", ":8080"),
		DBDriver:         envOr("DB_DRIVER", "sqlite3"),
		DBDSN:            envOr("DB_DSN", "file:vocab.db"),
		LogLevel:         envOr("LOG_LEVEL", "INFO"),
		AdminPhone:       envOr("ADMIN_PHONE", "+998901202467"),
		SessionWordLimit: envIntOr("SESSION_WORD_LIMIT_MAX", 200),
		CORSOrigin:       envOr("CORS_ALLOWED_ORIGIN", "*"),
		AudioDir:         envOr("AUDIO_DIR", "data/audio"),
		AudioTTSAPIKey:   envOr("AUDIO_TTS_API_KEY", ""),
		AudioTTSLanguage: envOr("AUDIO_TTS_LANGUAGE", "ko-KR"),
		AudioWorkerCount: envIntOr("AUDIO_WORKER_COUNT", 2),
		AudioQueueSize:   envIntOr("AUDIO_QUEUE_SIZE", 32),
		AudioBatchSize:   envIntOr("AUDIO_BATCH_SIZE", 50),
		MaintenanceHour:  envIntOr("MAINTENANCE_HOUR", 3),
	}
}

// Validate checks that the configuration is usable before the server starts.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	if c.DBDriver != "sqlite3" && c.DBDriver != "postgres" {
		return fmt.Errorf("DB_DRIVER must be sqlite3 or postgres, got %q", c.DBDriver)
	}
	if c.DBDSN == "" {
		return fmt.Errorf("DB_DSN cannot be empty")
	}
	if c.AdminPhone == "" {
		return fmt.Errorf("ADMIN_PHONE cannot be empty")
	}
	if c.SessionWordLimit < 1 {
		return fmt.Errorf("SESSION_WORD_LIMIT_MAX must be at least 1, got %d", c.SessionWordLimit)
	}
	if c.AudioWorkerCount < 1 {
		return fmt.Errorf("AUDIO_WORKER_COUNT must be at least 1, got %d", c.AudioWorkerCount)
	}
	if c.AudioQueueSize < 1 {
		return fmt.Errorf("AUDIO_QUEUE_SIZE must be at least 1, got %d", c.AudioQueueSize)
	}
	if c.MaintenanceHour < 0 || c.MaintenanceHour > 23 {
		return fmt.Errorf("MAINTENANCE_HOUR must be between 0 and 23, got %d", c.MaintenanceHour)
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
