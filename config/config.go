// config/config.go
package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries the runtime settings for the persistence tiers and the
// achievement engine.
type Config struct {
	Env      string
	LogLevel string

	// DataDir holds the key/value store file and the record database.
	DataDir  string
	RecordDB string

	// KeyPrefix namespaces durable keys: <prefix>-achievements-<userId>,
	// <prefix>-points-<userId>, <prefix>-share-<shortId>.
	KeyPrefix string

	// BaseURL is the origin used to build shareable links.
	BaseURL string

	AnimationDuration time.Duration
}

// Load reads .env (if present) and the environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	dataDir := getEnvOrDefault("EDVANTAGE_DATA_DIR", "./data")

	return &Config{
		Env:               getEnvOrDefault("APP_ENV", "development"),
		LogLevel:          getEnvOrDefault("LOG_LEVEL", "info"),
		DataDir:           dataDir,
		RecordDB:          getEnvOrDefault("EDVANTAGE_RECORD_DB", filepath.Join(dataDir, "edvantage.db")),
		KeyPrefix:         getEnvOrDefault("EDVANTAGE_KEY_PREFIX", "edvantage"),
		BaseURL:           getEnvOrDefault("EDVANTAGE_BASE_URL", "https://edvantage.app"),
		AnimationDuration: time.Duration(getEnvIntOrDefault("EDVANTAGE_ANIMATION_SECONDS", 5)) * time.Second,
	}
}

// KVPath is the location of the durable key/value store file.
func (c *Config) KVPath() string {
	return filepath.Join(c.DataDir, "edvantage-store.json")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}
