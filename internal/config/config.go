// Package config loads runtime configuration from the environment,
// with an optional .env file for local development.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the application reads from the environment.
type Config struct {
	// DBPath is the SQLite file the library snapshot lives in.
	DBPath string

	// AIKey enables the enrichment adapter when set.
	AIKey        string
	AIBaseURL    string
	VisionModel  string
	SuggestModel string
	AITimeout    time.Duration

	Debug bool
}

// Load reads configuration from the environment. A .env file in the working
// directory is merged in when present; missing is fine.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		DBPath:       getEnvString("ATELIER_DB", "atelier.db"),
		AIKey:        getEnvString("ATELIER_AI_KEY", ""),
		AIBaseURL:    getEnvString("ATELIER_AI_BASE_URL", ""),
		VisionModel:  getEnvString("ATELIER_VISION_MODEL", "gpt-4o-mini"),
		SuggestModel: getEnvString("ATELIER_SUGGEST_MODEL", "gpt-4o-mini"),
		AITimeout:    time.Duration(getEnvInt("ATELIER_AI_TIMEOUT_SECONDS", 10)) * time.Second,
		Debug:        getEnvBool("ATELIER_DEBUG", false),
	}
}

func getEnvString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
