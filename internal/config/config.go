// internal/config/config.go
//
// Environment configuration for the Hangman server.
// A .env file in the working directory is loaded first when present
// (development convenience); real environment variables win over it.

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every setting read from the environment.
type Config struct {
	Port           string
	LogLevel       string
	LogFormat      string // "json" | "console"
	ClientOrigin   string
	JWTSecret      string
	CookieName     string
	Production     bool
	SessionTTL     time.Duration
	WordsFile      string
	DailySalt      string
	MaxUploadBytes int64
}

// Load reads .env (if any) and the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (Config, error) {
	cfg := Config{
		Port:         getEnv("PORT", "5175"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "json"),
		ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		JWTSecret:    getEnv("JWT_SECRET", "dev_secret_change_me"),
		CookieName:   getEnv("COOKIE_NAME", "hangman_session"),
		Production:   os.Getenv("NODE_ENV") == "production",
		WordsFile:    os.Getenv("HANGMAN_WORDS_FILE"),
		DailySalt:    getEnv("DAILY_SALT", "local_dev_salt"),
	}

	ttl, err := time.ParseDuration(getEnv("SESSION_TTL", "24h"))
	if err != nil {
		return Config{}, fmt.Errorf("SESSION_TTL: %w", err)
	}
	cfg.SessionTTL = ttl

	limit, err := strconv.ParseInt(getEnv("MAX_UPLOAD_BYTES", "1048576"), 10, 64)
	if err != nil {
		return Config{}, fmt.Errorf("MAX_UPLOAD_BYTES: %w", err)
	}
	if limit <= 0 {
		return Config{}, fmt.Errorf("MAX_UPLOAD_BYTES: must be positive, got %d", limit)
	}
	cfg.MaxUploadBytes = limit

	return cfg, nil
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
