package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application. It is built once at
// startup and passed by reference into each component; pipeline logic never
// reads ambient environment state.
type Config struct {
	// DBPath is the path to the SQLite corpus index.
	DBPath string

	// OpenAIAPIKey enables the external model when non-empty. Absence is a
	// normal configuration: the service then answers in extractive fallback
	// mode.
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	// ModelTimeout bounds each model call. One attempt, no retries.
	ModelTimeout time.Duration

	// LocalOnly binds the server to the loopback interface. This deployment
	// uses a single server-wide credential, so local-only is the default
	// trust posture.
	LocalOnly bool

	MaxRetrievalCandidates int
	DefaultTopK            int
	DefaultMaxOpinions     int

	APIPort   string
	LogLevel  slog.Level
	LogFormat string
}

// Load reads configuration from environment variables, with a .env file as
// fallback when present in the working directory or a parent. Environment
// variables already set take precedence over .env values.
func Load() (*Config, error) {
	loadDotenv()

	cfg := &Config{
		DBPath:                 getEnv("NUSUS_DB_PATH", "./data/corpus.sqlite"),
		OpenAIAPIKey:           getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:          getEnv("OPENAI_BASE_URL", "https://api.openai.com"),
		OpenAIModel:            getEnv("OPENAI_MODEL", "gpt-4.1-mini"),
		LocalOnly:              getEnv("LOCAL_ONLY_MODE", "1") == "1",
		MaxRetrievalCandidates: atLeast(5, getEnvInt("MAX_RETRIEVAL_CANDIDATES", 30)),
		DefaultTopK:            atLeast(3, getEnvInt("DEFAULT_TOP_K", 12)),
		DefaultMaxOpinions:     atLeast(2, getEnvInt("DEFAULT_MAX_OPINIONS", 4)),
		APIPort:                getEnv("API_PORT", "8010"),
		LogFormat:              getEnv("LOG_FORMAT", "text"),
	}

	timeoutSec := getEnvInt("MODEL_TIMEOUT_SECONDS", 45)
	if timeoutSec < 1 {
		return nil, fmt.Errorf("MODEL_TIMEOUT_SECONDS must be at least 1, got %d", timeoutSec)
	}
	cfg.ModelTimeout = time.Duration(timeoutSec) * time.Second

	level, err := parseLogLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	if cfg.DBPath == "" {
		return nil, fmt.Errorf("NUSUS_DB_PATH must not be empty")
	}

	return cfg, nil
}

// ModelConfigured reports whether an external model credential is present.
func (c *Config) ModelConfigured() bool {
	return c.OpenAIAPIKey != ""
}

// loadDotenv tries the working directory first, then walks up a few levels
// looking for a .env file.
func loadDotenv() {
	_ = godotenv.Load()

	wd, err := os.Getwd()
	if err != nil {
		return
	}
	dir := wd
	for i := 0; i < 5; i++ {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func atLeast(min, v int) int {
	if v < min {
		return min
	}
	return v
}

func parseLogLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid LOG_LEVEL %q (want debug, info, warn, or error)", s)
	}
}
