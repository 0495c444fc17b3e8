// Package config loads the job's configuration from the environment.
// A .env file in the working directory is honored when present.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/warp/poll-engine/engine"
)

// Config is the full configuration surface. Only the bot token and chat
// id are required; everything else has a working default.
type Config struct {
	Env string

	// Credential and destination. Absent either, the job fails fast
	// before any network call.
	BotToken string
	ChatID   string

	// State persistence. StateDSN selects the SQLite store when set;
	// otherwise StatePath selects the JSON file store.
	StatePath string
	StateDSN  string

	// Status API server.
	HTTPAddr string

	// Event fetch tuning.
	FetchLimit       int
	FetchWaitSeconds int
}

// Load reads configuration from the environment, failing fast when the
// credential or destination is missing.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:              getEnv("APP_ENV", "development"),
		BotToken:         getEnv("TELEGRAM_BOT_TOKEN", ""),
		ChatID:           getEnv("TELEGRAM_CHAT_ID", ""),
		StatePath:        getEnv("POLL_STATE_PATH", "poll_data.json"),
		StateDSN:         getEnv("POLL_STATE_DSN", ""),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		FetchLimit:       getEnvInt("POLL_FETCH_LIMIT", 100),
		FetchWaitSeconds: getEnvInt("POLL_FETCH_WAIT_SECONDS", 10),
	}

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("%w: TELEGRAM_BOT_TOKEN", engine.ErrMissingConfig)
	}
	if cfg.ChatID == "" {
		return nil, fmt.Errorf("%w: TELEGRAM_CHAT_ID", engine.ErrMissingConfig)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
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
