/*
main.go - The daily reconciliation job

PURPOSE:
  Runs one reconciliation pass and exits. Point cron (or any external
  trigger) at this binary once per day; overlapping invocations are not
  expected and not guarded against.

EXIT BEHAVIOR:
  0  The run completed steps 1-7, whether or not today's poll could be
     posted (a failed poll is logged, never fatal).
  1  Missing configuration (no state touched), a transient state-load
     failure (the stored snapshot is left untouched), or the final save
     failed.

ENVIRONMENT:
  TELEGRAM_BOT_TOKEN   Bot credential (required)
  TELEGRAM_CHAT_ID     Destination chat (required)
  POLL_STATE_PATH      JSON snapshot path (default: poll_data.json)
  POLL_STATE_DSN       SQLite path; overrides POLL_STATE_PATH when set
  APP_ENV              development = text debug logs, else JSON
  A .env file in the working directory is honored.

SEE ALSO:
  - engine/runner.go: The run sequence
  - cmd/server/main.go: The status API server
*/
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/warp/poll-engine/config"
	"github.com/warp/poll-engine/engine"
	"github.com/warp/poll-engine/logger"
	"github.com/warp/poll-engine/store/file"
	"github.com/warp/poll-engine/store/sqlite"
	"github.com/warp/poll-engine/telegram"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Env)

	store, closeStore, err := openStore(cfg)
	if err != nil {
		log.Error("failed to open state store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	gateway := telegram.New(cfg.BotToken, cfg.ChatID, log)

	runner := engine.NewRunner(gateway, store, log)
	runner.FetchLimit = cfg.FetchLimit
	runner.FetchWait = cfg.FetchWaitSeconds

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if _, err := runner.Run(ctx); err != nil {
		log.Error("run aborted", "error", err)
		os.Exit(1)
	}
}

// openStore picks the SQLite store when a DSN is configured, the JSON
// file store otherwise.
func openStore(cfg *config.Config) (engine.StateStore, func(), error) {
	if cfg.StateDSN != "" {
		s, err := sqlite.New(cfg.StateDSN)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	}
	return file.New(cfg.StatePath), func() {}, nil
}
