/*
main.go - Status API server entry point

PURPOSE:
  Serves the read-mostly status API over the same state store the daily
  job writes, plus POST /api/run to trigger a reconciliation on demand.
  Useful when the job's host also wants a dashboard or manual reruns.

STARTUP SEQUENCE:
  1. Load configuration (fails fast on missing credential/chat)
  2. Open the state store (SQLite when a DSN is set, JSON file otherwise)
  3. Wire the gateway and runner
  4. Start the chi server with graceful shutdown

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close the store and exit

SEE ALSO:
  - api/server.go: Router configuration
  - cmd/pollbot/main.go: The cron entry point
*/
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/poll-engine/api"
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
		os.Stderr.WriteString("configuration error: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(cfg.Env)

	var store engine.StateStore
	if cfg.StateDSN != "" {
		s, err := sqlite.New(cfg.StateDSN)
		if err != nil {
			log.Error("failed to open state store", "error", err)
			os.Exit(1)
		}
		defer s.Close()
		store = s
	} else {
		store = file.New(cfg.StatePath)
	}

	gateway := telegram.New(cfg.BotToken, cfg.ChatID, log)
	runner := engine.NewRunner(gateway, store, log)
	runner.FetchLimit = cfg.FetchLimit
	runner.FetchWait = cfg.FetchWaitSeconds

	handler := api.NewHandler(store, runner, log)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 3 * time.Minute, // POST /api/run long-polls the platform
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("status server starting", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
