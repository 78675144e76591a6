// practice is the terminal client: it syncs question content, walks the
// learner through a session, and records grade progress locally.
package main

import (
	"bufio"
	"log/slog"
	"os"

	"github.com/terrywang1985/english-practice/internal/content"
	"github.com/terrywang1985/english-practice/internal/infrastructure/config"
	"github.com/terrywang1985/english-practice/internal/progress"
	"github.com/terrywang1985/english-practice/internal/results"
	"github.com/terrywang1985/english-practice/internal/store"
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	kv, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer kv.Close()

	app := &App{
		sync:     content.NewSynchronizer(kv, content.NewHTTPClient(), cfg.ServerURL, logger),
		progress: progress.NewStore(kv, logger),
		results:  results.NewStore(),
		perRound: cfg.QuestionsPerSession,
		in:       bufio.NewScanner(os.Stdin),
		out:      os.Stdout,
	}

	if err := app.Run(); err != nil {
		logger.Error("exiting", "error", err)
		os.Exit(1)
	}
}
