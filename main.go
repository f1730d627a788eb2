package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/due/internal/config"
	"github.com/sadopc/due/internal/countdown"
	"github.com/sadopc/due/internal/store"
	"github.com/sadopc/due/internal/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.Default()
	}

	logFile := setupLogging(cfg)
	if logFile != nil {
		defer logFile.Close()
	}
	if err != nil {
		slog.Warn("config load failed, using defaults", "error", err)
	}

	state := store.NewStateFile(cfg.StatePath)
	doc, err := state.Load()
	if err != nil {
		slog.Warn("state load failed, starting empty", "path", state.Path(), "error", err)
	}

	history, err := store.NewHistory(cfg.HistoryPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening history database: %v\n", err)
		os.Exit(1)
	}
	defer history.Close()

	col := countdown.NewCollection()
	col.OnFinish = func(t countdown.Timer) {
		var seconds int64
		if r, ok := t.(*countdown.Relative); ok {
			seconds = int64(r.Initial() / time.Second)
		}
		if _, err := history.AddFinish(t.ID(), t.Label(), string(t.Mode()), seconds, t.FinishedAt()); err != nil {
			slog.Error("record finish failed", "timer", t.ID(), "error", err)
		}
	}
	col.Load(doc, time.Now())

	app := tui.NewApp(cfg, col, state, history)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Final save so edits between autosaves survive exit.
	if err := state.Save(col.Document()); err != nil {
		slog.Error("final save failed", "path", state.Path(), "error", err)
		fmt.Fprintf(os.Stderr, "error saving state: %v\n", err)
		os.Exit(1)
	}
}

// setupLogging sends slog to a file in the data dir; the TUI owns stdout.
func setupLogging(cfg *config.Config) *os.File {
	path := store.DefaultLogPath()
	if err := os.MkdirAll(store.DataDir(), 0o755); err != nil {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return nil
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))
	return f
}
