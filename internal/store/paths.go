package store

import (
	"os"
	"path/filepath"
)

// DataDir is the default directory for mutable app data, state and
// history alike: ~/.local/share/due, falling back to the working
// directory when the home directory cannot be resolved.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share", "due")
}

func DefaultStatePath() string   { return filepath.Join(DataDir(), "state.json") }
func DefaultHistoryPath() string { return filepath.Join(DataDir(), "history.db") }
func DefaultLogPath() string     { return filepath.Join(DataDir(), "due.log") }
