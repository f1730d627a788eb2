package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/due/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewTimers viewState = iota
	viewTrash
	viewHistory
	viewSettings
)

var viewNames = []string{"Timers", "Trash", "History", "Settings"}

// --- Messages ---

type tickMsg time.Time

type statusMsg struct {
	text    string
	isError bool
}

// dirtyMsg asks the app to persist the collection on the next tick.
type dirtyMsg struct{}

type historyDataMsg struct {
	finishes []store.Finish
	days     []store.DayCount
	total    int64
}

type exportDoneMsg struct {
	path string
}

func markDirty() tea.Cmd {
	return func() tea.Msg { return dirtyMsg{} }
}

func reportError(err error) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: err.Error(), isError: true}
	}
}

func reportStatus(text string) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text}
	}
}

// --- Helpers ---

func formatSeconds(secs int64) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, secs%3600/60, secs%60)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
