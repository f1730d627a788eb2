package tui

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/due/internal/config"
	"github.com/sadopc/due/internal/countdown"
	"github.com/sadopc/due/internal/export"
	"github.com/sadopc/due/internal/store"
)

// App is the root Bubble Tea model.
type App struct {
	cfg     *config.Config
	col     *countdown.Collection
	state   *store.StateFile
	history *store.History

	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	// alertID is non-empty while the full-screen alert takeover is up.
	alertID string

	// dirty is set after any mutation and cleared when the autosave for
	// it is issued on the next tick.
	dirty bool

	timers   timersModel
	trash    trashModel
	histView historyModel
	settings settingsModel

	help        help.Model
	status      string
	statusError bool
}

func NewApp(cfg *config.Config, col *countdown.Collection, state *store.StateFile, history *store.History) App {
	applyAccent(cfg.AccentColor)

	h := help.New()
	h.ShowAll = false

	return App{
		cfg:        cfg,
		col:        col,
		state:      state,
		history:    history,
		activeView: viewTimers,
		timers:     newTimersModel(col),
		trash:      newTrashModel(col, cfg),
		histView:   newHistoryModel(history),
		settings:   newSettingsModel(cfg),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tickCmd(a.cfg.TickInterval())
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.timers.setSize(a.width, contentHeight)
		a.trash.setSize(a.width, contentHeight)
		a.histView.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tickMsg:
		return a.handleTick(msg)

	case dirtyMsg:
		a.dirty = true
		return a, nil

	case statusMsg:
		a.status = msg.text
		a.statusError = msg.isError
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusError = false
		a.exportPicking = false
		return a, nil

	case tea.KeyMsg:
		// The alert takeover captures all input until acknowledged.
		if a.alertID != "" {
			return a.updateAlert(msg)
		}

		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (form or confirm), delegate.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewTimers
			return a, a.refreshCurrentView()
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewTrash
			return a, a.refreshCurrentView()
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewHistory
			return a, a.refreshCurrentView()
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewSettings
			return a, nil
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % 4
			return a, a.refreshCurrentView()
		case a.activeView == viewHistory && key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		}
	}

	return a.updateActiveView(msg)
}

// handleTick advances the collection, promotes the next queued alert, and
// flushes any pending autosave.
func (a App) handleTick(msg tickMsg) (tea.Model, tea.Cmd) {
	now := time.Time(msg)
	cmds := []tea.Cmd{tickCmd(a.cfg.TickInterval())}

	if a.col.Tick(now) {
		a.dirty = true
	}

	if a.alertID == "" {
		if t, ok := a.col.PendingAlert(); ok {
			a.alertID = t.ID()
		}
	}

	if a.dirty {
		a.dirty = false
		cmds = append(cmds, a.saveCmd())
	}

	var cmd tea.Cmd
	a.timers, cmd = a.timers.update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}
	a.trash, cmd = a.trash.update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}
	return a, tea.Batch(cmds...)
}

// saveCmd snapshots the collection synchronously and writes it off the
// update loop.
func (a App) saveCmd() tea.Cmd {
	doc := a.col.Document()
	state := a.state
	return func() tea.Msg {
		if err := state.Save(doc); err != nil {
			slog.Error("autosave failed", "path", state.Path(), "error", err)
			return statusMsg{text: "Save failed: " + err.Error(), isError: true}
		}
		return nil
	}
}

func (a App) updateAlert(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Back):
		a.col.Acknowledge(a.alertID)
		a.alertID = ""
		// Queued alerts surface one at a time, oldest first.
		if t, ok := a.col.PendingAlert(); ok {
			a.alertID = t.ID()
		}
		a.timers.refresh(time.Now())
		return a, nil
	case key.Matches(msg, keys.Quit):
		return a, tea.Quit
	}
	return a, nil
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewTimers:
		a.timers, cmd = a.timers.update(msg)
	case viewTrash:
		a.trash, cmd = a.trash.update(msg)
	case viewHistory:
		a.histView, cmd = a.histView.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewTimers:
		return a.timers.formActive
	case viewTrash:
		return a.trash.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a *App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewTimers:
		a.timers.refresh(time.Now())
	case viewTrash:
		a.trash.refresh(time.Now())
	case viewHistory:
		return a.histView.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	if a.alertID != "" {
		return a.renderAlert()
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewTimers:
		content = a.timers.view()
	case viewTrash:
		content = a.trash.view()
	case viewHistory:
		content = a.histView.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("due")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		if a.statusError {
			status = errorStyle.Render(" " + a.status)
		} else {
			status = mutedStyle.Render(" " + a.status)
		}
	}

	// Nearest running deadline in the footer
	nextInfo := ""
	if label, remaining, ok := a.nextDue(); ok {
		nextInfo = successStyle.Render(" ● " + label + " " + remaining)
	}

	left := footerStyle.Render(helpView)
	right := nextInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

// nextDue finds the running timer closest to its deadline.
func (a App) nextDue() (string, string, bool) {
	now := time.Now()
	var bestLabel string
	var bestRemaining time.Duration
	found := false

	for _, row := range a.col.Rows(now) {
		if row.State != countdown.StateRunning {
			continue
		}
		t, ok := a.col.Get(row.ID)
		if !ok {
			continue
		}
		r := t.Remaining(now)
		if !found || r < bestRemaining {
			bestLabel, bestRemaining, found = row.Label, r, true
		}
	}
	if !found {
		return "", "", false
	}
	return bestLabel, formatSeconds(int64(bestRemaining / time.Second)), true
}

func (a App) renderAlert() string {
	label := "Timer"
	finished := ""
	if t, ok := a.col.Get(a.alertID); ok {
		label = t.Label()
		if at := t.FinishedAt(); !at.IsZero() {
			finished = "finished at " + at.Local().Format("15:04:05")
		}
	}

	lines := []string{
		errorStyle.Bold(true).Render("⏰  TIME'S UP"),
		"",
		titleStyle.Render(label),
	}
	if finished != "" {
		lines = append(lines, mutedStyle.Render(finished))
	}
	lines = append(lines, "", mutedStyle.Render("enter: dismiss"))

	box := alertPanelStyle.Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, box)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	formats := []string{"CSV", "JSON"}
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < 1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	history := a.history
	return func() tea.Msg {
		finishes, err := history.RecentFinishes(0)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		home, _ := os.UserHomeDir()
		dateStr := time.Now().Format("2006-01-02")

		var path string
		if format == 0 {
			path = filepath.Join(home, fmt.Sprintf("due-history-%s.csv", dateStr))
			if err := export.ToCSV(finishes, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(home, fmt.Sprintf("due-history-%s.json", dateStr))
			if err := export.ToJSON(finishes, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}

		return exportDoneMsg{path: path}
	}
}
