package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/due/internal/config"
	"github.com/sadopc/due/internal/countdown"
)

type trashModel struct {
	col    *countdown.Collection
	cfg    *config.Config
	width  int
	height int

	rows   []countdown.Row
	cursor int

	formActive  bool
	form        *huh.Form
	confirmKind string // "delete" or "empty"
	pendingID   string

	confirmed *bool
}

func newTrashModel(col *countdown.Collection, cfg *config.Config) trashModel {
	yes := false
	return trashModel{
		col:       col,
		cfg:       cfg,
		confirmed: &yes,
	}
}

func (m *trashModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m *trashModel) refresh(now time.Time) {
	m.rows = m.col.TrashRows(now)
	if m.cursor >= len(m.rows) {
		m.cursor = max(0, len(m.rows)-1)
	}
}

func (m trashModel) selected() (countdown.Row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return countdown.Row{}, false
	}
	return m.rows[m.cursor], true
}

func (m trashModel) update(msg tea.Msg) (trashModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateConfirm(msg)
	}

	switch msg := msg.(type) {
	case tickMsg:
		m.refresh(time.Time(msg))
		return m, nil

	case tea.KeyMsg:
		return m.updateList(msg)
	}
	return m, nil
}

func (m trashModel) updateList(msg tea.KeyMsg) (trashModel, tea.Cmd) {
	now := time.Now()

	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}

	case key.Matches(msg, keys.Restore), key.Matches(msg, keys.Enter):
		if row, ok := m.selected(); ok {
			if err := m.col.Restore(row.ID, now); err != nil {
				return m, reportError(err)
			}
			m.refresh(now)
			return m, tea.Batch(markDirty(), reportStatus("Restored: "+row.Label))
		}

	case key.Matches(msg, keys.Delete):
		if row, ok := m.selected(); ok {
			if !m.cfg.ConfirmDelete {
				return m.deleteForever(row.ID, now)
			}
			return m.showConfirm("delete", row.ID, fmt.Sprintf("Delete %q forever?", row.Label))
		}

	case key.Matches(msg, keys.Empty):
		if len(m.rows) == 0 {
			return m, nil
		}
		if !m.cfg.ConfirmDelete {
			return m.emptyTrash(now)
		}
		return m.showConfirm("empty", "", fmt.Sprintf("Delete all %d trashed timers forever?", len(m.rows)))
	}
	return m, nil
}

func (m trashModel) showConfirm(kind, id, prompt string) (trashModel, tea.Cmd) {
	*m.confirmed = false
	m.confirmKind = kind
	m.pendingID = id

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(prompt).
				Affirmative("Delete").
				Negative("Keep").
				Value(m.confirmed),
		),
	).WithShowHelp(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m trashModel) updateConfirm(msg tea.Msg) (trashModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		m.form = nil
		if !*m.confirmed {
			return m, nil
		}
		now := time.Now()
		if m.confirmKind == "empty" {
			return m.emptyTrash(now)
		}
		return m.deleteForever(m.pendingID, now)
	}

	return m, cmd
}

func (m trashModel) deleteForever(id string, now time.Time) (trashModel, tea.Cmd) {
	if err := m.col.PermanentDelete(id); err != nil {
		return m, reportError(err)
	}
	m.refresh(now)
	return m, tea.Batch(markDirty(), reportStatus("Deleted forever"))
}

func (m trashModel) emptyTrash(now time.Time) (trashModel, tea.Cmd) {
	m.col.EmptyTrash()
	m.refresh(now)
	return m, tea.Batch(markDirty(), reportStatus("Trash emptied"))
}

func (m trashModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("Confirm")
		return activePanelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View()),
		)
	}

	title := titleStyle.Render("Trash")

	if len(m.rows) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("Trash is empty."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	header := mutedStyle.Render(fmt.Sprintf("  %-24s %-9s %-9s %10s", "Label", "Mode", "State", "Remaining"))
	rows = append(rows, header)
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 56))))

	for i, row := range m.rows {
		cursor := "  "
		labelStyle := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			labelStyle = selectedItemStyle
		}
		line := fmt.Sprintf("%s%s %-9s %-9s %s",
			cursor,
			labelStyle.Render(fmt.Sprintf("%-24s", truncate(row.Label, 24))),
			row.Mode,
			row.State,
			stoppedStyle.Render(fmt.Sprintf("%10s", row.Remaining)),
		)
		rows = append(rows, line)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  r/enter: restore  d: delete forever  E: empty trash"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
