package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/due/internal/countdown"
)

type timersModel struct {
	col    *countdown.Collection
	width  int
	height int

	rows   []countdown.Row
	cursor int

	formActive bool
	form       *huh.Form
	editingID  string // empty while adding

	// Form field pointers (survive value copies)
	formLabel *string
	formTime  *string
}

func newTimersModel(col *countdown.Collection) timersModel {
	label, input := "", ""
	return timersModel{
		col:       col,
		rows:      col.Rows(time.Now()),
		formLabel: &label,
		formTime:  &input,
	}
}

func (m *timersModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m *timersModel) refresh(now time.Time) {
	m.rows = m.col.Rows(now)
	if m.cursor >= len(m.rows) {
		m.cursor = max(0, len(m.rows)-1)
	}
}

func (m timersModel) selected() (countdown.Row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return countdown.Row{}, false
	}
	return m.rows[m.cursor], true
}

func (m timersModel) update(msg tea.Msg) (timersModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
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

func (m timersModel) updateList(msg tea.KeyMsg) (timersModel, tea.Cmd) {
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

	case key.Matches(msg, keys.MoveUp):
		if row, ok := m.selected(); ok {
			if err := m.col.Move(row.ID, -1); err != nil {
				return m, reportError(err)
			}
			m.cursor = max(0, m.cursor-1)
			m.refresh(now)
			return m, markDirty()
		}

	case key.Matches(msg, keys.MoveDown):
		if row, ok := m.selected(); ok {
			if err := m.col.Move(row.ID, 1); err != nil {
				return m, reportError(err)
			}
			m.cursor = min(len(m.rows)-1, m.cursor+1)
			m.refresh(now)
			return m, markDirty()
		}

	case key.Matches(msg, keys.Toggle):
		if row, ok := m.selected(); ok {
			var err error
			if row.State == countdown.StateRunning {
				err = m.col.Pause(row.ID, now)
			} else {
				err = m.col.Start(row.ID, now)
			}
			if err != nil {
				return m, reportError(err)
			}
			m.refresh(now)
			return m, markDirty()
		}

	case key.Matches(msg, keys.Stop):
		if row, ok := m.selected(); ok {
			if err := m.col.StopOrReset(row.ID, now); err != nil {
				return m, reportError(err)
			}
			m.refresh(now)
			return m, markDirty()
		}

	case key.Matches(msg, keys.Delete):
		if row, ok := m.selected(); ok {
			if err := m.col.SoftDelete(row.ID); err != nil {
				return m, reportError(err)
			}
			m.refresh(now)
			return m, tea.Batch(markDirty(), reportStatus("Moved to trash: "+row.Label))
		}

	case key.Matches(msg, keys.New):
		return m.showAddForm()

	case key.Matches(msg, keys.Edit):
		if _, ok := m.selected(); ok {
			return m.showEditForm(now)
		}
	}
	return m, nil
}

func (m timersModel) showAddForm() (timersModel, tea.Cmd) {
	*m.formLabel = ""
	*m.formTime = ""
	m.editingID = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Label").Placeholder("Timer name (optional)").Value(m.formLabel),
			huh.NewInput().Title("Time").Placeholder("HH:MM, M:SS, or minutes").Value(m.formTime),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m timersModel) showEditForm(now time.Time) (timersModel, tea.Cmd) {
	row := m.rows[m.cursor]
	t, ok := m.col.Get(row.ID)
	if !ok {
		return m, nil
	}

	*m.formLabel = t.Label()
	*m.formTime = t.EditValue(now)
	m.editingID = row.ID

	placeholder := "M:SS or minutes"
	if t.Mode() == countdown.ModeAbsolute {
		placeholder = "HH:MM"
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Label").Value(m.formLabel),
			huh.NewInput().Title("Time").Placeholder(placeholder).Value(m.formTime),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m timersModel) updateForm(msg tea.Msg) (timersModel, tea.Cmd) {
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
		return m.submitForm()
	}

	return m, cmd
}

func (m timersModel) submitForm() (timersModel, tea.Cmd) {
	now := time.Now()

	if m.editingID == "" {
		if _, err := m.col.Add(*m.formLabel, *m.formTime, now); err != nil {
			return m, reportError(err)
		}
		m.refresh(now)
		m.cursor = len(m.rows) - 1
		return m, markDirty()
	}

	if err := m.col.EditLabel(m.editingID, *m.formLabel); err != nil {
		return m, reportError(err)
	}
	if err := m.col.EditTime(m.editingID, *m.formTime, now); err != nil {
		return m, reportError(err)
	}
	m.refresh(now)
	return m, markDirty()
}

func (m timersModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("New Timer")
		if m.editingID != "" {
			title = titleStyle.Render("Edit Timer")
		}
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View()),
		)
	}

	title := titleStyle.Render("Timers")

	if len(m.rows) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No timers yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	header := mutedStyle.Render(fmt.Sprintf("  %-24s %-9s %-9s %10s %8s", "Label", "Mode", "State", "Remaining", "Ends"))
	rows = append(rows, header)
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 64))))

	for i, row := range m.rows {
		cursor := "  "
		labelStyle := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			labelStyle = selectedItemStyle
		}
		line := fmt.Sprintf("%s%s %-9s %-9s %s %8s",
			cursor,
			labelStyle.Render(fmt.Sprintf("%-24s", truncate(row.Label, 24))),
			row.Mode,
			row.State,
			remainingCell(row),
			row.End,
		)
		rows = append(rows, line)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  space: start/pause  x: stop  n: new  e: edit  d: trash  shift+↑/↓: move"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

// remainingCell renders the remaining column padded to 10 cells and
// colored by state.
func remainingCell(row countdown.Row) string {
	cell := fmt.Sprintf("%10s", row.Remaining)
	if row.AlertPending {
		return finishedStyle.Render(cell)
	}
	switch row.State {
	case countdown.StateRunning:
		return runningStyle.Render(cell)
	case countdown.StatePaused:
		return pausedStyle.Render(cell)
	case countdown.StateFinished:
		return finishedStyle.Render(cell)
	default:
		return stoppedStyle.Render(cell)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
