package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/due/internal/config"
)

type settingsModel struct {
	cfg    *config.Config
	width  int
	height int

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	tickMs        *string
	accentColor   *string
	confirmDelete *bool
	logLevel      *string
}

func newSettingsModel(cfg *config.Config) settingsModel {
	tick, accent, level := "", "", ""
	confirm := true
	return settingsModel{
		cfg:           cfg,
		tickMs:        &tick,
		accentColor:   &accent,
		confirmDelete: &confirm,
		logLevel:      &level,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Edit):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.tickMs = strconv.Itoa(s.cfg.TickMs)
	*s.accentColor = s.cfg.AccentColor
	*s.confirmDelete = s.cfg.ConfirmDelete
	*s.logLevel = s.cfg.LogLevel

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Tick interval (ms)").Value(s.tickMs),
			huh.NewInput().Title("Accent color").
				Description("ANSI number or hex, e.g. 212 or #FF6B6B").
				Value(s.accentColor),
			huh.NewConfirm().Title("Confirm permanent deletes").
				Affirmative("Yes").
				Negative("No").
				Value(s.confirmDelete),
			huh.NewSelect[string]().Title("Log level").
				Options(
					huh.NewOption("debug", "debug"),
					huh.NewOption("info", "info"),
					huh.NewOption("warn", "warn"),
					huh.NewOption("error", "error"),
				).Value(s.logLevel),
		),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		return s, s.saveSettings()
	}

	return s, cmd
}

func (s settingsModel) saveSettings() tea.Cmd {
	if ms, err := strconv.Atoi(*s.tickMs); err == nil && ms > 0 {
		s.cfg.TickMs = ms
	}
	if *s.accentColor != "" {
		s.cfg.AccentColor = *s.accentColor
	}
	s.cfg.ConfirmDelete = *s.confirmDelete
	s.cfg.LogLevel = *s.logLevel

	applyAccent(s.cfg.AccentColor)

	if err := s.cfg.Save(); err != nil {
		return reportError(fmt.Errorf("save settings: %w", err))
	}
	return reportStatus("Settings saved")
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit settings")

	confirmText := "no"
	if s.cfg.ConfirmDelete {
		confirmText = "yes"
	}

	items := []struct {
		key, value string
	}{
		{"tick interval", fmt.Sprintf("%d ms", s.cfg.TickMs)},
		{"accent color", s.cfg.AccentColor},
		{"confirm deletes", confirmText},
		{"log level", s.cfg.LogLevel},
		{"state file", s.cfg.StatePath},
		{"history db", s.cfg.HistoryPath},
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for _, item := range items {
		label := lipgloss.NewStyle().Width(20).Render(item.key)
		rows = append(rows, fmt.Sprintf("  %s %s", label, highlightStyle.Render(item.value)))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  Paths take effect on next start"))
	rows = append(rows, "")
	rows = append(rows, hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
