package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/due/internal/store"
)

const recentFinishLimit = 12

type historyModel struct {
	history *store.History
	width   int
	height  int

	finishes []store.Finish
	days     []store.DayCount
	total    int64
	offset   int // 7-day blocks back from today (0 = current)

	chart barchart.Model
}

func newHistoryModel(h *store.History) historyModel {
	return historyModel{
		history: h,
		chart:   barchart.New(60, 10),
	}
}

func (m *historyModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m historyModel) refresh() tea.Cmd {
	return func() tea.Msg {
		from, to := m.dateRange()
		days, _ := m.history.FinishesPerDay(from, to)
		finishes, _ := m.history.RecentFinishes(recentFinishLimit)
		total, _ := m.history.CountFinishes()
		return historyDataMsg{finishes: finishes, days: days, total: total}
	}
}

// dateRange covers the 7-day window ending today, shifted back by offset
// blocks.
func (m historyModel) dateRange() (time.Time, time.Time) {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	end := today.AddDate(0, 0, 1-7*m.offset)
	return end.AddDate(0, 0, -7), end
}

func (m historyModel) update(msg tea.Msg) (historyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case historyDataMsg:
		m.finishes = msg.finishes
		m.days = msg.days
		m.total = msg.total
		m.buildChart()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			m.offset++
			return m, m.refresh()
		case key.Matches(msg, keys.Right):
			if m.offset > 0 {
				m.offset--
			}
			return m, m.refresh()
		}
	}
	return m, nil
}

func (m *historyModel) buildChart() {
	chartWidth := m.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 10
	if m.height > 30 {
		chartHeight = 14
	}

	m.chart = barchart.New(chartWidth, chartHeight)

	from, to := m.dateRange()

	counts := make(map[string]int64, len(m.days))
	for _, d := range m.days {
		counts[d.Date] = d.Count
	}

	var bars []barchart.BarData
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		count := counts[d.Format("2006-01-02")]
		style := lipgloss.NewStyle().Foreground(colorPrimary)
		if count == 0 {
			style = lipgloss.NewStyle().Foreground(colorSubtle)
		}
		bars = append(bars, barchart.BarData{
			Label: d.Format("Mon 02"),
			Values: []barchart.BarValue{
				{Name: "finishes", Value: float64(count), Style: style},
			},
		})
	}

	m.chart.PushAll(bars)
	m.chart.Draw()
}

func (m historyModel) view() string {
	w := m.width - 4

	from, to := m.dateRange()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s — %s", from.Format("Jan 02"), to.Add(-24*time.Hour).Format("Jan 02, 2006")))
	totalLabel := mutedStyle.Render(fmt.Sprintf("%d finishes total", m.total))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("History"), "  ", dateLabel, "  ", totalLabel,
	)

	chartView := m.chart.View()
	tableView := m.renderFinishTable(w)
	nav := mutedStyle.Render("  ←/→: navigate weeks  e: export")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", chartView, "", tableView, "", nav,
		),
	)
}

func (m historyModel) renderFinishTable(w int) string {
	if len(m.finishes) == 0 {
		return mutedStyle.Render("  No finishes recorded yet")
	}

	var rows []string
	headerRow := mutedStyle.Render(fmt.Sprintf("  %-18s %-24s %-9s %10s", "Finished", "Label", "Mode", "Duration"))
	rows = append(rows, headerRow)
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 64))))

	for _, f := range m.finishes {
		duration := formatSeconds(f.Seconds)
		if f.Seconds == 0 {
			duration = "—"
		}
		rows = append(rows, fmt.Sprintf("  %-18s %-24s %-9s %10s",
			f.FinishedAt.Local().Format("Jan 02 15:04:05"),
			truncate(f.Label, 24),
			f.Mode,
			duration,
		))
	}

	return strings.Join(rows, "\n")
}
