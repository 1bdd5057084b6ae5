package activity

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/j-veylop/referral-admin-tui/internal/models"
	"github.com/j-veylop/referral-admin-tui/internal/ui/components"
	"github.com/j-veylop/referral-admin-tui/internal/ui/styles"
)

const recentLimit = 15

// View renders the activity tab.
func (m *Model) View() string {
	if m.loading && m.data == nil {
		return m.renderLoading()
	}
	if m.errorMsg != "" {
		return m.renderError()
	}
	if m.data == nil || m.data.Total == nil {
		return m.renderEmpty()
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderRequestChart(),
		m.renderRecent(),
		m.renderExports(),
	)
	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderLoading() string {
	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(styles.HelpStyle.Render("Loading activity..."))
}

func (m *Model) renderError() string {
	content := fmt.Sprintf("%s %s",
		styles.ErrorTextStyle.Render("Error:"),
		m.errorMsg,
	)
	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *Model) renderEmpty() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("Activity"),
		"",
		styles.HelpStyle.Render("No requests recorded yet."),
	)
	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *Model) renderHeader() string {
	title := styles.TitleStyle.Render("Activity")

	rangeStyle := lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Primary)
	rangeIndicator := rangeStyle.Render(fmt.Sprintf("[t] %s", m.timeRange))

	header := lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", rangeIndicator)

	total := m.data.Total
	summary := fmt.Sprintf("%d requests · %s · %d paths · avg %.0fms",
		total.TotalRequests,
		errorLabel(total.ErrorCount),
		total.UniquePaths,
		total.AvgDurationMs,
	)
	if !m.lastRefresh.IsZero() {
		summary += " · updated " + m.lastRefresh.Format("15:04:05")
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, styles.HelpStyle.Render(summary), "")
}

func errorLabel(n int) string {
	label := fmt.Sprintf("%d errors", n)
	if n > 0 {
		return styles.ErrorTextStyle.Render(label)
	}
	return label
}

func (m *Model) renderRequestChart() string {
	cardWidth := max(m.width-6, 40)

	rows := []string{styles.CardTitleStyle.Render("Requests per Hour"), ""}

	hourly := m.data.Hourly
	if len(hourly) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  No requests in this range"))
	} else {
		// Hourly rows arrive newest first; the chart reads left to right.
		n := len(hourly)
		requests := make([]float64, n)
		failures := make([]float64, n)
		for i, h := range hourly {
			requests[n-1-i] = float64(h.TotalRequests)
			failures[n-1-i] = float64(h.ErrorCount)
		}

		chartWidth := max(cardWidth-12, 30)
		chart := components.RenderDualLineChart(requests, failures, chartWidth, 8,
			fmt.Sprintf("%s → %s",
				hourly[n-1].Hour.Local().Format("Jan 2 15:04"),
				hourly[0].Hour.Local().Format("Jan 2 15:04")))
		for line := range strings.SplitSeq(chart, "\n") {
			rows = append(rows, "  "+line)
		}

		rows = append(rows, "", "  "+components.RenderLegend([]components.LegendItem{
			{Label: "Requests", Color: components.ChartReferralColor},
			{Label: "Errors", Color: components.ChartCallColor},
		}))
	}
	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderRecent() string {
	cardWidth := max(m.width-6, 40)

	recent := m.data.Recent
	title := styles.CardTitleStyle.Render("Recent Requests")
	if len(recent) > 1 {
		title += "  " + styles.HelpStyle.Render(durationSparkline(recent, 30))
	}
	rows := []string{title, ""}

	if len(recent) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  Nothing recorded"))
	}
	for i, entry := range recent {
		if i == recentLimit {
			rows = append(rows, styles.HelpStyle.Render(fmt.Sprintf("  … %d more", len(recent)-recentLimit)))
			break
		}
		rows = append(rows, "  "+requestLine(entry, cardWidth-6))
	}
	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// durationSparkline plots request durations oldest to newest.
func durationSparkline(recent []models.RequestLogEntry, width int) string {
	n := len(recent)
	values := make([]float64, n)
	for i, e := range recent {
		values[n-1-i] = float64(e.DurationMs)
	}
	return components.RenderSparkline(values, width)
}

func requestLine(e models.RequestLogEntry, width int) string {
	status := fmt.Sprintf("%d", e.StatusCode)
	statusStyle := styles.SuccessTextStyle
	if e.Failed() {
		statusStyle = styles.ErrorTextStyle
		if e.StatusCode == 0 {
			status = "ERR"
		}
	}
	line := fmt.Sprintf("%s %-6s %s %s %dms",
		e.Timestamp.Local().Format("15:04:05"),
		e.Method,
		statusStyle.Render(status),
		e.Path,
		e.DurationMs,
	)
	if e.Error != "" {
		line += " " + styles.ErrorTextStyle.Render(e.Error)
	}
	return ansi.Truncate(line, width, "…")
}

func (m *Model) renderExports() string {
	cardWidth := max(m.width-6, 40)

	rows := []string{styles.CardTitleStyle.Render("Downloaded Exports"), ""}
	if len(m.data.Exports) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  No exports downloaded"))
	}
	for _, rec := range m.data.Exports {
		rows = append(rows, fmt.Sprintf("  %s %-6s %8s %s",
			rec.CreatedAt.Local().Format("Jan 2 15:04"),
			rec.Kind,
			formatBytes(rec.Bytes),
			rec.Path,
		))
	}
	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
