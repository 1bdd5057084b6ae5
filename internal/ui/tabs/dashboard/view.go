package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/referral-admin-tui/internal/models"
	"github.com/j-veylop/referral-admin-tui/internal/ui/components"
	"github.com/j-veylop/referral-admin-tui/internal/ui/styles"
)

// View renders the dashboard component.
func (m *Model) View() string {
	overview := m.commands.Store().Overview.Get(m.query().Key())
	if !overview.Loaded && overview.Error == "" {
		return m.renderLoading()
	}

	sections := []string{m.renderTitle()}
	if overview.Error != "" {
		sections = append(sections, components.RenderAlert(components.AlertError, overview.Error, m.width-6))
	}
	if overview.Loaded {
		sections = append(sections, m.renderOverview(overview.Data))
	}
	sections = append(sections, m.renderCallStats(), m.renderTrends())

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

// renderLoading renders the loading state.
func (m *Model) renderLoading() string {
	return m.loader.Centered(m.width, m.height, m.loadSteps()...)
}

// renderTitle renders the dashboard title.
func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Platform Overview")
	subtitle := styles.HelpStyle.Render("Last " + periodLabel(m.period) + " · p to change")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func periodLabel(p string) string {
	switch p {
	case models.Period7d:
		return "7 days"
	case models.Period90d:
		return "90 days"
	default:
		return "30 days"
	}
}

func (m *Model) cardWidth() int {
	return max(m.width-6, 40)
}

func (m *Model) compact() bool {
	return m.commands.Store().UI.Prefs().Compact
}

func (m *Model) cardStyle() lipgloss.Style {
	if m.compact() {
		return styles.CompactCardStyle
	}
	return styles.CardStyle
}

// renderOverview renders the headline counters and the animated gauges.
func (m *Model) renderOverview(o models.Overview) string {
	cardWidth := m.cardWidth()

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◈")
	rows := []string{fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Key Figures")), ""}

	stats := []struct {
		label string
		value string
	}{
		{"Users", components.FormatCount(float64(o.TotalUsers))},
		{"Active", components.FormatCount(float64(o.ActiveUsers))},
		{"Calls", components.FormatCount(float64(o.TotalCalls))},
		{"Referrals", components.FormatCount(float64(o.TotalReferrals))},
		{"Rewards", o.TotalRewards.String()},
	}
	cells := make([]string, 0, len(stats))
	cellWidth := max((cardWidth-4)/len(stats), 10)
	for _, s := range stats {
		cells = append(cells, lipgloss.NewStyle().Width(cellWidth).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				styles.HelpStyle.Render(s.label),
				lipgloss.NewStyle().Bold(true).Foreground(styles.TextPrimary).Render(s.value),
			),
		))
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...), "")

	active := 0.0
	if o.TotalUsers > 0 {
		active = float64(o.ActiveUsers) / float64(o.TotalUsers) * 100
	}
	conversion := m.gauge(animConversion, o.ConversionRate()*100)
	active = m.gauge(animActive, active)
	barWidth := cardWidth - 4
	if m.compact() {
		half := max(barWidth/2-12, 10)
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Center,
			styles.HelpStyle.Render("Conversion "), m.usageBar.ViewCompact(conversion, half),
			styles.HelpStyle.Render("  Active "), m.usageBar.ViewCompact(active, half),
		))
	} else {
		rows = append(rows,
			m.usageBar.View(conversion, "Conversion", barWidth),
			m.usageBar.View(active, "Active users", barWidth),
		)
	}

	return m.cardStyle().Width(cardWidth).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// renderCallStats renders the call breakdown as a bar chart.
func (m *Model) renderCallStats() string {
	entry := m.commands.Store().CallStats.Get(m.query().Key())

	icon := lipgloss.NewStyle().Foreground(components.ChartCallColor).Render("◎")
	rows := []string{fmt.Sprintf("%s %s", icon, styles.CardTitleStyle.Render("Calls")), ""}
	rows = append(rows, entryBody(entry.Error, entry.Loaded, func() string {
		s := entry.Data
		chart := components.RenderBarChart(
			[]float64{float64(s.ActiveCalls), float64(s.EndedCalls), float64(s.FailedCalls)},
			[]string{"active", "ended", "failed"},
			m.cardWidth()-4,
		)
		avg := styles.HelpStyle.Render(fmt.Sprintf("average duration %s", formatSeconds(s.AverageDuration)))
		return lipgloss.JoinVertical(lipgloss.Left, chart, "", avg)
	}))

	return m.cardStyle().Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// renderTrends plots referrals and calls per day on one chart.
func (m *Model) renderTrends() string {
	s := m.commands.Store()
	referrals := s.ReferralTrends.Get(m.query().Key())
	calls := s.CallTrends.Get(m.query().Key())

	icon := lipgloss.NewStyle().Foreground(components.ChartReferralColor).Render("◆")
	rows := []string{fmt.Sprintf("%s %s", icon, styles.CardTitleStyle.Render("Trends")), ""}

	errMsg := referrals.Error
	if errMsg == "" {
		errMsg = calls.Error
	}
	rows = append(rows, entryBody(errMsg, referrals.Loaded && calls.Loaded, func() string {
		chart := components.RenderDualLineChart(
			models.TrendValues(referrals.Data),
			models.TrendValues(calls.Data),
			max(m.cardWidth()-14, 20), 8, dateRange(referrals.Data),
		)
		legend := components.RenderLegend([]components.LegendItem{
			{Label: "Referrals", Color: components.ChartReferralColor},
			{Label: "Calls", Color: components.ChartCallColor},
		})
		return lipgloss.JoinVertical(lipgloss.Left, chart, "", legend)
	}))

	return m.cardStyle().Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// entryBody renders an error, a loading line, or the loaded body.
func entryBody(errMsg string, loaded bool, body func() string) string {
	switch {
	case errMsg != "":
		return styles.ErrorTextStyle.Render(errMsg)
	case !loaded:
		return styles.HelpStyle.Render("Loading...")
	default:
		return body()
	}
}

func dateRange(points []models.TrendPoint) string {
	if len(points) == 0 {
		return ""
	}
	return strings.Join([]string{points[0].Date, points[len(points)-1].Date}, " → ")
}

func formatSeconds(s float64) string {
	if s <= 0 {
		return "---"
	}
	total := int(s)
	return fmt.Sprintf("%dm %02ds", total/60, total%60)
}
