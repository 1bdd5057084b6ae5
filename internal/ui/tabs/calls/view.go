package calls

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/referral-admin-tui/internal/ui/components"
	"github.com/j-veylop/referral-admin-tui/internal/ui/styles"
	"github.com/j-veylop/referral-admin-tui/internal/ui/tabs/resource"
)

// View renders the calls tab.
func (m *Model) View() string {
	snap := m.list.Snapshot()
	header := []string{
		"state: " + label(snap.Filters.State),
		"direction: " + label(snap.Filters.Direction),
	}
	if snap.Filters.Search != "" {
		header = append(header, fmt.Sprintf("search: %q", snap.Filters.Search))
	}
	if line := resource.ExportLine(m.commands.Store().Exports.State()); line != "" {
		header = append(header, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.list.View(header...), m.renderStats())
}

func label(v string) string {
	if v == "" {
		return "all"
	}
	return v
}

func (m *Model) renderStats() string {
	entry := m.commands.Store().CallStats.Get(statsKey(m.list.Snapshot().Filters))
	switch {
	case entry.Error != "":
		return "  " + styles.ErrorTextStyle.Render("Stats unavailable: "+entry.Error)
	case !entry.Loaded:
		return "  " + styles.HelpStyle.Render("Loading stats...")
	}

	s := entry.Data
	return "  " + styles.HelpStyle.Render(fmt.Sprintf(
		"%s calls · %s active · %s ended · %s failed · avg %s",
		components.FormatCount(float64(s.TotalCalls)),
		components.FormatCount(float64(s.ActiveCalls)),
		components.FormatCount(float64(s.EndedCalls)),
		components.FormatCount(float64(s.FailedCalls)),
		resource.FormatDuration(int(s.AverageDuration)),
	))
}
