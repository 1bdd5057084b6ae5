package users

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/referral-admin-tui/internal/ui/tabs/resource"
)

// View renders the users tab.
func (m *Model) View() string {
	snap := m.list.Snapshot()
	header := []string{
		fmt.Sprintf("active: %s", resource.BoolLabel(snap.Filters.IsActive, "active", "inactive")),
	}
	if snap.Filters.Search != "" {
		header = append(header, fmt.Sprintf("search: %q", snap.Filters.Search))
	}
	if line := resource.ExportLine(m.commands.Store().Exports.State()); line != "" {
		header = append(header, line)
	}

	view := m.list.View(header...)
	if m.confirm.Active() {
		view = lipgloss.JoinVertical(lipgloss.Left, view, "  "+m.confirm.View())
	}
	return view
}
