package admins

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/referral-admin-tui/internal/ui/tabs/resource"
)

// View renders the admins tab.
func (m *Model) View() string {
	snap := m.list.Snapshot()
	header := []string{"active: " + resource.BoolLabel(snap.Filters.IsActive, "active", "inactive")}
	if snap.Filters.Search != "" {
		header = append(header, "search: "+snap.Filters.Search)
	}

	view := m.list.View(header...)
	switch {
	case m.form.Active():
		view = lipgloss.JoinVertical(lipgloss.Left, view, m.form.View(m.width))
	case m.confirm.Active():
		view = lipgloss.JoinVertical(lipgloss.Left, view, "  "+m.confirm.View())
	}
	return view
}
