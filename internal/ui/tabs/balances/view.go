package balances

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// View renders the balances tab.
func (m *Model) View() string {
	f := m.list.Snapshot().Filters
	header := []string{"sort: " + orderingLabel(f.Ordering)}
	if f.Search != "" {
		header = append(header, fmt.Sprintf("search: %q", f.Search))
	}
	if n := len(m.marked); n > 0 {
		header = append(header, fmt.Sprintf("%d marked", n))
	}

	view := m.list.View(header...)
	if m.form.Active() {
		view = lipgloss.JoinVertical(lipgloss.Left, view, m.form.View(m.width))
	}
	return view
}

func orderingLabel(o string) string {
	switch o {
	case "-total_balance":
		return "total ↓"
	case "total_balance":
		return "total ↑"
	default:
		return "default"
	}
}
