package referrals

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/referral-admin-tui/internal/ui/styles"
	"github.com/j-veylop/referral-admin-tui/internal/ui/tabs/resource"
)

// View renders the referrals tab.
func (m *Model) View() string {
	var view string
	switch m.section {
	case sectionCodes:
		f := m.codes.Snapshot().Filters
		header := []string{"active: " + resource.BoolLabel(f.IsActive, "active", "inactive")}
		if f.Campaign != "" {
			header = append(header, "campaign: "+f.Campaign.String())
		}
		view = m.codes.View(append(header, search(f.Search)...)...)
	case sectionRelationships:
		f := m.relationships.Snapshot().Filters
		header := []string{"status: " + all(f.Status), "reward: " + all(f.RewardStatus)}
		view = m.relationships.View(append(header, search(f.Search)...)...)
	default:
		f := m.campaigns.Snapshot().Filters
		header := []string{"active: " + resource.BoolLabel(f.IsActive, "active", "inactive")}
		view = m.campaigns.View(append(header, search(f.Search)...)...)
	}

	view = lipgloss.JoinVertical(lipgloss.Left, m.renderSections(), view)
	switch {
	case m.form.Active():
		view = lipgloss.JoinVertical(lipgloss.Left, view, m.form.View(m.width))
	case m.confirm.Active():
		view = lipgloss.JoinVertical(lipgloss.Left, view, "  "+m.confirm.View())
	}
	return view
}

func (m *Model) renderSections() string {
	parts := make([]string, 0, len(sectionNames))
	for i, name := range sectionNames {
		if section(i) == m.section {
			parts = append(parts, styles.FocusedStyle.Render("["+name+"]"))
		} else {
			parts = append(parts, styles.BlurredStyle.Render(" "+name+" "))
		}
	}
	return "  " + strings.Join(parts, " ")
}

func all(v string) string {
	if v == "" {
		return "all"
	}
	return v
}

func search(q string) []string {
	if q == "" {
		return nil
	}
	return []string{fmt.Sprintf("search: %q", q)}
}
