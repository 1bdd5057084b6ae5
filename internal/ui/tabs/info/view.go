package info

import (
	"fmt"
	"runtime"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/referral-admin-tui/internal/models"
	"github.com/j-veylop/referral-admin-tui/internal/ui/styles"
	"github.com/j-veylop/referral-admin-tui/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		m.renderTitle(),
		m.renderSessionCard(),
		m.renderPrefsCard(),
		m.renderConfigCard(),
		m.renderAboutCard(),
	)
	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Session, preferences and application information")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	return min(max(m.width-6, 50), 80)
}

func (m *Model) renderSessionCard() string {
	state := m.commands.Store().Auth.State()
	session := state.Session

	rows := []string{styles.CardTitleStyle.Render("Session"), ""}
	if session.User == nil {
		rows = append(rows, styles.HelpStyle.Render("Not signed in"))
	} else {
		user := session.User
		rows = append(rows,
			m.renderRow("Signed in as", user.DisplayName()),
			m.renderRow("Email", user.Email),
			m.renderRow("Role", roleLabel(user)),
			m.renderRow("Status", state.Status.String()),
			m.renderRow("Token expires", expiryLabel(session.ExpiresAt, time.Now())),
		)
	}
	if state.Error != "" {
		rows = append(rows, "", styles.ErrorTextStyle.Render(state.Error))
	}
	rows = append(rows, "", styles.HelpStyle.Render("R refresh session · o sign out"))

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func roleLabel(u *models.UserInfo) string {
	role := u.Role
	if role == "" {
		role = u.UserType
	}
	if u.IsSuperuser {
		role += " (superuser)"
	}
	return role
}

func expiryLabel(expires, now time.Time) string {
	if expires.IsZero() {
		return "unknown"
	}
	left := expires.Sub(now)
	stamp := expires.Local().Format("2006-01-02 15:04")
	if left <= 0 {
		return stamp + " (expired)"
	}
	return fmt.Sprintf("%s (in %s)", stamp, left.Round(time.Minute))
}

func (m *Model) renderPrefsCard() string {
	prefs := m.commands.Store().UI.Prefs()
	theme := prefs.Theme
	if theme == "" {
		theme = models.ThemeAuto
	}
	compact := "off"
	if prefs.Compact {
		compact = "on"
	}

	rows := []string{
		styles.CardTitleStyle.Render("Display"),
		"",
		m.renderRow("Theme", theme),
		m.renderRow("Compact mode", compact),
		"",
		styles.HelpStyle.Render("t cycle theme · c toggle compact mode"),
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderConfigCard() string {
	rows := []string{styles.CardTitleStyle.Render("Configuration"), ""}

	if m.config != nil {
		rows = append(rows,
			m.renderRow("API", m.config.APIBaseURL),
			m.renderRow("Environment", m.config.Environment),
			m.renderRow("Session File", m.config.SessionPath),
			m.renderRow("Database", m.config.DatabasePath),
			m.renderRow("Log File", m.config.LogPath),
			m.renderRow("Exports", m.config.ExportDir),
		)
	} else {
		rows = append(rows, styles.HelpStyle.Render("Configuration not loaded"))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(18).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	if value == "" {
		value = "-"
	}
	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

func (m *Model) renderAboutCard() string {
	rows := []string{
		styles.CardTitleStyle.Render("About Referral Admin"),
		"",
		m.renderRow("Version", version.GetVersion()),
		m.renderRow("Build Date", version.GetDate()),
		m.renderRow("Git Commit", version.GetCommit()),
		m.renderRow("Go Version", runtime.Version()),
		m.renderRow("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)),
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
