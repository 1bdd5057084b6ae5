// Package info provides the tab showing the signed-in session, display
// preferences and build information.
package info

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/referral-admin-tui/internal/app"
	"github.com/j-veylop/referral-admin-tui/internal/config"
)

// keyMap defines the key bindings specific to the info tab.
type keyMap struct {
	Compact key.Binding
	Theme   key.Binding
	Renew   key.Binding
	Logout  key.Binding
	Up      key.Binding
	Down    key.Binding
}

// defaultKeyMap returns the default key bindings for the info tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Compact: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "compact mode"),
		),
		Theme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "cycle theme"),
		),
		Renew: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "refresh session"),
		),
		Logout: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "sign out"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
	}
}

// Model represents the info tab state.
type Model struct {
	commands *app.Commands
	config   *config.Config
	keys     keyMap
	viewport viewport.Model
	width    int
	height   int
}

// New creates a new info model.
func New(commands *app.Commands, cfg *config.Config) *Model {
	return &Model{
		commands: commands,
		config:   cfg,
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the info tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the info tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Compact):
		return m, m.commands.ToggleCompact()
	case key.Matches(keyMsg, m.keys.Theme):
		return m, m.commands.CycleTheme()
	case key.Matches(keyMsg, m.keys.Renew):
		return m, func() tea.Msg { return app.RefreshSessionMsg{} }
	case key.Matches(keyMsg, m.keys.Logout):
		return m, func() tea.Msg { return app.LogoutMsg{} }
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(keyMsg)
		return m, cmd
	}
}

// SetSize sets the available size for the info tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.Renew,
		m.keys.Logout,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Renew, m.keys.Logout},
		{m.keys.Compact, m.keys.Theme},
	}
}
