// Package settings provides the platform settings tab.
package settings

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/referral-admin-tui/internal/api"
	"github.com/j-veylop/referral-admin-tui/internal/app"
	"github.com/j-veylop/referral-admin-tui/internal/models"
	settingsvc "github.com/j-veylop/referral-admin-tui/internal/services/settings"
	"github.com/j-veylop/referral-admin-tui/internal/store"
	"github.com/j-veylop/referral-admin-tui/internal/ui/components"
	"github.com/j-veylop/referral-admin-tui/internal/ui/tabs/resource"
)

var editKey = key.NewBinding(
	key.WithKeys("e"),
	key.WithHelp("e", "edit value"),
)

var columns = []table.Column{
	{Title: "Key", Width: 28},
	{Title: "Value", Width: 24},
	{Title: "Description", Width: 40},
	{Title: "Updated", Width: 16},
}

// Model represents the settings tab state.
type Model struct {
	commands *app.Commands
	list     *resource.List[models.Setting, models.SettingFilters]
	editing  models.Setting
	form     resource.Form
	width    int
}

// New creates a new settings model.
func New(commands *app.Commands) *Model {
	return &Model{
		commands: commands,
		list: resource.New(commands, resource.Config[models.Setting, models.SettingFilters]{
			Title:    "Platform settings",
			Resource: app.ResourceSettings,
			Slice:    commands.Store().Settings,
			Fetch:    settingsvc.ListSettings,
			Columns:  columns,
			Row: func(s models.Setting) table.Row {
				return table.Row{s.Key, string(s.Value), s.Description, resource.FormatTime(s.UpdatedAt)}
			},
			Fields: func(s models.Setting) []components.Field {
				return []components.Field{
					{Label: "Key", Value: s.Key},
					{Label: "Value", Value: string(s.Value)},
					{Label: "Description", Value: s.Description},
					{Label: "Updated", Value: resource.FormatTime(s.UpdatedAt)},
				}
			},
			Search: func(f models.SettingFilters, q string) models.SettingFilters {
				f.Search = q
				return f
			},
			Detail: func(ctx context.Context, d api.Doer, s models.Setting) (models.Setting, error) {
				return settingsvc.GetSetting(ctx, d, s.Key)
			},
		}),
	}
}

// Init loads the current page.
func (m *Model) Init() tea.Cmd {
	return m.list.Load()
}

// CapturingInput reports whether the form or search has focus.
func (m *Model) CapturingInput() bool {
	return m.form.Active() || m.list.Capturing()
}

// Update handles messages for the settings tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case app.StoreUpdatedMsg:
		if msg.Resource == app.ResourceSettings && msg.Op == store.OpUpdate && m.form.Active() {
			if msg.Err != nil {
				m.form.SetError(api.Message(msg.Err))
			} else {
				m.form.Close()
			}
		}
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, m.list.Update(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.form.Active() {
		result, cmd := m.form.Update(msg)
		if result == resource.FormSubmitted {
			return m.submit()
		}
		return cmd
	}
	if !m.list.Capturing() && !m.list.ShowingDetail() && key.Matches(msg, editKey) {
		if s, ok := m.list.Selected(); ok {
			m.editing = s
			return m.form.Open("Edit "+s.Key, resource.Field{Label: "Value", Value: string(s.Value)})
		}
		return nil
	}
	return m.list.Update(msg)
}

// checkValue keeps booleans and numbers from being replaced with text the
// backend cannot parse.
func checkValue(old models.SettingValue, value string) error {
	if _, err := strconv.ParseBool(string(old)); err == nil {
		if _, err := strconv.ParseBool(value); err != nil {
			return errors.New("Value must be true or false")
		}
		return nil
	}
	if _, err := strconv.ParseFloat(string(old), 64); err == nil {
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return errors.New("Value must be a number")
		}
	}
	return nil
}

func (m *Model) submit() tea.Cmd {
	s := m.editing
	value := m.form.Values()[0]
	if err := checkValue(s.Value, value); err != nil {
		m.form.SetError(err.Error())
		return nil
	}
	return app.UpdateCmd(m.commands, app.ResourceSettings, m.commands.Store().Settings,
		func(ctx context.Context, d api.Doer) (models.Setting, error) {
			return settingsvc.UpdateSetting(ctx, d, s.Key, value)
		})
}

// SetSize sets the available size for the settings tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.list.SetSize(width, height)
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{editKey, m.list.Keys().Search, m.list.Keys().Open}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{m.list.Bindings(), m.ShortHelp()}
}

// View renders the settings tab.
func (m *Model) View() string {
	var header []string
	if q := m.list.Snapshot().Filters.Search; q != "" {
		header = append(header, fmt.Sprintf("search: %q", q))
	}
	view := m.list.View(header...)
	if m.form.Active() {
		view = lipgloss.JoinVertical(lipgloss.Left, view, m.form.View(m.width))
	}
	return view
}
