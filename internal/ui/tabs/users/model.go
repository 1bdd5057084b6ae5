// Package users provides the platform users tab.
package users

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/referral-admin-tui/internal/api"
	"github.com/j-veylop/referral-admin-tui/internal/app"
	"github.com/j-veylop/referral-admin-tui/internal/models"
	usersvc "github.com/j-veylop/referral-admin-tui/internal/services/users"
	"github.com/j-veylop/referral-admin-tui/internal/ui/components"
	"github.com/j-veylop/referral-admin-tui/internal/ui/tabs/resource"
)

// keyMap defines the key bindings specific to the users tab.
type keyMap struct {
	ToggleActive   key.Binding
	ToggleVerified key.Binding
	Delete         key.Binding
	Filter         key.Binding
	Export         key.Binding
}

// defaultKeyMap returns the default key bindings for the users tab.
func defaultKeyMap() keyMap {
	return keyMap{
		ToggleActive: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "toggle active"),
		),
		ToggleVerified: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "toggle verified"),
		),
		Delete: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "delete"),
		),
		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "filter active"),
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export CSV"),
		),
	}
}

var columns = []table.Column{
	{Title: "ID", Width: 6},
	{Title: "Email", Width: 28},
	{Title: "Name", Width: 20},
	{Title: "Phone", Width: 14},
	{Title: "Type", Width: 10},
	{Title: "Active", Width: 6},
	{Title: "Verified", Width: 8},
	{Title: "Joined", Width: 16},
}

// Model represents the users tab state.
type Model struct {
	commands *app.Commands
	list     *resource.List[models.User, models.UserFilters]
	pending  models.User
	confirm  resource.Confirm
	keys     keyMap
}

// New creates a new users model.
func New(commands *app.Commands) *Model {
	return &Model{
		commands: commands,
		keys:     defaultKeyMap(),
		list: resource.New(commands, resource.Config[models.User, models.UserFilters]{
			Title:    "Users",
			Resource: app.ResourceUsers,
			Slice:    commands.Store().Users,
			Fetch:    usersvc.ListUsers,
			Columns:  columns,
			Row:      row,
			Fields:   fields,
			Search: func(f models.UserFilters, q string) models.UserFilters {
				f.Search = q
				return f
			},
			Detail: func(ctx context.Context, d api.Doer, u models.User) (models.User, error) {
				return usersvc.GetUser(ctx, d, u.ID)
			},
		}),
	}
}

func row(u models.User) table.Row {
	return table.Row{
		u.ID.String(),
		u.Email,
		fullName(u.FirstName, u.LastName),
		u.PhoneNumber,
		u.UserType,
		resource.YesNo(u.IsActive),
		resource.YesNo(u.IsVerified),
		resource.FormatTime(u.DateJoined),
	}
}

func fields(u models.User) []components.Field {
	return []components.Field{
		{Label: "ID", Value: u.ID.String()},
		{Label: "Email", Value: u.Email},
		{Label: "Name", Value: fullName(u.FirstName, u.LastName)},
		{Label: "Phone", Value: u.PhoneNumber},
		{Label: "Type", Value: u.UserType},
		{Label: "Active", Value: resource.YesNo(u.IsActive)},
		{Label: "Verified", Value: resource.YesNo(u.IsVerified)},
		{Label: "Joined", Value: resource.FormatTime(u.DateJoined)},
		{Label: "Last login", Value: resource.FormatTime(u.LastLogin)},
	}
}

func fullName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	}
	return first + " " + last
}

// Init loads the current page.
func (m *Model) Init() tea.Cmd {
	return m.list.Load()
}

// CapturingInput reports whether keys should go to the search box or a
// pending confirmation.
func (m *Model) CapturingInput() bool {
	return m.list.Capturing() || m.confirm.Active()
}

// Update handles messages for the users tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, m.list.Update(msg)
	}

	if m.confirm.Active() {
		if m.confirm.Update(keyMsg) {
			return m, m.deleteCmd(m.pending)
		}
		return m, nil
	}
	if m.list.Capturing() || m.list.ShowingDetail() {
		return m, m.list.Update(msg)
	}

	switch {
	case key.Matches(keyMsg, m.keys.ToggleActive):
		if u, ok := m.list.Selected(); ok {
			active := !u.IsActive
			return m, m.updateCmd(u.ID, models.UserUpdate{IsActive: &active})
		}
	case key.Matches(keyMsg, m.keys.ToggleVerified):
		if u, ok := m.list.Selected(); ok {
			verified := !u.IsVerified
			return m, m.updateCmd(u.ID, models.UserUpdate{IsVerified: &verified})
		}
	case key.Matches(keyMsg, m.keys.Delete):
		if u, ok := m.list.Selected(); ok {
			m.pending = u
			m.confirm.Ask("Delete user " + u.Email + "?")
		}
	case key.Matches(keyMsg, m.keys.Filter):
		f := m.list.Snapshot().Filters
		f.IsActive = resource.CycleBool(f.IsActive)
		return m, m.list.SetFilters(f)
	case key.Matches(keyMsg, m.keys.Export):
		return m, m.commands.StartExport(usersvc.Exporter{
			Doer:    m.commands.Client(),
			Filters: m.list.Snapshot().Filters,
		})
	default:
		return m, m.list.Update(msg)
	}
	return m, nil
}

func (m *Model) updateCmd(id models.ID, u models.UserUpdate) tea.Cmd {
	return app.UpdateCmd(m.commands, app.ResourceUsers, m.commands.Store().Users,
		func(ctx context.Context, d api.Doer) (models.User, error) {
			return usersvc.UpdateUser(ctx, d, id, u)
		})
}

func (m *Model) deleteCmd(u models.User) tea.Cmd {
	return app.DeleteCmd(m.commands, app.ResourceUsers, m.commands.Store().Users, u.Key(),
		func(ctx context.Context, d api.Doer) error {
			return usersvc.DeleteUser(ctx, d, u.ID)
		})
}

// SetSize sets the available size for the users tab.
func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.ToggleActive,
		m.keys.ToggleVerified,
		m.keys.Delete,
		m.keys.Filter,
		m.keys.Export,
		m.list.Keys().Search,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		m.list.Bindings(),
		m.ShortHelp(),
	}
}
