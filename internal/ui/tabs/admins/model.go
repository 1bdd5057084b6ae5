// Package admins provides the administrator accounts tab.
package admins

import (
	"context"
	"net/mail"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/referral-admin-tui/internal/api"
	"github.com/j-veylop/referral-admin-tui/internal/app"
	"github.com/j-veylop/referral-admin-tui/internal/models"
	usersvc "github.com/j-veylop/referral-admin-tui/internal/services/users"
	"github.com/j-veylop/referral-admin-tui/internal/store"
	"github.com/j-veylop/referral-admin-tui/internal/ui/components"
	"github.com/j-veylop/referral-admin-tui/internal/ui/tabs/resource"
)

type keyMap struct {
	Create       key.Binding
	Edit         key.Binding
	ToggleActive key.Binding
	Delete       key.Binding
	Filter       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Create: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new admin"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		ToggleActive: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "toggle active"),
		),
		Delete: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "delete"),
		),
		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "filter active"),
		),
	}
}

var columns = []table.Column{
	{Title: "ID", Width: 6},
	{Title: "Email", Width: 28},
	{Title: "Name", Width: 20},
	{Title: "Role", Width: 12},
	{Title: "Active", Width: 6},
	{Title: "Super", Width: 6},
	{Title: "Last login", Width: 16},
}

type formKind int

const (
	formCreate formKind = iota
	formEdit
)

// Model represents the admins tab state.
type Model struct {
	commands *app.Commands
	list     *resource.List[models.Admin, models.AdminFilters]
	pending  models.Admin
	form     resource.Form
	confirm  resource.Confirm
	keys     keyMap
	kind     formKind
	width    int
}

// New creates a new admins model.
func New(commands *app.Commands) *Model {
	return &Model{
		commands: commands,
		keys:     defaultKeyMap(),
		list: resource.New(commands, resource.Config[models.Admin, models.AdminFilters]{
			Title:    "Administrators",
			Resource: app.ResourceAdmins,
			Slice:    commands.Store().Admins,
			Fetch:    usersvc.ListAdmins,
			Columns:  columns,
			Row: func(a models.Admin) table.Row {
				return table.Row{
					a.ID.String(), a.Email, name(a), a.Role,
					resource.YesNo(a.IsActive), resource.YesNo(a.IsSuperuser),
					resource.FormatTime(a.LastLogin),
				}
			},
			Fields: func(a models.Admin) []components.Field {
				return []components.Field{
					{Label: "ID", Value: a.ID.String()},
					{Label: "Email", Value: a.Email},
					{Label: "Name", Value: name(a)},
					{Label: "Role", Value: a.Role},
					{Label: "Active", Value: resource.YesNo(a.IsActive)},
					{Label: "Superuser", Value: resource.YesNo(a.IsSuperuser)},
					{Label: "Last login", Value: resource.FormatTime(a.LastLogin)},
				}
			},
			Search: func(f models.AdminFilters, q string) models.AdminFilters {
				f.Search = q
				return f
			},
			Detail: func(ctx context.Context, d api.Doer, a models.Admin) (models.Admin, error) {
				return usersvc.GetAdmin(ctx, d, a.ID)
			},
		}),
	}
}

func name(a models.Admin) string {
	if a.FirstName == "" || a.LastName == "" {
		return a.FirstName + a.LastName
	}
	return a.FirstName + " " + a.LastName
}

// Init loads the current page.
func (m *Model) Init() tea.Cmd {
	return m.list.Load()
}

// CapturingInput reports whether a form, search or confirmation has focus.
func (m *Model) CapturingInput() bool {
	return m.form.Active() || m.confirm.Active() || m.list.Capturing()
}

// Update handles messages for the admins tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case app.StoreUpdatedMsg:
		// Keep the form open with the server's message when a save fails.
		if msg.Resource == app.ResourceAdmins && m.form.Active() && (msg.Op == store.OpCreate || msg.Op == store.OpUpdate) {
			if msg.Err != nil {
				m.form.SetError(api.Message(msg.Err))
			} else {
				m.form.Close()
			}
		}
		return m, m.list.Update(msg)
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
	if m.confirm.Active() {
		if m.confirm.Update(msg) {
			a := m.pending
			return app.DeleteCmd(m.commands, app.ResourceAdmins, m.commands.Store().Admins, a.Key(),
				func(ctx context.Context, d api.Doer) error {
					return usersvc.DeleteAdmin(ctx, d, a.ID)
				})
		}
		return nil
	}
	if m.list.Capturing() || m.list.ShowingDetail() {
		return m.list.Update(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Create):
		m.kind = formCreate
		return m.form.Open("New administrator",
			resource.Field{Label: "Email", Placeholder: "name@example.com"},
			resource.Field{Label: "First name"},
			resource.Field{Label: "Last name"},
			resource.Field{Label: "Role", Placeholder: "admin"},
			resource.Field{Label: "Password", Placeholder: "empty sends an invite", Password: true},
		)
	case key.Matches(msg, m.keys.Edit):
		if a, ok := m.list.Selected(); ok {
			m.kind = formEdit
			m.pending = a
			return m.form.Open("Edit "+a.Email,
				resource.Field{Label: "First name", Value: a.FirstName},
				resource.Field{Label: "Last name", Value: a.LastName},
				resource.Field{Label: "Role", Value: a.Role},
			)
		}
	case key.Matches(msg, m.keys.ToggleActive):
		if a, ok := m.list.Selected(); ok {
			active := !a.IsActive
			return m.updateCmd(a.ID, models.AdminUpdate{IsActive: &active})
		}
	case key.Matches(msg, m.keys.Delete):
		if a, ok := m.list.Selected(); ok {
			m.pending = a
			m.confirm.Ask("Delete administrator " + a.Email + "?")
		}
	case key.Matches(msg, m.keys.Filter):
		f := m.list.Snapshot().Filters
		f.IsActive = resource.CycleBool(f.IsActive)
		return m.list.SetFilters(f)
	default:
		return m.list.Update(msg)
	}
	return nil
}

func (m *Model) submit() tea.Cmd {
	v := m.form.Values()

	if m.kind == formEdit {
		id := m.pending.ID
		return m.updateCmd(id, models.AdminUpdate{FirstName: &v[0], LastName: &v[1], Role: &v[2]})
	}

	if _, err := mail.ParseAddress(v[0]); err != nil {
		m.form.SetError("Enter a valid email address")
		return nil
	}
	in := models.AdminCreate{Email: v[0], FirstName: v[1], LastName: v[2], Role: v[3], Password: v[4]}
	return app.CreateCmd(m.commands, app.ResourceAdmins, m.commands.Store().Admins,
		func(ctx context.Context, d api.Doer) (models.Admin, error) {
			return usersvc.CreateAdmin(ctx, d, in)
		})
}

func (m *Model) updateCmd(id models.ID, u models.AdminUpdate) tea.Cmd {
	return app.UpdateCmd(m.commands, app.ResourceAdmins, m.commands.Store().Admins,
		func(ctx context.Context, d api.Doer) (models.Admin, error) {
			return usersvc.UpdateAdmin(ctx, d, id, u)
		})
}

// SetSize sets the available size for the admins tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.list.SetSize(width, height)
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Create, m.keys.Edit, m.keys.ToggleActive, m.keys.Delete, m.keys.Filter}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{m.list.Bindings(), m.ShortHelp()}
}
