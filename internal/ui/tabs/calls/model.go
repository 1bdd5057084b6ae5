// Package calls provides the call records tab.
package calls

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/referral-admin-tui/internal/api"
	"github.com/j-veylop/referral-admin-tui/internal/app"
	"github.com/j-veylop/referral-admin-tui/internal/models"
	callsvc "github.com/j-veylop/referral-admin-tui/internal/services/calls"
	"github.com/j-veylop/referral-admin-tui/internal/ui/components"
	"github.com/j-veylop/referral-admin-tui/internal/ui/tabs/resource"
)

var directions = []string{"", "inbound", "outbound"}

type keyMap struct {
	State     key.Binding
	Direction key.Binding
	Export    key.Binding
	Dismiss   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		State: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "cycle state"),
		),
		Direction: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "cycle direction"),
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export CSV"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "cancel export"),
		),
	}
}

var columns = []table.Column{
	{Title: "ID", Width: 8},
	{Title: "Caller", Width: 18},
	{Title: "Callee", Width: 18},
	{Title: "State", Width: 9},
	{Title: "Dir", Width: 9},
	{Title: "Duration", Width: 9},
	{Title: "Cost", Width: 8},
	{Title: "Started", Width: 16},
}

// Model represents the calls tab state.
type Model struct {
	commands *app.Commands
	list     *resource.List[models.Call, models.CallFilters]
	keys     keyMap
	width    int
}

// New creates a new calls model.
func New(commands *app.Commands) *Model {
	return &Model{
		commands: commands,
		keys:     defaultKeyMap(),
		list: resource.New(commands, resource.Config[models.Call, models.CallFilters]{
			Title:    "Calls",
			Resource: app.ResourceCalls,
			Slice:    commands.Store().Calls,
			Fetch:    callsvc.ListCalls,
			Columns:  columns,
			Row: func(c models.Call) table.Row {
				return table.Row{
					c.ID.String(), c.Caller, c.Callee, c.State, c.Direction,
					resource.FormatDuration(c.DurationSeconds), c.Cost.String(),
					resource.FormatTime(c.StartedAt),
				}
			},
			Fields: func(c models.Call) []components.Field {
				return []components.Field{
					{Label: "ID", Value: c.ID.String()},
					{Label: "Caller", Value: c.Caller},
					{Label: "Callee", Value: c.Callee},
					{Label: "State", Value: c.State},
					{Label: "Direction", Value: c.Direction},
					{Label: "Duration", Value: resource.FormatDuration(c.DurationSeconds)},
					{Label: "Cost", Value: c.Cost.String()},
					{Label: "Started", Value: resource.FormatTime(c.StartedAt)},
					{Label: "Ended", Value: resource.FormatTime(c.EndedAt)},
				}
			},
			Search: func(f models.CallFilters, q string) models.CallFilters {
				f.Search = q
				return f
			},
			Detail: func(ctx context.Context, d api.Doer, c models.Call) (models.Call, error) {
				return callsvc.GetCall(ctx, d, c.ID)
			},
		}),
	}
}

// statsKey identifies the stats entry for f. Stats ignore paging.
func statsKey(f models.CallFilters) string {
	f = f.WithPage(0)
	f.PageSize = 0
	return api.EncodeQuery(f)
}

// Init loads the current page and its stats.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.list.Load(), m.loadStats())
}

func (m *Model) loadStats() tea.Cmd {
	f := m.commands.Store().Calls.Filters()
	return app.KeyedCmd(m.commands, app.ResourceCallStats, m.commands.Store().CallStats, statsKey(f),
		func(ctx context.Context, d api.Doer) (models.CallStats, error) {
			return callsvc.GetCallStats(ctx, d, f)
		})
}

// CapturingInput reports whether the search input has focus.
func (m *Model) CapturingInput() bool {
	return m.list.Capturing()
}

// Update handles messages for the calls tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.list.Capturing() || m.list.ShowingDetail() {
		cmd := m.list.Update(msg)
		if ok && !m.list.Capturing() && cmd != nil {
			// A submitted search reloads the list.
			cmd = tea.Batch(cmd, m.loadStats())
		}
		return m, cmd
	}

	switch {
	case key.Matches(keyMsg, m.keys.State):
		f := m.list.Snapshot().Filters
		f.State = models.NextCallState(f.State)
		return m, m.setFilters(f)
	case key.Matches(keyMsg, m.keys.Direction):
		f := m.list.Snapshot().Filters
		f.Direction = resource.Cycle(directions, f.Direction)
		return m, m.setFilters(f)
	case key.Matches(keyMsg, m.keys.Export):
		return m, m.commands.StartExport(callsvc.Exporter{
			Doer:    m.commands.Client(),
			Filters: m.list.Snapshot().Filters,
		})
	case key.Matches(keyMsg, m.keys.Dismiss):
		if m.commands.Store().Exports.State().Task != nil {
			return m, m.commands.DismissExport()
		}
	default:
		return m, m.list.Update(msg)
	}
	return m, nil
}

func (m *Model) setFilters(f models.CallFilters) tea.Cmd {
	return tea.Batch(m.list.SetFilters(f), m.loadStats())
}

// SetSize sets the available size for the calls tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	// one line for the stats summary
	m.list.SetSize(width, height-1)
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.State, m.keys.Direction, m.keys.Export, m.keys.Dismiss, m.list.Keys().Search}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{m.list.Bindings(), m.ShortHelp()}
}
