// Package balances provides the user balances tab.
package balances

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/referral-admin-tui/internal/api"
	"github.com/j-veylop/referral-admin-tui/internal/app"
	"github.com/j-veylop/referral-admin-tui/internal/models"
	balancesvc "github.com/j-veylop/referral-admin-tui/internal/services/balances"
	"github.com/j-veylop/referral-admin-tui/internal/store"
	"github.com/j-veylop/referral-admin-tui/internal/ui/components"
	"github.com/j-veylop/referral-admin-tui/internal/ui/tabs/resource"
)

var orderings = []string{"", "-total_balance", "total_balance"}

type keyMap struct {
	Mark   key.Binding
	Adjust key.Binding
	Bulk   key.Binding
	Order  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Mark: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "mark"),
		),
		Adjust: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "adjust"),
		),
		Bulk: key.NewBinding(
			key.WithKeys("B"),
			key.WithHelp("B", "adjust marked"),
		),
		Order: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "sort"),
		),
	}
}

var columns = []table.Column{
	{Title: " ", Width: 1},
	{Title: "User", Width: 8},
	{Title: "Email", Width: 28},
	{Title: "Base", Width: 10},
	{Title: "Bonus", Width: 10},
	{Title: "Total", Width: 10},
	{Title: "Updated", Width: 16},
}

// Model represents the balances tab state.
type Model struct {
	commands *app.Commands
	list     *resource.List[models.Balance, models.BalanceFilters]
	marked   map[string]bool
	target   []models.ID
	bulk     bool
	form     resource.Form
	keys     keyMap
	width    int
}

// New creates a new balances model.
func New(commands *app.Commands) *Model {
	m := &Model{
		commands: commands,
		keys:     defaultKeyMap(),
		marked:   make(map[string]bool),
	}
	m.list = resource.New(commands, resource.Config[models.Balance, models.BalanceFilters]{
		Title:    "Balances",
		Resource: app.ResourceBalances,
		Slice:    commands.Store().Balances,
		Fetch:    balancesvc.ListBalances,
		Columns:  columns,
		Row: func(b models.Balance) table.Row {
			mark := " "
			if m.marked[b.Key()] {
				mark = "●"
			}
			return table.Row{
				mark, b.UserID.String(), b.Email, b.BaseBalance.String(),
				b.BonusBalance.String(), b.TotalBalance.String(), resource.FormatTime(b.UpdatedAt),
			}
		},
		Fields: func(b models.Balance) []components.Field {
			return []components.Field{
				{Label: "User", Value: b.UserID.String()},
				{Label: "Email", Value: b.Email},
				{Label: "Base", Value: b.BaseBalance.String()},
				{Label: "Bonus", Value: b.BonusBalance.String()},
				{Label: "Total", Value: b.TotalBalance.String()},
				{Label: "Updated", Value: resource.FormatTime(b.UpdatedAt)},
			}
		},
		Search: func(f models.BalanceFilters, q string) models.BalanceFilters {
			f.Search = q
			return f
		},
		Detail: func(ctx context.Context, d api.Doer, b models.Balance) (models.Balance, error) {
			return balancesvc.GetBalance(ctx, d, b.UserID)
		},
	})
	return m
}

// Init loads the current page.
func (m *Model) Init() tea.Cmd {
	return m.list.Load()
}

// CapturingInput reports whether the form or search has focus.
func (m *Model) CapturingInput() bool {
	return m.form.Active() || m.list.Capturing()
}

// Update handles messages for the balances tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case app.StoreUpdatedMsg:
		if msg.Resource != app.ResourceBalances {
			return m, nil
		}
		return m, m.handleSettled(msg)
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, m.list.Update(msg)
}

func (m *Model) handleSettled(msg app.StoreUpdatedMsg) tea.Cmd {
	if m.form.Active() && (msg.Op == store.OpUpdate || msg.Op == store.OpBulk) {
		if msg.Err != nil {
			m.form.SetError(api.Message(msg.Err))
			return m.list.Update(msg)
		}
		m.form.Close()
	}

	// Totals of every marked user changed; a partial failure keeps the
	// marks and the warning until the user reloads.
	if msg.Op == store.OpBulk && msg.Err == nil && msg.Warning == "" {
		clear(m.marked)
		return m.list.Load()
	}
	return m.list.Update(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.form.Active() {
		result, cmd := m.form.Update(msg)
		if result == resource.FormSubmitted {
			return m.submit()
		}
		return cmd
	}
	if m.list.Capturing() || m.list.ShowingDetail() {
		return m.list.Update(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Mark):
		if b, ok := m.list.Selected(); ok {
			if m.marked[b.Key()] {
				delete(m.marked, b.Key())
			} else {
				m.marked[b.Key()] = true
			}
			m.list.Refresh()
		}
	case key.Matches(msg, m.keys.Adjust):
		if b, ok := m.list.Selected(); ok {
			m.target = []models.ID{b.UserID}
			m.bulk = false
			return m.openForm("Adjust balance of " + b.Email)
		}
	case key.Matches(msg, m.keys.Bulk):
		if len(m.marked) == 0 {
			return m.commands.NotifyInfo("Mark balances with space first")
		}
		m.target = m.target[:0]
		m.bulk = true
		for k := range m.marked {
			m.target = append(m.target, models.ID(k))
		}
		return m.openForm(fmt.Sprintf("Adjust %d balances", len(m.target)))
	case key.Matches(msg, m.keys.Order):
		f := m.list.Snapshot().Filters
		f.Ordering = resource.Cycle(orderings, f.Ordering)
		return m.list.SetFilters(f)
	default:
		return m.list.Update(msg)
	}
	return nil
}

func (m *Model) openForm(title string) tea.Cmd {
	return m.form.Open(title,
		resource.Field{Label: "Operation", Value: models.BalanceAdd, Placeholder: "add, subtract or set"},
		resource.Field{Label: "Base", Placeholder: "0.00"},
		resource.Field{Label: "Bonus", Placeholder: "0.00"},
		resource.Field{Label: "Reason"},
	)
}

// parseUpdate validates the adjustment form values.
func parseUpdate(v []string) (models.BalanceUpdate, error) {
	u := models.BalanceUpdate{Operation: v[0], BaseBalance: models.Amount(v[1]), BonusBalance: models.Amount(v[2]), Reason: v[3]}
	switch u.Operation {
	case models.BalanceAdd, models.BalanceSubtract, models.BalanceSet:
	default:
		return u, errors.New("Operation must be add, subtract or set")
	}
	if u.BaseBalance == "" && u.BonusBalance == "" {
		return u, errors.New("Enter a base or bonus amount")
	}
	for _, a := range []models.Amount{u.BaseBalance, u.BonusBalance} {
		if a == "" {
			continue
		}
		if f, err := strconv.ParseFloat(string(a), 64); err != nil || f < 0 {
			return u, errors.New("Amounts must be positive numbers")
		}
	}
	return u, nil
}

func (m *Model) submit() tea.Cmd {
	u, err := parseUpdate(m.form.Values())
	if err != nil {
		m.form.SetError(err.Error())
		return nil
	}

	slice := m.commands.Store().Balances
	if !m.bulk {
		id := m.target[0]
		return app.UpdateCmd(m.commands, app.ResourceBalances, slice,
			func(ctx context.Context, d api.Doer) (models.Balance, error) {
				return balancesvc.UpdateBalance(ctx, d, id, u)
			})
	}

	in := models.BulkBalanceUpdate{
		UserIDs:      append([]models.ID(nil), m.target...),
		Operation:    u.Operation,
		BaseBalance:  u.BaseBalance,
		BonusBalance: u.BonusBalance,
		Reason:       u.Reason,
	}
	return app.BulkCmd(m.commands, app.ResourceBalances, slice,
		func(ctx context.Context, d api.Doer) (models.BulkResult, error) {
			return balancesvc.BulkUpdateBalances(ctx, d, in)
		})
}

// SetSize sets the available size for the balances tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.list.SetSize(width, height)
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Mark, m.keys.Adjust, m.keys.Bulk, m.keys.Order, m.list.Keys().Search}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{m.list.Bindings(), m.ShortHelp()}
}
