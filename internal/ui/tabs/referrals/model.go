// Package referrals provides the referral campaigns, codes and
// relationships tab.
package referrals

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/referral-admin-tui/internal/api"
	"github.com/j-veylop/referral-admin-tui/internal/app"
	"github.com/j-veylop/referral-admin-tui/internal/models"
	"github.com/j-veylop/referral-admin-tui/internal/store"
	"github.com/j-veylop/referral-admin-tui/internal/ui/tabs/resource"
)

// section is one of the three referral lists.
type section int

const (
	sectionCampaigns section = iota
	sectionCodes
	sectionRelationships
	sectionCount
)

var sectionNames = [...]string{"Campaigns", "Codes", "Relationships"}

func (s section) resource() app.Resource {
	switch s {
	case sectionCodes:
		return app.ResourceCodes
	case sectionRelationships:
		return app.ResourceRelationships
	default:
		return app.ResourceCampaigns
	}
}

type keyMap struct {
	Section      key.Binding
	Create       key.Binding
	ToggleActive key.Binding
	Delete       key.Binding
	Filter       key.Binding
	ShowCodes    key.Binding
	Bulk         key.Binding
	Status       key.Binding
	Reward       key.Binding
	SetStatus    key.Binding
	SetReward    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Section: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "next list"),
		),
		Create: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new"),
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
		ShowCodes: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "campaign codes"),
		),
		Bulk: key.NewBinding(
			key.WithKeys("B"),
			key.WithHelp("B", "toggle page"),
		),
		Status: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "filter status"),
		),
		Reward: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "filter reward"),
		),
		SetStatus: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "change status"),
		),
		SetReward: key.NewBinding(
			key.WithKeys("W"),
			key.WithHelp("W", "change reward"),
		),
	}
}

// Model represents the referrals tab state.
type Model struct {
	commands      *app.Commands
	campaigns     *resource.List[models.Campaign, models.CampaignFilters]
	codes         *resource.List[models.ReferralCode, models.CodeFilters]
	relationships *resource.List[models.Relationship, models.RelationshipFilters]
	confirmed     func() tea.Cmd
	form          resource.Form
	confirm       resource.Confirm
	keys          keyMap
	section       section
	formFor       section
	width         int
}

// New creates a new referrals model.
func New(commands *app.Commands) *Model {
	return &Model{
		commands:      commands,
		keys:          defaultKeyMap(),
		campaigns:     newCampaignList(commands),
		codes:         newCodeList(commands),
		relationships: newRelationshipList(commands),
	}
}

// Init loads the visible list.
func (m *Model) Init() tea.Cmd {
	switch m.section {
	case sectionCodes:
		return m.codes.Load()
	case sectionRelationships:
		return m.relationships.Load()
	default:
		return m.campaigns.Load()
	}
}

// CapturingInput reports whether a form, search or confirmation has focus.
func (m *Model) CapturingInput() bool {
	return m.form.Active() || m.confirm.Active() || m.capturing()
}

func (m *Model) capturing() bool {
	switch m.section {
	case sectionCodes:
		return m.codes.Capturing() || m.codes.ShowingDetail()
	case sectionRelationships:
		return m.relationships.Capturing() || m.relationships.ShowingDetail()
	default:
		return m.campaigns.Capturing() || m.campaigns.ShowingDetail()
	}
}

func (m *Model) updateList(msg tea.Msg) tea.Cmd {
	switch m.section {
	case sectionCodes:
		return m.codes.Update(msg)
	case sectionRelationships:
		return m.relationships.Update(msg)
	default:
		return m.campaigns.Update(msg)
	}
}

// Update handles messages for the referrals tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case app.StoreUpdatedMsg:
		if m.form.Active() && msg.Op == store.OpCreate && msg.Resource == m.formFor.resource() {
			if msg.Err != nil {
				m.form.SetError(api.Message(msg.Err))
			} else {
				m.form.Close()
			}
		}
		return m, tea.Batch(m.campaigns.Update(msg), m.codes.Update(msg), m.relationships.Update(msg))
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, m.updateList(msg)
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
		if m.confirm.Update(msg) && m.confirmed != nil {
			return m.confirmed()
		}
		return nil
	}
	if m.capturing() {
		return m.updateList(msg)
	}

	if key.Matches(msg, m.keys.Section) {
		m.section = (m.section + 1) % sectionCount
		return m.Init()
	}

	var cmd tea.Cmd
	var handled bool
	switch m.section {
	case sectionCodes:
		cmd, handled = m.handleCodeKey(msg)
	case sectionRelationships:
		cmd, handled = m.handleRelationshipKey(msg)
	default:
		cmd, handled = m.handleCampaignKey(msg)
	}
	if handled {
		return cmd
	}
	return m.updateList(msg)
}

// ask shows a confirmation and runs then when the user accepts.
func (m *Model) ask(prompt string, then func() tea.Cmd) {
	m.confirmed = then
	m.confirm.Ask(prompt)
}

func (m *Model) submit() tea.Cmd {
	switch m.formFor {
	case sectionCodes:
		return m.submitCode()
	default:
		return m.submitCampaign()
	}
}

// SetSize sets the available size for the referrals tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	// one line for the section switcher
	m.campaigns.SetSize(width, height-1)
	m.codes.SetSize(width, height-1)
	m.relationships.SetSize(width, height-1)
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	switch m.section {
	case sectionCodes:
		return []key.Binding{m.keys.Section, m.keys.Create, m.keys.ToggleActive, m.keys.Bulk, m.keys.Delete, m.keys.Filter}
	case sectionRelationships:
		return []key.Binding{m.keys.Section, m.keys.Status, m.keys.Reward, m.keys.SetStatus, m.keys.SetReward}
	default:
		return []key.Binding{m.keys.Section, m.keys.Create, m.keys.ToggleActive, m.keys.Delete, m.keys.Filter, m.keys.ShowCodes}
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{m.campaigns.Bindings(), m.ShortHelp()}
}
