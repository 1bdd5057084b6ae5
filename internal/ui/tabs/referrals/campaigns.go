package referrals

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/referral-admin-tui/internal/api"
	"github.com/j-veylop/referral-admin-tui/internal/app"
	"github.com/j-veylop/referral-admin-tui/internal/models"
	refsvc "github.com/j-veylop/referral-admin-tui/internal/services/referrals"
	"github.com/j-veylop/referral-admin-tui/internal/ui/components"
	"github.com/j-veylop/referral-admin-tui/internal/ui/tabs/resource"
)

const dateLayout = "2006-01-02"

var campaignColumns = []table.Column{
	{Title: "ID", Width: 6},
	{Title: "Name", Width: 24},
	{Title: "Reward", Width: 8},
	{Title: "Codes", Width: 6},
	{Title: "Max uses", Width: 8},
	{Title: "Active", Width: 6},
	{Title: "Start", Width: 10},
	{Title: "End", Width: 10},
}

func newCampaignList(commands *app.Commands) *resource.List[models.Campaign, models.CampaignFilters] {
	return resource.New(commands, resource.Config[models.Campaign, models.CampaignFilters]{
		Title:    "Campaigns",
		Resource: app.ResourceCampaigns,
		Slice:    commands.Store().Campaigns,
		Fetch:    refsvc.ListCampaigns,
		Columns:  campaignColumns,
		Row: func(c models.Campaign) table.Row {
			return table.Row{
				c.ID.String(), c.Name, c.RewardAmount.String(), strconv.Itoa(c.CodesCount),
				limit(c.MaxUses), resource.YesNo(c.IsActive), dash(c.StartDate), dash(c.EndDate),
			}
		},
		Fields: func(c models.Campaign) []components.Field {
			return []components.Field{
				{Label: "ID", Value: c.ID.String()},
				{Label: "Name", Value: c.Name},
				{Label: "Description", Value: c.Description},
				{Label: "Reward", Value: c.RewardAmount.String()},
				{Label: "Codes", Value: strconv.Itoa(c.CodesCount)},
				{Label: "Max uses", Value: limit(c.MaxUses)},
				{Label: "Active", Value: resource.YesNo(c.IsActive)},
				{Label: "Runs", Value: dash(c.StartDate) + " to " + dash(c.EndDate)},
			}
		},
		Search: func(f models.CampaignFilters, q string) models.CampaignFilters {
			f.Search = q
			return f
		},
		Detail: func(ctx context.Context, d api.Doer, c models.Campaign) (models.Campaign, error) {
			return refsvc.GetCampaign(ctx, d, c.ID)
		},
	})
}

func limit(n *int) string {
	if n == nil || *n <= 0 {
		return "∞"
	}
	return strconv.Itoa(*n)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func (m *Model) handleCampaignKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Create):
		m.formFor = sectionCampaigns
		return m.form.Open("New campaign",
			resource.Field{Label: "Name"},
			resource.Field{Label: "Description"},
			resource.Field{Label: "Reward", Placeholder: "10.00"},
			resource.Field{Label: "Max uses", Placeholder: "empty for unlimited"},
			resource.Field{Label: "Start", Placeholder: dateLayout},
			resource.Field{Label: "End", Placeholder: dateLayout},
		), true
	case key.Matches(msg, m.keys.ToggleActive):
		if c, ok := m.campaigns.Selected(); ok {
			active := !c.IsActive
			return m.updateCampaign(c.ID, models.CampaignInput{IsActive: &active}), true
		}
	case key.Matches(msg, m.keys.Delete):
		if c, ok := m.campaigns.Selected(); ok {
			m.ask("Delete campaign "+c.Name+"?", func() tea.Cmd {
				return app.DeleteCmd(m.commands, app.ResourceCampaigns, m.commands.Store().Campaigns, c.Key(),
					func(ctx context.Context, d api.Doer) error {
						return refsvc.DeleteCampaign(ctx, d, c.ID)
					})
			})
		}
	case key.Matches(msg, m.keys.Filter):
		f := m.campaigns.Snapshot().Filters
		f.IsActive = resource.CycleBool(f.IsActive)
		return m.campaigns.SetFilters(f), true
	case key.Matches(msg, m.keys.ShowCodes):
		if c, ok := m.campaigns.Selected(); ok {
			f := m.codes.Snapshot().Filters
			f.Campaign = c.ID
			m.section = sectionCodes
			return m.codes.SetFilters(f), true
		}
	default:
		return nil, false
	}
	return nil, true
}

// parseCampaign validates the create form values.
func parseCampaign(v []string) (models.CampaignInput, error) {
	in := models.CampaignInput{Name: v[0], Description: v[1], StartDate: v[4], EndDate: v[5]}
	if in.Name == "" {
		return in, errors.New("Name is required")
	}
	if v[2] != "" {
		if _, err := strconv.ParseFloat(v[2], 64); err != nil {
			return in, errors.New("Reward must be a number")
		}
		in.RewardAmount = models.Amount(v[2])
	}
	uses, err := parseLimit(v[3])
	if err != nil {
		return in, err
	}
	in.MaxUses = uses

	var start, end time.Time
	if in.StartDate != "" {
		if start, err = time.Parse(dateLayout, in.StartDate); err != nil {
			return in, errors.New("Start must be a date like 2024-01-31")
		}
	}
	if in.EndDate != "" {
		if end, err = time.Parse(dateLayout, in.EndDate); err != nil {
			return in, errors.New("End must be a date like 2024-01-31")
		}
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return in, errors.New("End must not be before start")
	}
	return in, nil
}

func parseLimit(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return nil, errors.New("Max uses must be a positive whole number")
	}
	return &n, nil
}

func (m *Model) submitCampaign() tea.Cmd {
	in, err := parseCampaign(m.form.Values())
	if err != nil {
		m.form.SetError(err.Error())
		return nil
	}
	return app.CreateCmd(m.commands, app.ResourceCampaigns, m.commands.Store().Campaigns,
		func(ctx context.Context, d api.Doer) (models.Campaign, error) {
			return refsvc.CreateCampaign(ctx, d, in)
		})
}

func (m *Model) updateCampaign(id models.ID, in models.CampaignInput) tea.Cmd {
	return app.UpdateCmd(m.commands, app.ResourceCampaigns, m.commands.Store().Campaigns,
		func(ctx context.Context, d api.Doer) (models.Campaign, error) {
			return refsvc.UpdateCampaign(ctx, d, id, in)
		})
}
