package referrals

import (
	"context"

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

var relationshipColumns = []table.Column{
	{Title: "ID", Width: 6},
	{Title: "Referrer", Width: 24},
	{Title: "Referee", Width: 24},
	{Title: "Code", Width: 12},
	{Title: "Status", Width: 10},
	{Title: "Reward", Width: 9},
	{Title: "Created", Width: 16},
}

func newRelationshipList(commands *app.Commands) *resource.List[models.Relationship, models.RelationshipFilters] {
	return resource.New(commands, resource.Config[models.Relationship, models.RelationshipFilters]{
		Title:    "Referral relationships",
		Resource: app.ResourceRelationships,
		Slice:    commands.Store().Relationships,
		Fetch:    refsvc.ListRelationships,
		Columns:  relationshipColumns,
		Row: func(r models.Relationship) table.Row {
			return table.Row{
				r.ID.String(), r.ReferrerEmail, r.RefereeEmail, r.Code,
				r.Status, r.RewardStatus, resource.FormatTime(r.CreatedAt),
			}
		},
		Fields: func(r models.Relationship) []components.Field {
			return []components.Field{
				{Label: "ID", Value: r.ID.String()},
				{Label: "Referrer", Value: r.ReferrerEmail},
				{Label: "Referee", Value: r.RefereeEmail},
				{Label: "Code", Value: r.Code},
				{Label: "Status", Value: r.Status},
				{Label: "Reward", Value: r.RewardStatus},
				{Label: "Created", Value: resource.FormatTime(r.CreatedAt)},
			}
		},
		Search: func(f models.RelationshipFilters, q string) models.RelationshipFilters {
			f.Search = q
			return f
		},
		Detail: func(ctx context.Context, d api.Doer, r models.Relationship) (models.Relationship, error) {
			return refsvc.GetRelationship(ctx, d, r.ID)
		},
	})
}

func (m *Model) handleRelationshipKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Status):
		f := m.relationships.Snapshot().Filters
		f.Status = resource.Cycle(models.RelationshipStatuses, f.Status)
		return m.relationships.SetFilters(f), true
	case key.Matches(msg, m.keys.Reward):
		f := m.relationships.Snapshot().Filters
		f.RewardStatus = resource.Cycle(models.RewardStatuses, f.RewardStatus)
		return m.relationships.SetFilters(f), true
	case key.Matches(msg, m.keys.SetStatus):
		if r, ok := m.relationships.Selected(); ok {
			// skip the empty "all" entry of the filter cycle
			status := resource.Cycle(models.RelationshipStatuses[1:], r.Status)
			return m.updateRelationship(r.ID, models.RelationshipUpdate{Status: &status}), true
		}
	case key.Matches(msg, m.keys.SetReward):
		if r, ok := m.relationships.Selected(); ok {
			reward := resource.Cycle(models.RewardStatuses[1:], r.RewardStatus)
			return m.updateRelationship(r.ID, models.RelationshipUpdate{RewardStatus: &reward}), true
		}
	default:
		return nil, false
	}
	return nil, true
}

func (m *Model) updateRelationship(id models.ID, in models.RelationshipUpdate) tea.Cmd {
	return app.UpdateCmd(m.commands, app.ResourceRelationships, m.commands.Store().Relationships,
		func(ctx context.Context, d api.Doer) (models.Relationship, error) {
			return refsvc.UpdateRelationship(ctx, d, id, in)
		})
}
