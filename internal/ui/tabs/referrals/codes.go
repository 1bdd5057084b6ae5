package referrals

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
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

var codeColumns = []table.Column{
	{Title: "ID", Width: 6},
	{Title: "Code", Width: 14},
	{Title: "Campaign", Width: 8},
	{Title: "Owner", Width: 24},
	{Title: "Uses", Width: 12},
	{Title: "Active", Width: 6},
	{Title: "Expires", Width: 16},
}

func newCodeList(commands *app.Commands) *resource.List[models.ReferralCode, models.CodeFilters] {
	return resource.New(commands, resource.Config[models.ReferralCode, models.CodeFilters]{
		Title:    "Referral codes",
		Resource: app.ResourceCodes,
		Slice:    commands.Store().Codes,
		Fetch:    refsvc.ListCodes,
		Columns:  codeColumns,
		Row: func(c models.ReferralCode) table.Row {
			return table.Row{
				c.ID.String(), c.Code, c.Campaign.String(), c.OwnerEmail,
				uses(c), resource.YesNo(c.IsActive), resource.FormatTime(c.ExpiresAt),
			}
		},
		Fields: func(c models.ReferralCode) []components.Field {
			usage := uses(c)
			if u := c.Usage(); u >= 0 {
				usage = components.RenderGradientBar(u*100, 20) + " " + usage
			}
			return []components.Field{
				{Label: "ID", Value: c.ID.String()},
				{Label: "Code", Value: c.Code},
				{Label: "Campaign", Value: c.Campaign.String()},
				{Label: "Owner", Value: c.OwnerEmail},
				{Label: "Uses", Value: usage},
				{Label: "Active", Value: resource.YesNo(c.IsActive)},
				{Label: "Expires", Value: resource.FormatTime(c.ExpiresAt)},
			}
		},
		Search: func(f models.CodeFilters, q string) models.CodeFilters {
			f.Search = q
			return f
		},
		Detail: func(ctx context.Context, d api.Doer, c models.ReferralCode) (models.ReferralCode, error) {
			return refsvc.GetCode(ctx, d, c.ID)
		},
	})
}

// uses renders redemptions against the limit, with a percentage when the
// code is limited.
func uses(c models.ReferralCode) string {
	u := c.Usage()
	if u < 0 {
		return fmt.Sprintf("%d/∞", c.UsesCount)
	}
	return fmt.Sprintf("%d/%d %.0f%%", c.UsesCount, *c.MaxUses, u*100)
}

func (m *Model) handleCodeKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Create):
		campaign := m.codes.Snapshot().Filters.Campaign
		m.formFor = sectionCodes
		return m.form.Open("New referral code",
			resource.Field{Label: "Code", Placeholder: "empty to generate"},
			resource.Field{Label: "Campaign", Value: campaign.String()},
			resource.Field{Label: "Owner", Placeholder: "name@example.com"},
			resource.Field{Label: "Max uses", Placeholder: "empty for unlimited"},
			resource.Field{Label: "Expires", Placeholder: dateLayout},
		), true
	case key.Matches(msg, m.keys.ToggleActive):
		if c, ok := m.codes.Selected(); ok {
			active := !c.IsActive
			return app.UpdateCmd(m.commands, app.ResourceCodes, m.commands.Store().Codes,
				func(ctx context.Context, d api.Doer) (models.ReferralCode, error) {
					return refsvc.UpdateCode(ctx, d, c.ID, models.CodeInput{IsActive: &active})
				}), true
		}
	case key.Matches(msg, m.keys.Bulk):
		items := m.codes.Snapshot().Items
		if len(items) == 0 {
			return nil, true
		}
		active := !anyActive(items)
		verb := "Activate"
		if !active {
			verb = "Deactivate"
		}
		m.ask(fmt.Sprintf("%s all %d codes on this page?", verb, len(items)), func() tea.Cmd {
			return m.bulkCodes(items, active)
		})
	case key.Matches(msg, m.keys.Delete):
		if c, ok := m.codes.Selected(); ok {
			m.ask("Delete code "+c.Code+"?", func() tea.Cmd {
				return app.DeleteCmd(m.commands, app.ResourceCodes, m.commands.Store().Codes, c.Key(),
					func(ctx context.Context, d api.Doer) error {
						return refsvc.DeleteCode(ctx, d, c.ID)
					})
			})
		}
	case key.Matches(msg, m.keys.Filter):
		f := m.codes.Snapshot().Filters
		f.IsActive = resource.CycleBool(f.IsActive)
		return m.codes.SetFilters(f), true
	case key.Matches(msg, m.keys.ShowCodes):
		// c on the code list drops the campaign filter.
		f := m.codes.Snapshot().Filters
		if f.Campaign == "" {
			return nil, true
		}
		f.Campaign = ""
		return m.codes.SetFilters(f), true
	default:
		return nil, false
	}
	return nil, true
}

func anyActive(codes []models.ReferralCode) bool {
	for _, c := range codes {
		if c.IsActive {
			return true
		}
	}
	return false
}

// bulkCodes sets is_active on codes. Rows are patched only when every
// code was updated; a partial failure leaves the page for a reload.
func (m *Model) bulkCodes(codes []models.ReferralCode, active bool) tea.Cmd {
	ids := make([]models.ID, len(codes))
	for i, c := range codes {
		ids[i] = c.ID
	}
	slice := m.commands.Store().Codes
	return app.BulkCmd(m.commands, app.ResourceCodes, slice,
		func(ctx context.Context, d api.Doer) (models.BulkResult, error) {
			result, err := refsvc.BulkUpdateCodes(ctx, d, models.BulkCodeUpdate{IsActive: &active, CodeIDs: ids})
			if err == nil && !result.Partial() {
				for _, c := range codes {
					c.IsActive = active
					slice.Patch(c)
				}
			}
			return result, err
		})
}

func parseCode(v []string) (models.CodeInput, error) {
	in := models.CodeInput{Code: v[0], Campaign: models.ID(v[1]), OwnerEmail: v[2]}
	if in.Campaign == "" {
		return in, errors.New("Campaign is required")
	}
	if in.OwnerEmail != "" {
		if _, err := mail.ParseAddress(in.OwnerEmail); err != nil {
			return in, errors.New("Owner must be an email address")
		}
	}
	uses, err := parseLimit(v[3])
	if err != nil {
		return in, err
	}
	in.MaxUses = uses
	if v[4] != "" {
		expires, err := time.ParseInLocation(dateLayout, v[4], time.Local)
		if err != nil {
			return in, errors.New("Expires must be a date like 2024-01-31")
		}
		in.ExpiresAt = expires.Format(time.RFC3339)
	}
	return in, nil
}

func (m *Model) submitCode() tea.Cmd {
	in, err := parseCode(m.form.Values())
	if err != nil {
		m.form.SetError(err.Error())
		return nil
	}
	return app.CreateCmd(m.commands, app.ResourceCodes, m.commands.Store().Codes,
		func(ctx context.Context, d api.Doer) (models.ReferralCode, error) {
			return refsvc.CreateCode(ctx, d, in)
		})
}
