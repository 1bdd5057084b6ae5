// Package referrals wraps the referral campaign, code and relationship
// endpoints.
package referrals

import (
	"context"
	"net/http"
	"net/url"

	"github.com/j-veylop/referral-admin-tui/internal/api"
	"github.com/j-veylop/referral-admin-tui/internal/models"
)

// Endpoint paths.
const (
	CampaignsPath     = "/referral/v1/admin/campaigns/"
	CodesPath         = "/referral/v1/admin/codes/"
	CodesBulkPath     = "/referral/v1/admin/codes/bulk-update/"
	RelationshipsPath = "/referral/v1/admin/relationships/"
)

func itemPath(base string, id models.ID) string {
	return base + url.PathEscape(string(id)) + "/"
}

// ListCampaigns fetches one page of campaigns.
func ListCampaigns(ctx context.Context, d api.Doer, f models.CampaignFilters) (models.Paginated[models.Campaign], error) {
	return api.GetList[models.Campaign](ctx, d, CampaignsPath, api.RequestOptions{Query: f})
}

// GetCampaign fetches a single campaign.
func GetCampaign(ctx context.Context, d api.Doer, id models.ID) (models.Campaign, error) {
	return api.GetData[models.Campaign](ctx, d, itemPath(CampaignsPath, id))
}

// CreateCampaign creates a campaign.
func CreateCampaign(ctx context.Context, d api.Doer, in models.CampaignInput) (models.Campaign, error) {
	return api.SendData[models.Campaign](ctx, d, http.MethodPost, CampaignsPath, in)
}

// UpdateCampaign applies a partial update.
func UpdateCampaign(ctx context.Context, d api.Doer, id models.ID, in models.CampaignInput) (models.Campaign, error) {
	return api.SendData[models.Campaign](ctx, d, http.MethodPatch, itemPath(CampaignsPath, id), in)
}

// DeleteCampaign removes a campaign.
func DeleteCampaign(ctx context.Context, d api.Doer, id models.ID) error {
	_, err := api.Delete[models.Envelope[any]](ctx, d, itemPath(CampaignsPath, id))
	return err
}

// ListCodes fetches one page of referral codes.
func ListCodes(ctx context.Context, d api.Doer, f models.CodeFilters) (models.Paginated[models.ReferralCode], error) {
	return api.GetList[models.ReferralCode](ctx, d, CodesPath, api.RequestOptions{Query: f})
}

// GetCode fetches a single code.
func GetCode(ctx context.Context, d api.Doer, id models.ID) (models.ReferralCode, error) {
	return api.GetData[models.ReferralCode](ctx, d, itemPath(CodesPath, id))
}

// CreateCode creates a code.
func CreateCode(ctx context.Context, d api.Doer, in models.CodeInput) (models.ReferralCode, error) {
	return api.SendData[models.ReferralCode](ctx, d, http.MethodPost, CodesPath, in)
}

// UpdateCode applies a partial update.
func UpdateCode(ctx context.Context, d api.Doer, id models.ID, in models.CodeInput) (models.ReferralCode, error) {
	return api.SendData[models.ReferralCode](ctx, d, http.MethodPatch, itemPath(CodesPath, id), in)
}

// DeleteCode removes a code.
func DeleteCode(ctx context.Context, d api.Doer, id models.ID) error {
	_, err := api.Delete[models.Envelope[any]](ctx, d, itemPath(CodesPath, id))
	return err
}

// BulkUpdateCodes toggles many codes. A successful response may still
// report failures in the result.
func BulkUpdateCodes(ctx context.Context, d api.Doer, in models.BulkCodeUpdate) (models.BulkResult, error) {
	return api.SendData[models.BulkResult](ctx, d, http.MethodPost, CodesBulkPath, in)
}

// ListRelationships fetches one page of referral relationships.
func ListRelationships(ctx context.Context, d api.Doer, f models.RelationshipFilters) (models.Paginated[models.Relationship], error) {
	return api.GetList[models.Relationship](ctx, d, RelationshipsPath, api.RequestOptions{Query: f})
}

// GetRelationship fetches a single relationship.
func GetRelationship(ctx context.Context, d api.Doer, id models.ID) (models.Relationship, error) {
	return api.GetData[models.Relationship](ctx, d, itemPath(RelationshipsPath, id))
}

// UpdateRelationship changes the status of a relationship.
func UpdateRelationship(ctx context.Context, d api.Doer, id models.ID, in models.RelationshipUpdate) (models.Relationship, error) {
	return api.SendData[models.Relationship](ctx, d, http.MethodPatch, itemPath(RelationshipsPath, id), in)
}
