// Package analytics wraps the dashboard analytics endpoints.
package analytics

import (
	"context"

	"github.com/j-veylop/referral-admin-tui/internal/api"
	"github.com/j-veylop/referral-admin-tui/internal/models"
)

// Endpoint paths.
const (
	OverviewPath       = "/platform-settings/admin/analytics/overview/"
	CallStatsPath      = "/platform-settings/admin/analytics/call-stats/"
	ReferralTrendsPath = "/platform-settings/admin/analytics/referral-trends/"
	CallTrendsPath     = "/platform-settings/admin/analytics/call-trends/"
)

// GetOverview fetches the headline counters.
func GetOverview(ctx context.Context, d api.Doer, q models.AnalyticsQuery) (models.Overview, error) {
	return api.GetData[models.Overview](ctx, d, OverviewPath, api.RequestOptions{Query: q})
}

// GetCallStats fetches call counters for the window.
func GetCallStats(ctx context.Context, d api.Doer, q models.AnalyticsQuery) (models.CallStats, error) {
	return api.GetData[models.CallStats](ctx, d, CallStatsPath, api.RequestOptions{Query: q})
}

// GetReferralTrends fetches referrals per bucket.
func GetReferralTrends(ctx context.Context, d api.Doer, q models.AnalyticsQuery) ([]models.TrendPoint, error) {
	return trends(ctx, d, ReferralTrendsPath, q)
}

// GetCallTrends fetches calls per bucket.
func GetCallTrends(ctx context.Context, d api.Doer, q models.AnalyticsQuery) ([]models.TrendPoint, error) {
	return trends(ctx, d, CallTrendsPath, q)
}

func trends(ctx context.Context, d api.Doer, path string, q models.AnalyticsQuery) ([]models.TrendPoint, error) {
	points, err := api.GetData[[]models.TrendPoint](ctx, d, path, api.RequestOptions{Query: q})
	if err != nil {
		return nil, err
	}
	if points == nil {
		points = []models.TrendPoint{}
	}
	return points, nil
}
