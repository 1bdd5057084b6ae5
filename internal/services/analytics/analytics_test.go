package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/j-veylop/referral-admin-tui/internal/api"
	"github.com/j-veylop/referral-admin-tui/internal/models"
)

type staticTokens struct{}

func (staticTokens) AccessToken() string         { return "a1" }
func (staticTokens) RefreshToken() string        { return "" }
func (staticTokens) SetTokens(_, _ string) error { return nil }
func (staticTokens) Clear() error                { return nil }

// recorded is the last request seen by the test server.
type recorded struct {
	Method string
	URI    string
	Body   map[string]any
}

func newClient(t *testing.T, respond func(r *http.Request) string) (*api.Client, *recorded) {
	t.Helper()
	last := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		last.Method, last.URI, last.Body = r.Method, r.URL.RequestURI(), nil
		_ = json.NewDecoder(r.Body).Decode(&last.Body)
		_, _ = w.Write([]byte(respond(r)))
	}))
	t.Cleanup(srv.Close)
	c, err := api.New(api.Config{BaseURL: srv.URL}, staticTokens{})
	if err != nil {
		t.Fatalf("api.New() failed: %v", err)
	}
	return c, last
}

func TestAnalytics(t *testing.T) {
	c, last := newClient(t, func(r *http.Request) string {
		switch r.URL.Path {
		case OverviewPath:
			return `{"message":"ok","data":{"total_users":100,"active_users":40,"total_referrals":20,"successful_referrals":5,"total_rewards":"250.00"}}`
		case CallStatsPath:
			return `{"message":"ok","data":{"total_calls":12,"failed_calls":1}}`
		case ReferralTrendsPath:
			return `{"message":"ok","data":[{"date":"2026-10-01","value":3},{"date":"2026-10-02","value":5}]}`
		default:
			return `{"message":"ok","data":null}`
		}
	})
	ctx := context.Background()
	q := models.AnalyticsQuery{Period: models.Period30d}

	overview, err := GetOverview(ctx, c, q)
	if err != nil || overview.TotalUsers != 100 || overview.ConversionRate() != 0.25 {
		t.Errorf("GetOverview() = %+v, %v", overview, err)
	}
	if last.URI != OverviewPath+"?period=30d" {
		t.Errorf("URI = %q", last.URI)
	}

	stats, err := GetCallStats(ctx, c, q)
	if err != nil || stats.TotalCalls != 12 {
		t.Errorf("GetCallStats() = %+v, %v", stats, err)
	}

	trend, err := GetReferralTrends(ctx, c, q)
	if err != nil || len(trend) != 2 || trend[1].Value != 5 {
		t.Errorf("GetReferralTrends() = %+v, %v", trend, err)
	}

	empty, err := GetCallTrends(ctx, c, q)
	if err != nil || empty == nil || len(empty) != 0 {
		t.Errorf("GetCallTrends() = %#v, %v", empty, err)
	}
}
