package settings

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

func TestSettings(t *testing.T) {
	c, last := newClient(t, func(r *http.Request) string {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == SettingsPath:
			return `{"message":"ok","data":[{"key":"max_daily_calls","value":50,"description":"Per user"},{"key":"feature.ai","value":true}]}`
		case r.Method == http.MethodPatch:
			return `{"message":"ok","data":{"key":"max_daily_calls","value":"75"}}`
		default:
			return `{"message":"ok","data":{"key":"max_daily_calls","value":50}}`
		}
	})
	ctx := context.Background()

	page, err := ListSettings(ctx, c, models.SettingFilters{})
	if err != nil {
		t.Fatalf("ListSettings() failed: %v", err)
	}
	if last.URI != SettingsPath {
		t.Errorf("URI = %q, want no query", last.URI)
	}
	if len(page.Items) != 2 || page.Items[0].Value != "50" || page.Items[1].Value != "true" {
		t.Errorf("items = %+v", page.Items)
	}

	got, err := GetSetting(ctx, c, "max_daily_calls")
	if err != nil || got.Value != "50" {
		t.Errorf("GetSetting() = %+v, %v", got, err)
	}

	got, err = UpdateSetting(ctx, c, "max_daily_calls", "75")
	if err != nil || got.Value != "75" {
		t.Errorf("UpdateSetting() = %+v, %v", got, err)
	}
	if last.URI != SettingsPath+"max_daily_calls/" || last.Body["value"] != "75" {
		t.Errorf("request = %+v", last)
	}
}
