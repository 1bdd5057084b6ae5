package referrals

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

func TestCampaigns(t *testing.T) {
	c, last := newClient(t, func(r *http.Request) string {
		if r.Method == http.MethodGet && r.URL.Path == CampaignsPath {
			return `{"message":"ok","data":[{"id":1,"name":"Spring","is_active":true,"reward_amount":5}],"pagination":{"count":1,"current_page":1,"total_pages":1,"page_size":20}}`
		}
		return `{"message":"ok","data":{"id":1,"name":"Spring","is_active":false}}`
	})
	ctx := context.Background()
	active := true

	page, err := ListCampaigns(ctx, c, models.CampaignFilters{IsActive: &active, Search: ""})
	if err != nil || len(page.Items) != 1 || page.Items[0].RewardAmount != "5" {
		t.Fatalf("ListCampaigns() = %+v, %v", page, err)
	}
	if last.URI != CampaignsPath+"?is_active=true" {
		t.Errorf("URI = %q", last.URI)
	}

	inactive := false
	got, err := UpdateCampaign(ctx, c, "1", models.CampaignInput{IsActive: &inactive})
	if err != nil || got.IsActive {
		t.Errorf("UpdateCampaign() = %+v, %v", got, err)
	}
	if last.Method != http.MethodPatch || last.URI != CampaignsPath+"1/" || last.Body["is_active"] != false {
		t.Errorf("request = %+v", last)
	}

	if _, err := CreateCampaign(ctx, c, models.CampaignInput{Name: "Spring"}); err != nil || last.Method != http.MethodPost {
		t.Errorf("CreateCampaign() error = %v, method %s", err, last.Method)
	}
	if _, err := GetCampaign(ctx, c, "1"); err != nil || last.URI != CampaignsPath+"1/" {
		t.Errorf("GetCampaign() error = %v, uri %s", err, last.URI)
	}
	if err := DeleteCampaign(ctx, c, "1"); err != nil || last.Method != http.MethodDelete {
		t.Errorf("DeleteCampaign() error = %v, method %s", err, last.Method)
	}
}

func TestCodes(t *testing.T) {
	c, last := newClient(t, func(r *http.Request) string {
		switch {
		case r.URL.Path == CodesBulkPath:
			return `{"message":"ok","data":{"updated_count":8,"failed_count":2,"errors":["x","y"]}}`
		case r.Method == http.MethodGet && r.URL.Path == CodesPath:
			return `{"message":"ok","data":[{"id":7,"code":"SPRING7","campaign":1,"uses_count":3,"max_uses":10}],"pagination":{"count":1}}`
		default:
			return `{"message":"ok","data":{"id":7,"code":"SPRING7"}}`
		}
	})
	ctx := context.Background()

	page, err := ListCodes(ctx, c, models.CodeFilters{Campaign: "1", Page: 1})
	if err != nil || len(page.Items) != 1 || page.Items[0].Usage() != 0.3 {
		t.Fatalf("ListCodes() = %+v, %v", page, err)
	}
	if last.URI != CodesPath+"?campaign=1&page=1" {
		t.Errorf("URI = %q", last.URI)
	}

	if _, err := CreateCode(ctx, c, models.CodeInput{Code: "SPRING7", Campaign: "1"}); err != nil {
		t.Errorf("CreateCode() failed: %v", err)
	}
	if _, err := GetCode(ctx, c, "7"); err != nil {
		t.Errorf("GetCode() failed: %v", err)
	}
	if _, err := UpdateCode(ctx, c, "7", models.CodeInput{OwnerEmail: "a@b.c"}); err != nil || last.Method != http.MethodPatch {
		t.Errorf("UpdateCode() error = %v, method %s", err, last.Method)
	}
	if err := DeleteCode(ctx, c, "7"); err != nil {
		t.Errorf("DeleteCode() failed: %v", err)
	}

	off := false
	res, err := BulkUpdateCodes(ctx, c, models.BulkCodeUpdate{IsActive: &off, CodeIDs: []models.ID{"1", "2"}})
	if err != nil {
		t.Fatalf("BulkUpdateCodes() failed: %v", err)
	}
	if !res.Partial() || res.Summary() != "8 updated, 2 failed" {
		t.Errorf("result = %+v", res)
	}
	if ids, ok := last.Body["code_ids"].([]any); !ok || len(ids) != 2 {
		t.Errorf("body = %+v", last.Body)
	}
}

func TestRelationships(t *testing.T) {
	c, last := newClient(t, func(r *http.Request) string {
		if r.Method == http.MethodGet && r.URL.Path == RelationshipsPath {
			return `{"message":"ok","data":[{"id":"r-1","referrer_email":"a@x","referee_email":"b@x","status":"pending"}]}`
		}
		return `{"message":"ok","data":{"id":"r-1","status":"approved","reward_status":"paid"}}`
	})
	ctx := context.Background()

	page, err := ListRelationships(ctx, c, models.RelationshipFilters{Status: "pending"})
	if err != nil || len(page.Items) != 1 || page.Pagination.CurrentPage != 1 {
		t.Fatalf("ListRelationships() = %+v, %v", page, err)
	}
	if last.URI != RelationshipsPath+"?status=pending" {
		t.Errorf("URI = %q", last.URI)
	}

	if _, err := GetRelationship(ctx, c, "r-1"); err != nil {
		t.Errorf("GetRelationship() failed: %v", err)
	}

	status := "approved"
	got, err := UpdateRelationship(ctx, c, "r-1", models.RelationshipUpdate{Status: &status})
	if err != nil || got.Status != "approved" || got.RewardStatus != "paid" {
		t.Errorf("UpdateRelationship() = %+v, %v", got, err)
	}
	if last.Body["status"] != "approved" || last.Body["reward_status"] != nil {
		t.Errorf("body = %+v", last.Body)
	}
}
