package activity

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/referral-admin-tui/internal/app"
	"github.com/j-veylop/referral-admin-tui/internal/app/apptest"
	"github.com/j-veylop/referral-admin-tui/internal/models"
	"github.com/j-veylop/referral-admin-tui/internal/services"
	"github.com/j-veylop/referral-admin-tui/internal/services/exports"
)

func newModel(t *testing.T) (*Model, *services.Manager) {
	t.Helper()
	mgr := apptest.NewManager(t, http.NotFound)
	m := New(app.NewCommands(mgr))
	m.SetSize(160, 100)
	return m, mgr
}

func seed(t *testing.T, mgr *services.Manager) {
	t.Helper()
	database := mgr.Database()
	now := time.Now()
	entries := []models.RequestLogEntry{
		{Timestamp: now.Add(-2 * time.Minute), Method: "GET", Path: "/auth/admin/users/", StatusCode: 200, DurationMs: 40},
		{Timestamp: now.Add(-time.Minute), Method: "PATCH", Path: "/platform-settings/admin/balances/7/", StatusCode: 500, DurationMs: 80},
	}
	for i := range entries {
		if err := database.InsertRequestLog(&entries[i]); err != nil {
			t.Fatalf("InsertRequestLog failed: %v", err)
		}
	}
	if _, err := database.InsertExportRecord(models.ExportRecord{
		CreatedAt: now, Kind: "calls", TaskID: "t-1", Path: "/tmp/calls-t-1.csv", Bytes: 2048,
	}); err != nil {
		t.Fatalf("InsertExportRecord failed: %v", err)
	}
}

func TestNew(t *testing.T) {
	m, _ := newModel(t)
	if m.timeRange != models.TimeRange24Hours {
		t.Errorf("timeRange = %v, want 24 Hours", m.timeRange)
	}
	if m.Init() == nil {
		t.Error("Init should load the activity")
	}
	if !m.loading {
		t.Error("Init should mark the tab as loading")
	}
	if !strings.Contains(m.View(), "Loading activity") {
		t.Error("View should show the loading state")
	}
}

func TestModel_Load(t *testing.T) {
	m, mgr := newModel(t)
	seed(t, mgr)

	msg := m.Init()()
	loaded, ok := msg.(app.ActivityLoadedMsg)
	if !ok {
		t.Fatalf("Init produced %T", msg)
	}
	if loaded.Err != nil {
		t.Fatalf("LoadActivity failed: %v", loaded.Err)
	}
	m.Update(msg)

	if m.loading {
		t.Error("loading should be cleared")
	}
	view := m.View()
	for _, want := range []string{
		"2 requests",
		"1 errors",
		"2 paths",
		"avg 60ms",
		"/auth/admin/users/",
		"/platform-settings/admin/balances/7/",
		"Downloaded Exports",
		"/tmp/calls-t-1.csv",
		"2.0 KB",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("View should contain %q", want)
		}
	}
}

func TestModel_Empty(t *testing.T) {
	m, _ := newModel(t)
	m.Update(m.Init()())

	view := m.View()
	if !strings.Contains(view, "0 requests") {
		t.Error("an empty log should still show the totals")
	}
	if !strings.Contains(view, "No exports downloaded") {
		t.Error("View should say no exports were downloaded")
	}
}

func TestModel_ToggleRange(t *testing.T) {
	m, _ := newModel(t)
	m.Update(m.Init()())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("t")})
	if cmd == nil {
		t.Fatal("t should reload")
	}
	if m.timeRange != models.TimeRange7Days {
		t.Errorf("timeRange = %v, want 7 Days", m.timeRange)
	}
	msg := cmd().(app.ActivityLoadedMsg)
	if msg.Range != models.TimeRange7Days {
		t.Errorf("loaded range = %v, want 7 Days", msg.Range)
	}
}

func TestModel_StaleRangeIgnored(t *testing.T) {
	m, _ := newModel(t)
	m.timeRange = models.TimeRange7Days
	m.loading = true

	m.Update(app.ActivityLoadedMsg{Range: models.TimeRange6Hours, Err: errors.New("late")})
	if !m.loading {
		t.Error("a reply for another range should not settle the load")
	}
	if m.errorMsg != "" {
		t.Error("a reply for another range should not set an error")
	}
}

func TestModel_Error(t *testing.T) {
	m, _ := newModel(t)
	m.Update(app.ActivityLoadedMsg{Range: m.timeRange, Err: errors.New("database locked")})

	if !strings.Contains(m.View(), "database locked") {
		t.Error("View should show the error")
	}
}

func TestModel_ReloadsAfterDownload(t *testing.T) {
	m, _ := newModel(t)
	m.Update(m.Init()())

	event := services.ExportEvent{Event: exports.Event{Type: exports.EventDownloaded, Kind: "calls"}}
	if _, cmd := m.Update(app.ServiceEventMsg{Event: event}); cmd == nil {
		t.Error("a finished download should reload the history")
	}

	failed := services.ExportEvent{Event: exports.Event{Type: exports.EventFailed, Kind: "calls"}}
	if _, cmd := m.Update(app.ServiceEventMsg{Event: failed}); cmd != nil {
		t.Error("other export events should be ignored")
	}
}

func TestDurationSparkline(t *testing.T) {
	recent := []models.RequestLogEntry{{DurationMs: 100}, {DurationMs: 0}}
	if got := durationSparkline(recent, 10); got != "▁█" {
		t.Errorf("durationSparkline = %q, want oldest first", got)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		want string
		in   int64
	}{
		{"512 B", 512},
		{"1.5 KB", 1536},
		{"3.0 MB", 3 << 20},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestModel_Help(t *testing.T) {
	m, _ := newModel(t)
	if len(m.ShortHelp()) != 2 {
		t.Error("ShortHelp should list range and refresh")
	}
	if len(m.FullHelp()) != 2 {
		t.Error("FullHelp should have two groups")
	}
}
