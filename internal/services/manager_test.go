package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/j-veylop/referral-admin-tui/internal/api"
	"github.com/j-veylop/referral-admin-tui/internal/config"
	"github.com/j-veylop/referral-admin-tui/internal/models"
	"github.com/j-veylop/referral-admin-tui/internal/session"
	"github.com/j-veylop/referral-admin-tui/internal/store"
)

func testConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()
	tmpDir := t.TempDir()
	return &config.Config{
		APIBaseURL:         baseURL,
		Environment:        config.EnvProduction,
		RequestTimeout:     5 * time.Second,
		PageSize:           20,
		SessionPath:        filepath.Join(tmpDir, "session.json"),
		DatabasePath:       filepath.Join(tmpDir, "test.db"),
		ExportDir:          filepath.Join(tmpDir, "exports"),
		ExportPollInterval: 10 * time.Millisecond,
		ExportClearDelay:   10 * time.Millisecond,
	}
}

func newTestManager(t *testing.T, handler http.HandlerFunc) *Manager {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	mgr, err := NewManager(testConfig(t, srv.URL))
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	mgr.notify = func(string, string) error { return nil }
	t.Cleanup(func() { _ = mgr.Close() })
	return mgr
}

func waitFor[E ServiceEvent](t *testing.T, ch <-chan ServiceEvent) E {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case e := <-ch:
			if want, ok := e.(E); ok {
				return want
			}
		case <-deadline:
			var zero E
			t.Fatalf("timeout waiting for %T", zero)
			return zero
		}
	}
}

func TestNewManager(t *testing.T) {
	mgr := newTestManager(t, func(w http.ResponseWriter, _ *http.Request) {})

	if mgr.Client() == nil {
		t.Error("Client should be initialized")
	}
	if mgr.Store() == nil {
		t.Error("Store should be initialized")
	}
	if mgr.Session() == nil {
		t.Error("Session should be initialized")
	}
	if mgr.Exports() == nil {
		t.Error("Exports should be initialized")
	}
	if mgr.Database() == nil {
		t.Error("Database should be initialized")
	}
	if mgr.Context().Err() != nil {
		t.Error("Context should be live before Close")
	}
}

func TestNewManager_InvalidBaseURL(t *testing.T) {
	if _, err := NewManager(testConfig(t, "not a url")); err == nil {
		t.Error("expected error for invalid base URL")
	}
}

func TestManager_Subscription(t *testing.T) {
	mgr := newTestManager(t, func(w http.ResponseWriter, _ *http.Request) {})

	ch, cmd := mgr.Subscribe()
	if ch == nil {
		t.Error("Subscribe returned nil channel")
	}
	if cmd == nil {
		t.Error("Subscribe returned nil command")
	}

	mgr.Unsubscribe(ch)

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("Channel should be closed")
		}
	default:
		t.Error("Channel should be closed")
	}
}

func TestManager_Broadcast(t *testing.T) {
	mgr := newTestManager(t, func(w http.ResponseWriter, _ *http.Request) {})

	ch, _ := mgr.Subscribe()
	defer mgr.Unsubscribe(ch)

	event := ErrorEvent{Service: "test"}
	mgr.broadcast(event)

	select {
	case e := <-ch:
		if e != event {
			t.Errorf("Got event %v, want %v", e, event)
		}
	case <-time.After(time.Second):
		t.Error("Timeout waiting for broadcast")
	}
}

func TestManager_RefreshFailureLogsOut(t *testing.T) {
	var refreshes atomic.Int32
	mgr := newTestManager(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == api.RefreshPath {
			refreshes.Add(1)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	})
	if err := mgr.Session().SetSession("a1", "r1", &models.UserInfo{Email: "admin@example.com"}); err != nil {
		t.Fatal(err)
	}
	mgr.Store().Auth.Sync()

	ch, _ := mgr.Subscribe()

	_, err := mgr.Client().Do(context.Background(), http.MethodGet, "/auth/admin/users/", nil, api.RequestOptions{})
	if !errors.Is(err, api.ErrSessionExpired) {
		t.Fatalf("err = %v, want ErrSessionExpired", err)
	}

	ev := waitFor[LoggedOutEvent](t, ch)
	if ev.Reason != SessionExpiredMessage {
		t.Errorf("Reason = %q", ev.Reason)
	}
	if refreshes.Load() != 1 {
		t.Errorf("refreshes = %d, want 1", refreshes.Load())
	}
	if mgr.Session().AccessToken() != "" {
		t.Error("session should be cleared")
	}
	state := mgr.Store().Auth.State()
	if state.Status != store.StatusAnonymous {
		t.Errorf("Status = %v, want Anonymous", state.Status)
	}
	if state.Error != SessionExpiredMessage {
		t.Errorf("Error = %q", state.Error)
	}
}

func TestManager_ForbiddenBroadcast(t *testing.T) {
	mgr := newTestManager(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":"forbidden","message":"Not allowed"}}`))
	})
	if err := mgr.Session().SetTokens("a1", "r1"); err != nil {
		t.Fatal(err)
	}

	ch, _ := mgr.Subscribe()

	_, err := mgr.Client().Do(context.Background(), http.MethodGet, "/auth/admin/users/admins/", nil, api.RequestOptions{})
	if !api.IsForbidden(err) {
		t.Fatalf("err = %v, want 403", err)
	}

	ev := waitFor[ForbiddenEvent](t, ch)
	if ev.Error == nil || ev.Error.StatusCode != http.StatusForbidden {
		t.Errorf("ForbiddenEvent.Error = %+v", ev.Error)
	}
	if mgr.Session().AccessToken() != "a1" {
		t.Error("403 must not clear the session")
	}
}

func TestManager_RecordsRequests(t *testing.T) {
	mgr := newTestManager(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{}}`))
	})

	for range 3 {
		if _, err := mgr.Client().Do(context.Background(), http.MethodGet, "/platform-settings/admin/settings/", nil, api.RequestOptions{}); err != nil {
			t.Fatal(err)
		}
	}

	activity, err := mgr.GetActivity(models.TimeRange24Hours)
	if err != nil {
		t.Fatalf("GetActivity failed: %v", err)
	}
	if activity.Total.TotalRequests != 3 {
		t.Errorf("TotalRequests = %d, want 3", activity.Total.TotalRequests)
	}
	if len(activity.Recent) != 3 {
		t.Errorf("Recent = %d, want 3", len(activity.Recent))
	}
	if len(activity.Exports) != 0 {
		t.Errorf("Exports = %d, want 0", len(activity.Exports))
	}
}

func TestManager_SessionEvents(t *testing.T) {
	mgr := newTestManager(t, func(w http.ResponseWriter, _ *http.Request) {})
	ch, _ := mgr.Subscribe()

	if err := mgr.Session().SetPrefs(models.UIPrefs{Compact: true}); err != nil {
		t.Fatal(err)
	}

	ev := waitFor[SessionChangedEvent](t, ch)
	if ev.Type != session.EventPrefsChanged {
		t.Errorf("Type = %v, want EventPrefsChanged", ev.Type)
	}
}

func TestManager_Close(t *testing.T) {
	mgr := newTestManager(t, func(w http.ResponseWriter, _ *http.Request) {})
	ch, _ := mgr.Subscribe()

	if err := mgr.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if mgr.Context().Err() == nil {
		t.Error("Context should be canceled after Close")
	}
	if _, ok := <-ch; ok {
		t.Error("subscriber channel should be closed")
	}
	// Second close is a no-op.
	if err := mgr.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}

	empty := &Manager{}
	if err := empty.Close(); err != nil {
		t.Errorf("Close on empty manager: %v", err)
	}
}

func TestWaitForEvent(t *testing.T) {
	ch := make(chan ServiceEvent, 1)
	ch <- ErrorEvent{}

	cmd := WaitForEvent(ch)
	if msg := cmd(); msg == nil {
		t.Error("WaitForEvent cmd returned nil msg")
	}

	close(ch)
	if msg := cmd(); msg != nil {
		t.Errorf("closed channel should yield nil, got %v", msg)
	}
}

func TestServiceEvent_Interface(t *testing.T) {
	var _ ServiceEvent = LoggedOutEvent{}
	var _ ServiceEvent = ForbiddenEvent{}
	var _ ServiceEvent = SessionChangedEvent{}
	var _ ServiceEvent = ExportEvent{}
	var _ ServiceEvent = ErrorEvent{}
}
