// Package apptest provides a service manager backed by an httptest server
// for tab and command tests.
package apptest

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/j-veylop/referral-admin-tui/internal/config"
	"github.com/j-veylop/referral-admin-tui/internal/models"
	"github.com/j-veylop/referral-admin-tui/internal/services"
)

// NewManager starts handler on a test server and returns a manager talking
// to it. Everything is torn down with the test.
func NewManager(t testing.TB, handler http.HandlerFunc) *services.Manager {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	tmpDir := t.TempDir()
	mgr, err := services.NewManager(&config.Config{
		APIBaseURL:         srv.URL,
		Environment:        config.EnvProduction,
		RequestTimeout:     5 * time.Second,
		PageSize:           20,
		SessionPath:        filepath.Join(tmpDir, "session.json"),
		DatabasePath:       filepath.Join(tmpDir, "test.db"),
		ExportDir:          filepath.Join(tmpDir, "exports"),
		ExportPollInterval: 10 * time.Millisecond,
		ExportClearDelay:   10 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	t.Cleanup(func() { _ = mgr.Close() })
	return mgr
}

// SignIn stores a session for a test administrator.
func SignIn(t testing.TB, mgr *services.Manager) {
	t.Helper()
	user := &models.UserInfo{ID: "1", Email: "admin@example.com", FirstName: "Ada", Role: "owner"}
	if err := mgr.Session().SetSession("access", "refresh", user); err != nil {
		t.Fatalf("SetSession failed: %v", err)
	}
	mgr.Store().Auth.Sync()
}

// JSON returns a handler that always answers body with status 200.
func JSON(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}
