package settings

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/referral-admin-tui/internal/app"
	"github.com/j-veylop/referral-admin-tui/internal/app/apptest"
	"github.com/j-veylop/referral-admin-tui/internal/models"
)

const settingsPage = `{"message":"ok","data":[
	{"key":"referral.enabled","value":true,"description":"Accept new referrals"},
	{"key":"support.email","value":"help@example.com"}],
	"pagination":{"count":2,"current_page":1,"total_pages":1,"page_size":20}}`

type backend struct {
	patches []map[string]any
	mu      sync.Mutex
}

func (b *backend) handler(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/platform-settings/admin/settings/":
		fmt.Fprint(w, settingsPage)
	case r.Method == http.MethodPatch && r.URL.Path == "/platform-settings/admin/settings/referral.enabled/":
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		b.patches = append(b.patches, body)
		fmt.Fprintf(w, `{"message":"ok","data":{"key":"referral.enabled","value":%s}}`, body["value"])
	default:
		http.NotFound(w, r)
	}
}

func (b *backend) patchBodies() []map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]map[string]any(nil), b.patches...)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *Model, msg tea.KeyMsg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

func newLoaded(t *testing.T) (*Model, *backend) {
	t.Helper()
	b := &backend{}
	mgr := apptest.NewManager(t, b.handler)
	apptest.SignIn(t, mgr)

	m := New(app.NewCommands(mgr))
	m.SetSize(120, 30)
	msg := m.Init()()
	if up, ok := msg.(app.StoreUpdatedMsg); !ok || up.Err != nil {
		t.Fatalf("initial load failed: %+v", msg)
	}
	m.Update(msg)
	return m, b
}

// replaceValue clears the value input and types s.
func replaceValue(m *Model, s string) {
	press(m, tea.KeyMsg{Type: tea.KeyCtrlU})
	for _, r := range s {
		press(m, runes(string(r)))
	}
}

func TestModel_InitLoadsSettings(t *testing.T) {
	m, _ := newLoaded(t)

	view := m.View()
	for _, want := range []string{"Platform settings", "referral.enabled", "help@example.com"} {
		if !strings.Contains(view, want) {
			t.Errorf("View should contain %q", want)
		}
	}
}

func TestModel_EditValue(t *testing.T) {
	m, b := newLoaded(t)

	press(m, runes("e"))
	if !m.CapturingInput() {
		t.Fatal("e should open the editor")
	}
	replaceValue(m, "false")
	cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg := cmd()
	m.Update(msg)

	if up := msg.(app.StoreUpdatedMsg); up.Err != nil {
		t.Fatalf("update failed: %v", up.Err)
	}
	bodies := b.patchBodies()
	if len(bodies) != 1 || bodies[0]["value"] != "false" {
		t.Errorf("PATCH body = %v", bodies)
	}
	if got := m.list.Snapshot().Items[0].Value; got != "false" {
		t.Errorf("Value = %q, want false", got)
	}
	if m.CapturingInput() {
		t.Error("editor should close after saving")
	}
}

func TestModel_EditRejectsWrongType(t *testing.T) {
	m, b := newLoaded(t)

	press(m, runes("e"))
	replaceValue(m, "maybe")
	if cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Error("a non-boolean should not be sent")
	}
	if !strings.Contains(m.View(), "Value must be true or false") {
		t.Error("View should show the validation error")
	}
	if len(b.patchBodies()) != 0 {
		t.Error("nothing should be sent")
	}

	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.CapturingInput() {
		t.Error("esc should close the editor")
	}
}

func TestCheckValue(t *testing.T) {
	tests := []struct {
		old     models.SettingValue
		value   string
		wantErr bool
	}{
		{"true", "false", false},
		{"true", "yes", true},
		{"30", "45.5", false},
		{"30", "soon", true},
		{"help@example.com", "anything", false},
	}

	for _, tt := range tests {
		if err := checkValue(tt.old, tt.value); (err != nil) != tt.wantErr {
			t.Errorf("checkValue(%q, %q) = %v, wantErr %v", tt.old, tt.value, err, tt.wantErr)
		}
	}
}
