package calls

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/referral-admin-tui/internal/app"
	"github.com/j-veylop/referral-admin-tui/internal/app/apptest"
)

type backend struct {
	listQueries  []string
	statsQueries []string
	mu           sync.Mutex
}

func (b *backend) handler(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case r.URL.Path == "/call/admin/calls/":
		b.listQueries = append(b.listQueries, r.URL.RawQuery)
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		fmt.Fprintf(w, `{"message":"ok","data":[
			{"id":"c-%d","caller":"+111","callee":"+222","state":"ended","direction":"inbound","duration_seconds":95,"cost":"1.20"}],
			"pagination":{"count":90,"current_page":%d,"total_pages":5,"page_size":20}}`, page, page)
	case r.URL.Path == "/call/admin/calls/stats/":
		b.statsQueries = append(b.statsQueries, r.URL.RawQuery)
		fmt.Fprint(w, `{"message":"ok","data":{"total_calls":90,"active_calls":2,"ended_calls":80,"failed_calls":8,"average_duration":75}}`)
	case r.URL.Path == "/call/admin/calls/c-1/":
		fmt.Fprint(w, `{"message":"ok","data":{"id":"c-1","caller":"+111","callee":"+222","state":"ended","duration_seconds":3725}}`)
	case r.Method == http.MethodPost && r.URL.Path == "/call/admin/calls/export/":
		fmt.Fprint(w, `{"message":"ok","data":{"task_id":"t9","status":"pending"}}`)
	case r.URL.Path == "/call/admin/calls/export/t9/":
		fmt.Fprint(w, `{"message":"ok","data":{"task_id":"t9","status":"processing"}}`)
	default:
		http.NotFound(w, r)
	}
}

func (b *backend) lastList() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.listQueries[len(b.listQueries)-1]
}

func (b *backend) lastStats() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.statsQueries[len(b.statsQueries)-1]
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// drain runs cmd, expanding batches, and feeds every message back into m.
func drain(t *testing.T, m *Model, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	var msgs []tea.Msg
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			if c != nil {
				msgs = append(msgs, drain(t, m, c)...)
			}
		}
	default:
		m.Update(msg)
		msgs = append(msgs, msg)
	}
	return msgs
}

func newLoaded(t *testing.T) (*Model, *backend) {
	t.Helper()
	b := &backend{}
	mgr := apptest.NewManager(t, b.handler)
	apptest.SignIn(t, mgr)

	m := New(app.NewCommands(mgr))
	m.SetSize(120, 30)
	for _, msg := range drain(t, m, m.Init()) {
		if up, ok := msg.(app.StoreUpdatedMsg); ok && up.Err != nil {
			t.Fatalf("initial load failed: %v", up.Err)
		}
	}
	return m, b
}

func TestModel_InitLoadsCallsAndStats(t *testing.T) {
	m, b := newLoaded(t)

	if got := b.lastList(); got != "page=1&page_size=20" {
		t.Errorf("list query = %q", got)
	}
	if got := b.lastStats(); got != "" {
		t.Errorf("stats query = %q, want no paging", got)
	}

	view := m.View()
	for _, want := range []string{"Calls", "+111", "1:35", "90 calls", "8 failed", "avg 1:15"} {
		if !strings.Contains(view, want) {
			t.Errorf("View should contain %q", want)
		}
	}
}

func TestModel_StateFilterAndPaging(t *testing.T) {
	m, b := newLoaded(t)

	_, cmd := m.Update(runes("s"))
	drain(t, m, cmd)
	_, cmd = m.Update(runes("s"))
	drain(t, m, cmd)
	if got := b.lastStats(); got != "state=ended" {
		t.Errorf("stats query = %q", got)
	}

	_, cmd = m.Update(runes("]"))
	drain(t, m, cmd)

	if got := b.lastList(); got != "state=ended&page=2&page_size=20" {
		t.Errorf("list query = %q", got)
	}
	snap := m.list.Snapshot()
	if snap.Pagination.TotalPages != 5 || snap.Pagination.CurrentPage != 2 {
		t.Errorf("Pagination = %+v", snap.Pagination)
	}
	if !strings.Contains(m.View(), "state: ended") {
		t.Error("View should show the state filter")
	}
}

func TestModel_DirectionFilter(t *testing.T) {
	m, b := newLoaded(t)

	_, cmd := m.Update(runes("d"))
	drain(t, m, cmd)

	if got := b.lastList(); got != "direction=inbound&page=1&page_size=20" {
		t.Errorf("list query = %q", got)
	}
}

func TestModel_Detail(t *testing.T) {
	m, _ := newLoaded(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	drain(t, m, cmd)

	if !strings.Contains(m.View(), "1:02:05") {
		t.Error("detail should show the loaded call duration")
	}
}

func TestModel_ExportAndDismiss(t *testing.T) {
	m, _ := newLoaded(t)

	_, cmd := m.Update(runes("e"))
	msg, ok := cmd().(app.ExportStartedMsg)
	if !ok || msg.Err != nil || msg.Kind != "calls" {
		t.Fatalf("unexpected result: %+v", msg)
	}
	if !strings.Contains(m.View(), "Export t9") {
		t.Error("View should show the running export")
	}

	_, cmd = m.Update(runes("X"))
	if cmd == nil {
		t.Fatal("X should dismiss the running export")
	}
	if _, ok := cmd().(app.DismissExportMsg); !ok {
		t.Error("expected DismissExportMsg")
	}
	if m.commands.Store().Exports.State().Task != nil {
		t.Error("dismissing should clear the task")
	}

	if _, cmd = m.Update(runes("X")); cmd != nil {
		t.Error("X without an export should do nothing")
	}
}
