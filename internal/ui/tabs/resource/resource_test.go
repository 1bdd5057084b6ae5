package resource

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/referral-admin-tui/internal/models"
	"github.com/j-veylop/referral-admin-tui/internal/store"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeInto(f *Form, s string) {
	for _, r := range s {
		f.Update(runes(string(r)))
	}
}

func TestCycleBool(t *testing.T) {
	v := CycleBool(nil)
	if v == nil || !*v {
		t.Fatal("nil should become true")
	}
	v = CycleBool(v)
	if v == nil || *v {
		t.Fatal("true should become false")
	}
	if CycleBool(v) != nil {
		t.Error("false should become nil")
	}
}

func TestCycle(t *testing.T) {
	values := []string{"", "inbound", "outbound"}
	tests := []struct {
		current string
		want    string
	}{
		{"", "inbound"},
		{"inbound", "outbound"},
		{"outbound", ""},
		{"sideways", ""},
	}
	for _, tt := range tests {
		if got := Cycle(values, tt.current); got != tt.want {
			t.Errorf("Cycle(%q) = %q, want %q", tt.current, got, tt.want)
		}
	}
}

func TestBoolLabel(t *testing.T) {
	yes, no := true, false
	if got := BoolLabel(nil, "active", "inactive"); got != "all" {
		t.Errorf("nil = %q", got)
	}
	if got := BoolLabel(&yes, "active", "inactive"); got != "active" {
		t.Errorf("true = %q", got)
	}
	if got := BoolLabel(&no, "active", "inactive"); got != "inactive" {
		t.Errorf("false = %q", got)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		want    string
		seconds int
	}{
		{"0:00", 0},
		{"0:00", -5},
		{"0:59", 59},
		{"2:05", 125},
		{"1:02:05", 3725},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.seconds); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatTime(t *testing.T) {
	if got := FormatTime(nil); got != "-" {
		t.Errorf("nil = %q", got)
	}
	ts := time.Date(2024, 3, 9, 14, 30, 0, 0, time.Local)
	if got := FormatTime(&ts); got != "2024-03-09 14:30" {
		t.Errorf("FormatTime = %q", got)
	}
}

func TestExportLine(t *testing.T) {
	if got := ExportLine(store.ExportState{}); got != "" {
		t.Errorf("idle = %q", got)
	}
	running := store.ExportState{Task: &models.ExportTask{TaskID: "t-9", Status: models.ExportProcessing}}
	if got := ExportLine(running); !strings.Contains(got, "Export t-9") {
		t.Errorf("running = %q", got)
	}
	if got := ExportLine(store.ExportState{Error: "boom"}); !strings.Contains(got, "Export failed: boom") {
		t.Errorf("failed = %q", got)
	}
}

func TestForm_EnterAdvancesThenSubmits(t *testing.T) {
	var f Form
	if f.Active() {
		t.Fatal("zero form should be inactive")
	}
	f.Open("New code", Field{Label: "Code"}, Field{Label: "Uses", Value: "10"})
	if !f.Active() {
		t.Fatal("Open should activate the form")
	}

	typeInto(&f, " ABC ")
	if res, _ := f.Update(tea.KeyMsg{Type: tea.KeyEnter}); res != FormEditing {
		t.Fatalf("enter on the first field = %v, want editing", res)
	}
	typeInto(&f, "0")
	if res, _ := f.Update(tea.KeyMsg{Type: tea.KeyEnter}); res != FormSubmitted {
		t.Fatalf("enter on the last field = %v, want submitted", res)
	}

	values := f.Values()
	if values[0] != "ABC" || values[1] != "100" {
		t.Errorf("Values = %q", values)
	}
	if !f.Active() {
		t.Error("the form should stay open until closed")
	}
}

func TestForm_ErrorAndCancel(t *testing.T) {
	var f Form
	f.Open("Edit", Field{Label: "Value"})
	f.SetError("Value must be a number")
	if view := f.View(80); !strings.Contains(view, "Value must be a number") || !strings.Contains(view, "Edit") {
		t.Errorf("View = %q", view)
	}

	if res, _ := f.Update(tea.KeyMsg{Type: tea.KeyEsc}); res != FormCancelled {
		t.Errorf("esc = %v, want cancelled", res)
	}
	if f.Active() {
		t.Error("esc should close the form")
	}
}

func TestForm_TabWraps(t *testing.T) {
	var f Form
	f.Open("Two", Field{Label: "A"}, Field{Label: "B"})
	f.Update(tea.KeyMsg{Type: tea.KeyTab})
	f.Update(tea.KeyMsg{Type: tea.KeyTab})
	typeInto(&f, "x")
	if values := f.Values(); values[0] != "x" || values[1] != "" {
		t.Errorf("Values = %q, focus should wrap to the first field", values)
	}
}

func TestConfirm(t *testing.T) {
	var c Confirm
	if c.View() != "" {
		t.Error("inactive confirm should render nothing")
	}

	c.Ask("Delete code SPRING?")
	if !c.Active() || !strings.Contains(c.View(), "Delete code SPRING? (y/N)") {
		t.Fatalf("View = %q", c.View())
	}
	if !c.Update(runes("y")) {
		t.Error("y should confirm")
	}
	if c.Active() {
		t.Error("answering should close the prompt")
	}

	c.Ask("Again?")
	if c.Update(runes("n")) {
		t.Error("n should cancel")
	}
	c.Ask("Again?")
	if c.Update(tea.KeyMsg{Type: tea.KeyEnter}) {
		t.Error("enter should cancel")
	}
}
