package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/referral-admin-tui/internal/models"
)

func TestNewLoader(t *testing.T) {
	l := NewLoader("Loading analytics...")
	if l.Title() != "Loading analytics..." {
		t.Errorf("Title = %q", l.Title())
	}
	if l.Init() == nil || l.Tick() == nil {
		t.Error("Init and Tick should return a command")
	}
	if _, cmd := l.Update(spinner.TickMsg{}); cmd == nil {
		t.Error("Update should return command for tick")
	}
}

func TestLoader_View(t *testing.T) {
	l := NewLoader("Loading")

	tests := []struct {
		name    string
		steps   []Step
		want    []string
		notWant []string
	}{
		{"NoSteps", nil, []string{"Loading"}, []string{"waiting", "/"}},
		{"Partial", []Step{{"overview", false}, {"call stats", true}, {"trends", false}}, []string{"1/3", "waiting for overview, trends"}, []string{"call stats"}},
		{"AllDone", []Step{{"overview", true}, {"trends", true}}, []string{"2/2"}, []string{"waiting"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := l.View(tt.steps...)
			for _, w := range tt.want {
				if !strings.Contains(view, w) {
					t.Errorf("View() missing %q:\n%s", w, view)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(view, w) {
					t.Errorf("View() should not contain %q:\n%s", w, view)
				}
			}
		})
	}
}

func TestLoader_Centered(t *testing.T) {
	l := NewLoader("Loading...")
	view := l.Centered(40, 5, Step{Name: "overview"})
	if lipgloss.Height(view) != 5 || !strings.Contains(view, "overview") {
		t.Errorf("Centered() =\n%s", view)
	}
}

func TestRenderLineChart(t *testing.T) {
	if s := RenderLineChart([]float64{1, 2, 3, 4}, 20, 5, "Test"); !strings.Contains(s, "Test") {
		t.Errorf("RenderLineChart missing caption:\n%s", s)
	}
	if s := RenderLineChart(nil, 20, 5, "Test"); !strings.Contains(s, NoData) {
		t.Errorf("empty chart = %q", s)
	}
}

func TestRenderDualLineChart(t *testing.T) {
	if s := RenderDualLineChart([]float64{1, 2, 3}, []float64{3, 2}, 20, 5, "Title"); s == "" {
		t.Error("RenderDualLineChart returned empty")
	}
	if s := RenderDualLineChart(nil, nil, 20, 5, "Title"); !strings.Contains(s, NoData) {
		t.Errorf("empty chart = %q", s)
	}
}

func TestRenderBarChart(t *testing.T) {
	s := RenderBarChart([]float64{10, 20.5}, []string{"A", "B"}, 40)
	if !strings.Contains(s, "20.5") || !strings.Contains(s, "10") {
		t.Errorf("RenderBarChart = %q", s)
	}
	if RenderBarChart(nil, nil, 40) != "" {
		t.Error("empty bar chart should render nothing")
	}
}

func TestRenderSparkline(t *testing.T) {
	s := RenderSparkline([]float64{0, 1, 2, 3}, 10)
	if len([]rune(s)) != 4 {
		t.Errorf("RenderSparkline = %q, want 4 runes", s)
	}
	if RenderSparkline(nil, 10) != "" {
		t.Error("empty sparkline should render nothing")
	}
}

func TestRenderLegend(t *testing.T) {
	s := RenderLegend([]LegendItem{
		{Label: "Referrals", Color: ChartReferralColor},
		{Label: "Calls", Color: lipgloss.Color("#ffffff")},
	})
	if !strings.Contains(s, "Referrals") || !strings.Contains(s, "Calls") {
		t.Errorf("RenderLegend = %q", s)
	}
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		want string
		in   float64
	}{
		{"3", 3},
		{"0", 0},
		{"2.5", 2.5},
	}
	for _, tt := range tests {
		if got := FormatCount(tt.in); got != tt.want {
			t.Errorf("FormatCount(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUsageBar(t *testing.T) {
	bar := NewUsageBar()
	if view := bar.View(50, "Usage", 60); !strings.Contains(view, "50%") || !strings.Contains(view, "Usage") {
		t.Errorf("View = %q", view)
	}
	if view := bar.ViewCompact(150, 20); !strings.Contains(view, "150%") {
		t.Errorf("ViewCompact = %q", view)
	}
}

func TestRenderGradientBar(t *testing.T) {
	if RenderGradientBar(50, 0) != "" {
		t.Error("zero width should render nothing")
	}
	s := RenderGradientBar(50, 10)
	if strings.Count(s, "█") != 5 || strings.Count(s, "░") != 5 {
		t.Errorf("RenderGradientBar(50, 10) = %q", s)
	}
}

func TestHexToRGB(t *testing.T) {
	if got := hexToRGB("#ff0080"); got != [3]int{255, 0, 128} {
		t.Errorf("hexToRGB = %v", got)
	}
	if got := interpolateColor("#000000", "#ffffff", 0); got != "#000000" {
		t.Errorf("interpolateColor = %s", got)
	}
}

func TestFitColumns(t *testing.T) {
	cols := []table.Column{{Title: "A", Width: 10}, {Title: "B", Width: 30}}
	got := FitColumns(cols, 84)
	if got[0].Width+got[1].Width != 80 {
		t.Errorf("widths = %d+%d, want 80", got[0].Width, got[1].Width)
	}
	if got[0].Width != 20 {
		t.Errorf("first width = %d, want 20", got[0].Width)
	}
	if same := FitColumns(cols, 0); same[0].Width != 10 {
		t.Error("zero width should keep columns")
	}
}

func TestNewTable(t *testing.T) {
	tbl := NewTable([]table.Column{{Title: "Email", Width: 20}})
	tbl.SetRows([]table.Row{{"a@example.com"}})
	if !strings.Contains(tbl.View(), "a@example.com") {
		t.Error("table should render its rows")
	}
}

func TestRenderAlert(t *testing.T) {
	if RenderAlert(AlertError, "", 40) != "" {
		t.Error("empty message should render nothing")
	}
	if s := RenderAlert(AlertError, "boom", 0); !strings.Contains(s, "Error: boom") {
		t.Errorf("error alert = %q", s)
	}
	if s := RenderAlert(AlertWarning, "2 failed", 0); !strings.Contains(s, "Warning: 2 failed") {
		t.Errorf("warning alert = %q", s)
	}
}

func TestRenderPagination(t *testing.T) {
	p := models.Pagination{Count: 100, CurrentPage: 2, TotalPages: 5}
	s := RenderPagination(p, true)
	for _, want := range []string{"Page 2 of 5", "100 total", "[ prev", "next ]", "loading"} {
		if !strings.Contains(s, want) {
			t.Errorf("pagination %q missing %q", s, want)
		}
	}
}

func TestRenderFields(t *testing.T) {
	s := RenderFields([]Field{{Label: "Email", Value: "a@example.com"}, {Label: "Phone"}})
	if !strings.Contains(s, "a@example.com") || !strings.Contains(s, "-") {
		t.Errorf("RenderFields = %q", s)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("hello world", 6); got != "hello…" {
		t.Errorf("Truncate = %q", got)
	}
	if got := Truncate("hi", 6); got != "hi" {
		t.Errorf("Truncate = %q", got)
	}
}
