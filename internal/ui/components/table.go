package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/referral-admin-tui/internal/models"
	"github.com/j-veylop/referral-admin-tui/internal/ui/styles"
)

// NewTable creates a focused table with the console styles.
func NewTable(columns []table.Column) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = styles.TableHeaderStyle
	s.Cell = styles.TableCellStyle
	s.Selected = styles.TableSelectedStyle
	t.SetStyles(s)

	return t
}

// FitColumns scales column widths so the table fills width. The last column
// absorbs the rounding remainder.
func FitColumns(columns []table.Column, width int) []table.Column {
	total := 0
	for _, c := range columns {
		total += c.Width
	}
	if total == 0 || width <= 0 {
		return columns
	}

	// Each cell carries two columns of padding.
	avail := max(width-2*len(columns), len(columns))
	out := make([]table.Column, len(columns))
	used := 0
	for i, c := range columns {
		w := max(c.Width*avail/total, 3)
		out[i] = table.Column{Title: c.Title, Width: w}
		used += w
	}
	if rest := avail - used; rest > 0 {
		out[len(out)-1].Width += rest
	}
	return out
}

// AlertKind selects the alert color.
type AlertKind int

// Alert kinds.
const (
	AlertError AlertKind = iota
	AlertWarning
	AlertInfo
)

// RenderAlert renders a dismissible inline alert.
func RenderAlert(kind AlertKind, message string, width int) string {
	if message == "" {
		return ""
	}

	var style lipgloss.Style
	var prefix string
	switch kind {
	case AlertWarning:
		style, prefix = styles.AlertWarningStyle, "Warning:"
	case AlertInfo:
		style, prefix = styles.AlertInfoStyle, "Info:"
	default:
		style, prefix = styles.AlertErrorStyle, "Error:"
	}

	hint := styles.HelpStyle.Render("  (x to dismiss)")
	content := fmt.Sprintf("%s %s", prefix, message)
	if width > 0 {
		style = style.MaxWidth(width)
	}
	return style.Render(content + hint)
}

// RenderPagination renders the pager footer of a list.
func RenderPagination(p models.Pagination, loading bool) string {
	pages := max(p.TotalPages, 1)
	parts := []string{
		fmt.Sprintf("Page %d of %d", max(p.CurrentPage, 1), pages),
		fmt.Sprintf("%d total", p.Count),
	}

	var nav []string
	if p.HasPrevious() {
		nav = append(nav, "[ prev")
	}
	if p.HasNext() {
		nav = append(nav, "next ]")
	}
	if len(nav) > 0 {
		parts = append(parts, strings.Join(nav, "  "))
	}
	if loading {
		parts = append(parts, styles.InfoTextStyle.Render("loading..."))
	}

	return styles.HelpStyle.Render(strings.Join(parts, " · "))
}

// Field is one row of a detail panel.
type Field struct {
	Label string
	Value string
}

// RenderFields renders label/value pairs as an aligned block.
func RenderFields(fields []Field) string {
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		value := f.Value
		if value == "" {
			value = "-"
		}
		lines = append(lines, styles.LabelStyle.Render(f.Label)+styles.ValueStyle.Render(value))
	}
	return strings.Join(lines, "\n")
}

// Truncate shortens s to width cells with an ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	if width <= 1 {
		return "…"
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
