package resource

import (
	"fmt"
	"time"

	"github.com/j-veylop/referral-admin-tui/internal/store"
	"github.com/j-veylop/referral-admin-tui/internal/ui/styles"
)

// CycleBool moves a tri-state filter through all, true and false.
func CycleBool(v *bool) *bool {
	switch {
	case v == nil:
		t := true
		return &t
	case *v:
		f := false
		return &f
	default:
		return nil
	}
}

// Cycle returns the value after current in values, wrapping around.
// Unknown values restart the cycle.
func Cycle(values []string, current string) string {
	for i, v := range values {
		if v == current {
			return values[(i+1)%len(values)]
		}
	}
	return values[0]
}

// BoolLabel names a tri-state filter value.
func BoolLabel(v *bool, yes, no string) string {
	switch {
	case v == nil:
		return "all"
	case *v:
		return yes
	default:
		return no
	}
}

// YesNo renders a flag for a table cell.
func YesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

// FormatTime renders an optional timestamp in local time.
func FormatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

// FormatDuration renders seconds as m:ss or h:mm:ss.
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return "0:00"
	}
	h, m, s := seconds/3600, seconds%3600/60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// ExportLine renders the running export, or "" when none.
func ExportLine(state store.ExportState) string {
	switch {
	case state.Task != nil:
		return styles.InfoTextStyle.Render(fmt.Sprintf("Export %s: %s", state.Task.TaskID, state.Task.Status))
	case state.Error != "":
		return styles.ErrorTextStyle.Render("Export failed: " + state.Error)
	}
	return ""
}
