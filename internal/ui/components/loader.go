package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/referral-admin-tui/internal/ui/styles"
)

// Step is one request a Loader waits on.
type Step struct {
	Name string
	Done bool
}

// Loader is the placeholder shown while a view waits on several requests.
// It counts settled steps and names the ones still outstanding.
type Loader struct {
	spin    spinner.Model
	title   string
	label   lipgloss.Style
	pending lipgloss.Style
}

// NewLoader creates a loader headed by title.
func NewLoader(title string) Loader {
	return Loader{
		spin: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(styles.Primary)),
		),
		title:   title,
		label:   lipgloss.NewStyle().Foreground(styles.TextSecondary),
		pending: lipgloss.NewStyle().Foreground(styles.TextMuted),
	}
}

// Init starts the animation.
func (l Loader) Init() tea.Cmd {
	return l.spin.Tick
}

// Tick restarts the animation after it stopped.
func (l Loader) Tick() tea.Cmd {
	return l.spin.Tick
}

// Update advances the animation on spinner ticks.
func (l Loader) Update(msg tea.Msg) (Loader, tea.Cmd) {
	var cmd tea.Cmd
	l.spin, cmd = l.spin.Update(msg)
	return l, cmd
}

// Title returns the heading.
func (l Loader) Title() string {
	return l.title
}

// View renders the heading with a done/total counter and, on a second
// line, the steps not yet settled.
func (l Loader) View(steps ...Step) string {
	head := l.spin.View() + " " + l.label.Render(l.title)
	if len(steps) == 0 {
		return head
	}

	var waiting []string
	for _, s := range steps {
		if !s.Done {
			waiting = append(waiting, s.Name)
		}
	}
	head += l.label.Render(fmt.Sprintf(" %d/%d", len(steps)-len(waiting), len(steps)))
	if len(waiting) == 0 {
		return head
	}
	return lipgloss.JoinVertical(lipgloss.Center, head, l.pending.Render("waiting for "+strings.Join(waiting, ", ")))
}

// Centered renders View in the middle of a width x height area.
func (l Loader) Centered(width, height int, steps ...Step) string {
	return styles.CenterBoth(l.View(steps...), width, height)
}
