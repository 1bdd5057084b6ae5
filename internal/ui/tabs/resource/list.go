// Package resource provides the paginated list view shared by the entity
// tabs: a table over a store slice with paging, search, a detail panel and
// an inline error alert.
package resource

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/referral-admin-tui/internal/api"
	"github.com/j-veylop/referral-admin-tui/internal/app"
	"github.com/j-veylop/referral-admin-tui/internal/models"
	"github.com/j-veylop/referral-admin-tui/internal/store"
	"github.com/j-veylop/referral-admin-tui/internal/ui/components"
	"github.com/j-veylop/referral-admin-tui/internal/ui/styles"
)

// KeyMap defines the list bindings.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	Search   key.Binding
	Open     key.Binding
	Close    key.Binding
	Dismiss  key.Binding
}

// DefaultKeyMap returns the default list bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("]", "pgdown"),
			key.WithHelp("]", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("[", "pgup"),
			key.WithHelp("[", "prev page"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "details"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "dismiss error"),
		),
	}
}

// Config describes one paginated resource.
type Config[T any, F store.Paged[F]] struct {
	Slice  *store.Slice[T, F]
	Fetch  func(context.Context, api.Doer, F) (models.Paginated[T], error)
	Row    func(T) table.Row
	Fields func(T) []components.Field
	// Search applies the search text to the filters. Nil disables search.
	Search func(F, string) F
	// Detail loads the full record shown by the detail panel. When nil the
	// panel shows the list row.
	Detail   func(context.Context, api.Doer, T) (T, error)
	Resource app.Resource
	Title    string
	Columns  []table.Column
}

// List is a table over a store slice.
type List[T any, F store.Paged[F]] struct {
	commands  *app.Commands
	cfg       Config[T, F]
	snap      store.Snapshot[T, F]
	search    textinput.Model
	keys      KeyMap
	table     table.Model
	width     int
	height    int
	searching bool
	detail    bool
}

// New creates a list for cfg.
func New[T any, F store.Paged[F]](commands *app.Commands, cfg Config[T, F]) *List[T, F] {
	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search"
	search.CharLimit = 100

	l := &List[T, F]{
		commands: commands,
		cfg:      cfg,
		search:   search,
		keys:     DefaultKeyMap(),
		table:    components.NewTable(cfg.Columns),
	}
	l.Refresh()
	return l
}

// Keys returns the list bindings.
func (l *List[T, F]) Keys() KeyMap {
	return l.keys
}

// Load fetches the page selected by the current filters.
func (l *List[T, F]) Load() tea.Cmd {
	l.Refresh()
	return app.ListCmd(l.commands, l.cfg.Resource, l.cfg.Slice, l.cfg.Fetch)
}

// Refresh re-reads the slice into the table.
func (l *List[T, F]) Refresh() {
	l.snap = l.cfg.Slice.Snapshot()
	rows := make([]table.Row, 0, len(l.snap.Items))
	for _, item := range l.snap.Items {
		rows = append(rows, l.cfg.Row(item))
	}
	l.table.SetRows(rows)
	if c := l.table.Cursor(); c >= len(rows) {
		l.table.SetCursor(max(len(rows)-1, 0))
	}
}

// Snapshot returns the state rendered by the last Refresh.
func (l *List[T, F]) Snapshot() store.Snapshot[T, F] {
	return l.snap
}

// Selected returns the row under the cursor.
func (l *List[T, F]) Selected() (T, bool) {
	c := l.table.Cursor()
	if c < 0 || c >= len(l.snap.Items) {
		var zero T
		return zero, false
	}
	return l.snap.Items[c], true
}

// Capturing reports whether the search input has focus.
func (l *List[T, F]) Capturing() bool {
	return l.searching
}

// ShowingDetail reports whether the detail panel is open.
func (l *List[T, F]) ShowingDetail() bool {
	return l.detail
}

// SetFilters replaces the filters and reloads from the first page.
func (l *List[T, F]) SetFilters(f F) tea.Cmd {
	l.cfg.Slice.SetFilters(f)
	return l.Load()
}

// Update handles a message. Keys the list does not use return nil.
func (l *List[T, F]) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case app.StoreUpdatedMsg:
		if msg.Resource == l.cfg.Resource {
			l.Refresh()
		}
	case tea.KeyMsg:
		return l.handleKey(msg)
	}
	return nil
}

func (l *List[T, F]) handleKey(msg tea.KeyMsg) tea.Cmd {
	if l.searching {
		return l.handleSearchKey(msg)
	}

	if l.detail {
		if key.Matches(msg, l.keys.Close, l.keys.Open) {
			l.detail = false
			l.cfg.Slice.ClearDetail()
			l.Refresh()
		}
		return nil
	}

	switch {
	case key.Matches(msg, l.keys.NextPage):
		if l.snap.Pagination.HasNext() && !l.snap.Loading {
			l.cfg.Slice.SetPage(l.snap.Filters.CurrentPage() + 1)
			return l.Load()
		}
	case key.Matches(msg, l.keys.PrevPage):
		if page := l.snap.Filters.CurrentPage(); page > 1 && !l.snap.Loading {
			l.cfg.Slice.SetPage(page - 1)
			return l.Load()
		}
	case key.Matches(msg, l.keys.Search):
		if l.cfg.Search != nil {
			l.searching = true
			return l.search.Focus()
		}
	case key.Matches(msg, l.keys.Dismiss):
		l.cfg.Slice.ClearError()
		l.Refresh()
	case key.Matches(msg, l.keys.Open):
		return l.open()
	case key.Matches(msg, l.keys.Up, l.keys.Down):
		var cmd tea.Cmd
		l.table, cmd = l.table.Update(msg)
		return cmd
	}
	return nil
}

func (l *List[T, F]) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		l.searching = false
		l.search.Blur()
		return l.SetFilters(l.cfg.Search(l.cfg.Slice.Filters(), strings.TrimSpace(l.search.Value())))
	case "esc":
		l.searching = false
		l.search.Blur()
		return nil
	}
	var cmd tea.Cmd
	l.search, cmd = l.search.Update(msg)
	return cmd
}

func (l *List[T, F]) open() tea.Cmd {
	item, ok := l.Selected()
	if !ok {
		return nil
	}
	l.detail = true
	if l.cfg.Detail == nil {
		return nil
	}
	return app.DetailCmd(l.commands, l.cfg.Resource, l.cfg.Slice, func(ctx context.Context, d api.Doer) (T, error) {
		return l.cfg.Detail(ctx, d, item)
	})
}

// SetSize fits the table into width x height.
func (l *List[T, F]) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.table.SetColumns(components.FitColumns(l.cfg.Columns, width-4))
	l.table.SetWidth(max(width-4, 10))
	// title, filter line, alert, pagination and padding
	l.table.SetHeight(max(height-9, 3))
	l.search.Width = max(width-10, 10)
}

// View renders the list. header lines are shown under the title.
func (l *List[T, F]) View(header ...string) string {
	var sections []string
	sections = append(sections, styles.TitleStyle.Render(l.cfg.Title))

	if l.searching {
		sections = append(sections, l.search.View())
	} else if h := strings.Join(header, "  "); h != "" {
		sections = append(sections, styles.HelpStyle.Render(h))
	}

	if l.snap.Warning != "" {
		sections = append(sections, components.RenderAlert(components.AlertWarning, l.snap.Warning, l.width-4))
	} else if l.snap.Error != "" {
		sections = append(sections, components.RenderAlert(components.AlertError, l.snap.Error, l.width-4))
	}

	if l.detail {
		sections = append(sections, l.renderDetail())
	} else {
		sections = append(sections, l.renderTable())
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return styles.DocStyle.Width(l.width).Render(content)
}

func (l *List[T, F]) renderTable() string {
	if len(l.snap.Items) == 0 {
		msg := "No records"
		if l.snap.Loading {
			msg = "Loading..."
		}
		return lipgloss.JoinVertical(lipgloss.Left,
			styles.HelpStyle.Render(msg),
			components.RenderPagination(l.snap.Pagination, l.snap.Loading),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		l.table.View(),
		components.RenderPagination(l.snap.Pagination, l.snap.Loading),
	)
}

func (l *List[T, F]) renderDetail() string {
	item, ok := l.Selected()
	if l.snap.Detail != nil {
		item, ok = *l.snap.Detail, true
	}
	if !ok {
		return styles.HelpStyle.Render("Nothing selected")
	}

	body := components.RenderFields(l.cfg.Fields(item))
	if l.snap.Loading {
		body += "\n\n" + styles.InfoTextStyle.Render("loading...")
	}
	body += "\n\n" + styles.HelpStyle.Render("esc: back")

	cardWidth := min(max(l.width-6, 40), 90)
	return styles.CardStyle.Width(cardWidth).Render(body)
}

// Bindings returns the list bindings for help views.
func (l *List[T, F]) Bindings() []key.Binding {
	b := []key.Binding{l.keys.Up, l.keys.Down, l.keys.PrevPage, l.keys.NextPage, l.keys.Open}
	if l.cfg.Search != nil {
		b = append(b, l.keys.Search)
	}
	return append(b, l.keys.Dismiss)
}
