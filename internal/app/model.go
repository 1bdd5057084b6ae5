// Package app implements the main Bubble Tea application with tab-based navigation.
package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/j-veylop/referral-admin-tui/internal/api"
	"github.com/j-veylop/referral-admin-tui/internal/services"
	"github.com/j-veylop/referral-admin-tui/internal/services/exports"
	"github.com/j-veylop/referral-admin-tui/internal/session"
	"github.com/j-veylop/referral-admin-tui/internal/store"
	"github.com/j-veylop/referral-admin-tui/internal/ui/styles"
)

// TabID represents the identifier for a tab in the application.
type TabID int

const (
	// TabDashboard shows the analytics overview.
	TabDashboard TabID = iota
	// TabUsers lists platform users.
	TabUsers
	// TabAdmins lists administrator accounts.
	TabAdmins
	// TabCalls lists call records.
	TabCalls
	// TabReferrals shows campaigns, codes and relationships.
	TabReferrals
	// TabBalances lists user balances.
	TabBalances
	// TabSettings lists platform settings.
	TabSettings
	// TabActivity shows the local request log and export history.
	TabActivity
	// TabInfo shows the session and preferences.
	TabInfo

	tabCount
)

var tabNames = [tabCount]string{
	"Dashboard", "Users", "Admins", "Calls", "Referrals",
	"Balances", "Settings", "Activity", "Info",
}

// String returns the string representation of the TabID.
func (t TabID) String() string {
	if t < 0 || t >= tabCount {
		return "Unknown"
	}
	return tabNames[t]
}

// Tab defines the interface that all tabs must implement.
type Tab interface {
	// Init runs each time the tab becomes active and returns its load commands.
	Init() tea.Cmd

	// Update handles messages and returns the updated tab and any commands.
	Update(msg tea.Msg) (Tab, tea.Cmd)

	// View renders the tab content.
	View() string

	// SetSize sets the available size for the tab.
	SetSize(width, height int)

	// ShortHelp returns key bindings for the short help view.
	ShortHelp() []key.Binding

	// FullHelp returns key bindings for the full help view.
	FullHelp() [][]key.Binding
}

// InputCapturer is implemented by tabs with text inputs. While it reports
// true, keys other than ctrl+c go to the tab.
type InputCapturer interface {
	CapturingInput() bool
}

// KeyMap defines the keybindings for the application.
type KeyMap struct {
	Tabs      []key.Binding
	NextTab   key.Binding
	PrevTab   key.Binding
	Refresh   key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
	Escape    key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	k := KeyMap{}
	for i := range tabCount {
		n := fmt.Sprintf("%d", i+1)
		k.Tabs = append(k.Tabs, key.NewBinding(key.WithKeys(n), key.WithHelp(n, strings.ToLower(tabNames[i]))))
	}
	k.NextTab = key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab"))
	k.PrevTab = key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab"))
	k.Refresh = key.NewBinding(key.WithKeys("r", "ctrl+r"), key.WithHelp("r", "refresh"))
	k.Help = key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help"))
	k.Quit = key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit"))
	k.ForceQuit = key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit"))
	k.Escape = key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel"))
	return k
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Refresh, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		k.Tabs,
		{k.NextTab, k.PrevTab},
		{k.Refresh, k.Help, k.Quit},
	}
}

// Styles defines the application styles.
type Styles struct {
	// Tab bar styles
	TabBar      lipgloss.Style
	ActiveTab   lipgloss.Style
	InactiveTab lipgloss.Style

	// Notification styles
	NotificationSuccess lipgloss.Style
	NotificationError   lipgloss.Style
	NotificationWarning lipgloss.Style
	NotificationInfo    lipgloss.Style

	// Content styles
	Content   lipgloss.Style
	StatusBar lipgloss.Style
	Toast     lipgloss.Style

	// Common styles
	Title     lipgloss.Style
	Subtle    lipgloss.Style
	Highlight lipgloss.Style
}

// DefaultStyles returns the default application styles.
func DefaultStyles() Styles {
	s := Styles{}
	s.TabBar = lipgloss.NewStyle().Padding(0, 1).BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).BorderForeground(styles.Subtle)
	s.ActiveTab = lipgloss.NewStyle().Bold(true).Foreground(styles.Primary).Padding(0, 1)
	s.InactiveTab = lipgloss.NewStyle().Foreground(styles.Subtle).Padding(0, 1)

	s.NotificationSuccess = lipgloss.NewStyle().Foreground(styles.Success).Padding(0, 1)
	s.NotificationError = lipgloss.NewStyle().Foreground(styles.Error).Bold(true).Padding(0, 1)
	s.NotificationWarning = lipgloss.NewStyle().Foreground(styles.Warning).Padding(0, 1)
	s.NotificationInfo = lipgloss.NewStyle().Foreground(styles.Info).Padding(0, 1)

	s.Content = lipgloss.NewStyle().Padding(1, 2)
	s.StatusBar = lipgloss.NewStyle().Foreground(styles.TextSecondary).Padding(0, 1)
	s.Toast = styles.ToastStyle

	s.Title = lipgloss.NewStyle().Bold(true).Foreground(styles.Primary)
	s.Subtle = lipgloss.NewStyle().Foreground(styles.Subtle)
	s.Highlight = lipgloss.NewStyle().Foreground(styles.Primary)

	return s
}

// Model is the main application model.
type Model struct {
	// Shared state
	state    *State
	services *services.Manager
	commands *Commands

	// Service subscription
	eventChannel chan services.ServiceEvent

	// Tab management
	tabs []Tab

	keymap KeyMap
	styles Styles
	login  loginForm

	// UI components
	spinner spinner.Model

	activeTab TabID

	// Window dimensions
	width  int
	height int

	// UI state
	showHelp bool
	ready    bool
}

// NewModel initializes a new application model.
func NewModel(mgr *services.Manager) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	if mgr != nil {
		styles.ApplyTheme(mgr.Store().UI.Prefs().Theme)
	}

	return &Model{
		activeTab: TabDashboard,
		tabs:      make([]Tab, tabCount), // set by SetTabs
		state:     NewState(),
		services:  mgr,
		commands:  NewCommands(mgr),
		keymap:    DefaultKeyMap(),
		styles:    DefaultStyles(),
		spinner:   s,
		login:     newLoginForm(),
	}
}

// SetTabs sets the tabs for the model.
func (m *Model) SetTabs(tabs []Tab) {
	m.tabs = tabs
	if m.width > 0 && m.height > 0 {
		m.updateTabSizes()
	}
}

// GetCommands returns the commands helper.
func (m *Model) GetCommands() *Commands {
	return m.commands
}

// GetActiveTab returns the currently active tab ID.
func (m *Model) GetActiveTab() TabID {
	return m.activeTab
}

// IsReady returns true if the model is ready (window size received).
func (m *Model) IsReady() bool {
	return m.ready
}

func (m *Model) authenticated() bool {
	return m.services != nil && m.services.Store().Auth.IsAuthenticated()
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spinner.Tick,
		defaultTickCmd(),
	}

	if m.services != nil {
		cmds = append(cmds, subscribeToServicesCmd(m.services))
		if reason := m.services.Store().Auth.State().Error; reason != "" {
			m.login.err = reason
		}
	}
	if m.authenticated() {
		cmds = append(cmds, m.activate())
	}

	return tea.Batch(cmds...)
}

// activate runs the active tab's load commands.
func (m *Model) activate() tea.Cmd {
	if tab := m.currentTab(); tab != nil {
		return tab.Init()
	}
	return nil
}

func (m *Model) currentTab() Tab {
	if int(m.activeTab) < len(m.tabs) {
		return m.tabs[m.activeTab]
	}
	return nil
}

func (m *Model) switchTab(id TabID) tea.Cmd {
	if len(m.tabs) == 0 {
		return nil
	}
	m.activeTab = TabID((int(id) + len(m.tabs)) % len(m.tabs))
	m.updateTabSizes()
	return m.activate()
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleWindowSize(msg)
	case tea.KeyMsg:
		cmd, handled := m.handleKeyMsg(msg)
		if handled {
			return m, cmd
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	default:
		cmds = append(cmds, m.handleAppMsg(msg)...)
	}

	if m.authenticated() {
		if cmd := m.updateActiveTab(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleAppMsg(msg tea.Msg) []tea.Cmd {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case TickMsg:
		m.state.ClearExpiredNotifications()
		cmds = append(cmds, defaultTickCmd())
		if m.authenticated() {
			cmds = append(cmds, m.commands.RefreshIfExpiring(msg.Time))
		}
	case SubscriptionEventMsg:
		m.eventChannel = msg.Channel
		cmds = append(cmds, waitForServiceEventCmd(m.eventChannel))
	case ServiceEventMsg:
		cmds = append(cmds, m.handleServiceEvent(msg.Event))
		if m.eventChannel != nil {
			cmds = append(cmds, waitForServiceEventCmd(m.eventChannel))
		}
	case StoreUpdatedMsg:
		cmds = append(cmds, m.handleStoreUpdated(msg))
	case LoginResultMsg:
		cmds = append(cmds, m.handleLoginResult(msg))
	case LogoutMsg:
		if m.services != nil {
			m.state.SetLoadingNotification("Signing out...")
			cmds = append(cmds, m.commands.Logout())
		}
	case LoggedOutMsg:
		m.state.ClearLoadingNotification()
		m.login.reset("")
		cmds = append(cmds, notifyInfoCmd("Signed out"))
	case RefreshSessionMsg:
		if m.services != nil {
			cmds = append(cmds, m.commands.RefreshSession())
		}
	case SessionRefreshedMsg:
		cmds = append(cmds, m.handleSessionRefreshed(msg))
	case ExportStartedMsg:
		if msg.Err != nil {
			cmds = append(cmds, notifyErrorCmd(fmt.Sprintf("Could not start %s export: %s", msg.Kind, api.Message(msg.Err))))
		} else {
			cmds = append(cmds, notifyInfoCmd(fmt.Sprintf("Exporting %s...", msg.Kind)))
		}
	case PrefsChangedMsg:
		styles.ApplyTheme(msg.Prefs.Theme)
	case AddNotificationMsg:
		id := m.state.AddNotification(msg.Type, msg.Message, msg.Duration)
		if msg.Duration > 0 {
			cmds = append(cmds, clearNotificationCmd(id, msg.Duration))
		}
	case RemoveNotificationMsg:
		m.state.RemoveNotification(msg.ID)
	case ClearExpiredNotificationsMsg:
		m.state.ClearExpiredNotifications()
	case ErrorMsg:
		text := api.Message(msg.Error)
		if msg.Context != "" {
			text = msg.Context + ": " + text
		}
		cmds = append(cmds, notifyErrorCmd(text))
	case TabSwitchMsg:
		cmds = append(cmds, m.switchTab(msg.Tab))
	case ToggleHelpMsg:
		m.showHelp = !m.showHelp
	}
	return cmds
}

func (m *Model) handleWindowSize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true
	m.updateTabSizes()
}

func (m *Model) handleLoginResult(msg LoginResultMsg) tea.Cmd {
	if msg.Err != nil {
		m.login.finish(api.Message(msg.Err))
		return nil
	}
	m.login.finish("")
	m.services.Store().Auth.ClearError()

	name := "admin"
	if user := m.services.Store().Auth.State().Session.User; user != nil {
		name = user.DisplayName()
	}
	return tea.Batch(notifySuccessCmd("Signed in as "+name), m.activate())
}

func (m *Model) handleSessionRefreshed(msg SessionRefreshedMsg) tea.Cmd {
	switch {
	case msg.Proactive && msg.Err == nil:
		return nil
	case msg.Proactive && api.IsUnauthorized(msg.Err):
		// The logout event carries the notification.
		return nil
	case msg.Err != nil:
		return notifyErrorCmd("Session refresh failed: " + api.Message(msg.Err))
	default:
		return notifySuccessCmd("Session refreshed")
	}
}

// handleStoreUpdated turns settled store operations into notifications.
// Failed loads are shown inline by the tab.
func (m *Model) handleStoreUpdated(msg StoreUpdatedMsg) tea.Cmd {
	if msg.Stale {
		return nil
	}
	if msg.Err == nil {
		m.state.MarkUpdated()
	}

	switch {
	case msg.Err != nil && errors.Is(msg.Err, api.ErrSessionExpired):
		// The logout event carries the notification.
		return nil
	case msg.Err != nil && api.IsForbidden(msg.Err):
		// ForbiddenEvent carries the notification.
		return nil
	case msg.Err != nil:
		if msg.Op == store.OpList || msg.Op == store.OpDetail {
			return nil
		}
		return notifyErrorCmd(fmt.Sprintf("%s %s failed: %s", msg.Resource, msg.Op, api.Message(msg.Err)))
	case msg.Warning != "":
		return notifyWarningCmd(msg.Warning)
	}

	switch msg.Op {
	case store.OpCreate:
		return notifySuccessCmd(fmt.Sprintf("Created in %s", msg.Resource))
	case store.OpUpdate:
		return notifySuccessCmd(fmt.Sprintf("Saved %s", msg.Resource))
	case store.OpDelete:
		return notifySuccessCmd(fmt.Sprintf("Deleted from %s", msg.Resource))
	case store.OpBulk:
		return notifySuccessCmd(fmt.Sprintf("Bulk update of %s applied", msg.Resource))
	}
	return nil
}

func (m *Model) handleServiceEvent(event services.ServiceEvent) tea.Cmd {
	switch e := event.(type) {
	case services.LoggedOutEvent:
		m.login.reset(e.Reason)
		return notifyErrorCmd(e.Reason)

	case services.ForbiddenEvent:
		text := "You do not have permission for this action"
		if e.Error != nil && e.Error.Message != "" {
			text += ": " + e.Error.Message
		}
		return notifyWarningCmd(text)

	case services.SessionChangedEvent:
		if e.Type != session.EventExternalChange {
			return nil
		}
		if m.authenticated() {
			return tea.Batch(notifyInfoCmd("Session updated by another window"), m.activate())
		}
		m.login.reset("Signed out in another window")
		return nil

	case services.ExportEvent:
		return m.handleExportEvent(e.Event)

	case services.ErrorEvent:
		return notifyErrorCmd(fmt.Sprintf("[%s] %v", e.Service, e.Error))
	}

	return nil
}

func (m *Model) handleExportEvent(e exports.Event) tea.Cmd {
	switch e.Type {
	case exports.EventDownloaded:
		if e.Record != nil {
			return notifySuccessCmd(fmt.Sprintf("Export saved to %s", e.Record.Path))
		}
	case exports.EventFailed:
		return notifyErrorCmd(fmt.Sprintf("%s export failed: %s", e.Kind, api.Message(e.Error)))
	case exports.EventDismissed:
		return notifyInfoCmd(fmt.Sprintf("%s export dismissed", e.Kind))
	}
	return nil
}

func (m *Model) updateActiveTab(msg tea.Msg) tea.Cmd {
	tab := m.currentTab()
	if tab == nil {
		return nil
	}
	var cmd tea.Cmd
	m.tabs[m.activeTab], cmd = tab.Update(msg)
	return cmd
}

func (m *Model) updateTabSizes() {
	// navbar (2 lines) + status bar
	contentHeight := max(0, m.height-3)

	for _, tab := range m.tabs {
		if tab != nil {
			tab.SetSize(m.width, contentHeight)
		}
	}
}

func (m *Model) capturing() bool {
	if c, ok := m.currentTab().(InputCapturer); ok {
		return c.CapturingInput()
	}
	return false
}

// handleKeyMsg handles keyboard input. handled reports that the key must
// not reach the active tab.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Cmd, bool) {
	if key.Matches(msg, m.keymap.ForceQuit) {
		return tea.Quit, true
	}

	if !m.authenticated() {
		submit, cmd := m.login.update(msg)
		if submit && m.services != nil {
			email, password := m.login.values()
			return m.commands.Login(email, password), true
		}
		return cmd, true
	}

	if m.capturing() {
		return nil, false
	}

	if m.showHelp {
		if key.Matches(msg, m.keymap.Help, m.keymap.Escape) {
			m.showHelp = false
		}
		return nil, true
	}

	for i, binding := range m.keymap.Tabs {
		if key.Matches(msg, binding) {
			return m.switchTab(TabID(i)), true
		}
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		return tea.Quit, true
	case key.Matches(msg, m.keymap.Help):
		m.showHelp = true
		return nil, true
	case key.Matches(msg, m.keymap.NextTab):
		return m.switchTab(m.activeTab + 1), true
	case key.Matches(msg, m.keymap.PrevTab):
		return m.switchTab(m.activeTab - 1), true
	case key.Matches(msg, m.keymap.Refresh):
		return m.activate(), true
	}

	// Let the tab handle other keys
	return nil, false
}

// View renders the application UI.
func (m *Model) View() string {
	if !m.ready {
		return m.styles.Content.Render(fmt.Sprintf("%s Loading...", m.spinner.View()))
	}

	var mainView string
	if !m.authenticated() {
		mainView = m.login.view(m.width, m.height-1, m.spinner.View())
	} else {
		var b strings.Builder
		b.WriteString(m.renderNavbar())
		b.WriteString("\n")
		if tab := m.currentTab(); tab != nil {
			b.WriteString(lipgloss.NewStyle().Height(max(m.height-3, 0)).MaxHeight(max(m.height-3, 0)).Render(tab.View()))
		}
		b.WriteString("\n")
		b.WriteString(m.renderStatusBar())
		mainView = b.String()

		if m.showHelp {
			mainView = m.overlayCentered(mainView, m.renderHelp())
		}
	}

	if toasts := m.renderNotifications(); len(toasts) > 0 {
		return m.overlayToasts(mainView, toasts)
	}
	return mainView
}

func (m *Model) overlayCentered(mainView string, overlay string) string {
	mainLines := strings.Split(mainView, "\n")
	overlayLines := strings.Split(overlay, "\n")

	y := max((m.height-len(overlayLines))/2, 0)
	x := max((m.width-lipgloss.Width(overlay))/2, 0)
	overlayWidth := lipgloss.Width(overlay)

	for i, overlayLine := range overlayLines {
		mainY := y + i
		if mainY >= len(mainLines) {
			break
		}

		mainLine := mainLines[mainY]
		left := ansi.Truncate(mainLine, x, "")
		right := ansi.TruncateLeft(mainLine, x+overlayWidth, "")

		// If the line was shorter than the overlay start, pad it
		if w := lipgloss.Width(left); w < x {
			left += strings.Repeat(" ", x-w)
		}

		mainLines[mainY] = left + overlayLine + right
	}

	return strings.Join(mainLines, "\n")
}

func (m *Model) renderNavbar() string {
	compact := m.services != nil && m.services.Store().UI.Prefs().Compact

	tabs := make([]string, 0, len(m.tabs))
	for i := range m.tabs {
		name := TabID(i).String()
		label := fmt.Sprintf("%d %s", i+1, name)
		if compact {
			label = fmt.Sprintf("%d", i+1)
			if TabID(i) == m.activeTab {
				label += " " + name
			}
		}
		if TabID(i) == m.activeTab {
			tabs = append(tabs, m.styles.ActiveTab.Render(label))
		} else {
			tabs = append(tabs, m.styles.InactiveTab.Render(label))
		}
	}

	tabBar := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	return m.styles.TabBar.Width(m.width).Render(tabBar)
}

func (m *Model) renderStatusBar() string {
	var parts []string
	if m.services != nil {
		st := m.services.Store()
		if user := st.Auth.State().Session.User; user != nil {
			parts = append(parts, user.DisplayName())
		}
		if exp := st.Exports.State(); exp.Task != nil {
			parts = append(parts, fmt.Sprintf("%s export %s", m.spinner.View(), exp.Task.Status))
		} else if exp.Error != "" {
			parts = append(parts, styles.ErrorTextStyle.Render("export: "+exp.Error))
		}
	}
	if since := m.state.TimeSinceUpdate(); since > 0 {
		parts = append(parts, fmt.Sprintf("updated %ds ago", int(since.Seconds())))
	}
	parts = append(parts, "? help")
	return m.styles.StatusBar.Width(m.width).Render(strings.Join(parts, " · "))
}

func (m *Model) renderNotifications() []string {
	notifications := m.state.GetNotifications()
	if len(notifications) == 0 {
		return nil
	}

	toasts := make([]string, 0, len(notifications))
	for _, n := range notifications {
		var style lipgloss.Style
		var prefix string

		switch n.Type {
		case NotificationSuccess:
			style, prefix = m.styles.NotificationSuccess, "[OK]"
		case NotificationError:
			style, prefix = m.styles.NotificationError, "[ERR]"
		case NotificationWarning:
			style, prefix = m.styles.NotificationWarning, "[WARN]"
		case NotificationInfo:
			style, prefix = m.styles.NotificationInfo, "[INFO]"
		case NotificationLoading:
			style, prefix = m.styles.NotificationInfo, m.spinner.View()
		}

		content := style.Render(fmt.Sprintf("%s %s", prefix, n.Message))
		toasts = append(toasts, m.styles.Toast.Render(content))
	}

	return toasts
}

func (m *Model) overlayToasts(mainView string, toasts []string) string {
	toastStack := lipgloss.JoinVertical(lipgloss.Right, toasts...)
	toastLines := strings.Split(toastStack, "\n")
	mainLines := strings.Split(mainView, "\n")

	startX := max(m.width-lipgloss.Width(toastStack)-2, 0)
	startY := 2

	for i, toastLine := range toastLines {
		lineIdx := startY + i
		if lineIdx >= len(mainLines) {
			break
		}

		mainLine := mainLines[lineIdx]
		if w := lipgloss.Width(mainLine); w < startX {
			mainLines[lineIdx] = mainLine + strings.Repeat(" ", startX-w) + toastLine
		} else {
			mainLines[lineIdx] = ansi.Truncate(mainLine, startX, "") + toastLine
		}
	}

	return strings.Join(mainLines, "\n")
}

func (m *Model) renderHelp() string {
	var lines []string

	lines = append(lines, m.styles.Title.Render("Keyboard Shortcuts"))
	lines = append(lines, "")

	lines = append(lines, m.styles.Highlight.Render("Navigation"))
	lines = append(lines, fmt.Sprintf("  1-%d        Switch tabs", len(m.tabs)))
	lines = append(lines, "  Tab        Next tab")
	lines = append(lines, "  Shift+Tab  Previous tab")
	lines = append(lines, "")

	lines = append(lines, m.styles.Highlight.Render("Actions"))
	lines = append(lines, "  r          Reload current tab")
	lines = append(lines, "  ?          Toggle help")
	lines = append(lines, "  q/Ctrl+C   Quit")
	lines = append(lines, "")

	if tab := m.currentTab(); tab != nil {
		if tabHelp := tab.ShortHelp(); len(tabHelp) > 0 {
			lines = append(lines, m.styles.Highlight.Render(fmt.Sprintf("%s Tab", m.activeTab)))
			for _, binding := range tabHelp {
				lines = append(lines, fmt.Sprintf("  %-10s %s", binding.Help().Key, binding.Help().Desc))
			}
			lines = append(lines, "")
		}
	}

	lines = append(lines, m.styles.Subtle.Render("Press ? or Esc to close"))

	return styles.HelpPanelStyle.Render(strings.Join(lines, "\n"))
}
