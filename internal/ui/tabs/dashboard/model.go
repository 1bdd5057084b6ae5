// Package dashboard provides the analytics overview tab.
package dashboard

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/referral-admin-tui/internal/api"
	"github.com/j-veylop/referral-admin-tui/internal/app"
	"github.com/j-veylop/referral-admin-tui/internal/models"
	"github.com/j-veylop/referral-admin-tui/internal/services/analytics"
	"github.com/j-veylop/referral-admin-tui/internal/ui/components"
)

const (
	animConversion = "conversion"
	animActive     = "active"
)

type animationTickMsg time.Time

func animationTickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*40, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

// keyMap defines the key bindings specific to the dashboard tab.
type keyMap struct {
	Period key.Binding
	Down   key.Binding
	Up     key.Binding
}

// defaultKeyMap returns the default key bindings for the dashboard tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Period: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "cycle period"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j", "scroll down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k", "scroll up"),
		),
	}
}

// AnimationState tracks the state of an animation.
type AnimationState struct {
	StartTime      time.Time
	CurrentPercent float64
	TargetPercent  float64
	StartPercent   float64
}

// Model represents the dashboard tab state.
type Model struct {
	commands   *app.Commands
	animations map[string]*AnimationState
	loader     components.Loader
	keys       keyMap
	viewport   viewport.Model
	usageBar   components.UsageBar
	period     string
	width      int
	height     int
}

// New creates a new dashboard model.
func New(commands *app.Commands) *Model {
	return &Model{
		commands:   commands,
		loader:     components.NewLoader("Loading analytics..."),
		usageBar:   components.NewUsageBar(),
		keys:       defaultKeyMap(),
		period:     models.Period30d,
		viewport:   viewport.New(0, 0),
		animations: make(map[string]*AnimationState),
	}
}

func (m *Model) query() models.AnalyticsQuery {
	return models.AnalyticsQuery{Period: m.period}
}

// Init loads every series for the selected period.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loader.Init(), m.load(), animationTickCmd())
}

func (m *Model) load() tea.Cmd {
	c, s, q := m.commands, m.commands.Store(), m.query()
	k := q.Key()
	return tea.Batch(
		app.KeyedCmd(c, app.ResourceAnalytics, s.Overview, k,
			func(ctx context.Context, d api.Doer) (models.Overview, error) {
				return analytics.GetOverview(ctx, d, q)
			}),
		app.KeyedCmd(c, app.ResourceAnalytics, s.CallStats, k,
			func(ctx context.Context, d api.Doer) (models.CallStats, error) {
				return analytics.GetCallStats(ctx, d, q)
			}),
		app.KeyedCmd(c, app.ResourceAnalytics, s.ReferralTrends, k,
			func(ctx context.Context, d api.Doer) ([]models.TrendPoint, error) {
				return analytics.GetReferralTrends(ctx, d, q)
			}),
		app.KeyedCmd(c, app.ResourceAnalytics, s.CallTrends, k,
			func(ctx context.Context, d api.Doer) ([]models.TrendPoint, error) {
				return analytics.GetCallTrends(ctx, d, q)
			}),
	)
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case animationTickMsg:
		cmds = append(cmds, m.handleAnimationTick(msg))

	case app.StoreUpdatedMsg:
		if msg.Resource == app.ResourceAnalytics {
			m.syncAnimationTargets(time.Now())
			cmds = append(cmds, animationTickCmd())
		}

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKeyMsg(msg))

	case spinner.TickMsg:
		if m.loading() {
			var cmd tea.Cmd
			m.loader, cmd = m.loader.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

// loadSteps reports which series of the selected period have settled.
func (m *Model) loadSteps() []components.Step {
	s, k := m.commands.Store(), m.query().Key()
	overview, stats := s.Overview.Get(k), s.CallStats.Get(k)
	referrals, calls := s.ReferralTrends.Get(k), s.CallTrends.Get(k)
	return []components.Step{
		{Name: "overview", Done: overview.Loaded || overview.Error != ""},
		{Name: "call stats", Done: stats.Loaded || stats.Error != ""},
		{Name: "referral trends", Done: referrals.Loaded || referrals.Error != ""},
		{Name: "call trends", Done: calls.Loaded || calls.Error != ""},
	}
}

// loading reports whether the overview for the period has no result yet.
func (m *Model) loading() bool {
	entry := m.commands.Store().Overview.Get(m.query().Key())
	return !entry.Loaded && entry.Error == ""
}

func (m *Model) handleAnimationTick(msg animationTickMsg) tea.Cmd {
	now := time.Time(msg)

	m.syncAnimationTargets(now)
	if m.stepAnimations(now) || m.loading() {
		return animationTickCmd()
	}
	return nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Period):
		for i, p := range models.AnalyticsPeriods {
			if p == m.period {
				m.period = models.AnalyticsPeriods[(i+1)%len(models.AnalyticsPeriods)]
				break
			}
		}
		m.syncAnimationTargets(time.Now())
		return tea.Batch(m.load(), m.loader.Tick(), animationTickCmd())
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
}

// SetSize sets the available size for the dashboard.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// syncAnimationTargets points the gauges at the loaded overview and reports
// whether any gauge still moves.
func (m *Model) syncAnimationTargets(now time.Time) (animating bool) {
	entry := m.commands.Store().Overview.Get(m.query().Key())
	if !entry.Loaded {
		return false
	}

	o := entry.Data
	active := 0.0
	if o.TotalUsers > 0 {
		active = float64(o.ActiveUsers) / float64(o.TotalUsers) * 100
	}

	if m.updateAnimationState(animConversion, o.ConversionRate()*100, now) {
		animating = true
	}
	if m.updateAnimationState(animActive, active, now) {
		animating = true
	}
	return animating
}

func (m *Model) updateAnimationState(animKey string, target float64, now time.Time) bool {
	state, exists := m.animations[animKey]
	if !exists {
		state = &AnimationState{StartTime: now}
		m.animations[animKey] = state
	}

	if target != state.TargetPercent {
		state.StartPercent = state.CurrentPercent
		state.TargetPercent = target
		state.StartTime = now
	}

	return state.CurrentPercent != state.TargetPercent
}

// stepAnimations advances every gauge and reports whether any still moves.
func (m *Model) stepAnimations(now time.Time) (moving bool) {
	for _, state := range m.animations {
		if state.CurrentPercent != state.TargetPercent {
			elapsed := now.Sub(state.StartTime).Seconds()
			duration := 1.5

			if elapsed >= duration {
				state.CurrentPercent = state.TargetPercent
			} else {
				progress := elapsed / duration
				ease := 1.0 - (1.0-progress)*(1.0-progress)
				state.CurrentPercent = state.StartPercent + (state.TargetPercent-state.StartPercent)*ease
				moving = true
			}
		}
	}
	return moving
}

// gauge returns the animated value of animKey, or target before the first
// tick.
func (m *Model) gauge(animKey string, target float64) float64 {
	if anim, ok := m.animations[animKey]; ok {
		return anim.CurrentPercent
	}
	return target
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Period, m.keys.Down, m.keys.Up}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Period},
		{m.keys.Down, m.keys.Up},
	}
}
