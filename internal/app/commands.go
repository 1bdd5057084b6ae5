package app

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/referral-admin-tui/internal/api"
	"github.com/j-veylop/referral-admin-tui/internal/models"
	"github.com/j-veylop/referral-admin-tui/internal/services"
	"github.com/j-veylop/referral-admin-tui/internal/services/auth"
	"github.com/j-veylop/referral-admin-tui/internal/services/exports"
	"github.com/j-veylop/referral-admin-tui/internal/store"
)

const (
	// DefaultTickInterval is the default interval between ticks.
	DefaultTickInterval = 2 * time.Second

	// DefaultNotificationDuration is the default duration for notifications.
	DefaultNotificationDuration = 5 * time.Second

	// QuickNotificationDuration is for brief notifications.
	QuickNotificationDuration = 3 * time.Second

	// LongNotificationDuration is for important notifications.
	LongNotificationDuration = 10 * time.Second

	// SessionRefreshWindow is how long before expiry the access token is
	// refreshed without waiting for a 401.
	SessionRefreshWindow = 2 * time.Minute
)

// tickCmd returns a command that sends a TickMsg after the specified interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// defaultTickCmd returns a command that sends a TickMsg after the default interval.
func defaultTickCmd() tea.Cmd {
	return tickCmd(DefaultTickInterval)
}

// subscribeToServicesCmd returns a command that subscribes to service events.
func subscribeToServicesCmd(mgr *services.Manager) tea.Cmd {
	ch, _ := mgr.Subscribe()
	return func() tea.Msg {
		return SubscriptionEventMsg{Channel: ch}
	}
}

// waitForServiceEventCmd returns a command that waits for the next service event.
func waitForServiceEventCmd(ch <-chan services.ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return ServiceEventMsg{Event: event}
	}
}

// clearNotificationCmd returns a command that removes a notification after a delay.
func clearNotificationCmd(id string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return RemoveNotificationMsg{ID: id}
	})
}

func notifyCmd(t NotificationType, message string, d time.Duration) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{Type: t, Message: message, Duration: d}
	}
}

// notifySuccessCmd returns a command that adds a success notification.
func notifySuccessCmd(message string) tea.Cmd {
	return notifyCmd(NotificationSuccess, message, DefaultNotificationDuration)
}

// notifyErrorCmd returns a command that adds an error notification.
func notifyErrorCmd(message string) tea.Cmd {
	return notifyCmd(NotificationError, message, LongNotificationDuration)
}

// notifyWarningCmd returns a command that adds a warning notification.
func notifyWarningCmd(message string) tea.Cmd {
	return notifyCmd(NotificationWarning, message, DefaultNotificationDuration)
}

// notifyInfoCmd returns a command that adds an info notification.
func notifyInfoCmd(message string) tea.Cmd {
	return notifyCmd(NotificationInfo, message, QuickNotificationDuration)
}

// Commands builds the tea.Cmds that run store operations against the API.
// Every command derives its context from the manager, so closing the
// manager cancels requests still in flight.
type Commands struct {
	manager *services.Manager
}

// NewCommands creates a new Commands instance.
func NewCommands(mgr *services.Manager) *Commands {
	return &Commands{manager: mgr}
}

// Manager returns the service manager. It is nil in tests without a backend.
func (c *Commands) Manager() *services.Manager {
	return c.manager
}

// Context returns the context requests run under.
func (c *Commands) Context() context.Context {
	if c.manager == nil {
		return context.Background()
	}
	return c.manager.Context()
}

// Client returns the API client as a Doer.
func (c *Commands) Client() api.Doer {
	return c.manager.Client()
}

// Store returns the state store.
func (c *Commands) Store() *store.Store {
	return c.manager.Store()
}

// Tick returns a tick command with the specified interval.
func (c *Commands) Tick(interval time.Duration) tea.Cmd {
	return tickCmd(interval)
}

// DefaultTick returns a tick command with the default interval.
func (c *Commands) DefaultTick() tea.Cmd {
	return defaultTickCmd()
}

// NotifySuccess returns a command that adds a success notification.
func (c *Commands) NotifySuccess(message string) tea.Cmd {
	return notifySuccessCmd(message)
}

// NotifyError returns a command that adds an error notification.
func (c *Commands) NotifyError(message string) tea.Cmd {
	return notifyErrorCmd(message)
}

// NotifyWarning returns a command that adds a warning notification.
func (c *Commands) NotifyWarning(message string) tea.Cmd {
	return notifyWarningCmd(message)
}

// NotifyInfo returns a command that adds an info notification.
func (c *Commands) NotifyInfo(message string) tea.Cmd {
	return notifyInfoCmd(message)
}

// Login signs in and persists the session.
func (c *Commands) Login(email, password string) tea.Cmd {
	ctx, d, st := c.Context(), c.Client(), c.Store()
	return func() tea.Msg {
		err := st.Auth.Login(ctx, func(ctx context.Context) (models.LoginResult, error) {
			return auth.Login(ctx, d, email, password)
		})
		return LoginResultMsg{Err: err}
	}
}

// Logout ends the session. The local session is cleared even when the
// server call fails.
func (c *Commands) Logout() tea.Cmd {
	mgr := c.manager
	ctx, d := c.Context(), c.Client()
	return func() tea.Msg {
		mgr.Exports().Dismiss()
		mgr.Store().Auth.Logout(ctx, func(ctx context.Context, refreshToken string) error {
			return auth.Logout(ctx, d, refreshToken)
		})
		mgr.Store().Reset()
		return LoggedOutMsg{}
	}
}

// RefreshSession trades the refresh token for a new pair.
func (c *Commands) RefreshSession() tea.Cmd {
	ctx, d, st := c.Context(), c.Client(), c.Store()
	return func() tea.Msg {
		err := st.Auth.RefreshSession(ctx, func(ctx context.Context, refreshToken string) (models.TokenPair, error) {
			return auth.RefreshToken(ctx, d, refreshToken)
		})
		return SessionRefreshedMsg{Err: err}
	}
}

// RefreshIfExpiring refreshes the access token when it expires within
// SessionRefreshWindow of now. The command yields nil when nothing was due.
func (c *Commands) RefreshIfExpiring(now time.Time) tea.Cmd {
	if c.manager == nil {
		return nil
	}
	ctx, client := c.Context(), c.manager.Client()
	return func() tea.Msg {
		attempted, err := client.RefreshIfExpiring(ctx, now, SessionRefreshWindow)
		if !attempted {
			return nil
		}
		return SessionRefreshedMsg{Err: err, Proactive: true}
	}
}

// StartExport starts exp on the poller.
func (c *Commands) StartExport(exp exports.Exporter) tea.Cmd {
	ctx, poller := c.Context(), c.manager.Exports()
	return func() tea.Msg {
		task, err := poller.Start(ctx, exp)
		return ExportStartedMsg{Kind: exp.Kind(), Task: task, Err: err}
	}
}

// DismissExport stops the running export.
func (c *Commands) DismissExport() tea.Cmd {
	poller := c.manager.Exports()
	return func() tea.Msg {
		poller.Dismiss()
		return DismissExportMsg{}
	}
}

// LoadActivity reads the local request log for r.
func (c *Commands) LoadActivity(r models.TimeRange) tea.Cmd {
	mgr := c.manager
	return func() tea.Msg {
		activity, err := mgr.GetActivity(r)
		return ActivityLoadedMsg{Activity: activity, Err: err, Range: r}
	}
}

// ToggleCompact flips compact mode.
func (c *Commands) ToggleCompact() tea.Cmd {
	ui := c.Store().UI
	return func() tea.Msg {
		return PrefsChangedMsg{Prefs: ui.ToggleCompact()}
	}
}

// CycleTheme switches to the next theme.
func (c *Commands) CycleTheme() tea.Cmd {
	ui := c.Store().UI
	return func() tea.Msg {
		return PrefsChangedMsg{Prefs: ui.CycleTheme()}
	}
}

func settled(res Resource, op store.Op, err error) StoreUpdatedMsg {
	if errors.Is(err, store.ErrStale) {
		return StoreUpdatedMsg{Resource: res, Op: op, Stale: true}
	}
	return StoreUpdatedMsg{Resource: res, Op: op, Err: err}
}

// ListCmd loads the page selected by the slice filters.
func ListCmd[T any, F store.Paged[F]](c *Commands, res Resource, s *store.Slice[T, F], fetch func(context.Context, api.Doer, F) (models.Paginated[T], error)) tea.Cmd {
	ctx, d := c.Context(), c.Client()
	return func() tea.Msg {
		err := s.RunList(ctx, func(ctx context.Context, f F) (models.Paginated[T], error) {
			return fetch(ctx, d, f)
		})
		return settled(res, store.OpList, err)
	}
}

// DetailCmd loads one record into the slice detail.
func DetailCmd[T any, F store.Paged[F]](c *Commands, res Resource, s *store.Slice[T, F], fetch func(context.Context, api.Doer) (T, error)) tea.Cmd {
	ctx, d := c.Context(), c.Client()
	return func() tea.Msg {
		_, err := s.RunDetail(ctx, func(ctx context.Context) (T, error) {
			return fetch(ctx, d)
		})
		return settled(res, store.OpDetail, err)
	}
}

// CreateCmd creates a record and prepends it to the list.
func CreateCmd[T any, F store.Paged[F]](c *Commands, res Resource, s *store.Slice[T, F], create func(context.Context, api.Doer) (T, error)) tea.Cmd {
	ctx, d := c.Context(), c.Client()
	return func() tea.Msg {
		_, err := s.RunCreate(ctx, func(ctx context.Context) (T, error) {
			return create(ctx, d)
		})
		return settled(res, store.OpCreate, err)
	}
}

// UpdateCmd updates a record and patches its row.
func UpdateCmd[T any, F store.Paged[F]](c *Commands, res Resource, s *store.Slice[T, F], update func(context.Context, api.Doer) (T, error)) tea.Cmd {
	ctx, d := c.Context(), c.Client()
	return func() tea.Msg {
		_, err := s.RunUpdate(ctx, func(ctx context.Context) (T, error) {
			return update(ctx, d)
		})
		return settled(res, store.OpUpdate, err)
	}
}

// DeleteCmd deletes the record with key and removes its row.
func DeleteCmd[T any, F store.Paged[F]](c *Commands, res Resource, s *store.Slice[T, F], key string, del func(context.Context, api.Doer) error) tea.Cmd {
	ctx, d := c.Context(), c.Client()
	return func() tea.Msg {
		err := s.RunDelete(ctx, key, func(ctx context.Context) error {
			return del(ctx, d)
		})
		return settled(res, store.OpDelete, err)
	}
}

// BulkCmd applies a bulk change. A partial failure is reported as a
// warning on a fulfilled operation.
func BulkCmd[T any, F store.Paged[F]](c *Commands, res Resource, s *store.Slice[T, F], bulk func(context.Context, api.Doer) (models.BulkResult, error)) tea.Cmd {
	ctx, d := c.Context(), c.Client()
	return func() tea.Msg {
		result, err := s.RunBulk(ctx, func(ctx context.Context) (models.BulkResult, error) {
			return bulk(ctx, d)
		})
		msg := settled(res, store.OpBulk, err)
		if err == nil && result.Partial() {
			msg.Warning = result.Summary()
		}
		return msg
	}
}

// KeyedCmd loads key into a keyed slice.
func KeyedCmd[T any](c *Commands, res Resource, k *store.KeyedSlice[T], key string, fetch func(context.Context, api.Doer) (T, error)) tea.Cmd {
	ctx, d := c.Context(), c.Client()
	return func() tea.Msg {
		_, err := k.RunKeyed(ctx, key, func(ctx context.Context) (T, error) {
			return fetch(ctx, d)
		})
		return settled(res, store.OpDetail, err)
	}
}
