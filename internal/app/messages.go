package app

import (
	"time"

	"github.com/j-veylop/referral-admin-tui/internal/models"
	"github.com/j-veylop/referral-admin-tui/internal/services"
	"github.com/j-veylop/referral-admin-tui/internal/store"
)

// Resource names a store slice in StoreUpdatedMsg.
type Resource string

// Resources.
const (
	ResourceUsers         Resource = "users"
	ResourceAdmins        Resource = "admins"
	ResourceCalls         Resource = "calls"
	ResourceCallStats     Resource = "call-stats"
	ResourceCampaigns     Resource = "campaigns"
	ResourceCodes         Resource = "codes"
	ResourceRelationships Resource = "relationships"
	ResourceBalances      Resource = "balances"
	ResourceSettings      Resource = "settings"
	ResourceAnalytics     Resource = "analytics"
)

// TickMsg is sent periodically to trigger state refresh.
type TickMsg struct {
	Time time.Time
}

// StoreUpdatedMsg reports that a store operation settled. Views re-read
// their slice snapshot when they receive it.
type StoreUpdatedMsg struct {
	Err      error
	Resource Resource
	Warning  string
	Op       store.Op
	Stale    bool
}

// LoginResultMsg contains the result of a login attempt.
type LoginResultMsg struct {
	Err error
}

// LogoutMsg requests ending the session.
type LogoutMsg struct{}

// LoggedOutMsg is sent once the session was cleared.
type LoggedOutMsg struct{}

// RefreshSessionMsg requests a manual token refresh.
type RefreshSessionMsg struct{}

// SessionRefreshedMsg contains the result of a token refresh. Proactive
// marks a refresh started by the tick ahead of token expiry.
type SessionRefreshedMsg struct {
	Err       error
	Proactive bool
}

// ExportStartedMsg contains the result of starting an export.
type ExportStartedMsg struct {
	Err  error
	Kind string
	Task models.ExportTask
}

// DismissExportMsg requests stopping the running export.
type DismissExportMsg struct{}

// PrefsChangedMsg signals that the UI preferences changed.
type PrefsChangedMsg struct {
	Prefs models.UIPrefs
}

// ActivityLoadedMsg contains the local request activity.
type ActivityLoadedMsg struct {
	Activity *services.Activity
	Err      error
	Range    models.TimeRange
}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Message  string
	Type     NotificationType
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ClearExpiredNotificationsMsg triggers clearing of expired notifications.
type ClearExpiredNotificationsMsg struct{}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ErrorMsg represents a general error.
type ErrorMsg struct {
	Error   error
	Context string
}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}
