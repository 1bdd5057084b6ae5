// Package services wires the API client, session, local database, store and
// export poller together and routes their events to the TUI.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"

	"github.com/j-veylop/referral-admin-tui/internal/api"
	"github.com/j-veylop/referral-admin-tui/internal/config"
	"github.com/j-veylop/referral-admin-tui/internal/db"
	"github.com/j-veylop/referral-admin-tui/internal/logger"
	"github.com/j-veylop/referral-admin-tui/internal/models"
	"github.com/j-veylop/referral-admin-tui/internal/services/exports"
	"github.com/j-veylop/referral-admin-tui/internal/session"
	"github.com/j-veylop/referral-admin-tui/internal/store"
	"github.com/j-veylop/referral-admin-tui/internal/version"
)

// requestLogRetention bounds the local request log.
const requestLogRetention = 7 * 24 * time.Hour

// SessionExpiredMessage is shown after a forced logout.
const SessionExpiredMessage = "Your session has expired. Please sign in again."

type (
	// LoggedOutEvent is emitted when a failed token refresh ended the session.
	LoggedOutEvent struct {
		Reason string
	}

	// ForbiddenEvent is emitted for every 403 response.
	ForbiddenEvent struct {
		Error *api.Error
	}

	// SessionChangedEvent is emitted when the stored session changed,
	// including changes made by another process.
	SessionChangedEvent struct {
		Type session.EventType
	}

	// ExportEvent forwards an export lifecycle event.
	ExportEvent struct {
		exports.Event
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (LoggedOutEvent) isServiceEvent()      {}
func (ForbiddenEvent) isServiceEvent()      {}
func (SessionChangedEvent) isServiceEvent() {}
func (ExportEvent) isServiceEvent()         {}
func (ErrorEvent) isServiceEvent()          {}

// Activity is the content of the activity view.
type Activity struct {
	Total   *models.TotalStats
	Hourly  []models.HourlyStats
	Recent  []models.RequestLogEntry
	Exports []models.ExportRecord
}

// Manager owns the long-lived components and routes their events.
type Manager struct {
	ctx         context.Context
	cancel      context.CancelFunc
	session     *session.Store
	client      *api.Client
	database    *db.DB
	store       *store.Store
	exports     *exports.Poller
	notify      exports.Notifier
	unsubscribe func()
	stopChan    chan struct{}
	subscribers []chan ServiceEvent
	mu          sync.RWMutex
	closeOnce   sync.Once
}

// NewManager creates a new service manager.
func NewManager(cfg *config.Config) (*Manager, error) {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		ctx:      ctx,
		cancel:   cancel,
		stopChan: make(chan struct{}),
		notify: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
	}

	var err error
	m.session, err = session.New(cfg.SessionPath)
	if err != nil {
		cancel()
		return nil, err
	}
	if err := m.session.Watch(); err != nil {
		logger.Warn("session watcher unavailable", "error", err)
	}

	m.database, err = db.New(cfg.DatabasePath)
	if err != nil {
		cancel()
		_ = m.session.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if removed, err := m.database.PruneRequestLog(requestLogRetention); err != nil {
		logger.Warn("failed to prune request log", "error", err)
	} else if removed > 0 {
		logger.Debug("pruned request log", "removed", removed)
		if err := m.database.Vacuum(); err != nil {
			logger.Warn("failed to vacuum database", "error", err)
		}
	}

	m.client, err = api.New(api.Config{
		BaseURL:     cfg.APIBaseURL,
		UserAgent:   version.UserAgent(),
		Timeout:     cfg.RequestTimeout,
		RateLimit:   cfg.RateLimit,
		RateBurst:   cfg.RateBurst,
		Development: cfg.IsDevelopment(),
	}, m.session, api.WithSignals(m), api.WithObserver(m.recordRequest))
	if err != nil {
		cancel()
		_ = m.database.Close()
		_ = m.session.Close()
		return nil, err
	}

	m.store = store.New(m.session, cfg.PageSize)
	m.exports = exports.New(exports.Config{
		Dir:          cfg.ExportDir,
		PollInterval: cfg.ExportPollInterval,
		ClearDelay:   cfg.ExportClearDelay,
	}, exports.WithSink(m.store.Exports), exports.WithRecorder(m.database))

	m.unsubscribe = m.session.Subscribe(m.handleSessionEvent)

	go m.routeEvents()

	return m, nil
}

// routeEvents forwards export events to subscribers.
func (m *Manager) routeEvents() {
	for {
		select {
		case event := <-m.exports.Events():
			m.broadcast(ExportEvent{Event: event})
		case <-m.stopChan:
			return
		}
	}
}

// OnLogout implements api.Signals. The client already cleared the session.
// It may run on a poller goroutine, so it must not wait for the poller.
func (m *Manager) OnLogout() {
	m.store.Auth.ForceLogout(SessionExpiredMessage)
	m.store.Reset()
	if err := m.notify("Referral Admin", SessionExpiredMessage); err != nil {
		logger.Debug("desktop notification failed", "error", err)
	}
	m.broadcast(LoggedOutEvent{Reason: SessionExpiredMessage})
}

// OnUnauthorized implements api.Signals.
func (m *Manager) OnUnauthorized(err *api.Error) {
	m.broadcast(ForbiddenEvent{Error: err})
}

func (m *Manager) handleSessionEvent(event session.Event) {
	switch event.Type {
	case session.EventExternalChange:
		m.store.Auth.Sync()
		m.broadcast(SessionChangedEvent{Type: event.Type})
	case session.EventError:
		m.broadcast(ErrorEvent{Service: "session", Error: event.Error})
	default:
		m.broadcast(SessionChangedEvent{Type: event.Type})
	}
}

func (m *Manager) recordRequest(entry models.RequestLogEntry) {
	if err := m.database.InsertRequestLog(&entry); err != nil {
		logger.Warn("failed to record request", "error", err)
	}
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, WaitForEvent(ch)
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return event
	}
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Context is canceled when the manager closes. Commands derive their
// request contexts from it.
func (m *Manager) Context() context.Context {
	return m.ctx
}

// Client returns the API client.
func (m *Manager) Client() *api.Client {
	return m.client
}

// Store returns the state store.
func (m *Manager) Store() *store.Store {
	return m.store
}

// Session returns the session store.
func (m *Manager) Session() *session.Store {
	return m.session
}

// Exports returns the export poller.
func (m *Manager) Exports() *exports.Poller {
	return m.exports
}

// Database returns the database instance for direct access.
func (m *Manager) Database() *db.DB {
	return m.database
}

// GetActivity collects the local request statistics for the window.
func (m *Manager) GetActivity(timeRange models.TimeRange) (*Activity, error) {
	if m.database == nil {
		return nil, errors.New("database not initialized")
	}

	hours := timeRange.Hours()
	total, err := m.database.GetTotalStats(hours)
	if err != nil {
		return nil, err
	}
	hourly, err := m.database.GetHourlyStats(hours)
	if err != nil {
		return nil, err
	}
	recent, err := m.database.GetRecentRequests(50)
	if err != nil {
		return nil, err
	}
	records, err := m.database.ListExportRecords(10)
	if err != nil {
		return nil, err
	}

	return &Activity{Total: total, Hourly: hourly, Recent: recent, Exports: records}, nil
}

// Close closes the manager and all its services.
func (m *Manager) Close() error {
	var errs []error
	m.closeOnce.Do(func() {
		if m.cancel != nil {
			m.cancel()
		}
		if m.exports != nil {
			if err := m.exports.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		if m.stopChan != nil {
			close(m.stopChan)
		}
		if m.unsubscribe != nil {
			m.unsubscribe()
		}

		m.mu.Lock()
		for _, sub := range m.subscribers {
			close(sub)
		}
		m.subscribers = nil
		m.mu.Unlock()

		if m.session != nil {
			if err := m.session.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		if m.database != nil {
			if err := m.database.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	})
	return errors.Join(errs...)
}
