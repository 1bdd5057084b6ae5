// Package session persists the authenticated admin session and UI
// preferences to a JSON file and notifies subscribers of changes.
package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/j-veylop/referral-admin-tui/internal/logger"
	"github.com/j-veylop/referral-admin-tui/internal/models"
)

// ErrNoRefreshToken is returned when a refresh is requested without a
// stored refresh token.
var ErrNoRefreshToken = errors.New("no refresh token stored")

const fileVersion = 1

// File represents the JSON file structure for session storage.
type File struct {
	User         *models.UserInfo `json:"user_info,omitempty"`
	AccessToken  string           `json:"access_token,omitempty"`
	RefreshToken string           `json:"refresh_token,omitempty"`
	Prefs        models.UIPrefs   `json:"prefs"`
	Version      int              `json:"version,omitempty"`
}

// EventType defines the type of session event.
type EventType int

const (
	EventLogin EventType = iota
	EventTokensRefreshed
	EventCleared
	EventPrefsChanged
	EventExternalChange
	EventError
)

// String returns the event name used in logs.
func (t EventType) String() string {
	switch t {
	case EventLogin:
		return "login"
	case EventTokensRefreshed:
		return "tokens_refreshed"
	case EventCleared:
		return "cleared"
	case EventPrefsChanged:
		return "prefs_changed"
	case EventExternalChange:
		return "external_change"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event describes a change of the stored session.
type Event struct {
	Error error
	Type  EventType
}

// Listener receives session events. It is called synchronously after the
// change is persisted, outside the store lock.
type Listener func(Event)

// Store is a file-backed session store. It is safe for concurrent use.
type Store struct {
	mu            sync.RWMutex
	data          File
	filePath      string
	lastWrite     []byte
	watcher       *fsnotify.Watcher
	listeners     map[int]Listener
	nextListener  int
	stopChan      chan struct{}
	debounceTimer *time.Timer
	closeOnce     sync.Once
}

// New opens the session file, creating an empty one when missing.
func New(filePath string) (*Store, error) {
	if filePath == "" {
		return nil, errors.New("session path is required")
	}

	s := &Store{
		filePath:  filePath,
		listeners: make(map[int]Listener),
		stopChan:  make(chan struct{}),
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	if err := s.load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load session: %w", err)
		}
		s.data = File{Prefs: models.UIPrefs{Theme: models.ThemeAuto}}
		if err := s.saveLocked(); err != nil {
			return nil, fmt.Errorf("failed to create session file: %w", err)
		}
	}

	return s, nil
}

// Path returns the session file path.
func (s *Store) Path() string {
	return s.filePath
}

// Subscribe registers a listener and returns a function removing it.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = l
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// AccessToken returns the stored access token.
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.AccessToken
}

// RefreshToken returns the stored refresh token.
func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.RefreshToken
}

// User returns a copy of the stored user info.
func (s *Store) User() *models.UserInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.User.Clone()
}

// Prefs returns the stored UI preferences.
func (s *Store) Prefs() models.UIPrefs {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Prefs
}

// Session returns a snapshot of the session.
func (s *Store) Session() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess := models.Session{
		AccessToken:     s.data.AccessToken,
		RefreshToken:    s.data.RefreshToken,
		User:            s.data.User.Clone(),
		IsAuthenticated: s.data.AccessToken != "",
	}
	if exp, ok := TokenExpiry(s.data.AccessToken); ok {
		sess.ExpiresAt = exp
	}
	return sess
}

// SetSession stores the result of a login.
func (s *Store) SetSession(accessToken, refreshToken string, user *models.UserInfo) error {
	return s.update(EventLogin, func(f *File) {
		f.AccessToken = accessToken
		f.RefreshToken = refreshToken
		f.User = user.Clone()
	})
}

// SetTokens stores a refreshed token pair. An empty refresh token keeps
// the current one (backends without rotation only return the access token).
func (s *Store) SetTokens(accessToken, refreshToken string) error {
	return s.update(EventTokensRefreshed, func(f *File) {
		f.AccessToken = accessToken
		if refreshToken != "" {
			f.RefreshToken = refreshToken
		}
	})
}

// Clear removes the access token, the refresh token and the user info.
// Preferences survive a logout.
func (s *Store) Clear() error {
	return s.update(EventCleared, func(f *File) {
		f.AccessToken = ""
		f.RefreshToken = ""
		f.User = nil
	})
}

// SetPrefs stores UI preferences.
func (s *Store) SetPrefs(prefs models.UIPrefs) error {
	return s.update(EventPrefsChanged, func(f *File) {
		f.Prefs = prefs
	})
}

func (s *Store) update(eventType EventType, fn func(*File)) error {
	s.mu.Lock()
	fn(&s.data)
	err := s.saveLocked()
	s.mu.Unlock()

	if err != nil {
		s.emit(Event{Type: EventError, Error: err})
		return err
	}
	s.emit(Event{Type: eventType})
	return nil
}

func (s *Store) emit(event Event) {
	s.mu.RLock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.RUnlock()

	for _, l := range listeners {
		l(event)
	}
}

func parseFile(data []byte) (File, error) {
	var f File
	if len(bytes.TrimSpace(data)) == 0 {
		return f, nil
	}
	if err := json.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("failed to parse session file: %w", err)
	}
	return f, nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	f, err := parseFile(data)
	if err != nil {
		return err
	}

	s.data = f
	s.lastWrite = data
	return nil
}

// saveLocked writes the session file atomically (must hold lock).
func (s *Store) saveLocked() error {
	s.data.Version = fileVersion

	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	// Write to temp file first, then rename
	tmpFile := s.filePath + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0o600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tmpFile, s.filePath); err != nil {
		if removeErr := os.Remove(tmpFile); removeErr != nil {
			logger.Error("failed to remove temp file", "error", removeErr)
		}
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	s.lastWrite = data
	return nil
}

// Close stops the file watcher.
func (s *Store) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.stopChan)

		s.mu.Lock()
		if s.debounceTimer != nil {
			s.debounceTimer.Stop()
		}
		watcher := s.watcher
		s.mu.Unlock()

		if watcher != nil {
			err = watcher.Close()
		}
	})
	return err
}
