package store

import (
	"sync"

	"github.com/j-veylop/referral-admin-tui/internal/logger"
	"github.com/j-veylop/referral-admin-tui/internal/models"
)

// PrefsStore persists UI preferences.
type PrefsStore interface {
	Prefs() models.UIPrefs
	SetPrefs(prefs models.UIPrefs) error
}

// UI is the display preferences slice.
type UI struct {
	prefs PrefsStore
	mu    sync.Mutex
}

// NewUI creates the slice over a preference store.
func NewUI(prefs PrefsStore) *UI {
	return &UI{prefs: prefs}
}

// Prefs returns the current preferences.
func (u *UI) Prefs() models.UIPrefs {
	return u.prefs.Prefs()
}

// ToggleCompact flips compact mode and returns the new preferences.
func (u *UI) ToggleCompact() models.UIPrefs {
	return u.update(func(p *models.UIPrefs) { p.Compact = !p.Compact })
}

// CycleTheme moves to the next theme and returns the new preferences.
func (u *UI) CycleTheme() models.UIPrefs {
	return u.update(func(p *models.UIPrefs) { p.Theme = models.NextTheme(p.Theme) })
}

func (u *UI) update(fn func(*models.UIPrefs)) models.UIPrefs {
	u.mu.Lock()
	defer u.mu.Unlock()
	prefs := u.prefs.Prefs()
	fn(&prefs)
	if err := u.prefs.SetPrefs(prefs); err != nil {
		logger.Warn("failed to save preferences", "error", err)
	}
	return prefs
}
