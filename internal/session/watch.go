package session

import (
	"bytes"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/j-veylop/referral-admin-tui/internal/logger"
)

const debounceInterval = 100 * time.Millisecond

// Watch starts watching the session file for changes made by another
// process (a second dashboard instance logging out, for instance).
func (s *Store) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	// Watch the directory: the file is replaced by rename on every save.
	dir := filepath.Dir(s.filePath)
	if err := watcher.Add(dir); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return err
	}

	s.mu.Lock()
	s.watcher = watcher
	s.mu.Unlock()

	go s.watchLoop(watcher)
	return nil
}

// watchLoop handles file system events with debouncing.
func (s *Store) watchLoop(watcher *fsnotify.Watcher) {
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			if filepath.Base(event.Name) != filepath.Base(s.filePath) {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				s.mu.Lock()
				if s.debounceTimer != nil {
					s.debounceTimer.Stop()
				}
				s.debounceTimer = time.AfterFunc(debounceInterval, s.handleFileChange)
				s.mu.Unlock()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.emit(Event{Type: EventError, Error: err})

		case <-s.stopChan:
			return
		}
	}
}

// handleFileChange reloads the session after an external write. Our own
// writes are recognised by content and ignored.
func (s *Store) handleFileChange() {
	s.mu.Lock()
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		s.mu.Unlock()
		if !os.IsNotExist(err) {
			s.emit(Event{Type: EventError, Error: err})
		}
		return
	}
	if bytes.Equal(data, s.lastWrite) {
		s.mu.Unlock()
		return
	}
	f, err := parseFile(data)
	if err != nil {
		s.mu.Unlock()
		s.emit(Event{Type: EventError, Error: err})
		return
	}
	s.data = f
	s.lastWrite = data
	s.mu.Unlock()

	logger.Info("session file changed externally", "path", s.filePath)
	s.emit(Event{Type: EventExternalChange})
}
