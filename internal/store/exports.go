package store

import (
	"sync"

	"github.com/j-veylop/referral-admin-tui/internal/models"
)

// ExportState is a snapshot of the exports slice.
type ExportState struct {
	Task  *models.ExportTask
	Error string
}

// Exports mirrors the running export task. It is the sink of the export
// poller.
type Exports struct {
	task *models.ExportTask
	err  string
	mu   sync.RWMutex
}

// State returns a copy of the slice.
func (e *Exports) State() ExportState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	state := ExportState{Error: e.err}
	if e.task != nil {
		t := *e.task
		state.Task = &t
	}
	return state
}

// SetTask records the latest task status.
func (e *Exports) SetTask(task models.ExportTask) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.task = &task
	e.err = ""
}

// ClearTask drops the task.
func (e *Exports) ClearTask() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.task = nil
}

// SetError records an export failure.
func (e *Exports) SetError(msg string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.err = msg
}

// ClearError dismisses the export error.
func (e *Exports) ClearError() {
	e.SetError("")
}
