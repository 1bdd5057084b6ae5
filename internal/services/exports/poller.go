// Package exports runs server-side CSV export tasks to completion: it polls
// the task while the server is processing it, downloads the finished file
// and clears the task shortly after.
package exports

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gen2brain/beeep"

	"github.com/j-veylop/referral-admin-tui/internal/api"
	"github.com/j-veylop/referral-admin-tui/internal/logger"
	"github.com/j-veylop/referral-admin-tui/internal/models"
)

var (
	// ErrBusy is returned by Start while another export is running.
	ErrBusy = errors.New("an export is already running")
	// ErrDismissed is reported when a running export is dismissed.
	ErrDismissed = errors.New("export dismissed")
	// ErrClosed is returned by Start after Close.
	ErrClosed = errors.New("export poller closed")
)

// Exporter starts, polls and downloads one kind of export.
type Exporter interface {
	Kind() string
	StartExport(ctx context.Context) (models.ExportTask, error)
	ExportStatus(ctx context.Context, taskID string) (models.ExportTask, error)
	DownloadExport(ctx context.Context, task models.ExportTask, w io.Writer) (int64, error)
}

// Sink mirrors the current task into application state.
type Sink interface {
	SetTask(task models.ExportTask)
	ClearTask()
	SetError(msg string)
}

// Recorder keeps a history of downloaded files.
type Recorder interface {
	InsertExportRecord(rec models.ExportRecord) (int64, error)
}

// Notifier shows a desktop notification.
type Notifier func(title, message string) error

// EventType defines the type of export event.
type EventType int

const (
	// EventStarted indicates that the server accepted an export.
	EventStarted EventType = iota
	// EventProgress indicates a status change while polling.
	EventProgress
	// EventDownloaded indicates that the file was saved locally.
	EventDownloaded
	// EventCleared indicates that the finished task was cleared.
	EventCleared
	// EventFailed indicates that the export failed.
	EventFailed
	// EventDismissed indicates that the user dismissed the export.
	EventDismissed
)

// Event represents an export lifecycle event.
type Event struct {
	Error  error
	Record *models.ExportRecord
	Kind   string
	Task   models.ExportTask
	Type   EventType
}

// Config holds configuration for the poller.
type Config struct {
	Dir          string
	PollInterval time.Duration
	ClearDelay   time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Dir:          os.TempDir(),
		PollInterval: 2 * time.Second,
		ClearDelay:   3 * time.Second,
	}
}

// Option configures optional poller dependencies.
type Option func(*Poller)

// WithSink mirrors task state into s.
func WithSink(s Sink) Option {
	return func(p *Poller) { p.sink = s }
}

// WithRecorder records downloads in r.
func WithRecorder(r Recorder) Option {
	return func(p *Poller) { p.recorder = r }
}

// WithNotifier replaces the desktop notifier.
func WithNotifier(n Notifier) Option {
	return func(p *Poller) { p.notify = n }
}

type run struct {
	cancel context.CancelFunc
	done   chan struct{}
	task   models.ExportTask
	kind   string
}

// Poller runs at most one export at a time.
type Poller struct {
	sink     Sink
	recorder Recorder
	notify   Notifier
	current  *run
	events   chan Event
	config   Config
	mu       sync.Mutex
	closed   bool
}

// New creates a poller.
func New(config Config, opts ...Option) *Poller {
	defaults := DefaultConfig()
	if config.Dir == "" {
		config.Dir = defaults.Dir
	}
	if config.PollInterval <= 0 {
		config.PollInterval = defaults.PollInterval
	}
	if config.ClearDelay < 0 {
		config.ClearDelay = 0
	}

	p := &Poller{
		config: config,
		events: make(chan Event, 32),
		notify: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Events returns the event channel.
func (p *Poller) Events() <-chan Event {
	return p.events
}

// Active returns the running task, if any.
func (p *Poller) Active() (models.ExportTask, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return models.ExportTask{}, false
	}
	return p.current.task, true
}

// Start asks the server for an export and polls it in the background
// until it is downloaded, fails, is dismissed or ctx is canceled.
func (p *Poller) Start(ctx context.Context, exp Exporter) (models.ExportTask, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return models.ExportTask{}, ErrClosed
	}
	if p.current != nil {
		p.mu.Unlock()
		return models.ExportTask{}, ErrBusy
	}
	runCtx, cancel := context.WithCancel(ctx)
	r := &run{cancel: cancel, done: make(chan struct{}), kind: exp.Kind()}
	p.current = r
	p.mu.Unlock()

	task, err := exp.StartExport(runCtx)
	if err != nil {
		p.finish(r)
		close(r.done)
		p.setError(api.Message(err))
		return models.ExportTask{}, fmt.Errorf("failed to start %s export: %w", r.kind, err)
	}

	p.update(r, task)
	p.sendEvent(Event{Type: EventStarted, Kind: r.kind, Task: task})
	logger.Info("export started", "kind", r.kind, "task_id", task.TaskID)

	go p.poll(runCtx, r, exp)
	return task, nil
}

// Dismiss stops the running export and clears its task. It waits for the
// polling goroutine to exit.
func (p *Poller) Dismiss() {
	p.mu.Lock()
	r := p.current
	p.mu.Unlock()
	if r == nil {
		return
	}

	r.cancel()
	<-r.done
}

// Close dismisses any running export and rejects new ones.
func (p *Poller) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.Dismiss()
	return nil
}

func (p *Poller) poll(ctx context.Context, r *run, exp Exporter) {
	defer close(r.done)
	defer p.finish(r)

	task := r.task
	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	for !ready(task) {
		if task.Status == models.ExportFailed {
			p.fail(r, task, failure(task))
			return
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			p.dismissed(r, task, ctx.Err())
			return
		}

		next, err := exp.ExportStatus(ctx, task.TaskID)
		if err != nil {
			if ctx.Err() != nil {
				p.dismissed(r, task, ctx.Err())
				return
			}
			p.fail(r, task, fmt.Errorf("failed to check export status: %w", err))
			return
		}
		if next.TaskID == "" {
			next.TaskID = task.TaskID
		}
		if next.Status != task.Status {
			p.sendEvent(Event{Type: EventProgress, Kind: r.kind, Task: next})
		}
		task = next
		p.update(r, task)
	}

	record, err := p.download(ctx, r.kind, exp, task)
	if err != nil {
		if ctx.Err() != nil {
			p.dismissed(r, task, ctx.Err())
			return
		}
		p.fail(r, task, err)
		return
	}

	p.sendEvent(Event{Type: EventDownloaded, Kind: r.kind, Task: task, Record: record})
	logger.Info("export downloaded", "kind", r.kind, "task_id", task.TaskID, "path", record.Path, "bytes", record.Bytes)
	if err := p.notify(fmt.Sprintf("Export ready: %s", r.kind), record.Path); err != nil {
		logger.Debug("desktop notification failed", "error", err)
	}

	select {
	case <-time.After(p.config.ClearDelay):
	case <-ctx.Done():
	}
	if p.sink != nil {
		p.sink.ClearTask()
	}
	p.sendEvent(Event{Type: EventCleared, Kind: r.kind, Task: task})
}

func ready(task models.ExportTask) bool {
	return task.Status == models.ExportCompleted && task.FileReady
}

func failure(task models.ExportTask) error {
	if task.Error != "" {
		return fmt.Errorf("export failed: %s", task.Error)
	}
	return errors.New("export failed")
}

// download saves the file as <dir>/<kind>-<task>.csv through a temporary
// file so a partial download never appears under the final name.
func (p *Poller) download(ctx context.Context, kind string, exp Exporter, task models.ExportTask) (*models.ExportRecord, error) {
	if err := os.MkdirAll(p.config.Dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	tmp, err := os.CreateTemp(p.config.Dir, ".export-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	n, err := exp.DownloadExport(ctx, task, tmp)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		return nil, fmt.Errorf("failed to download export: %w", err)
	}

	path := filepath.Join(p.config.Dir, FileName(kind, task.TaskID))
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return nil, fmt.Errorf("failed to save export: %w", err)
	}

	record := &models.ExportRecord{
		CreatedAt: time.Now(),
		Kind:      kind,
		TaskID:    task.TaskID,
		Path:      path,
		Bytes:     n,
	}
	if p.recorder != nil {
		id, err := p.recorder.InsertExportRecord(*record)
		if err != nil {
			logger.Warn("failed to record export", "error", err)
		}
		record.ID = id
	}
	return record, nil
}

// FileName returns the local file name of an export.
func FileName(kind, taskID string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, taskID)
	if clean == "" {
		clean = "export"
	}
	return fmt.Sprintf("%s-%s.csv", kind, clean)
}

func (p *Poller) update(r *run, task models.ExportTask) {
	p.mu.Lock()
	r.task = task
	p.mu.Unlock()
	if p.sink != nil {
		p.sink.SetTask(task)
	}
}

func (p *Poller) fail(r *run, task models.ExportTask, err error) {
	logger.Warn("export failed", "kind", r.kind, "task_id", task.TaskID, "error", err)
	if p.sink != nil {
		p.sink.ClearTask()
	}
	p.setError(err.Error())
	p.sendEvent(Event{Type: EventFailed, Kind: r.kind, Task: task, Error: err})
}

func (p *Poller) dismissed(r *run, task models.ExportTask, cause error) {
	logger.Debug("export dismissed", "kind", r.kind, "task_id", task.TaskID, "cause", cause)
	if p.sink != nil {
		p.sink.ClearTask()
	}
	p.sendEvent(Event{Type: EventDismissed, Kind: r.kind, Task: task, Error: ErrDismissed})
}

func (p *Poller) setError(msg string) {
	if p.sink != nil {
		p.sink.SetError(msg)
	}
}

func (p *Poller) finish(r *run) {
	r.cancel()
	p.mu.Lock()
	if p.current == r {
		p.current = nil
	}
	p.mu.Unlock()
}

// sendEvent sends an event to the event channel non-blocking.
func (p *Poller) sendEvent(event Event) {
	select {
	case p.events <- event:
	default:
		// Channel full, drop oldest
		select {
		case <-p.events:
		default:
		}
		select {
		case p.events <- event:
		default:
		}
	}
}
