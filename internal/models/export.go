package models

import "time"

// ExportStatus is the lifecycle state of an export task.
type ExportStatus string

// Export statuses.
const (
	ExportPending    ExportStatus = "pending"
	ExportProcessing ExportStatus = "processing"
	ExportCompleted  ExportStatus = "completed"
	ExportFailed     ExportStatus = "failed"
)

// InProgress reports whether the task still needs polling.
func (s ExportStatus) InProgress() bool {
	return s == ExportPending || s == ExportProcessing
}

// ExportTask is a server-side CSV export job.
type ExportTask struct {
	TaskID      string       `json:"task_id"`
	Status      ExportStatus `json:"status"`
	DownloadURL string       `json:"download_url,omitempty"`
	Error       string       `json:"error,omitempty"`
	FileReady   bool         `json:"file_ready"`
}

// ExportRecord is a downloaded export kept in the local history.
type ExportRecord struct {
	CreatedAt time.Time
	Kind      string
	TaskID    string
	Path      string
	ID        int64
	Bytes     int64
}
