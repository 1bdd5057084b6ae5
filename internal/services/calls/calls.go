// Package calls wraps the call record endpoints, including CSV export.
package calls

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/j-veylop/referral-admin-tui/internal/api"
	"github.com/j-veylop/referral-admin-tui/internal/models"
)

// Endpoint paths.
const (
	CallsPath  = "/call/admin/calls/"
	StatsPath  = "/call/admin/calls/stats/"
	ExportPath = "/call/admin/calls/export/"
)

// ListCalls fetches one page of call records.
func ListCalls(ctx context.Context, d api.Doer, f models.CallFilters) (models.Paginated[models.Call], error) {
	return api.GetList[models.Call](ctx, d, CallsPath, api.RequestOptions{Query: f})
}

// GetCall fetches a single call.
func GetCall(ctx context.Context, d api.Doer, id models.ID) (models.Call, error) {
	return api.GetData[models.Call](ctx, d, CallsPath+url.PathEscape(string(id))+"/")
}

// GetCallStats fetches aggregate call counters for the filtered range.
func GetCallStats(ctx context.Context, d api.Doer, f models.CallFilters) (models.CallStats, error) {
	return api.GetData[models.CallStats](ctx, d, StatsPath, api.RequestOptions{Query: unpaged(f)})
}

// StartExport queues a CSV export of the calls matching f. Paging is
// ignored.
func StartExport(ctx context.Context, d api.Doer, f models.CallFilters) (models.ExportTask, error) {
	return api.SendData[models.ExportTask](ctx, d, http.MethodPost, ExportPath, nil, api.RequestOptions{Query: unpaged(f)})
}

// unpaged drops page and page_size for endpoints that cover the whole
// filtered set.
func unpaged(f models.CallFilters) models.CallFilters {
	f = f.WithPage(0)
	f.PageSize = 0
	return f
}

// GetExportStatus polls an export task.
func GetExportStatus(ctx context.Context, d api.Doer, taskID string) (models.ExportTask, error) {
	return api.GetData[models.ExportTask](ctx, d, ExportPath+url.PathEscape(taskID)+"/")
}

// DownloadExport writes a completed export to w. The task's download URL
// is used when the server provides one.
func DownloadExport(ctx context.Context, d api.Doer, task models.ExportTask, w io.Writer) (int64, error) {
	path := task.DownloadURL
	if path == "" {
		path = ExportPath + url.PathEscape(task.TaskID) + "/download/"
	}
	return api.Download(ctx, d, path, w)
}

// Exporter binds the export operations to a filter set.
type Exporter struct {
	Doer    api.Doer
	Filters models.CallFilters
}

// Kind names the export in file names and history.
func (e Exporter) Kind() string { return "calls" }

// StartExport queues the export task.
func (e Exporter) StartExport(ctx context.Context) (models.ExportTask, error) {
	return StartExport(ctx, e.Doer, e.Filters)
}

// ExportStatus polls the task.
func (e Exporter) ExportStatus(ctx context.Context, taskID string) (models.ExportTask, error) {
	return GetExportStatus(ctx, e.Doer, taskID)
}

// DownloadExport writes the finished file to w.
func (e Exporter) DownloadExport(ctx context.Context, task models.ExportTask, w io.Writer) (int64, error) {
	return DownloadExport(ctx, e.Doer, task, w)
}
