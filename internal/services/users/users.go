// Package users wraps the user and administrator management endpoints.
package users

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
	UsersPath  = "/auth/admin/users/"
	AdminsPath = "/auth/admin/users/admins/"
	ExportPath = "/auth/admin/users/export/"
)

func userPath(id models.ID) string  { return UsersPath + url.PathEscape(string(id)) + "/" }
func adminPath(id models.ID) string { return AdminsPath + url.PathEscape(string(id)) + "/" }

// ListUsers fetches one page of platform users.
func ListUsers(ctx context.Context, d api.Doer, f models.UserFilters) (models.Paginated[models.User], error) {
	return api.GetList[models.User](ctx, d, UsersPath, api.RequestOptions{Query: f})
}

// GetUser fetches a single user.
func GetUser(ctx context.Context, d api.Doer, id models.ID) (models.User, error) {
	return api.GetData[models.User](ctx, d, userPath(id))
}

// UpdateUser applies a partial update and returns the stored user.
func UpdateUser(ctx context.Context, d api.Doer, id models.ID, u models.UserUpdate) (models.User, error) {
	return api.SendData[models.User](ctx, d, http.MethodPatch, userPath(id), u)
}

// DeleteUser removes a user.
func DeleteUser(ctx context.Context, d api.Doer, id models.ID) error {
	_, err := api.Delete[models.Envelope[any]](ctx, d, userPath(id))
	return err
}

// ListAdmins fetches one page of administrators.
func ListAdmins(ctx context.Context, d api.Doer, f models.AdminFilters) (models.Paginated[models.Admin], error) {
	return api.GetList[models.Admin](ctx, d, AdminsPath, api.RequestOptions{Query: f})
}

// GetAdmin fetches a single administrator.
func GetAdmin(ctx context.Context, d api.Doer, id models.ID) (models.Admin, error) {
	return api.GetData[models.Admin](ctx, d, adminPath(id))
}

// CreateAdmin invites an administrator.
func CreateAdmin(ctx context.Context, d api.Doer, in models.AdminCreate) (models.Admin, error) {
	return api.SendData[models.Admin](ctx, d, http.MethodPost, AdminsPath, in)
}

// UpdateAdmin applies a partial update.
func UpdateAdmin(ctx context.Context, d api.Doer, id models.ID, in models.AdminUpdate) (models.Admin, error) {
	return api.SendData[models.Admin](ctx, d, http.MethodPatch, adminPath(id), in)
}

// DeleteAdmin removes an administrator.
func DeleteAdmin(ctx context.Context, d api.Doer, id models.ID) error {
	_, err := api.Delete[models.Envelope[any]](ctx, d, adminPath(id))
	return err
}

// Exporter exports the users matching Filters as CSV.
type Exporter struct {
	Doer    api.Doer
	Filters models.UserFilters
}

// Kind names the export in file names and history.
func (e Exporter) Kind() string { return "users" }

// StartExport queues the export task.
func (e Exporter) StartExport(ctx context.Context) (models.ExportTask, error) {
	f := e.Filters.WithPage(0)
	f.PageSize = 0
	return api.SendData[models.ExportTask](ctx, e.Doer, http.MethodPost, ExportPath, nil, api.RequestOptions{Query: f})
}

// ExportStatus polls the task.
func (e Exporter) ExportStatus(ctx context.Context, taskID string) (models.ExportTask, error) {
	return api.GetData[models.ExportTask](ctx, e.Doer, ExportPath+url.PathEscape(taskID)+"/")
}

// DownloadExport writes the finished file to w.
func (e Exporter) DownloadExport(ctx context.Context, task models.ExportTask, w io.Writer) (int64, error) {
	path := task.DownloadURL
	if path == "" {
		path = ExportPath + url.PathEscape(task.TaskID) + "/download/"
	}
	return api.Download(ctx, e.Doer, path, w)
}
