// Package settings wraps the platform settings endpoints.
package settings

import (
	"context"
	"net/http"
	"net/url"

	"github.com/j-veylop/referral-admin-tui/internal/api"
	"github.com/j-veylop/referral-admin-tui/internal/models"
)

// SettingsPath is the settings collection.
const SettingsPath = "/platform-settings/admin/settings/"

func settingPath(key string) string {
	return SettingsPath + url.PathEscape(key) + "/"
}

// ListSettings fetches one page of settings.
func ListSettings(ctx context.Context, d api.Doer, f models.SettingFilters) (models.Paginated[models.Setting], error) {
	return api.GetList[models.Setting](ctx, d, SettingsPath, api.RequestOptions{Query: f})
}

// GetSetting fetches a setting by key.
func GetSetting(ctx context.Context, d api.Doer, key string) (models.Setting, error) {
	return api.GetData[models.Setting](ctx, d, settingPath(key))
}

// UpdateSetting replaces the value of a setting.
func UpdateSetting(ctx context.Context, d api.Doer, key, value string) (models.Setting, error) {
	return api.SendData[models.Setting](ctx, d, http.MethodPatch, settingPath(key), models.SettingUpdate{Value: value})
}
