package models

import "time"

// SettingValue holds a setting rendered as text. Non-string JSON values
// keep their literal form (numbers, booleans, objects).
type SettingValue string

// UnmarshalJSON implements json.Unmarshaler.
func (v *SettingValue) UnmarshalJSON(b []byte) error {
	s, err := flexibleString(b)
	if err != nil {
		return err
	}
	*v = SettingValue(s)
	return nil
}

// Setting is a platform configuration entry.
type Setting struct {
	UpdatedAt   *time.Time   `json:"updated_at,omitempty"`
	Key         string       `json:"key"`
	Value       SettingValue `json:"value"`
	Description string       `json:"description,omitempty"`
}

// SettingUpdate replaces the value of a setting.
type SettingUpdate struct {
	Value string `json:"value"`
}

// SettingFilters are the query parameters of the settings list.
type SettingFilters struct {
	Search   string `query:"search"`
	Page     int    `query:"page,omitempty"`
	PageSize int    `query:"page_size,omitempty"`
}

func (f SettingFilters) WithPage(page int) SettingFilters { f.Page = page; return f }
func (f SettingFilters) CurrentPage() int                 { return f.Page }
