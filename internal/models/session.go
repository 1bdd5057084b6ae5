package models

import (
	"strings"
	"time"
)

// UserInfo is the signed-in administrator as returned by login.
type UserInfo struct {
	ID          ID     `json:"id"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	UserType    string `json:"user_type,omitempty"`
	Role        string `json:"role,omitempty"`
	IsSuperuser bool   `json:"is_superuser,omitempty"`
}

// DisplayName returns the full name, falling back to the email.
func (u *UserInfo) DisplayName() string {
	if u == nil {
		return ""
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

// Clone returns a copy of the user info.
func (u *UserInfo) Clone() *UserInfo {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// Session is the authenticated state restored across restarts.
// IsAuthenticated is true iff AccessToken is non-empty.
type Session struct {
	ExpiresAt       time.Time
	User            *UserInfo
	AccessToken     string
	RefreshToken    string
	IsAuthenticated bool
}

// UIPrefs are display preferences persisted with the session.
type UIPrefs struct {
	Theme   string `json:"theme,omitempty"`
	Compact bool   `json:"compact"`
}

// Theme names.
const (
	ThemeAuto  = "auto"
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// NextTheme cycles auto -> dark -> light -> auto.
func NextTheme(current string) string {
	switch current {
	case ThemeDark:
		return ThemeLight
	case ThemeLight:
		return ThemeAuto
	default:
		return ThemeDark
	}
}

// LoginRequest is the body of the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is the data block of a successful login.
type LoginResult struct {
	User         *UserInfo `json:"user,omitempty"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	UserType     string    `json:"user_type"`
}

// TokenPair is the body and result of the token refresh endpoint.
type TokenPair struct {
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token"`
}

// SetPasswordRequest completes an admin invitation.
type SetPasswordRequest struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}
