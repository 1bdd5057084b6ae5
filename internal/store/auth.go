package store

import (
	"context"
	"sync"

	"github.com/j-veylop/referral-admin-tui/internal/api"
	"github.com/j-veylop/referral-admin-tui/internal/logger"
	"github.com/j-veylop/referral-admin-tui/internal/models"
	"github.com/j-veylop/referral-admin-tui/internal/session"
)

// AuthStatus is the state of the auth lifecycle.
type AuthStatus int

const (
	// StatusAnonymous means no session.
	StatusAnonymous AuthStatus = iota
	// StatusAuthenticating means a login is in flight.
	StatusAuthenticating
	// StatusAuthenticated means a session is active.
	StatusAuthenticated
	// StatusRefreshing means an explicit session refresh is in flight.
	StatusRefreshing
)

// String returns the status name.
func (s AuthStatus) String() string {
	switch s {
	case StatusAnonymous:
		return "anonymous"
	case StatusAuthenticating:
		return "authenticating"
	case StatusAuthenticated:
		return "authenticated"
	case StatusRefreshing:
		return "refreshing"
	default:
		return "unknown"
	}
}

// SessionStore persists the session. *session.Store implements it.
type SessionStore interface {
	Session() models.Session
	RefreshToken() string
	SetSession(accessToken, refreshToken string, user *models.UserInfo) error
	SetTokens(accessToken, refreshToken string) error
	Clear() error
}

// AuthState is a snapshot of the auth slice.
type AuthState struct {
	Session models.Session
	Error   string
	Status  AuthStatus
}

// Loading reports whether a login or refresh is in flight.
func (a AuthState) Loading() bool {
	return a.Status == StatusAuthenticating || a.Status == StatusRefreshing
}

// Auth is the auth slice. The session itself lives in the SessionStore;
// Auth tracks the lifecycle around it.
type Auth struct {
	session SessionStore
	err     string
	status  AuthStatus
	mu      sync.RWMutex
}

// NewAuth restores the status from the persisted session.
func NewAuth(sess SessionStore) *Auth {
	a := &Auth{session: sess}
	a.Sync()
	return a
}

// State returns the current auth state.
func (a *Auth) State() AuthState {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return AuthState{
		Session: a.session.Session(),
		Error:   a.err,
		Status:  a.status,
	}
}

// IsAuthenticated reports whether an access token is held.
func (a *Auth) IsAuthenticated() bool {
	return a.session.Session().IsAuthenticated
}

// Sync re-derives the status from the session, e.g. after another process
// changed the session file.
func (a *Auth) Sync() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.status == StatusAuthenticating || a.status == StatusRefreshing {
		return
	}
	if a.session.Session().IsAuthenticated {
		a.status = StatusAuthenticated
	} else {
		a.status = StatusAnonymous
	}
}

// ClearError dismisses the auth error.
func (a *Auth) ClearError() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.err = ""
}

func (a *Auth) setStatus(status AuthStatus, errMsg string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.status = status
	a.err = errMsg
}

// Login authenticates and persists the session.
func (a *Auth) Login(ctx context.Context, login func(context.Context) (models.LoginResult, error)) error {
	a.setStatus(StatusAuthenticating, "")

	result, err := login(ctx)
	if err != nil {
		a.setStatus(StatusAnonymous, api.Message(err))
		return err
	}

	user := result.User
	if user == nil {
		user = &models.UserInfo{UserType: result.UserType}
	}
	if err := a.session.SetSession(result.AccessToken, result.RefreshToken, user); err != nil {
		a.setStatus(StatusAnonymous, err.Error())
		return err
	}

	a.setStatus(StatusAuthenticated, "")
	logger.Info("logged in", "email", user.Email)
	return nil
}

// Logout ends the session. The local session is cleared whatever the
// outcome of the server call, and Logout never fails.
func (a *Auth) Logout(ctx context.Context, logout func(ctx context.Context, refreshToken string) error) {
	if refreshToken := a.session.RefreshToken(); refreshToken != "" && logout != nil {
		if err := logout(ctx, refreshToken); err != nil {
			logger.Warn("server logout failed", "error", err)
		}
	}
	a.end("")
}

// ForceLogout ends the session without a server call, recording reason as
// the auth error.
func (a *Auth) ForceLogout(reason string) {
	a.end(reason)
}

func (a *Auth) end(reason string) {
	if err := a.session.Clear(); err != nil {
		logger.Error("failed to clear session", "error", err)
	}
	a.setStatus(StatusAnonymous, reason)
}

// RefreshSession trades the refresh token for a new pair. Failure ends the
// session.
func (a *Auth) RefreshSession(ctx context.Context, refresh func(ctx context.Context, refreshToken string) (models.TokenPair, error)) error {
	refreshToken := a.session.RefreshToken()
	if refreshToken == "" {
		a.end("No refresh token available. Please sign in again.")
		return session.ErrNoRefreshToken
	}

	a.setStatus(StatusRefreshing, "")
	pair, err := refresh(ctx, refreshToken)
	if err != nil {
		a.end(api.Message(err))
		return err
	}
	if err := a.session.SetTokens(pair.AccessToken, pair.RefreshToken); err != nil {
		a.setStatus(StatusAuthenticated, err.Error())
		return err
	}
	a.setStatus(StatusAuthenticated, "")
	return nil
}
