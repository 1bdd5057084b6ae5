// Package auth wraps the administrator authentication endpoints.
package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/j-veylop/referral-admin-tui/internal/api"
	"github.com/j-veylop/referral-admin-tui/internal/models"
)

// Endpoint paths.
const (
	LoginPath       = "/auth/admin/login/"
	LogoutPath      = "/auth/admin/logout/"
	VerifyEmailPath = "/auth/admin/verify-email/"
	SetPasswordPath = "/auth/admin/set-password/"
)

// ErrNoAccessToken is returned when a login response carries no token.
var ErrNoAccessToken = errors.New("login response carried no access token")

// loginResponse accepts both the enveloped and the flat login payload.
type loginResponse struct {
	models.LoginResult
	Data *models.LoginResult `json:"data"`
}

// Login exchanges credentials for a token pair. Login never triggers a
// token refresh.
func Login(ctx context.Context, d api.Doer, email, password string) (models.LoginResult, error) {
	resp, err := api.Post[loginResponse](ctx, d, LoginPath,
		models.LoginRequest{Email: email, Password: password},
		api.RequestOptions{SkipAuth: true})
	if err != nil {
		return models.LoginResult{}, err
	}

	result := resp.LoginResult
	if resp.Data != nil && resp.Data.AccessToken != "" {
		result = *resp.Data
	}
	if result.AccessToken == "" {
		return models.LoginResult{}, ErrNoAccessToken
	}
	if result.User != nil && result.User.UserType == "" {
		result.User.UserType = result.UserType
	}
	return result, nil
}

// Logout blacklists the refresh token server-side.
func Logout(ctx context.Context, d api.Doer, refreshToken string) error {
	_, err := api.Post[models.Envelope[any]](ctx, d, LogoutPath,
		models.TokenPair{RefreshToken: refreshToken},
		api.RequestOptions{SkipErrorHandler: true})
	return err
}

// RefreshToken trades a refresh token for a new pair. The client refreshes
// on its own; this is used by the explicit "refresh session" action.
func RefreshToken(ctx context.Context, d api.Doer, refreshToken string) (models.TokenPair, error) {
	resp, err := api.Post[loginResponse](ctx, d, api.RefreshPath,
		models.TokenPair{RefreshToken: refreshToken},
		api.RequestOptions{SkipAuth: true, SkipErrorHandler: true})
	if err != nil {
		return models.TokenPair{}, err
	}

	result := resp.LoginResult
	if resp.Data != nil && resp.Data.AccessToken != "" {
		result = *resp.Data
	}
	if result.AccessToken == "" {
		return models.TokenPair{}, ErrNoAccessToken
	}
	return models.TokenPair{AccessToken: result.AccessToken, RefreshToken: result.RefreshToken}, nil
}

// VerifyEmail confirms an email address with the token from the
// verification mail and returns the server message.
func VerifyEmail(ctx context.Context, d api.Doer, token string) (string, error) {
	resp, err := api.Post[models.Envelope[any]](ctx, d, VerifyEmailPath,
		map[string]string{"token": token},
		api.RequestOptions{SkipAuth: true})
	return resp.Message, err
}

// SetPassword completes an invitation by choosing a password.
func SetPassword(ctx context.Context, d api.Doer, req models.SetPasswordRequest) (string, error) {
	if req.Password != req.ConfirmPassword {
		return "", &api.Error{
			StatusCode: http.StatusBadRequest,
			Code:       "password_mismatch",
			Message:    "Passwords do not match",
		}
	}
	resp, err := api.Post[models.Envelope[any]](ctx, d, SetPasswordPath, req,
		api.RequestOptions{SkipAuth: true})
	return resp.Message, err
}
