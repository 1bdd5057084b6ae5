package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/j-veylop/referral-admin-tui/internal/api"
	"github.com/j-veylop/referral-admin-tui/internal/models"
)

type staticTokens struct{ access, refresh string }

func (s *staticTokens) AccessToken() string  { return s.access }
func (s *staticTokens) RefreshToken() string { return s.refresh }
func (s *staticTokens) SetTokens(a, r string) error {
	s.access, s.refresh = a, r
	return nil
}
func (s *staticTokens) Clear() error {
	s.access, s.refresh = "", ""
	return nil
}

func newClient(t *testing.T, h http.HandlerFunc, tokens *staticTokens) *api.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := api.New(api.Config{BaseURL: srv.URL}, tokens)
	if err != nil {
		t.Fatalf("api.New() failed: %v", err)
	}
	return c
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"Flat", `{"access_token":"a1","refresh_token":"r1","user_type":"admin","user":{"id":3,"email":"ops@example.com"}}`},
		{"Enveloped", `{"message":"ok","data":{"access_token":"a1","refresh_token":"r1","user_type":"admin","user":{"id":"3","email":"ops@example.com"}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := &staticTokens{access: "stale"}
			c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != LoginPath || r.Method != http.MethodPost {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				if r.Header.Get("Authorization") != "" {
					t.Error("login must not carry a bearer")
				}
				var req models.LoginRequest
				_ = json.NewDecoder(r.Body).Decode(&req)
				if req.Email != "ops@example.com" || req.Password != "pw" {
					t.Errorf("body = %+v", req)
				}
				_, _ = w.Write([]byte(tt.body))
			}, tokens)

			res, err := Login(context.Background(), c, "ops@example.com", "pw")
			if err != nil {
				t.Fatalf("Login() failed: %v", err)
			}
			if res.AccessToken != "a1" || res.RefreshToken != "r1" || res.UserType != "admin" {
				t.Errorf("result = %+v", res)
			}
			if res.User == nil || res.User.ID != "3" || res.User.UserType != "admin" {
				t.Errorf("user = %+v", res.User)
			}
		})
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	refreshes := 0
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == api.RefreshPath {
			refreshes++
		}
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":"invalid_credentials","message":"Invalid email or password","status_code":401}}`))
	}, &staticTokens{refresh: "r0"})

	_, err := Login(context.Background(), c, "ops@example.com", "bad")
	if api.Message(err) != "Invalid email or password" {
		t.Errorf("Message() = %q", api.Message(err))
	}
	if refreshes != 0 {
		t.Error("login failure triggered a refresh")
	}
}

func TestLogin_NoToken(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"message":"ok","data":{}}`))
	}, &staticTokens{})

	if _, err := Login(context.Background(), c, "a@b.c", "pw"); !errors.Is(err, ErrNoAccessToken) {
		t.Errorf("error = %v, want ErrNoAccessToken", err)
	}
}

func TestLogoutAndRefresh(t *testing.T) {
	var paths []string
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		var body models.TokenPair
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.RefreshToken != "r1" {
			t.Errorf("%s: refresh_token = %q", r.URL.Path, body.RefreshToken)
		}
		if r.URL.Path == api.RefreshPath {
			_, _ = w.Write([]byte(`{"message":"ok","data":{"access_token":"a2","refresh_token":"r2"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"message":"logged out"}`))
	}, &staticTokens{access: "a1", refresh: "r1"})

	if err := Logout(context.Background(), c, "r1"); err != nil {
		t.Fatalf("Logout() failed: %v", err)
	}
	pair, err := RefreshToken(context.Background(), c, "r1")
	if err != nil {
		t.Fatalf("RefreshToken() failed: %v", err)
	}
	if pair.AccessToken != "a2" || pair.RefreshToken != "r2" {
		t.Errorf("pair = %+v", pair)
	}
	if len(paths) != 2 || paths[0] != LogoutPath || paths[1] != api.RefreshPath {
		t.Errorf("paths = %v", paths)
	}
}

func TestVerifyEmailAndSetPassword(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case VerifyEmailPath:
			_, _ = w.Write([]byte(`{"message":"Email verified"}`))
		case SetPasswordPath:
			var req models.SetPasswordRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			if req.Token != "tok" || req.Password != "s3cret!" {
				t.Errorf("body = %+v", req)
			}
			_, _ = w.Write([]byte(`{"message":"Password set"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}, &staticTokens{})

	msg, err := VerifyEmail(context.Background(), c, "tok")
	if err != nil || msg != "Email verified" {
		t.Errorf("VerifyEmail() = %q, %v", msg, err)
	}

	msg, err = SetPassword(context.Background(), c, models.SetPasswordRequest{Token: "tok", Password: "s3cret!", ConfirmPassword: "s3cret!"})
	if err != nil || msg != "Password set" {
		t.Errorf("SetPassword() = %q, %v", msg, err)
	}

	_, err = SetPassword(context.Background(), c, models.SetPasswordRequest{Token: "tok", Password: "a", ConfirmPassword: "b"})
	if !api.IsStatus(err, http.StatusBadRequest) {
		t.Errorf("mismatch error = %v", err)
	}
}
