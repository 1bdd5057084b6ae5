// Package api is the single outbound path to the admin REST API. It attaches
// bearer credentials, refreshes an expired access token once per failed
// request and reports forced logouts and permission failures through Signals.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/j-veylop/referral-admin-tui/internal/logger"
	"github.com/j-veylop/referral-admin-tui/internal/models"
	"github.com/j-veylop/referral-admin-tui/internal/session"
)

const (
	// RefreshPath is the token refresh endpoint.
	RefreshPath = "/auth/admin/token-refresh/"

	// RequestIDHeader carries a per-request correlation id.
	RequestIDHeader = "X-Request-ID"

	defaultTimeout = 30 * time.Second
	refreshKey     = "refresh"
)

var errRefreshUnavailable = errors.New("refresh token no longer available")

// TokenSource is the session the client reads credentials from and writes
// refreshed tokens to.
type TokenSource interface {
	AccessToken() string
	RefreshToken() string
	SetTokens(accessToken, refreshToken string) error
	Clear() error
}

// Doer sends a request and returns the raw response body. *Client is the
// production implementation; services depend on this interface only.
type Doer interface {
	Do(ctx context.Context, method, path string, body any, opts RequestOptions) ([]byte, error)
}

// RequestOptions tune a single request.
type RequestOptions struct {
	// Query is encoded with EncodeQuery and appended to the path.
	Query any
	// Timeout bounds this request, including a refresh and retry.
	Timeout time.Duration
	// SkipAuth sends the request without a bearer token and never
	// attempts a refresh on 401.
	SkipAuth bool
	// SkipErrorHandler disables 401 recovery, 403 signalling and
	// failure logging.
	SkipErrorHandler bool
}

// RequestObserver is notified after every round-trip, successful or not.
type RequestObserver func(models.RequestLogEntry)

// Config configures a Client.
type Config struct {
	BaseURL     string
	UserAgent   string
	Timeout     time.Duration
	RateLimit   float64
	RateBurst   int
	Development bool
}

// Client is the configured request pipeline.
type Client struct {
	baseURL    string
	origin     *url.URL
	userAgent  string
	httpClient *http.Client
	tokens     TokenSource
	signals    Signals
	observer   RequestObserver
	limiter    *rate.Limiter
	refreshes  singleflight.Group
	dev        bool
}

// Option configures optional Client dependencies.
type Option func(*Client)

// WithSignals sets the receiver of logout and unauthorized signals.
func WithSignals(s Signals) Option {
	return func(c *Client) {
		if s != nil {
			c.signals = s
		}
	}
}

// WithObserver sets the request observer.
func WithObserver(o RequestObserver) Option {
	return func(c *Client) { c.observer = o }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// New creates a client for cfg.BaseURL reading credentials from tokens.
func New(cfg Config, tokens TokenSource, opts ...Option) (*Client, error) {
	if tokens == nil {
		return nil, errors.New("api: token source is required")
	}

	base := strings.TrimRight(cfg.BaseURL, "/")
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("api: invalid base URL %q", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	c := &Client{
		baseURL:    base,
		origin:     u,
		userAgent:  cfg.UserAgent,
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
		signals:    nopSignals{},
		limiter:    rate.NewLimiter(limit, max(cfg.RateBurst, 1)),
		dev:        cfg.Development,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// outbound is the per-request state. retried marks a request that already
// went through a refresh so it is never retried twice. foreign marks an
// absolute target outside the API origin, which never gets credentials.
type outbound struct {
	method    string
	path      string
	payload   []byte
	sentToken string
	opts      RequestOptions
	retried   bool
	foreign   bool
}

// Do sends a request and returns the response body of a 2xx response.
// HTTP failures are returned as *Error.
func (c *Client) Do(ctx context.Context, method, path string, body any, opts RequestOptions) ([]byte, error) {
	r := &outbound{method: method, path: path, opts: opts}
	if opts.Query != nil {
		r.path = WithQuery(path, opts.Query)
	}
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		r.payload = payload
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	data, err := c.send(ctx, r)
	if err == nil {
		return data, nil
	}
	return c.handleError(ctx, r, err)
}

func (c *Client) newRequest(ctx context.Context, r *outbound) (*http.Request, error) {
	target := r.path
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		target = c.baseURL + "/" + strings.TrimLeft(target, "/")
	}

	var body io.Reader
	if r.payload != nil {
		body = bytes.NewReader(r.payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if r.payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set(RequestIDHeader, uuid.NewString())

	r.foreign = !c.sameOrigin(req.URL)
	r.sentToken = ""
	if !r.opts.SkipAuth && !r.foreign {
		if token := c.tokens.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
			r.sentToken = token
		}
	}
	return req, nil
}

// sameOrigin reports whether u points at the API host.
func (c *Client) sameOrigin(u *url.URL) bool {
	return strings.EqualFold(u.Scheme, c.origin.Scheme) && strings.EqualFold(u.Host, c.origin.Host)
}

// send performs one round-trip. It never retries.
func (c *Client) send(ctx context.Context, r *outbound) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s %s: %w", r.method, r.path, err)
	}

	req, err := c.newRequest(ctx, r)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	entry := models.RequestLogEntry{
		Timestamp: start,
		Method:    r.method,
		Path:      r.path,
		RequestID: req.Header.Get(RequestIDHeader),
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		entry.Error = err.Error()
		entry.DurationMs = int(time.Since(start).Milliseconds())
		c.observe(entry)
		return nil, fmt.Errorf("%s %s: %w", r.method, r.path, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Error("failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	entry.StatusCode = resp.StatusCode
	entry.DurationMs = int(time.Since(start).Milliseconds())
	if err != nil {
		entry.Error = err.Error()
		c.observe(entry)
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := parseError(resp.StatusCode, body)
		apiErr.RequestID = entry.RequestID
		entry.Error = apiErr.Message
		c.observe(entry)
		return nil, apiErr
	}

	c.observe(entry)
	if c.dev {
		logger.Debug("api response",
			"method", r.method,
			"path", r.path,
			"status", resp.StatusCode,
			"duration", time.Since(start),
			"request_id", entry.RequestID,
		)
	}
	return body, nil
}

func (c *Client) observe(entry models.RequestLogEntry) {
	if c.observer != nil {
		c.observer(entry)
	}
}

func (c *Client) handleError(ctx context.Context, r *outbound, err error) ([]byte, error) {
	if r.opts.SkipErrorHandler {
		return nil, err
	}

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		logger.Warn("api request failed", "method", r.method, "path", r.path, "error", err)
		return nil, err
	}
	if r.foreign {
		// Another host's 401 or 403 says nothing about the admin session.
		logger.Warn("external request failed", "method", r.method, "status", apiErr.StatusCode)
		return nil, err
	}

	switch apiErr.StatusCode {
	case http.StatusUnauthorized:
		if r.retried || r.opts.SkipAuth {
			return nil, err
		}
		if c.tokens.RefreshToken() == "" {
			return nil, err
		}
		r.retried = true

		if refreshErr := c.refresh(ctx, r.sentToken); refreshErr != nil {
			if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(refreshErr, ctxErr) {
				// The caller gave up; the shared refresh keeps running.
				return nil, refreshErr
			}
			return nil, fmt.Errorf("%w: %w", ErrSessionExpired, refreshErr)
		}

		data, retryErr := c.send(ctx, r)
		if retryErr != nil {
			return c.handleError(ctx, r, retryErr)
		}
		return data, nil

	case http.StatusForbidden:
		logger.Warn("api request forbidden", "method", r.method, "path", r.path, "code", apiErr.Code)
		c.signals.OnUnauthorized(apiErr)
		return nil, err

	default:
		logger.Warn("api request failed",
			"method", r.method,
			"path", r.path,
			"status", apiErr.StatusCode,
			"error", apiErr.Message,
			"request_id", apiErr.RequestID,
		)
		return nil, err
	}
}

// refresh obtains a new token pair. Concurrent callers share one in-flight
// refresh. A caller whose token was already replaced by a completed refresh
// retries without refreshing again.
func (c *Client) refresh(ctx context.Context, staleToken string) error {
	ch := c.refreshes.DoChan(refreshKey, func() (any, error) {
		if current := c.tokens.AccessToken(); current != "" && current != staleToken {
			return nil, nil
		}
		return nil, c.refreshTokens(context.WithoutCancel(ctx))
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RefreshIfExpiring refreshes the access token when its exp claim falls
// before now+window. It joins a refresh already started by a failed request.
// The result reports whether a refresh was attempted.
func (c *Client) RefreshIfExpiring(ctx context.Context, now time.Time, window time.Duration) (bool, error) {
	token := c.tokens.AccessToken()
	if token == "" || c.tokens.RefreshToken() == "" || !session.ExpiresWithin(token, now, window) {
		return false, nil
	}

	err := c.refresh(ctx, token)
	switch {
	case err == nil:
		return true, nil
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		return true, err
	default:
		return true, fmt.Errorf("%w: %w", ErrSessionExpired, err)
	}
}

func (c *Client) refreshTokens(ctx context.Context) error {
	refreshToken := c.tokens.RefreshToken()
	if refreshToken == "" {
		// Logged out while the request was in flight. The session was
		// already ended, so this must not signal again.
		return errRefreshUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, c.httpClient.Timeout)
	defer cancel()

	payload, err := json.Marshal(models.TokenPair{RefreshToken: refreshToken})
	if err != nil {
		return err
	}
	r := &outbound{
		method:  http.MethodPost,
		path:    RefreshPath,
		payload: payload,
		opts:    RequestOptions{SkipAuth: true, SkipErrorHandler: true},
	}

	pair, err := c.decodeTokenPair(c.send(ctx, r))
	if err != nil {
		c.endSession(err)
		return err
	}

	if err := c.tokens.SetTokens(pair.AccessToken, pair.RefreshToken); err != nil {
		// The in-memory session already holds the new pair.
		logger.Error("failed to persist refreshed tokens", "error", err)
	}
	logger.Info("access token refreshed")
	return nil
}

func (c *Client) decodeTokenPair(body []byte, err error) (models.TokenPair, error) {
	if err != nil {
		return models.TokenPair{}, err
	}

	var env models.Envelope[models.TokenPair]
	if err := json.Unmarshal(body, &env); err != nil {
		return models.TokenPair{}, fmt.Errorf("failed to parse refresh response: %w", err)
	}
	if env.Data.AccessToken != "" {
		return env.Data, nil
	}

	var bare models.TokenPair
	if err := json.Unmarshal(body, &bare); err == nil && bare.AccessToken != "" {
		return bare, nil
	}
	return models.TokenPair{}, errors.New("refresh response carried no access token")
}

// endSession clears the stored credentials and signals a forced logout.
func (c *Client) endSession(cause error) {
	logger.Warn("token refresh failed, ending session", "error", cause)
	if err := c.tokens.Clear(); err != nil {
		logger.Error("failed to clear session", "error", err)
	}
	c.signals.OnLogout()
}
