package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sort"
	"strings"

	"github.com/j-veylop/referral-admin-tui/internal/models"
)

// ErrSessionExpired wraps the failure of a token refresh. The session has
// been cleared when it is returned.
var ErrSessionExpired = errors.New("session expired")

// Error is a non-2xx API response.
type Error struct {
	Context       map[string]any
	Code          string
	Message       string
	Type          string
	CorrelationID string
	RequestID     string
	StatusCode    int
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// FieldErrors flattens validation details from the error context into
// "field: message" lines, sorted by field.
func (e *Error) FieldErrors() []string {
	if len(e.Context) == 0 {
		return nil
	}

	fields := make([]string, 0, len(e.Context))
	for field := range e.Context {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	lines := make([]string, 0, len(fields))
	for _, field := range fields {
		switch v := e.Context[field].(type) {
		case []any:
			parts := make([]string, 0, len(v))
			for _, p := range v {
				parts = append(parts, fmt.Sprint(p))
			}
			lines = append(lines, field+": "+strings.Join(parts, ", "))
		default:
			lines = append(lines, fmt.Sprintf("%s: %v", field, v))
		}
	}
	return lines
}

// parseError builds an Error from a response body. The structured envelope
// is preferred; framework style {"detail": ...} bodies are accepted too.
func parseError(status int, body []byte) *Error {
	e := &Error{StatusCode: status}

	var env models.ErrorEnvelope
	if len(body) > 0 && json.Unmarshal(body, &env) == nil {
		switch {
		case env.Error != nil:
			e.Message = env.Error.Message
			e.Type = env.Error.Type
			e.Context = env.Error.Context
			e.CorrelationID = env.Error.CorrelationID
			if env.Error.Code != nil {
				e.Code = fmt.Sprint(env.Error.Code)
			}
		case env.Detail != "":
			e.Message = env.Detail
		case env.Message != "":
			e.Message = env.Message
		}
	}

	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	if e.Message == "" {
		e.Message = fmt.Sprintf("HTTP %d", status)
	}
	return e
}

// IsStatus reports whether err is an API error with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// IsUnauthorized reports an unrecovered 401 or an expired session.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrSessionExpired) || IsStatus(err, http.StatusUnauthorized)
}

// IsForbidden reports a 403.
func IsForbidden(err error) bool {
	return IsStatus(err, http.StatusForbidden)
}

// Message extracts the text shown to the user for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrSessionExpired) {
		return "Your session has expired. Please sign in again."
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		if fields := apiErr.FieldErrors(); len(fields) > 0 {
			return apiErr.Message + " (" + strings.Join(fields, "; ") + ")"
		}
		return apiErr.Message
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return "The request timed out."
	}
	return err.Error()
}
