package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/j-veylop/referral-admin-tui/internal/models"
)

// Get sends a GET and decodes the response body into T.
func Get[T any](ctx context.Context, d Doer, path string, opts ...RequestOptions) (T, error) {
	return send[T](ctx, d, http.MethodGet, path, nil, opts)
}

// Post sends a POST with a JSON body and decodes the response into T.
func Post[T any](ctx context.Context, d Doer, path string, body any, opts ...RequestOptions) (T, error) {
	return send[T](ctx, d, http.MethodPost, path, body, opts)
}

// Put sends a PUT with a JSON body and decodes the response into T.
func Put[T any](ctx context.Context, d Doer, path string, body any, opts ...RequestOptions) (T, error) {
	return send[T](ctx, d, http.MethodPut, path, body, opts)
}

// Patch sends a PATCH with a JSON body and decodes the response into T.
func Patch[T any](ctx context.Context, d Doer, path string, body any, opts ...RequestOptions) (T, error) {
	return send[T](ctx, d, http.MethodPatch, path, body, opts)
}

// Delete sends a DELETE and decodes the response body (if any) into T.
func Delete[T any](ctx context.Context, d Doer, path string, opts ...RequestOptions) (T, error) {
	return send[T](ctx, d, http.MethodDelete, path, nil, opts)
}

func send[T any](ctx context.Context, d Doer, method, path string, body any, opts []RequestOptions) (T, error) {
	var out T

	var o RequestOptions
	if len(opts) > 0 {
		o = opts[0]
	}

	data, err := d.Do(ctx, method, path, body, o)
	if err != nil {
		return out, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return out, nil
}

// GetData fetches an enveloped resource and returns its data block.
func GetData[T any](ctx context.Context, d Doer, path string, opts ...RequestOptions) (T, error) {
	env, err := Get[models.Envelope[T]](ctx, d, path, opts...)
	return env.Data, err
}

// SendData sends a body with method and returns the data block of the
// enveloped response.
func SendData[T any](ctx context.Context, d Doer, method, path string, body any, opts ...RequestOptions) (T, error) {
	env, err := send[models.Envelope[T]](ctx, d, method, path, body, opts)
	return env.Data, err
}

// GetList fetches one page of a paginated collection.
func GetList[T any](ctx context.Context, d Doer, path string, opts ...RequestOptions) (models.Paginated[T], error) {
	env, err := Get[models.ListEnvelope[T]](ctx, d, path, opts...)
	if err != nil {
		return models.Paginated[T]{}, err
	}
	return env.Normalize(), nil
}

// Download writes the raw body of a GET to w and returns the byte count.
func Download(ctx context.Context, d Doer, path string, w io.Writer, opts ...RequestOptions) (int64, error) {
	var o RequestOptions
	if len(opts) > 0 {
		o = opts[0]
	}

	data, err := d.Do(ctx, http.MethodGet, path, nil, o)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	if err != nil {
		return int64(n), fmt.Errorf("failed to write download: %w", err)
	}
	return int64(n), nil
}
