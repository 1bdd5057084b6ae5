package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
)

// stubDoer returns a canned body and records the last call.
type stubDoer struct {
	body   string
	err    error
	method string
	path   string
	sent   any
	opts   RequestOptions
}

func (s *stubDoer) Do(_ context.Context, method, path string, body any, opts RequestOptions) ([]byte, error) {
	s.method, s.path, s.sent, s.opts = method, path, body, opts
	if s.err != nil {
		return nil, s.err
	}
	return []byte(s.body), nil
}

type item struct {
	Name string `json:"name"`
	ID   int    `json:"id"`
}

func TestGetList(t *testing.T) {
	d := &stubDoer{body: `{
		"message": "ok",
		"data": [{"id": 1, "name": "a"}, {"id": 2, "name": "b"}],
		"pagination": {"count": 41, "current_page": 2, "total_pages": 5, "page_size": 10, "next": "x", "previous": "y"}
	}`}

	page, err := GetList[item](context.Background(), d, "/things/", RequestOptions{Query: map[string]any{"page": 2}})
	if err != nil {
		t.Fatalf("GetList() failed: %v", err)
	}
	if d.method != http.MethodGet || d.opts.Query == nil {
		t.Errorf("call = %s with opts %+v", d.method, d.opts)
	}
	if len(page.Items) != 2 || page.Items[1].Name != "b" {
		t.Errorf("Items = %+v", page.Items)
	}
	if page.Pagination.TotalPages != 5 || page.Pagination.CurrentPage != 2 || page.Pagination.Count != 41 {
		t.Errorf("Pagination = %+v", page.Pagination)
	}
	if !page.Pagination.HasNext() || !page.Pagination.HasPrevious() {
		t.Error("expected next and previous links")
	}
}

func TestGetList_MissingData(t *testing.T) {
	d := &stubDoer{body: `{"message": "ok"}`}

	page, err := GetList[item](context.Background(), d, "/things/")
	if err != nil {
		t.Fatalf("GetList() failed: %v", err)
	}
	if page.Items == nil || len(page.Items) != 0 {
		t.Errorf("Items = %#v, want empty non-nil slice", page.Items)
	}
	if page.Pagination.CurrentPage != 1 {
		t.Errorf("CurrentPage = %d, want 1", page.Pagination.CurrentPage)
	}
}

func TestSendData(t *testing.T) {
	d := &stubDoer{body: `{"message": "updated", "data": {"id": 7, "name": "seven"}}`}

	got, err := SendData[item](context.Background(), d, http.MethodPatch, "/things/7/", map[string]string{"name": "seven"})
	if err != nil {
		t.Fatalf("SendData() failed: %v", err)
	}
	if got.ID != 7 || got.Name != "seven" {
		t.Errorf("got %+v", got)
	}
	if d.method != http.MethodPatch || d.path != "/things/7/" || d.sent == nil {
		t.Errorf("call = %s %s %v", d.method, d.path, d.sent)
	}
}

func TestDelete_EmptyBody(t *testing.T) {
	d := &stubDoer{body: ""}

	got, err := Delete[map[string]any](context.Background(), d, "/things/7/")
	if err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if got != nil {
		t.Errorf("got %v, want zero value", got)
	}
}

func TestSend_DecodeError(t *testing.T) {
	d := &stubDoer{body: "not json"}

	_, err := Get[item](context.Background(), d, "/things/")
	if err == nil || !strings.Contains(err.Error(), "failed to decode GET /things/") {
		t.Errorf("error = %v", err)
	}
}

func TestSend_PropagatesError(t *testing.T) {
	want := &Error{StatusCode: http.StatusNotFound, Message: "Not found."}
	d := &stubDoer{err: want}

	_, err := GetData[item](context.Background(), d, "/things/9/")
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr != want {
		t.Errorf("error = %v, want %v", err, want)
	}
	if Message(err) != "Not found." {
		t.Errorf("Message() = %q", Message(err))
	}
}
