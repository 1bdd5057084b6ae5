package models

// Envelope is the fixed wrapper of every successful response.
type Envelope[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data"`
	Status  any    `json:"status,omitempty"`
}

// ListEnvelope is the envelope of paginated list endpoints.
type ListEnvelope[T any] struct {
	Message    string          `json:"message"`
	Data       []T             `json:"data"`
	Pagination *PaginationMeta `json:"pagination"`
}

// PaginationMeta is the pagination block as it appears on the wire.
type PaginationMeta struct {
	Next        *string `json:"next"`
	Previous    *string `json:"previous"`
	Count       int     `json:"count"`
	CurrentPage int     `json:"current_page"`
	TotalPages  int     `json:"total_pages"`
	PageSize    int     `json:"page_size"`
}

// Pagination is the normalized pagination state kept by list slices.
type Pagination struct {
	Next        string
	Previous    string
	Count       int
	CurrentPage int
	TotalPages  int
	PageSize    int
}

// HasNext reports whether a following page exists.
func (p Pagination) HasNext() bool {
	return p.Next != "" || p.CurrentPage < p.TotalPages
}

// HasPrevious reports whether a preceding page exists.
func (p Pagination) HasPrevious() bool {
	return p.Previous != "" || p.CurrentPage > 1
}

// Paginated is one page of a collection. It replaces the previous page
// wholesale, never merged.
type Paginated[T any] struct {
	Items      []T
	Pagination Pagination
}

// NormalizePagination converts wire pagination into the slice shape.
// A missing or zero page becomes 1, a missing page size becomes the number
// of items received (a page never holds more than its size) and a missing
// page count is derived from count.
func NormalizePagination(meta *PaginationMeta, itemCount int) Pagination {
	p := Pagination{CurrentPage: 1, PageSize: itemCount, Count: itemCount}
	if meta == nil {
		if itemCount > 0 {
			p.TotalPages = 1
		}
		return p
	}

	p.Count = meta.Count
	if meta.CurrentPage > 0 {
		p.CurrentPage = meta.CurrentPage
	}
	if meta.PageSize > itemCount {
		p.PageSize = meta.PageSize
	}
	p.TotalPages = meta.TotalPages
	if p.TotalPages <= 0 && p.PageSize > 0 {
		p.TotalPages = (p.Count + p.PageSize - 1) / p.PageSize
	}
	if meta.Next != nil {
		p.Next = *meta.Next
	}
	if meta.Previous != nil {
		p.Previous = *meta.Previous
	}
	return p
}

// Normalize turns a list envelope into a page. Items is never nil.
func (e ListEnvelope[T]) Normalize() Paginated[T] {
	items := e.Data
	if items == nil {
		items = []T{}
	}
	return Paginated[T]{
		Items:      items,
		Pagination: NormalizePagination(e.Pagination, len(items)),
	}
}

// ErrorEnvelope is the structured error body. Detail and Message cover
// framework errors that bypass the envelope.
type ErrorEnvelope struct {
	Error   *ErrorBody `json:"error"`
	Detail  string     `json:"detail"`
	Message string     `json:"message"`
}

// ErrorBody is the payload of ErrorEnvelope.
type ErrorBody struct {
	Code          any            `json:"code"`
	Context       map[string]any `json:"context,omitempty"`
	Message       string         `json:"message"`
	Type          string         `json:"type,omitempty"`
	CorrelationID string         `json:"correlation_id,omitempty"`
	StatusCode    int            `json:"status_code"`
}
