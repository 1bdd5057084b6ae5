// Package store holds the client-side state of every resource the console
// shows. Each resource is a Slice whose operations (thunks) move it through
// pending, fulfilled and rejected transitions around a service call.
package store

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/j-veylop/referral-admin-tui/internal/api"
	"github.com/j-veylop/referral-admin-tui/internal/models"
)

// ErrStale is returned when a result was discarded because a newer request
// of the same kind was issued while it was in flight.
var ErrStale = errors.New("result superseded by a newer request")

// Op identifies the kind of an async operation.
type Op int

const (
	// OpList fetches a page of the collection.
	OpList Op = iota
	// OpDetail fetches a single record.
	OpDetail
	// OpCreate creates a record.
	OpCreate
	// OpUpdate updates a record.
	OpUpdate
	// OpDelete deletes a record.
	OpDelete
	// OpBulk applies one change to many records.
	OpBulk
)

// String returns the operation name.
func (o Op) String() string {
	switch o {
	case OpList:
		return "list"
	case OpDetail:
		return "detail"
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	case OpBulk:
		return "bulk"
	default:
		return "unknown"
	}
}

// guarded reports whether results of op are subject to the staleness
// guard. Mutations always commit so concurrent row updates are not lost.
func (o Op) guarded() bool {
	return o == OpList || o == OpDetail
}

// Paged is implemented by filter structs.
type Paged[F any] interface {
	WithPage(page int) F
	CurrentPage() int
}

// Snapshot is a consistent copy of a slice.
type Snapshot[T any, F any] struct {
	Detail     *T
	Filters    F
	Error      string
	Warning    string
	Items      []T
	Pagination models.Pagination
	Loading    bool
}

// Slice is the state of one paginated resource.
type Slice[T any, F Paged[F]] struct {
	keyOf      func(T) string
	detail     *T
	filters    F
	err        string
	warning    string
	items      []T
	pagination models.Pagination
	seq        [OpBulk + 1]uint64
	inflight   int
	mu         sync.RWMutex
}

// NewSlice creates a slice keyed by keyOf with initial filters.
func NewSlice[T any, F Paged[F]](keyOf func(T) string, filters F) *Slice[T, F] {
	if filters.CurrentPage() < 1 {
		filters = filters.WithPage(1)
	}
	return &Slice[T, F]{
		keyOf:      keyOf,
		filters:    filters,
		items:      []T{},
		pagination: models.Pagination{CurrentPage: 1},
	}
}

// Snapshot returns a copy of the current state.
func (s *Slice[T, F]) Snapshot() Snapshot[T, F] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot[T, F]{
		Items:      slices.Clone(s.items),
		Pagination: s.pagination,
		Filters:    s.filters,
		Loading:    s.inflight > 0,
		Error:      s.err,
		Warning:    s.warning,
	}
	if s.detail != nil {
		d := *s.detail
		snap.Detail = &d
	}
	return snap
}

// Filters returns the current filters.
func (s *Slice[T, F]) Filters() F {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters
}

// SetFilters replaces the filters and resets to the first page.
func (s *Slice[T, F]) SetFilters(filters F) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = filters.WithPage(1)
}

// SetPage selects a page without touching the other filters.
func (s *Slice[T, F]) SetPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = s.filters.WithPage(max(page, 1))
}

// ClearDetail drops the loaded record.
func (s *Slice[T, F]) ClearDetail() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detail = nil
}

// ClearError dismisses the error and warning.
func (s *Slice[T, F]) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = ""
	s.warning = ""
}

// Patch replaces the row and detail whose key matches item. It reports
// whether anything matched.
func (s *Slice[T, F]) Patch(item T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.patchLocked(item)
}

func (s *Slice[T, F]) patchLocked(item T) bool {
	key := s.keyOf(item)
	matched := false
	for i := range s.items {
		if s.keyOf(s.items[i]) == key {
			s.items[i] = item
			matched = true
		}
	}
	if s.detail != nil && s.keyOf(*s.detail) == key {
		d := item
		s.detail = &d
		matched = true
	}
	return matched
}

// Reset drops loaded data and returns to page 1. Results of requests
// already in flight are discarded.
func (s *Slice[T, F]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for op := range s.seq {
		s.seq[op]++
	}
	s.items = []T{}
	s.detail = nil
	s.err = ""
	s.warning = ""
	s.pagination = models.Pagination{CurrentPage: 1}
	s.filters = s.filters.WithPage(1)
}

// begin marks op pending and returns its sequence number.
func (s *Slice[T, F]) begin(op Op) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq[op]++
	s.inflight++
	s.err = ""
	s.warning = ""
	return s.seq[op]
}

// settle records the outcome of op. apply runs under the lock on success.
func (s *Slice[T, F]) settle(op Op, seq uint64, err error, apply func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight--

	if op.guarded() && seq != s.seq[op] {
		return ErrStale
	}
	if err != nil {
		s.err = api.Message(err)
		return err
	}
	if apply != nil {
		apply()
	}
	return nil
}

// RunList fetches the page selected by the current filters and replaces
// the list.
func (s *Slice[T, F]) RunList(ctx context.Context, fetch func(context.Context, F) (models.Paginated[T], error)) error {
	filters := s.Filters()
	seq := s.begin(OpList)
	page, err := fetch(ctx, filters)
	return s.settle(OpList, seq, err, func() {
		s.items = page.Items
		if s.items == nil {
			s.items = []T{}
		}
		s.pagination = page.Pagination
	})
}

// RunDetail loads a single record into the detail.
func (s *Slice[T, F]) RunDetail(ctx context.Context, fetch func(context.Context) (T, error)) (T, error) {
	seq := s.begin(OpDetail)
	item, err := fetch(ctx)
	err = s.settle(OpDetail, seq, err, func() {
		d := item
		s.detail = &d
	})
	return item, err
}

// RunCreate creates a record and prepends it to the loaded page.
func (s *Slice[T, F]) RunCreate(ctx context.Context, create func(context.Context) (T, error)) (T, error) {
	seq := s.begin(OpCreate)
	item, err := create(ctx)
	err = s.settle(OpCreate, seq, err, func() {
		s.items = append([]T{item}, s.items...)
		if size := s.pagination.PageSize; size > 0 && len(s.items) > size {
			s.items = s.items[:size]
		}
		s.pagination.Count++
	})
	return item, err
}

// RunUpdate updates a record and patches it in place in the list and
// detail.
func (s *Slice[T, F]) RunUpdate(ctx context.Context, update func(context.Context) (T, error)) (T, error) {
	seq := s.begin(OpUpdate)
	item, err := update(ctx)
	err = s.settle(OpUpdate, seq, err, func() {
		s.patchLocked(item)
	})
	return item, err
}

// RunDelete deletes the record with key and removes it from the list.
func (s *Slice[T, F]) RunDelete(ctx context.Context, key string, del func(context.Context) error) error {
	seq := s.begin(OpDelete)
	err := del(ctx)
	return s.settle(OpDelete, seq, err, func() {
		before := len(s.items)
		s.items = slices.DeleteFunc(s.items, func(item T) bool {
			return s.keyOf(item) == key
		})
		if removed := before - len(s.items); removed > 0 {
			s.pagination.Count = max(s.pagination.Count-removed, 0)
		}
		if s.detail != nil && s.keyOf(*s.detail) == key {
			s.detail = nil
		}
	})
}

// RunBulk applies a bulk change. A response reporting failures still
// settles as fulfilled but sets the warning and error to a message with
// both counts.
func (s *Slice[T, F]) RunBulk(ctx context.Context, bulk func(context.Context) (models.BulkResult, error)) (models.BulkResult, error) {
	seq := s.begin(OpBulk)
	result, err := bulk(ctx)
	err = s.settle(OpBulk, seq, err, func() {
		if result.Partial() {
			s.warning = result.Summary()
			s.err = s.warning
		}
	})
	return result, err
}
