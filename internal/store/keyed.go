package store

import (
	"context"
	"sync"

	"github.com/j-veylop/referral-admin-tui/internal/api"
)

// Entry is the state of one key of a KeyedSlice.
type Entry[T any] struct {
	Data    T
	Error   string
	Loaded  bool
	Loading bool
}

// KeyedSlice holds independently loaded results per key, such as one
// analytics series per period.
type KeyedSlice[T any] struct {
	entries map[string]Entry[T]
	seq     map[string]uint64
	mu      sync.RWMutex
}

// NewKeyedSlice creates an empty keyed slice.
func NewKeyedSlice[T any]() *KeyedSlice[T] {
	return &KeyedSlice[T]{
		entries: make(map[string]Entry[T]),
		seq:     make(map[string]uint64),
	}
}

// Get returns the entry for key.
func (k *KeyedSlice[T]) Get(key string) Entry[T] {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.entries[key]
}

// Clear drops every entry. Loads in flight are discarded.
func (k *KeyedSlice[T]) Clear() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.entries = make(map[string]Entry[T])
	for key := range k.seq {
		k.seq[key]++
	}
}

// ClearError dismisses the error of key.
func (k *KeyedSlice[T]) ClearError(key string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if e, ok := k.entries[key]; ok {
		e.Error = ""
		k.entries[key] = e
	}
}

// RunKeyed loads key. Previously loaded data stays visible while loading
// and after a failure.
func (k *KeyedSlice[T]) RunKeyed(ctx context.Context, key string, fetch func(context.Context) (T, error)) (T, error) {
	k.mu.Lock()
	k.seq[key]++
	seq := k.seq[key]
	e := k.entries[key]
	e.Loading = true
	e.Error = ""
	k.entries[key] = e
	k.mu.Unlock()

	data, err := fetch(ctx)

	k.mu.Lock()
	defer k.mu.Unlock()
	if k.seq[key] != seq {
		return data, ErrStale
	}
	e = k.entries[key]
	e.Loading = false
	if err != nil {
		e.Error = api.Message(err)
		k.entries[key] = e
		return data, err
	}
	e.Data = data
	e.Loaded = true
	k.entries[key] = e
	return data, nil
}
