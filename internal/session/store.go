// Package session keeps per-page server state (dashboard sessions, form
// drafts) in memory, keyed by random IDs and expired after a period of
// inactivity.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session not found or expired")

type entry[T any] struct {
	value   T
	touched time.Time
}

// Store is safe for concurrent use. Values are usually pointers guarded by
// their own locks; Store only guards the index.
type Store[T any] struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items map[string]*entry[T]
}

func NewStore[T any](ttl time.Duration) *Store[T] {
	return &Store[T]{
		ttl:   ttl,
		now:   time.Now,
		items: make(map[string]*entry[T]),
	}
}

// Put stores v under a new ID and returns the ID.
func (s *Store[T]) Put(v T) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.items[id] = &entry[T]{value: v, touched: s.now()}
	s.mu.Unlock()
	return id
}

// Get returns the value for id and refreshes its expiry.
func (s *Store[T]) Get(id string) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	e, ok := s.items[id]
	if !ok {
		return zero, ErrNotFound
	}
	now := s.now()
	if now.Sub(e.touched) > s.ttl {
		delete(s.items, id)
		return zero, ErrNotFound
	}
	e.touched = now
	return e.value, nil
}

func (s *Store[T]) Delete(id string) {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
}

func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Sweep removes expired entries and returns how many were removed.
func (s *Store[T]) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	n := 0
	for id, e := range s.items {
		if now.Sub(e.touched) > s.ttl {
			delete(s.items, id)
			n++
		}
	}
	return n
}

// RunSweeper sweeps every interval until ctx is done.
func (s *Store[T]) RunSweeper(ctx context.Context, interval time.Duration, logger *slog.Logger, name string) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				logger.Info("expired sessions removed", "store", name, "count", n)
			}
		case <-ctx.Done():
			return
		}
	}
}
