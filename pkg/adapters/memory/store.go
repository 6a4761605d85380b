// Package memory provides an in-process UserStore. It backs the terminal
// chat mode and the engine tests, where spinning up Redis would be noise.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/calobot/pkg/domain"
	"github.com/aretw0/calobot/pkg/ports"
)

// Store implements ports.UserStore with a mutex-guarded map. A single lock
// makes every Update trivially atomic, which satisfies the transactional
// contract for a single process.
type Store struct {
	mu    sync.Mutex
	users map[string]*domain.User
	clock func() time.Time
}

// Option configures the Store.
type Option func(*Store)

// WithClock overrides the time source (tests).
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		s.clock = clock
	}
}

// New creates an empty in-memory store.
func New(opts ...Option) *Store {
	s := &Store{
		users: make(map[string]*domain.User),
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.UserStore = (*Store)(nil)

// GetOrCreate loads or creates the user and applies load-time
// normalization.
func (s *Store) GetOrCreate(_ context.Context, id, displayName string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	u, ok := s.users[id]
	if !ok {
		u = domain.NewUser(id, displayName, now)
		s.users[id] = u
		return u.Clone(), nil
	}

	u.Normalize(now)
	u.LastSeenAt = now
	if displayName != "" && u.DisplayName != displayName {
		u.DisplayName = displayName
	}
	return u.Clone(), nil
}

// MergeUpdate applies a last-write-wins mutation.
func (s *Store) MergeUpdate(_ context.Context, id string, apply func(*domain.User)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	apply(u)
	return nil
}

// Update runs fn atomically against the stored document.
func (s *Store) Update(_ context.Context, id string, fn func(*domain.User) error) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	// Work on a copy so a failing fn cannot leave a half-applied document.
	next := u.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	s.users[id] = next
	return next.Clone(), nil
}

// List returns all stored user IDs.
func (s *Store) List(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	return ids, nil
}

// Delete removes a user document.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
	return nil
}
