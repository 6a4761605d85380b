// Package redis implements ports.UserStore on Redis. User documents are
// stored as JSON values; transactional updates use WATCH/MULTI/EXEC
// optimistic concurrency so concurrent turns for the same user cannot lose
// a write.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/calobot/internal/logging"
	"github.com/aretw0/calobot/pkg/domain"
	"github.com/aretw0/calobot/pkg/ports"
)

const defaultMaxRetries = 5

// Store implements ports.UserStore using Redis.
type Store struct {
	client     *backend.Client
	prefix     string
	clock      func() time.Time
	logger     *slog.Logger
	maxRetries int
}

// Option configures the Store.
type Option func(*Store)

// WithPrefix sets the key prefix for user documents.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithClock overrides the time source (tests).
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		s.clock = clock
	}
}

// WithLogger configures a logger for the store.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithMaxRetries sets how many times a transactional update is retried
// after losing the optimistic race.
func WithMaxRetries(n int) Option {
	return func(s *Store) {
		s.maxRetries = n
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client:     client,
		prefix:     "calobot:user:",
		clock:      time.Now,
		logger:     logging.NewNop(),
		maxRetries: defaultMaxRetries,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

var _ ports.UserStore = (*Store)(nil)

func (s *Store) key(id string) string {
	return s.prefix + id
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// GetOrCreate loads the user document, creating it atomically (SETNX) on
// first contact. Load-time normalization that changes the document (stale
// tracking date, missing defaults) is written back through the
// transactional path.
func (s *Store) GetOrCreate(ctx context.Context, id, displayName string) (*domain.User, error) {
	now := s.clock()

	val, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, backend.Nil) {
		fresh := domain.NewUser(id, displayName, now)
		created, err := s.create(ctx, fresh)
		if err != nil {
			return nil, err
		}
		if created {
			return fresh, nil
		}
		// Lost the creation race; re-read the winner's document.
		val, err = s.client.Get(ctx, s.key(id)).Bytes()
		if err != nil {
			return nil, fmt.Errorf("failed to load user after creation race: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	var u domain.User
	if err := json.Unmarshal(val, &u); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user %s: %w", id, err)
	}

	if u.Normalize(now) {
		// Persist the rolled tracking window so a crash between read and
		// first write does not resurrect yesterday's totals.
		updated, err := s.Update(ctx, id, func(stored *domain.User) error {
			stored.Normalize(now)
			stored.LastSeenAt = now
			return nil
		})
		if err != nil {
			return nil, err
		}
		return updated, nil
	}

	// Low-stakes touch; last write wins is fine here.
	if err := s.MergeUpdate(ctx, id, func(stored *domain.User) {
		stored.LastSeenAt = now
		if displayName != "" {
			stored.DisplayName = displayName
		}
	}); err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		s.logger.Warn("failed to refresh last-seen", "user_id", id, "err", err)
	}
	u.LastSeenAt = now
	if displayName != "" {
		u.DisplayName = displayName
	}
	return &u, nil
}

func (s *Store) create(ctx context.Context, u *domain.User) (bool, error) {
	data, err := json.Marshal(u)
	if err != nil {
		return false, fmt.Errorf("failed to marshal user: %w", err)
	}
	created, err := s.client.SetNX(ctx, s.key(u.ID), data, 0).Result()
	if err != nil {
		return false, fmt.Errorf("failed to create user: %w", err)
	}
	if created {
		if err := s.client.ZAdd(ctx, s.indexKey(), backend.Z{
			Score:  float64(u.CreatedAt.Unix()),
			Member: u.ID,
		}).Err(); err != nil {
			s.logger.Warn("failed to index user", "user_id", u.ID, "err", err)
		}
	}
	return created, nil
}

// MergeUpdate applies a last-write-wins partial mutation.
func (s *Store) MergeUpdate(ctx context.Context, id string, apply func(*domain.User)) error {
	val, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, backend.Nil) {
		return domain.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}

	var u domain.User
	if err := json.Unmarshal(val, &u); err != nil {
		return fmt.Errorf("failed to unmarshal user %s: %w", id, err)
	}
	apply(&u)

	data, err := json.Marshal(&u)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}
	if err := s.client.Set(ctx, s.key(id), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// Update runs fn inside a WATCH/MULTI/EXEC optimistic transaction and
// returns the committed document. It retries on contention; when retries
// are exhausted it returns domain.ErrConflict.
func (s *Store) Update(ctx context.Context, id string, fn func(*domain.User) error) (*domain.User, error) {
	key := s.key(id)
	var committed *domain.User

	txn := func(tx *backend.Tx) error {
		val, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, backend.Nil) {
			return domain.ErrUserNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load user: %w", err)
		}

		var u domain.User
		if err := json.Unmarshal(val, &u); err != nil {
			return fmt.Errorf("failed to unmarshal user %s: %w", id, err)
		}
		if err := fn(&u); err != nil {
			return err
		}

		data, err := json.Marshal(&u)
		if err != nil {
			return fmt.Errorf("failed to marshal user: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		if err != nil {
			return err
		}
		committed = &u
		return nil
	}

	for attempt := 0; attempt < s.maxRetries; attempt++ {
		err := s.client.Watch(ctx, txn, key)
		if err == nil {
			return committed, nil
		}
		if errors.Is(err, backend.TxFailedErr) {
			s.logger.Debug("optimistic update lost the race, retrying",
				"user_id", id, "attempt", attempt+1)
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("update for user %s: %w", id, domain.ErrConflict)
}

// Get loads a user document without creating or touching it. Used by
// admin tooling; the engine goes through GetOrCreate.
func (s *Store) Get(ctx context.Context, id string) (*domain.User, error) {
	val, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, backend.Nil) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	var u domain.User
	if err := json.Unmarshal(val, &u); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user %s: %w", id, err)
	}
	return &u, nil
}

// List returns stored user IDs in creation order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return ids, nil
}

// Delete removes a user document and its index entry.
func (s *Store) Delete(ctx context.Context, id string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(id))
	pipe.ZRem(ctx, s.indexKey(), id)
	_, err := pipe.Exec(ctx)
	return err
}

// Close closes the underlying redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
