// Package ledger maintains the per-user, per-day calorie accumulator. Its
// single operation is an atomic read-modify-write: the day rollover and
// the appended entry always land in the same transaction, so near
// simultaneous food logs cannot lose an update.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/calobot/internal/logging"
	"github.com/aretw0/calobot/pkg/domain"
	"github.com/aretw0/calobot/pkg/ports"
)

// Ledger appends consumed calories to the daily tracking window.
type Ledger struct {
	store  ports.UserStore
	clock  func() time.Time
	logger *slog.Logger
}

// Option configures the Ledger.
type Option func(*Ledger)

// WithClock overrides the time source (tests).
func WithClock(clock func() time.Time) Option {
	return func(l *Ledger) {
		l.clock = clock
	}
}

// WithLogger configures a logger for the ledger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
	}
}

// New creates a Ledger over the given store.
func New(store ports.UserStore, opts ...Option) *Ledger {
	l := &Ledger{
		store:  store,
		clock:  time.Now,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// AddCalories records one food intake. If the stored tracking date is not
// today, the write starts a fresh day (consumed = amount, log = [entry])
// instead of accumulating. A returned error means nothing was recorded and
// the caller must not claim otherwise.
func (l *Ledger) AddCalories(ctx context.Context, userID string, amount int, description string) error {
	if amount <= 0 {
		return fmt.Errorf("calorie amount must be positive, got %d", amount)
	}
	if description == "" {
		description = "unlabeled entry"
	}

	now := l.clock()
	today := domain.DayOf(now)
	entry := domain.LogEntry{
		Description:   description,
		EstimatedKcal: amount,
		Time:          now,
	}

	_, err := l.store.Update(ctx, userID, func(u *domain.User) error {
		if u.Tracking.Date != today {
			u.Tracking = domain.DailyTracking{
				Date:             today,
				CaloriesConsumed: amount,
				Log:              []domain.LogEntry{entry},
			}
		} else {
			u.Tracking.CaloriesConsumed += amount
			u.Tracking.Log = append(u.Tracking.Log, entry)
		}
		u.LastSeenAt = now
		return nil
	})
	if err != nil {
		l.logger.Error("failed to record calories",
			"user_id", userID, "amount", amount, "err", err)
		return fmt.Errorf("failed to record calories: %w", err)
	}

	l.logger.Info("calories recorded", "user_id", userID, "amount", amount)
	return nil
}
