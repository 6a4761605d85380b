package ports

import (
	"context"

	"github.com/aretw0/calobot/pkg/domain"
)

// UserStore defines the interface for the persistent user document store.
//
// Update is the only operation with a transactional contract: concurrent
// messages from the same user (near-simultaneous food logs, duplicate
// onboarding answers) must not lose a write to a read-then-write race.
type UserStore interface {
	// GetOrCreate loads the user document, creating it with first-contact
	// defaults when absent. Implementations apply the load-time
	// normalization rules (domain.User.Normalize) before returning.
	GetOrCreate(ctx context.Context, id, displayName string) (*domain.User, error)

	// MergeUpdate applies a partial, last-write-wins mutation. Suitable
	// only for low-stakes fields (display name, last-seen timestamps).
	// Returns domain.ErrUserNotFound if the user does not exist.
	MergeUpdate(ctx context.Context, id string, apply func(*domain.User)) error

	// Update runs fn inside an atomic read-modify-write and returns the
	// committed document. An error from fn aborts the transaction and is
	// returned verbatim. Returns domain.ErrUserNotFound if the user does
	// not exist and domain.ErrConflict when retries are exhausted.
	Update(ctx context.Context, id string, fn func(*domain.User) error) (*domain.User, error)
}
