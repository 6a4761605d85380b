package domain

import "errors"

// ErrUserNotFound is returned when a user ID cannot be found in the store.
var ErrUserNotFound = errors.New("user not found")

// ErrConflict is returned when an optimistic transactional update keeps
// losing the race after all retries.
var ErrConflict = errors.New("transactional update conflict")

// ErrUnavailable is returned when a collaborator (NLU, generation) produced
// no usable result. The orchestrator degrades it to a conversational reply.
var ErrUnavailable = errors.New("collaborator unavailable")
