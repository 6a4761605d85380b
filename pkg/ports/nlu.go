package ports

import (
	"context"

	"github.com/aretw0/calobot/pkg/domain"
)

// Understander is the natural-language-understanding collaborator. Given a
// raw message it returns the recognized intent and extracted entities.
//
// A malformed model answer is not an error: implementations map it to
// domain.IntentUnclear. An error return means the collaborator itself was
// unavailable (network failure, timeout, empty response) and the caller
// must degrade to a clarification reply.
type Understander interface {
	Understand(ctx context.Context, text string) (*domain.Understanding, error)
}
