package ports

import "context"

// Generator is the persona-text-generation collaborator. It is stateless
// per call: all conversational context is embedded in the directive.
type Generator interface {
	Generate(ctx context.Context, directive string) (string, error)
}
