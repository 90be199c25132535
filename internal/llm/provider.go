package llm

import "context"

// NoMatch is the literal abstention sentinel the model is instructed to
// return when no catalog task is relevant.
const NoMatch = "NO_MATCH"

// Provider defines the language-model call used by the resolver.
// Suggest sends a fully-built prompt and returns the model's raw text
// response, which is expected to be either a catalog title or NoMatch
// but is treated as untrusted until validated by the caller.
type Provider interface {
	Suggest(ctx context.Context, prompt string) (string, error)
}
