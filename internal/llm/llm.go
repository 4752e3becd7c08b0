// Package llm abstracts the hosted text-generation API behind a single
// blocking call. One best-effort attempt per prompt; callers treat a
// failure as an empty result, never as a fatal error.
package llm

import "context"

// Client is a single-shot text completion provider.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
