package llm

import "context"

// LLMClient is the minimal surface the enrichment step needs.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
