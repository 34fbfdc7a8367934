// Package analyze sends selected book text to an external model, one
// request per chapter, and assembles the per-chapter results into a single
// Markdown report.
package analyze

import "context"

// Request carries everything a provider needs for one chapter's analysis.
type Request struct {
	System  string // system instruction
	Prompt  string // user prompt, chapter text included
	Chapter string
	Book    string
	Author  string
}

// Provider produces analysis text for a single request. Implementations
// return a *RequestError when the failure can be classified.
type Provider interface {
	Generate(ctx context.Context, req Request) (string, error)
}
