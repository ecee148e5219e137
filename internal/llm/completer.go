// Package llm wraps the text-completion capability behind a one-method
// interface. Model output is best-effort, never guaranteed-correct: every
// call site must parse and validate what comes back, and a parse failure is
// a typed error for that call, never an empty-string success.
package llm

import "context"

// Request is a single completion call. System is optional; Prompt is the
// user-facing content.
type Request struct {
	System string
	Prompt string
}

// Completer produces a text completion for a request. Implementations block
// until the model answers or ctx is done.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}
