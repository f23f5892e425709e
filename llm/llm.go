// Package llm provides the language model completion client used by the
// intake pipeline. The production implementation talks to a local Ollama
// server; the Completer interface keeps the pipeline testable without a
// running model.
package llm

import "context"

// Completer produces a text completion for a prompt. A timeout or
// connection failure is returned as an error; the completer never
// retries on its own, retry policy belongs to the caller.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
