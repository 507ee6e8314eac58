// Package outbound declares the interfaces the application layer depends
// on and the infrastructure layer implements: the LLM backend, the Deal
// Source, and the (out-of-core-scope, interface-only) persistence ports.
package outbound

import "context"

// LLMService is the generic chat-completion port spec.md §6 names:
// ChatCompletion(model, system, user, temperature, max_tokens) -> text.
// Both concrete backends (ollama, openai) implement it; the application
// layer's LLM Client Adapter depends only on this interface.
type LLMService interface {
	// ChatCompletion issues a single chat-completion call and returns the
	// raw text response. It does not parse or validate the response —
	// that is the LLM Client Adapter's job.
	ChatCompletion(ctx context.Context, system, user string, temperature float64, maxTokens int) (string, error)

	// ChatCompletionWithImage is the vision variant used by
	// POST /recipe-from-image (spec.md §6): a single-shot call bypassing
	// the Prompt Assembler.
	ChatCompletionWithImage(ctx context.Context, system, user string, imageBase64 string, temperature float64, maxTokens int) (string, error)

	// HealthCheck reports whether the backend is currently reachable. The
	// LLM Client Adapter does not call it; it learns of an unreachable
	// backend from ChatCompletion's error.
	HealthCheck(ctx context.Context) error
}
