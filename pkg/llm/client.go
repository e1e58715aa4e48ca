// Package llm defines the completion boundary the flow patterns drive.
//
// The patterns in pkg/flows only require the ability to turn a prompt into
// generated text. That capability is the Client interface; the Anthropic
// implementation lives in this package but anything satisfying the interface
// (another provider, a test stub) works.
package llm

import "context"

// Request describes one completion call. It is a plain value; the core never
// mutates or retains it.
type Request struct {
	// Prompt is the full user-turn prompt text.
	Prompt string
	// System is an optional system instruction.
	System string
	// Model optionally overrides the client's configured model.
	Model string
}

// Client is the external text-generation capability. A call either returns
// the generated text or fails; the core treats all failure subtypes
// (network, auth, malformed or empty provider response) uniformly and never
// retries internally.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}
