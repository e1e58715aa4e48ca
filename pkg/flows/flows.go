// Package flows implements reusable orchestration patterns around a
// text-completion client: sequential chaining, concurrent fan-out,
// content-based routing, iterative generate/evaluate refinement, and task
// decomposition with parallel workers.
//
// Each pattern is a method on Runner. Patterns are explicit control flow,
// not a framework: they thread strings through completion calls, parse the
// tagged structure the prompts request, and return plain results. None of
// them retries, persists anything, or bounds its own latency — a caller that
// needs a timeout wraps the call in context.WithTimeout and treats
// cancellation like any other failure.
package flows

import (
	"github.com/google/uuid"

	"github.com/loom-ai/loom/pkg/llm"
)

// Runner executes orchestration patterns against a completion client.
// A Runner is stateless and safe for concurrent use.
type Runner struct {
	client llm.Client
	obs    Observer
}

// Option configures a Runner.
type Option func(*Runner)

// WithObserver sets the observer that receives progress callbacks.
func WithObserver(obs Observer) Option {
	return func(r *Runner) {
		if obs != nil {
			r.obs = obs
		}
	}
}

// New creates a Runner that issues completions through client.
func New(client llm.Client, opts ...Option) *Runner {
	r := &Runner{
		client: client,
		obs:    NoopObserver{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// newRun creates the identity for one pattern invocation, used to correlate
// observer callbacks.
func newRun(flow string) RunInfo {
	return RunInfo{
		ID:   uuid.New().String()[:8],
		Flow: flow,
	}
}
