package flows

import (
	"context"
	"fmt"

	"github.com/loom-ai/loom/pkg/llm"
)

// Chain executes prompts in order, feeding each step's output into the next
// step's input. The first step receives input; the last step's output is the
// result. A failed step fails the whole chain immediately with no partial
// result and no retry.
func (r *Runner) Chain(ctx context.Context, input string, prompts []string) (result string, err error) {
	run := newRun("chain")
	r.obs.OnStart(ctx, run)
	defer func() { r.obs.OnFinish(ctx, run, err) }()

	result = input
	for i, p := range prompts {
		out, cerr := r.complete(ctx, p, result)
		if cerr != nil {
			return "", fmt.Errorf("chain step %d: %w", i+1, cerr)
		}
		r.obs.OnCall(ctx, run, fmt.Sprintf("step %d", i+1), out)
		result = out
	}
	return result, nil
}

// complete issues one completion with the shared prompt-plus-input framing
// used by Chain, Parallel, and Route.
func (r *Runner) complete(ctx context.Context, prompt, input string) (string, error) {
	return r.client.Complete(ctx, llm.Request{Prompt: prompt + "\nInput: " + input})
}
