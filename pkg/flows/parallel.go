package flows

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Parallel runs prompt against every input concurrently and returns the
// results index-aligned with inputs, regardless of completion order.
//
// The aggregate is fail-fast: if any call fails, Parallel waits for the
// remaining calls, discards their outcomes, and returns the first error
// observed. No partial result list is ever returned. Siblings are not
// cancelled on failure; they run to completion on their own.
func (r *Runner) Parallel(ctx context.Context, prompt string, inputs []string) (results []string, err error) {
	run := newRun("parallel")
	r.obs.OnStart(ctx, run)
	defer func() { r.obs.OnFinish(ctx, run, err) }()

	results = make([]string, len(inputs))

	var g errgroup.Group
	for i, input := range inputs {
		g.Go(func() error {
			out, cerr := r.complete(ctx, prompt, input)
			if cerr != nil {
				return fmt.Errorf("parallel input %d: %w", i, cerr)
			}
			r.obs.OnCall(ctx, run, fmt.Sprintf("input %d", i), out)
			results[i] = out
			return nil
		})
	}

	if err = g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
