package flows

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/loom-ai/loom/pkg/extract"
	"github.com/loom-ai/loom/pkg/llm"
	"github.com/loom-ai/loom/pkg/prompt"
)

// ErrUnknownRoute is returned when the model's selection does not match any
// route-table key. The router never guesses or falls back to a default.
var ErrUnknownRoute = errors.New("unknown route selected")

// Route classifies input into exactly one of the named routes, then runs the
// selected route's prompt against the input.
//
// Classification is one completion call built from the route-table keys; the
// model's <selection> is lowercased and trimmed before lookup. Keys in routes
// are expected to be lowercase. An empty or unmatched selection fails with
// ErrUnknownRoute. The <reasoning> block is surfaced to the observer only.
func (r *Runner) Route(ctx context.Context, input string, routes map[string]string) (result string, err error) {
	run := newRun("route")
	r.obs.OnStart(ctx, run)
	defer func() { r.obs.OnFinish(ctx, run, err) }()

	keys := make([]string, 0, len(routes))
	for k := range routes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	classifier, err := prompt.Render(selectorPrompt, map[string]string{
		"routes": strings.Join(keys, ", "),
		"input":  input,
	})
	if err != nil {
		return "", fmt.Errorf("build selector prompt: %w", err)
	}

	resp, err := r.client.Complete(ctx, llm.Request{Prompt: classifier})
	if err != nil {
		return "", fmt.Errorf("route classification: %w", err)
	}
	r.obs.OnCall(ctx, run, "classify", extract.Tag(resp, "reasoning"))

	selection := strings.ToLower(strings.TrimSpace(extract.Tag(resp, "selection")))
	selected, ok := routes[selection]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRoute, selection)
	}

	out, err := r.complete(ctx, selected, input)
	if err != nil {
		return "", fmt.Errorf("route %q: %w", selection, err)
	}
	r.obs.OnCall(ctx, run, selection, out)
	return out, nil
}
