package flows

import (
	"context"
	"fmt"
	"strings"

	"github.com/loom-ai/loom/pkg/extract"
	"github.com/loom-ai/loom/pkg/llm"
)

// Verdict is the evaluator's classification of a candidate solution.
type Verdict string

const (
	// VerdictPass accepts the candidate and terminates the loop.
	VerdictPass Verdict = "PASS"
	// VerdictNeedsImprovement requests another attempt.
	VerdictNeedsImprovement Verdict = "NEEDS_IMPROVEMENT"
	// VerdictFail rejects the candidate outright. Treated the same as
	// NEEDS_IMPROVEMENT: the loop keeps refining.
	VerdictFail Verdict = "FAIL"
)

// pass reports whether v terminates the loop. Only an exact (case-folded)
// PASS does; "PASSED", "PASS." and malformed or empty verdicts all keep the
// loop running.
func (v Verdict) pass() bool {
	return strings.EqualFold(string(v), string(VerdictPass))
}

// Attempt records one generation attempt: the model's stated reasoning and
// the candidate it produced. Either may be empty if the model omitted the
// corresponding tag.
type Attempt struct {
	Thoughts string
	Result   string
}

// RefineSpec describes one refinement run. Task is required; empty prompts
// fall back to the package defaults.
type RefineSpec struct {
	// Task is the problem statement handed to the generator and evaluator.
	Task string
	// GeneratorPrompt frames generation; its output must carry
	// <thoughts> and <response> tags.
	GeneratorPrompt string
	// EvaluatorPrompt frames evaluation; its output must carry
	// <evaluation> and <feedback> tags.
	EvaluatorPrompt string
}

// RefineResult is the outcome of a refinement run.
type RefineResult struct {
	// Result is the accepted candidate.
	Result string
	// History holds one Attempt per generation, in order. It is never
	// truncated or deduplicated; the accepted candidate is the last entry.
	History []Attempt
}

// Refine alternates generation and evaluation until the evaluator passes the
// candidate. Each rejection's feedback, together with all prior candidates,
// becomes context for the next generation.
//
// The loop has no built-in attempt cap or timeout. It checks ctx between the
// generate and evaluate phases, so a caller bounds it with context
// cancellation and treats that like any other failure.
func (r *Runner) Refine(ctx context.Context, spec RefineSpec) (res *RefineResult, err error) {
	run := newRun("refine")
	r.obs.OnStart(ctx, run)
	defer func() { r.obs.OnFinish(ctx, run, err) }()

	genPrompt := spec.GeneratorPrompt
	if genPrompt == "" {
		genPrompt = DefaultGeneratorPrompt
	}
	evalPrompt := spec.EvaluatorPrompt
	if evalPrompt == "" {
		evalPrompt = DefaultEvaluatorPrompt
	}

	var history []Attempt

	attempt, err := r.generate(ctx, run, genPrompt, spec.Task, "")
	if err != nil {
		return nil, fmt.Errorf("generate attempt 1: %w", err)
	}
	history = append(history, attempt)

	for {
		if cerr := ctx.Err(); cerr != nil {
			return nil, cerr
		}

		verdict, feedback, eerr := r.evaluate(ctx, run, evalPrompt, spec.Task, attempt.Result)
		if eerr != nil {
			return nil, fmt.Errorf("evaluate attempt %d: %w", len(history), eerr)
		}
		if verdict.pass() {
			return &RefineResult{Result: attempt.Result, History: history}, nil
		}

		if cerr := ctx.Err(); cerr != nil {
			return nil, cerr
		}

		feedbackCtx := feedbackContext(history, feedback)
		attempt, err = r.generate(ctx, run, genPrompt, spec.Task, feedbackCtx)
		if err != nil {
			return nil, fmt.Errorf("generate attempt %d: %w", len(history)+1, err)
		}
		history = append(history, attempt)
	}
}

// generate produces one candidate, with optional accumulated feedback
// context. Missing <thoughts> or <response> tags are tolerated and extract
// as empty strings.
func (r *Runner) generate(ctx context.Context, run RunInfo, genPrompt, task, feedbackCtx string) (Attempt, error) {
	full := genPrompt
	if feedbackCtx != "" {
		full += "\n" + feedbackCtx
	}
	full += "\nTask: " + task

	resp, err := r.client.Complete(ctx, llm.Request{Prompt: full})
	if err != nil {
		return Attempt{}, err
	}

	attempt := Attempt{
		Thoughts: extract.Tag(resp, "thoughts"),
		Result:   extract.Tag(resp, "response"),
	}
	r.obs.OnCall(ctx, run, "generate", attempt.Result)
	return attempt, nil
}

// evaluate judges one candidate against the task.
func (r *Runner) evaluate(ctx context.Context, run RunInfo, evalPrompt, task, candidate string) (Verdict, string, error) {
	full := evalPrompt +
		"\nOriginal task: " + task +
		"\nContent to evaluate: " + candidate

	resp, err := r.client.Complete(ctx, llm.Request{Prompt: full})
	if err != nil {
		return "", "", err
	}

	verdict := Verdict(extract.Tag(resp, "evaluation"))
	feedback := extract.Tag(resp, "feedback")
	r.obs.OnCall(ctx, run, "evaluate", string(verdict))
	return verdict, feedback, nil
}

// feedbackContext builds the generation context from every prior candidate,
// in attempt order, plus the latest evaluator feedback.
func feedbackContext(history []Attempt, feedback string) string {
	var sb strings.Builder
	sb.WriteString("Previous attempts:")
	for _, attempt := range history {
		sb.WriteString("\n- ")
		sb.WriteString(attempt.Result)
	}
	sb.WriteString("\n\nFeedback: ")
	sb.WriteString(feedback)
	return sb.String()
}
