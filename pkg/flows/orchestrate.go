package flows

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/loom-ai/loom/pkg/extract"
	"github.com/loom-ai/loom/pkg/llm"
	"github.com/loom-ai/loom/pkg/prompt"
)

// SubTask is one decomposed unit of work declared by the orchestrator's
// decomposition response.
type SubTask struct {
	// Type is the subtask's label, e.g. "formal" or "conversational".
	Type string
	// Description tells the worker what to produce.
	Description string
}

// WorkerResult is the output of one worker invocation.
type WorkerResult struct {
	Type        string
	Description string
	// Output is the content of the worker's <response> tag.
	Output string
}

// OrchestrateSpec describes one orchestration run. Task is required; empty
// templates fall back to the package defaults. Context supplies additional
// template variables for both the orchestrator and worker templates.
type OrchestrateSpec struct {
	// Task is the top-level task to decompose.
	Task string
	// Context holds extra key/value pairs substituted into both templates.
	Context map[string]string
	// OrchestratorPrompt is the decomposition template. It may reference
	// {task} and any Context key; its output must carry <analysis> and
	// <tasks> tags, the latter containing <task><type>/<description> groups.
	OrchestratorPrompt string
	// WorkerPrompt is the per-subtask template. It may reference
	// {original_task}, {task_type}, {task_description}, and any Context key;
	// its output must carry a <response> tag.
	WorkerPrompt string
}

// OrchestrateResult is the outcome of an orchestration run.
type OrchestrateResult struct {
	// Analysis is the orchestrator's stated decomposition rationale.
	Analysis string
	// SubTasks lists the declared subtasks in order of appearance.
	SubTasks []SubTask
	// Workers holds one result per subtask, in subtask order.
	Workers []WorkerResult
}

// Orchestrate sends one decomposition request, parses the declared subtasks
// out of the response, runs one worker per subtask concurrently, and
// aggregates the results in subtask order.
//
// Template substitution is validated up front: an unresolved placeholder in
// either template fails the call before any model invocation for that
// template, wrapping prompt.ErrMissingVariable. Worker fan-out shares
// Parallel's fail-fast aggregate semantics. Zero declared subtasks is a
// valid outcome and yields an empty worker list.
func (r *Runner) Orchestrate(ctx context.Context, spec OrchestrateSpec) (res *OrchestrateResult, err error) {
	run := newRun("orchestrate")
	r.obs.OnStart(ctx, run)
	defer func() { r.obs.OnFinish(ctx, run, err) }()

	orchTmpl := spec.OrchestratorPrompt
	if orchTmpl == "" {
		orchTmpl = DefaultOrchestratorPrompt
	}
	workerTmpl := spec.WorkerPrompt
	if workerTmpl == "" {
		workerTmpl = DefaultWorkerPrompt
	}

	orchVars := mergeVars(spec.Context, map[string]string{"task": spec.Task})
	orchPrompt, err := prompt.Render(orchTmpl, orchVars)
	if err != nil {
		return nil, fmt.Errorf("orchestrator template: %w", err)
	}

	resp, err := r.client.Complete(ctx, llm.Request{Prompt: orchPrompt})
	if err != nil {
		return nil, fmt.Errorf("orchestrate decomposition: %w", err)
	}

	analysis := extract.Tag(resp, "analysis")
	subtasks := parseSubTasks(extract.Tag(resp, "tasks"))
	r.obs.OnCall(ctx, run, "decompose", fmt.Sprintf("%d subtasks", len(subtasks)))

	// Render every worker prompt before dispatching any call, so a template
	// error surfaces without burning model invocations.
	workerPrompts := make([]string, len(subtasks))
	for i, st := range subtasks {
		vars := mergeVars(spec.Context, map[string]string{
			"original_task":    spec.Task,
			"task_type":        st.Type,
			"task_description": st.Description,
		})
		workerPrompts[i], err = prompt.Render(workerTmpl, vars)
		if err != nil {
			return nil, fmt.Errorf("worker template for %q: %w", st.Type, err)
		}
	}

	workers := make([]WorkerResult, len(subtasks))

	var g errgroup.Group
	for i, st := range subtasks {
		g.Go(func() error {
			out, werr := r.client.Complete(ctx, llm.Request{Prompt: workerPrompts[i]})
			if werr != nil {
				return fmt.Errorf("worker %q: %w", st.Type, werr)
			}
			response := extract.Tag(out, "response")
			r.obs.OnCall(ctx, run, "worker "+st.Type, response)
			workers[i] = WorkerResult{
				Type:        st.Type,
				Description: st.Description,
				Output:      response,
			}
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}

	return &OrchestrateResult{
		Analysis: analysis,
		SubTasks: subtasks,
		Workers:  workers,
	}, nil
}

// parseSubTasks extracts every well-formed <task> group from a decomposition
// response's tasks block, in order of appearance. A group missing its <type>
// or <description> is skipped, not an error.
func parseSubTasks(tasksBlock string) []SubTask {
	var subtasks []SubTask
	for _, block := range extract.Blocks(tasksBlock, "task") {
		st := SubTask{
			Type:        extract.Tag(block, "type"),
			Description: extract.Tag(block, "description"),
		}
		if st.Type == "" || st.Description == "" {
			continue
		}
		subtasks = append(subtasks, st)
	}
	return subtasks
}

// mergeVars overlays specific variables on top of caller context without
// mutating either map.
func mergeVars(base, overlay map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(overlay))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range overlay {
		merged[k] = v
	}
	return merged
}
