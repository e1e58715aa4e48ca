package flows

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/loom-ai/loom/pkg/llm"
)

// refineStub alternates generate and evaluate responses. verdicts supplies
// the evaluation for each evaluate call in order.
func refineStub(verdicts []string) *stubClient {
	var generated, evaluated int
	return &stubClient{
		respond: func(req llm.Request, call int) (string, error) {
			if strings.Contains(req.Prompt, "Content to evaluate:") {
				evaluated++
				return fmt.Sprintf(
					"<evaluation>%s</evaluation><feedback>try harder %d</feedback>",
					verdicts[evaluated-1], evaluated), nil
			}
			generated++
			return fmt.Sprintf(
				"<thoughts>thinking %d</thoughts><response>candidate %d</response>",
				generated, generated), nil
		},
	}
}

func TestRefine_LoopsUntilPass(t *testing.T) {
	stub := refineStub([]string{"NEEDS_IMPROVEMENT", "NEEDS_IMPROVEMENT", "PASS"})
	r := New(stub)

	res, err := r.Refine(context.Background(), RefineSpec{Task: "write a poem"})
	if err != nil {
		t.Fatalf("Refine() error: %v", err)
	}

	if len(res.History) != 3 {
		t.Fatalf("history length = %d, want 3", len(res.History))
	}
	if res.Result != "candidate 3" {
		t.Errorf("Result = %q, want third candidate", res.Result)
	}
	if res.History[2].Result != res.Result {
		t.Errorf("accepted candidate should be the last history entry")
	}
	if res.History[0].Thoughts != "thinking 1" {
		t.Errorf("history[0].Thoughts = %q", res.History[0].Thoughts)
	}
	// 3 generations + 3 evaluations
	if stub.callCount() != 6 {
		t.Errorf("calls = %d, want 6", stub.callCount())
	}
}

func TestRefine_FeedbackContextAccumulates(t *testing.T) {
	stub := refineStub([]string{"FAIL", "PASS"})
	r := New(stub)

	if _, err := r.Refine(context.Background(), RefineSpec{Task: "t"}); err != nil {
		t.Fatalf("Refine() error: %v", err)
	}

	// Call order: generate, evaluate, generate, evaluate. The second
	// generation must carry the first candidate and the feedback.
	second := stub.prompts[2]
	if !strings.Contains(second, "Previous attempts:") {
		t.Errorf("second generation missing attempts context: %q", second)
	}
	if !strings.Contains(second, "candidate 1") {
		t.Errorf("second generation missing prior candidate: %q", second)
	}
	if !strings.Contains(second, "Feedback: try harder 1") {
		t.Errorf("second generation missing feedback: %q", second)
	}
	// The first generation has no feedback context.
	if strings.Contains(stub.prompts[0], "Previous attempts:") {
		t.Errorf("first generation should have no feedback context")
	}
}

func TestRefine_VerdictMatching(t *testing.T) {
	passing := []string{"PASS", "pass", "Pass", " PASS "}
	for _, v := range passing {
		t.Run("terminates on "+strings.TrimSpace(v), func(t *testing.T) {
			stub := refineStub([]string{v})
			r := New(stub)
			res, err := r.Refine(context.Background(), RefineSpec{Task: "t"})
			if err != nil {
				t.Fatalf("Refine() error: %v", err)
			}
			if len(res.History) != 1 {
				t.Errorf("history length = %d, want 1", len(res.History))
			}
		})
	}

	continuing := []string{"PASSED", "PASS.", "FAIL", "NEEDS_IMPROVEMENT", "", "garbage"}
	for _, v := range continuing {
		t.Run("continues on "+v, func(t *testing.T) {
			stub := refineStub([]string{v, "PASS"})
			r := New(stub)
			res, err := r.Refine(context.Background(), RefineSpec{Task: "t"})
			if err != nil {
				t.Fatalf("Refine() error: %v", err)
			}
			if len(res.History) != 2 {
				t.Errorf("history length = %d, want 2 (verdict %q must not terminate)", len(res.History), v)
			}
		})
	}
}

func TestRefine_MissingTagsTolerated(t *testing.T) {
	stub := &stubClient{
		respond: func(req llm.Request, call int) (string, error) {
			if strings.Contains(req.Prompt, "Content to evaluate:") {
				return "<evaluation>PASS</evaluation>", nil
			}
			// No thoughts or response tags at all.
			return "just prose", nil
		},
	}
	r := New(stub)

	res, err := r.Refine(context.Background(), RefineSpec{Task: "t"})
	if err != nil {
		t.Fatalf("Refine() error: %v", err)
	}
	if res.Result != "" || res.History[0].Thoughts != "" {
		t.Errorf("missing tags should extract as empty, got %+v", res)
	}
}

func TestRefine_GenerateFailurePropagates(t *testing.T) {
	wantErr := errors.New("provider error")
	stub := &stubClient{
		respond: func(req llm.Request, call int) (string, error) {
			return "", wantErr
		},
	}
	r := New(stub)

	_, err := r.Refine(context.Background(), RefineSpec{Task: "t"})
	if !errors.Is(err, wantErr) {
		t.Fatalf("Refine() error = %v, want wrapped %v", err, wantErr)
	}
}

func TestRefine_CancelledBetweenPhases(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	stub := &stubClient{
		respond: func(req llm.Request, call int) (string, error) {
			if strings.Contains(req.Prompt, "Content to evaluate:") {
				// Never passes; cancellation is the only way out.
				cancel()
				return "<evaluation>FAIL</evaluation><feedback>nope</feedback>", nil
			}
			return "<thoughts>t</thoughts><response>c</response>", nil
		},
	}
	r := New(stub)

	_, err := r.Refine(ctx, RefineSpec{Task: "t"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Refine() error = %v, want context.Canceled", err)
	}
}
