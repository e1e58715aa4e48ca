package flows

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/loom-ai/loom/pkg/llm"
)

func TestParallel_OrderPreservedUnderReverseCompletion(t *testing.T) {
	inputs := []string{"a", "b", "c"}

	// Later inputs finish first: completion order is the reverse of request
	// order, but results must still align with inputs.
	stub := &stubClient{
		respond: func(req llm.Request, call int) (string, error) {
			input := req.Prompt[strings.Index(req.Prompt, "\nInput: ")+len("\nInput: "):]
			switch input {
			case "a":
				time.Sleep(30 * time.Millisecond)
			case "b":
				time.Sleep(15 * time.Millisecond)
			}
			return "out-" + input, nil
		},
	}

	r := New(stub)
	got, err := r.Parallel(context.Background(), "summarize", inputs)
	if err != nil {
		t.Fatalf("Parallel() error: %v", err)
	}

	want := []string{"out-a", "out-b", "out-c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parallel() = %v, want %v", got, want)
	}
}

func TestParallel_OneFailureFailsAggregate(t *testing.T) {
	wantErr := errors.New("auth rejected")
	stub := &stubClient{
		respond: func(req llm.Request, call int) (string, error) {
			if strings.HasSuffix(req.Prompt, "Input: b") {
				return "", wantErr
			}
			return "ok", nil
		},
	}

	r := New(stub)
	results, err := r.Parallel(context.Background(), "p", []string{"a", "b", "c"})
	if !errors.Is(err, wantErr) {
		t.Fatalf("Parallel() error = %v, want wrapped %v", err, wantErr)
	}
	if results != nil {
		t.Errorf("Parallel() on failure returned partial results: %v", results)
	}
	// Siblings are not cancelled; all three calls are issued.
	if stub.callCount() != 3 {
		t.Errorf("calls = %d, want 3", stub.callCount())
	}
}

func TestParallel_EmptyInputs(t *testing.T) {
	r := New(&stubClient{respond: func(llm.Request, int) (string, error) {
		return "", errors.New("should not be called")
	}})

	got, err := r.Parallel(context.Background(), "p", nil)
	if err != nil {
		t.Fatalf("Parallel() error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Parallel() = %v, want empty", got)
	}
}
