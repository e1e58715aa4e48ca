// Package flowspec loads YAML flow definitions for the loom CLI.
//
// A flow file names one pattern and supplies its prompts and inputs. The
// core library takes these as plain arguments; this package is CLI glue.
package flowspec

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Known flow kinds.
const (
	FlowChain       = "chain"
	FlowParallel    = "parallel"
	FlowRoute       = "route"
	FlowRefine      = "refine"
	FlowOrchestrate = "orchestrate"
)

// Spec is one flow definition. Which fields apply depends on Flow:
//
//	chain:       input, prompts
//	parallel:    prompt, inputs
//	route:       input, routes
//	refine:      task, generator_prompt?, evaluator_prompt?
//	orchestrate: task, context?, orchestrator_prompt?, worker_prompt?
type Spec struct {
	Flow string `yaml:"flow"`

	// Model optionally overrides the configured model for this flow.
	Model string `yaml:"model,omitempty"`

	Input   string   `yaml:"input,omitempty"`
	Inputs  []string `yaml:"inputs,omitempty"`
	Prompt  string   `yaml:"prompt,omitempty"`
	Prompts []string `yaml:"prompts,omitempty"`

	Routes map[string]string `yaml:"routes,omitempty"`

	Task    string            `yaml:"task,omitempty"`
	Context map[string]string `yaml:"context,omitempty"`

	GeneratorPrompt    string `yaml:"generator_prompt,omitempty"`
	EvaluatorPrompt    string `yaml:"evaluator_prompt,omitempty"`
	OrchestratorPrompt string `yaml:"orchestrator_prompt,omitempty"`
	WorkerPrompt       string `yaml:"worker_prompt,omitempty"`
}

// Load reads and validates a flow definition from path.
func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading flow file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a flow definition.
func Parse(data []byte) (*Spec, error) {
	spec := &Spec{}
	if err := yaml.Unmarshal(data, spec); err != nil {
		return nil, fmt.Errorf("parsing flow file: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

// Validate checks that the spec names a known flow and carries the fields
// that flow requires.
func (s *Spec) Validate() error {
	switch s.Flow {
	case FlowChain:
		if len(s.Prompts) == 0 {
			return fmt.Errorf("chain flow requires prompts")
		}
	case FlowParallel:
		if s.Prompt == "" {
			return fmt.Errorf("parallel flow requires prompt")
		}
		if len(s.Inputs) == 0 {
			return fmt.Errorf("parallel flow requires inputs")
		}
	case FlowRoute:
		if len(s.Routes) == 0 {
			return fmt.Errorf("route flow requires routes")
		}
	case FlowRefine:
		if s.Task == "" {
			return fmt.Errorf("refine flow requires task")
		}
	case FlowOrchestrate:
		if s.Task == "" {
			return fmt.Errorf("orchestrate flow requires task")
		}
	case "":
		return fmt.Errorf("flow file must name a flow (chain, parallel, route, refine, orchestrate)")
	default:
		return fmt.Errorf("unknown flow %q", s.Flow)
	}
	return nil
}
