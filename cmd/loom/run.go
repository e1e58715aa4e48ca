package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/loom-ai/loom/internal/config"
	"github.com/loom-ai/loom/internal/flowspec"
	"github.com/loom-ai/loom/pkg/flows"
	"github.com/loom-ai/loom/pkg/llm"
)

var (
	runTimeout time.Duration
	runVerbose bool
	runModel   string
)

var runCmd = &cobra.Command{
	Use:   "run <flow.yaml>",
	Short: "Run a flow file",
	Long: `Run the flow defined in a YAML flow file.

The file names one pattern and supplies its prompts and inputs, e.g.:

  flow: route
  input: my invoice is wrong
  routes:
    billing: You are a billing specialist. Resolve the issue below.
    technical: You are a support engineer. Resolve the issue below.

The run is bounded by --timeout; a timeout fails the run like any other
error. Partial results are never printed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := flowspec.Load(args[0])
		if err != nil {
			return err
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		client, err := buildClient(cfg, spec.Model)
		if err != nil {
			return err
		}

		var opts []flows.Option
		if runVerbose || cfg.Defaults.Verbose {
			logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
			opts = append(opts, flows.WithObserver(flows.NewLogObserver(logger)))
		}
		runner := flows.New(client, opts...)

		timeout := runTimeout
		if timeout == 0 {
			timeout = cfg.Defaults.Timeout
		}
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		if err := executeFlow(ctx, runner, spec); err != nil {
			return err
		}

		printUsage(client.Tracker())
		return nil
	},
}

func init() {
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 0, "Bound the whole run (default from config)")
	runCmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Log each completion call")
	runCmd.Flags().StringVar(&runModel, "model", "", "Override the configured model")
}

// buildClient constructs the Anthropic client. Model precedence:
// --model flag, then the flow file, then config.
func buildClient(cfg *config.Config, specModel string) (*llm.AnthropicClient, error) {
	model := runModel
	if model == "" {
		model = specModel
	}
	if model == "" {
		model = cfg.Anthropic.Model
	}

	clientCfg := llm.AnthropicConfig{
		Model:         anthropic.Model(model),
		MaxTokens:     cfg.Anthropic.MaxTokens,
		UseAWSBedrock: cfg.Anthropic.UseBedrock,
		AWSRegion:     cfg.Anthropic.AWSRegion,
		AWSProfile:    cfg.Anthropic.AWSProfile,
	}
	if !cfg.Anthropic.UseBedrock {
		key, _, err := config.GetAPIKey(cfg)
		if err != nil {
			return nil, err
		}
		clientCfg.APIKey = key
	}

	return llm.NewAnthropicClient(clientCfg)
}

// executeFlow dispatches on the flow kind and prints the result.
func executeFlow(ctx context.Context, runner *flows.Runner, spec *flowspec.Spec) error {
	heading := color.New(color.FgCyan, color.Bold)
	label := color.New(color.FgYellow)

	switch spec.Flow {
	case flowspec.FlowChain:
		result, err := runner.Chain(ctx, spec.Input, spec.Prompts)
		if err != nil {
			return err
		}
		heading.Println("Result")
		fmt.Println(result)

	case flowspec.FlowParallel:
		results, err := runner.Parallel(ctx, spec.Prompt, spec.Inputs)
		if err != nil {
			return err
		}
		for i, result := range results {
			label.Printf("--- %s\n", spec.Inputs[i])
			fmt.Println(result)
		}

	case flowspec.FlowRoute:
		result, err := runner.Route(ctx, spec.Input, spec.Routes)
		if err != nil {
			return err
		}
		heading.Println("Result")
		fmt.Println(result)

	case flowspec.FlowRefine:
		res, err := runner.Refine(ctx, flows.RefineSpec{
			Task:            spec.Task,
			GeneratorPrompt: spec.GeneratorPrompt,
			EvaluatorPrompt: spec.EvaluatorPrompt,
		})
		if err != nil {
			return err
		}
		label.Printf("Accepted after %d attempt(s)\n", len(res.History))
		heading.Println("Result")
		fmt.Println(res.Result)

	case flowspec.FlowOrchestrate:
		res, err := runner.Orchestrate(ctx, flows.OrchestrateSpec{
			Task:               spec.Task,
			Context:            spec.Context,
			OrchestratorPrompt: spec.OrchestratorPrompt,
			WorkerPrompt:       spec.WorkerPrompt,
		})
		if err != nil {
			return err
		}
		heading.Println("Analysis")
		fmt.Println(res.Analysis)
		for _, w := range res.Workers {
			label.Printf("--- %s\n", w.Type)
			fmt.Println(w.Output)
		}

	default:
		return fmt.Errorf("unknown flow %q", spec.Flow)
	}
	return nil
}

// printUsage reports token usage for the run to stderr.
func printUsage(tracker *llm.TokenTracker) {
	input, output := tracker.Total()
	fmt.Fprintf(os.Stderr, "\n%d call(s), %d input / %d output tokens, ~$%.4f\n",
		tracker.Calls(), input, output, tracker.Cost())
}
