package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "loom",
	Short: "Composable LLM workflow patterns",
	Long: `Loom runs explicit LLM orchestration patterns from YAML flow files:

  chain        thread one prompt's output into the next
  parallel     fan one prompt out over many inputs concurrently
  route        classify an input, then run the selected specialist prompt
  refine       generate and evaluate until the evaluator passes
  orchestrate  decompose a task, run one worker per subtask concurrently

Flows call the Anthropic API directly, or AWS Bedrock when configured.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
