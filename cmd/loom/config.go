package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/loom-ai/loom/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show resolved configuration",
	Long: `Display the resolved configuration and where the API key comes from.

Configuration is stored at ~/.config/loom/config.yaml.
Project-specific overrides can be placed in .loom.yaml.
The ANTHROPIC_API_KEY environment variable overrides both.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		key, source, _ := config.GetAPIKey(cfg)

		heading := color.New(color.Bold)
		heading.Println("Configuration")
		fmt.Printf("  config file:        %s\n", config.GetUserConfigPath())
		if project := config.GetProjectConfigPath(); project != "" {
			fmt.Printf("  project overrides:  %s\n", project)
		}
		fmt.Printf("  anthropic.api_key:  %s (%s)\n", config.MaskAPIKey(key), source)
		fmt.Printf("  anthropic.model:    %s\n", orDefault(cfg.Anthropic.Model, "(sdk default)"))
		fmt.Printf("  anthropic.max_tokens: %d\n", cfg.Anthropic.MaxTokens)
		fmt.Printf("  anthropic.use_bedrock: %t\n", cfg.Anthropic.UseBedrock)
		if cfg.Anthropic.UseBedrock {
			fmt.Printf("  anthropic.aws_region:  %s\n", cfg.Anthropic.AWSRegion)
		}
		fmt.Printf("  defaults.timeout:   %s\n", cfg.Defaults.Timeout)
		fmt.Printf("  defaults.verbose:   %t\n", cfg.Defaults.Verbose)
	},
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
