package cmd

import (
	"fmt"

	"github.com/arin/ollamalib/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage ollamalib configuration",
}

var setModelCmd = &cobra.Command{
	Use:   "set-model <model-name>",
	Short: "Set the default model (default: " + config.DefaultModel + ")",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.SetModel(args[0]); err != nil {
			return fmt.Errorf("failed to save model: %w", err)
		}
		fmt.Printf("Model set to %s.\n", args[0])
		return nil
	},
}

var setURLCmd = &cobra.Command{
	Use:   "set-url <base-url>",
	Short: "Set the Ollama API base URL (default: " + config.DefaultBaseURL + ")",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.SetBaseURL(args[0]); err != nil {
			return fmt.Errorf("failed to save base URL: %w", err)
		}
		fmt.Printf("Base URL set to %s.\n", config.NormalizeBaseURL(args[0]))
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		timeout := "none"
		if cfg.TimeoutSeconds > 0 {
			timeout = fmt.Sprintf("%ds", cfg.TimeoutSeconds)
		}
		fmt.Printf("Model:          %s\n", cfg.Model)
		fmt.Printf("Base URL:       %s\n", cfg.BaseURL)
		fmt.Printf("Context window: %d\n", cfg.ContextWindow)
		fmt.Printf("Timeout:        %s\n", timeout)
		fmt.Printf("Verbose:        %t\n", cfg.Verbose)
		fmt.Printf("Config Dir:     %s\n", config.Dir())
		return nil
	},
}

func init() {
	configCmd.AddCommand(setModelCmd)
	configCmd.AddCommand(setURLCmd)
	configCmd.AddCommand(showCmd)
}
