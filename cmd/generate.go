package cmd

import (
	"fmt"
	"strings"

	"github.com/arin/ollamalib/internal/ui"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate <prompt>",
	Short: "Generate a completion in one shot (no streaming)",
	Long: `Send a prompt with streaming disabled and print the full response.

Examples:
  ollamalib generate "Climate Change" -m meme_maker
  echo "some log" | ollamalib generate what went wrong here`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		prompt := strings.Join(args, " ")
		if stdinData := readStdin(); stdinData != "" {
			prompt += "\n\n" + stdinData
		}
		client := newClient(cfg)

		sp := ui.NewSpinner("Generating...")
		sp.Start()
		text, err := client.GenerateText(cmd.Context(), prompt, cfg.Model)
		sp.Stop()

		if err != nil {
			return fmt.Errorf("generation failed: %w", friendlyError(err, cfg))
		}

		fmt.Println(text)
		return nil
	},
}
