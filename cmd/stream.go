package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/arin/ollamalib/internal/config"
	"github.com/arin/ollamalib/internal/ollama"
	"github.com/arin/ollamalib/internal/ui"
	"github.com/spf13/cobra"
)

const maxStdinChars = 4000

var streamCmd = &cobra.Command{
	Use:   "stream <prompt>",
	Short: "Stream raw tokens without separating reasoning",
	Long: `Stream a completion token by token, exactly as the model produces it.

Examples:
  ollamalib stream tell me a story in 100 words
  cat notes.txt | ollamalib stream summarize this`,
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
		msgs := []ollama.ChatMessage{{Role: ollama.RoleUser, Content: prompt}}
		stream, err := client.StreamCompletion(cmd.Context(), msgs, cfg.Model, cfg.ContextWindow)
		if err != nil {
			return friendlyError(err, cfg)
		}

		ui.RenderText(os.Stdout, stream.All(), "")
		if err := stream.Err(); err != nil {
			return fmt.Errorf("stream interrupted: %w", err)
		}
		return nil
	},
}

// streamReasoning runs a reasoning stream for msgs and renders it to stdout.
// It returns the final chunk.
func streamReasoning(cmd *cobra.Command, client *ollama.Client, cfg *config.Config, msgs []ollama.ChatMessage, showReasoning bool) (ollama.Chunk, error) {
	sp := ui.NewSpinner("Thinking...")
	sp.Start()
	stream, err := client.StreamCompletionWithReasoning(cmd.Context(), msgs, cfg.Model, cfg.ContextWindow)
	sp.Stop()
	if err != nil {
		return ollama.Chunk{}, friendlyError(err, cfg)
	}

	final := ui.RenderReasoning(os.Stdout, stream.All(), showReasoning)
	if err := stream.Err(); err != nil {
		return final, fmt.Errorf("stream interrupted: %w", err)
	}
	return final, nil
}

// readStdin reads piped input if available.
func readStdin() string {
	if ui.IsTerminal(os.Stdin) {
		return ""
	}
	info, err := os.Stdin.Stat()
	if err != nil || (info.Mode()&os.ModeNamedPipe == 0 && !info.Mode().IsRegular()) {
		return ""
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return ""
	}
	s := strings.TrimSpace(string(data))
	// Limit input to keep the prompt reasonable.
	if len(s) > maxStdinChars {
		s = s[:maxStdinChars] + "\n... (truncated)"
	}
	return s
}
