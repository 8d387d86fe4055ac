package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/arin/ollamalib/internal/config"
	"github.com/arin/ollamalib/internal/ollama"
	"github.com/spf13/cobra"
)

var (
	baseURL       string
	model         string
	contextWindow int
	timeoutSecs   int
	verbose       bool
	hideReasoning bool
)

var rootCmd = &cobra.Command{
	Use:   "ollamalib [prompt]",
	Short: "Stream completions from a local Ollama server",
	Long: `ollamalib sends prompts to a local Ollama server and streams the reply.

For reasoning models the <think> trace is shown separately from the answer.

Examples:
  ollamalib what is 2+3
  ollamalib -m qwq:32b --hide-reasoning explain monads briefly
  ollamalib generate "Climate Change" -m meme_maker
  ollamalib stream tell me a story in 100 words
  ollamalib chat`,
	Args:                       cobra.MinimumNArgs(1),
	RunE:                       runThink,
	SilenceUsage:               true,
	SilenceErrors:              true,
	TraverseChildren:           true,
	SuggestionsMinimumDistance: 1,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&baseURL, "base-url", "", "Ollama API base URL (default from config, then "+config.DefaultBaseURL+")")
	pf.StringVarP(&model, "model", "m", "", "Model to use (default from config)")
	pf.IntVar(&contextWindow, "num-ctx", 0, "Context window size in tokens for streaming requests")
	pf.IntVar(&timeoutSecs, "timeout", -1, "Request timeout in seconds, 0 for none")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Echo request and response details to stderr")

	rootCmd.Flags().BoolVar(&hideReasoning, "hide-reasoning", false, "Only print the answer")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(streamCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(doctorCmd)
}

// SetVersion sets the version reported by --version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute is the entry point called from main.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the stored configuration and applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	if baseURL != "" {
		cfg.BaseURL = config.NormalizeBaseURL(baseURL)
	}
	if model != "" {
		cfg.Model = model
	}
	if contextWindow > 0 {
		cfg.ContextWindow = contextWindow
	}
	if timeoutSecs >= 0 {
		cfg.TimeoutSeconds = timeoutSecs
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = verbose
	}
	return cfg, nil
}

// newClient builds a client whose diagnostics go to stderr. Verbose output
// is only echoed when the config asks for it.
func newClient(cfg *config.Config) *ollama.Client {
	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return ollama.NewClient(cfg, ollama.WithLogger(logger))
}

// friendlyError adds a next step to the errors users hit most often.
func friendlyError(err error, cfg *config.Config) error {
	switch {
	case errors.Is(err, ollama.ErrUnreachable):
		return fmt.Errorf("could not reach Ollama at %s — is it running? (start with: ollama serve)\n  %w", cfg.BaseURL, err)
	case errors.Is(err, ollama.ErrModelNotFound):
		return fmt.Errorf("model %q not found — run: ollama pull %s", cfg.Model, cfg.Model)
	}
	return err
}

func runThink(cmd *cobra.Command, args []string) error {
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
	_, err = streamReasoning(cmd, client, cfg, msgs, !hideReasoning)
	return err
}
