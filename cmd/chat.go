package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/arin/ollamalib/internal/ollama"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// maxHistory caps the messages sent per turn to stay within the context window.
const maxHistory = 20

var chatSystemPrompt string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Start a conversational session. The whole history is sent with each
turn, flattened into a single prompt. Reasoning is shown as it streams but only
the answer is kept in the history.

Type 'exit' or 'quit' to end the session.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		client := newClient(cfg)
		cyan := color.New(color.FgCyan, color.Bold)
		dim := color.New(color.FgHiBlack)
		green := color.New(color.FgGreen)

		fmt.Fprintln(os.Stderr)
		cyan.Fprintf(os.Stderr, "  ollamalib chat (%s)\n", cfg.Model)
		dim.Fprintf(os.Stderr, "  Type 'exit' to quit.\n\n")

		scanner := bufio.NewScanner(os.Stdin)
		var history []ollama.ChatMessage
		if chatSystemPrompt != "" {
			history = append(history, ollama.ChatMessage{Role: ollama.RoleSystem, Content: chatSystemPrompt})
		}

		for {
			green.Fprint(os.Stderr, "  you → ")
			if !scanner.Scan() {
				break
			}

			input := strings.TrimSpace(scanner.Text())
			if input == "" {
				continue
			}
			if input == "exit" || input == "quit" || input == "bye" {
				dim.Fprintf(os.Stderr, "\n  Later!\n\n")
				break
			}

			history = append(history, ollama.ChatMessage{Role: ollama.RoleUser, Content: input})

			final, err := streamReasoning(cmd, client, cfg, trimHistory(history), !hideReasoning)
			if err != nil {
				fmt.Fprintf(os.Stderr, "  Error: %v\n\n", err)
				// Drop the unanswered turn so the next one starts clean.
				history = history[:len(history)-1]
				continue
			}

			history = append(history, ollama.ChatMessage{Role: ollama.RoleAssistant, Content: final.Answer})
			fmt.Println()
		}

		return nil
	},
}

func init() {
	chatCmd.Flags().StringVar(&chatSystemPrompt, "system", "", "System message placed at the start of the history")
	chatCmd.Flags().BoolVar(&hideReasoning, "hide-reasoning", false, "Only print the answer")
}

// trimHistory keeps the last maxHistory messages, always preserving a
// leading system message.
func trimHistory(history []ollama.ChatMessage) []ollama.ChatMessage {
	if len(history) <= maxHistory {
		return history
	}
	tail := history[len(history)-maxHistory:]
	if history[0].Role != ollama.RoleSystem {
		return tail
	}
	trimmed := make([]ollama.ChatMessage, 0, maxHistory+1)
	trimmed = append(trimmed, history[0])
	return append(trimmed, tail...)
}
