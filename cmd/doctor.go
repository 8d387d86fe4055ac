package cmd

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/arin/ollamalib/internal/config"
	"github.com/arin/ollamalib/internal/ollama"
	"github.com/arin/ollamalib/internal/ui"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const doctorTimeout = 3 * time.Second

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check Ollama connectivity and configuration",
	Long: `Run a health check on your setup.
Verifies the Ollama install, server connectivity, model availability
and the configuration directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		green := color.New(color.FgGreen)
		red := color.New(color.FgRed)
		yellow := color.New(color.FgYellow)
		dim := color.New(color.FgHiBlack)
		cyan := color.New(color.FgCyan, color.Bold)

		cyan.Fprintf(os.Stderr, "\n  ollamalib doctor\n\n")

		pass, fail, warn := 0, 0, 0

		check := func(name string, fn func() (string, error)) {
			detail, err := fn()
			if err != nil {
				if strings.HasPrefix(err.Error(), "warn:") {
					yellow.Fprintf(os.Stderr, "  ⚠ %s\n", name)
					dim.Fprintf(os.Stderr, "    %s\n", strings.TrimPrefix(err.Error(), "warn:"))
					warn++
				} else {
					red.Fprintf(os.Stderr, "  ✗ %s\n", name)
					dim.Fprintf(os.Stderr, "    %s\n", err.Error())
					fail++
				}
			} else {
				green.Fprintf(os.Stderr, "  ✓ %s", name)
				if detail != "" {
					dim.Fprintf(os.Stderr, " — %s", detail)
				}
				fmt.Fprintln(os.Stderr)
				pass++
			}
		}

		// 1. Ollama binary, only needed when the server runs locally
		check("Ollama installed", func() (string, error) {
			out, err := exec.Command("ollama", "--version").CombinedOutput()
			if err != nil {
				return "", fmt.Errorf("warn:ollama not found in PATH — fine if the server runs elsewhere")
			}
			return strings.TrimSpace(string(out)), nil
		})

		// 2. Server reachable, 3. model pulled
		client := newClient(cfg)
		sp := ui.NewSpinner("Contacting " + cfg.BaseURL + "...")
		sp.Start()
		ctx, cancel := context.WithTimeout(cmd.Context(), doctorTimeout)
		models, listErr := client.ListModels(ctx)
		cancel()
		sp.Stop()

		check("Ollama server reachable", func() (string, error) {
			if listErr != nil {
				return "", friendlyError(listErr, cfg)
			}
			return client.BaseURL(), nil
		})

		check(fmt.Sprintf("Model available (%s)", cfg.Model), func() (string, error) {
			if listErr != nil {
				return "", fmt.Errorf("skipped — server not reachable")
			}
			if hasModel(models, cfg.Model) {
				return "ready", nil
			}
			return "", fmt.Errorf("model not found — run: ollama pull %s", cfg.Model)
		})

		// 4. Config directory
		check("Config directory", func() (string, error) {
			dir := config.Dir()
			info, err := os.Stat(dir)
			if err != nil {
				return "", fmt.Errorf("warn:%s not found — defaults in use", dir)
			}
			if !info.IsDir() {
				return "", fmt.Errorf("%s exists but is not a directory", dir)
			}
			return dir, nil
		})

		// 5. OS and arch
		check("System info", func() (string, error) {
			return fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH), nil
		})

		// Summary
		fmt.Fprintln(os.Stderr)
		total := pass + fail + warn
		if fail == 0 && warn == 0 {
			green.Fprintf(os.Stderr, "  All %d checks passed. You're good to go.\n\n", total)
		} else if fail == 0 {
			yellow.Fprintf(os.Stderr, "  %d passed, %d warnings. Everything works, but some things could be better.\n\n", pass, warn)
		} else {
			red.Fprintf(os.Stderr, "  %d passed, %d failed, %d warnings. Fix the failures above.\n\n", pass, fail, warn)
		}

		return nil
	},
}

// hasModel reports whether name is among models. A name without a tag
// matches any tag of that model.
func hasModel(models []ollama.ModelInfo, name string) bool {
	for _, m := range models {
		if m.Name == name {
			return true
		}
		if !strings.Contains(name, ":") && strings.Split(m.Name, ":")[0] == name {
			return true
		}
	}
	return false
}
