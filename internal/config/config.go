// Package config handles loading and persisting user configuration
// for ollamalib. Configuration is stored in ~/.ollamalib/config.json.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	dirName  = ".ollamalib"
	fileName = "config.json"

	DefaultBaseURL        = "http://localhost:11434"
	DefaultModel          = "deepseek-r1:14b"
	DefaultContextWindow  = 8000
	DefaultTimeoutSeconds = 300

	envKeyModel   = "OLLAMALIB_MODEL"
	envKeyHost    = "OLLAMA_HOST"
	envKeyVerbose = "OLLAMALIB_VERBOSE"
)

// Config holds the user's configuration.
type Config struct {
	Model          string `json:"model"`
	BaseURL        string `json:"base_url"`
	ContextWindow  int    `json:"context_window"`
	TimeoutSeconds int    `json:"timeout_seconds"` // 0 disables the request timeout
	Verbose        bool   `json:"verbose"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Model:          DefaultModel,
		BaseURL:        DefaultBaseURL,
		ContextWindow:  DefaultContextWindow,
		TimeoutSeconds: DefaultTimeoutSeconds,
	}
}

// Dir returns the configuration directory path.
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, dirName)
}

func configPath() string {
	return filepath.Join(Dir(), fileName)
}

// Load reads the configuration from disk and environment variables.
// A missing or unreadable file leaves the defaults in place.
func Load() (*Config, error) {
	cfg := readFile()

	if model := os.Getenv(envKeyModel); model != "" {
		cfg.Model = model
	}
	if host := os.Getenv(envKeyHost); host != "" {
		cfg.BaseURL = NormalizeBaseURL(host)
	}
	if v := os.Getenv(envKeyVerbose); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Verbose = b
		}
	}

	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.ContextWindow <= 0 {
		cfg.ContextWindow = DefaultContextWindow
	}
	if cfg.TimeoutSeconds < 0 {
		cfg.TimeoutSeconds = DefaultTimeoutSeconds
	}

	return cfg, nil
}

// NormalizeBaseURL accepts the forms OLLAMA_HOST is usually given in
// ("localhost:11434", "http://host:port/") and returns a URL without a
// trailing slash.
func NormalizeBaseURL(raw string) string {
	u := strings.TrimSpace(raw)
	if u == "" {
		return ""
	}
	if !strings.Contains(u, "://") {
		u = "http://" + u
	}
	return strings.TrimRight(u, "/")
}

// readFile returns the defaults overlaid with whatever the config file holds.
func readFile() *Config {
	cfg := Default()
	data, err := os.ReadFile(configPath())
	if err == nil {
		_ = json.Unmarshal(data, cfg)
	}
	return cfg
}

// save persists the config to disk.
func save(cfg *Config) error {
	if err := os.MkdirAll(Dir(), 0o700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath(), data, 0o600)
}

// SetModel saves the model preference to the config file.
func SetModel(model string) error {
	cfg := readFile()
	cfg.Model = model
	return save(cfg)
}

// SetBaseURL saves the API base URL to the config file.
func SetBaseURL(url string) error {
	cfg := readFile()
	cfg.BaseURL = NormalizeBaseURL(url)
	return save(cfg)
}
