// Package ollama handles communication with Ollama's local API: one-shot
// generation, token streaming, and streaming with the model's <think>
// reasoning separated from its answer.
package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/arin/ollamalib/internal/config"
	"github.com/google/uuid"
)

const (
	generatePath = "/api/generate"
	tagsPath     = "/api/tags"
)

// Client communicates with the Ollama API. Calls share no mutable state;
// each stream owns its own connection.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	verbose    bool
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger for diagnostics and verbose output.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client from cfg. A nil cfg uses config.Default().
func NewClient(cfg *config.Config, opts ...Option) *Client {
	if cfg == nil {
		cfg = config.Default()
	}
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		logger:     slog.Default(),
		verbose:    cfg.Verbose,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GenerateText sends prompt to model with streaming disabled and returns the
// generated text. A missing "response" field yields "". Any transport failure
// is returned as a *TransportError; no partial result is returned with it.
func (c *Client) GenerateText(ctx context.Context, prompt, model string) (string, error) {
	log := c.requestLogger("generate", model)
	resp, err := c.post(ctx, log, "generate", newGenerateRequest(model, prompt))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if c.verbose {
		log.Info("raw response", slog.String("body", string(respBody)))
	}

	var genResp generateResponse
	if err := json.Unmarshal(respBody, &genResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	return genResp.Response, nil
}

// StreamCompletion sends the flattened history to model and returns a stream
// of raw text payloads. contextWindow <= 0 uses DefaultContextWindow. The
// caller must drain or Close the stream.
func (c *Client) StreamCompletion(ctx context.Context, messages []ChatMessage, model string, contextWindow int) (*TextStream, error) {
	log := c.requestLogger("stream", model)
	resp, err := c.post(ctx, log, "stream", newStreamRequest(model, messages, contextWindow))
	if err != nil {
		return nil, err
	}
	return NewTextStream(resp.Body, log), nil
}

// StreamCompletionWithReasoning is StreamCompletion with each payload
// classified as reasoning or answer, followed by one final aggregate chunk.
// The caller must drain or Close the stream.
func (c *Client) StreamCompletionWithReasoning(ctx context.Context, messages []ChatMessage, model string, contextWindow int) (*ReasoningStream, error) {
	log := c.requestLogger("stream", model)
	resp, err := c.post(ctx, log, "stream", newStreamRequest(model, messages, contextWindow))
	if err != nil {
		return nil, err
	}
	return NewReasoningStream(resp.Body, log), nil
}

// ListModels returns the models available on the server.
func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	url := c.baseURL + tagsPath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.do(req, "tags")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var tags listModelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return tags.Models, nil
}

// post sends body to the generate endpoint. On success the caller owns the
// response body.
func (c *Client) post(ctx context.Context, log *slog.Logger, op string, body generateRequest) (*http.Response, error) {
	req, data, err := newJSONRequest(ctx, c.baseURL+generatePath, body)
	if err != nil {
		return nil, err
	}
	if c.verbose {
		log.Info("sending request",
			slog.Any("headers", req.Header),
			slog.Int("bytes", len(data)),
			slog.String("data", string(data)))
	}

	resp, err := c.do(req, op)
	if err != nil {
		return nil, err
	}
	if c.verbose {
		log.Info("raw response is", slog.String("status", resp.Status), slog.Any("headers", resp.Header))
	}
	return resp, nil
}

// do executes req and turns connection failures and non-2xx statuses into
// a *TransportError. The body of a failed response is always closed.
func (c *Client) do(req *http.Request, op string) (*http.Response, error) {
	url := req.URL.String()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, URL: url, Err: fmt.Errorf("%w: %w", ErrUnreachable, err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, statusError(op, url, resp.StatusCode, readErrorMessage(resp.Body))
	}
	return resp, nil
}

// readErrorMessage extracts the "error" field from a failure body. A body
// that is not a JSON object with that field yields its trimmed raw text.
func readErrorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 64*1024))
	if err != nil {
		return ""
	}
	var apiErr apiError
	if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.Error != "" {
		return apiErr.Error
	}
	return strings.TrimSpace(string(raw))
}

func (c *Client) requestLogger(op, model string) *slog.Logger {
	return c.logger.With(
		slog.String("request_id", uuid.NewString()),
		slog.String("op", op),
		slog.String("model", model),
	)
}
