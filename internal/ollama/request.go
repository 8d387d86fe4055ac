package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// DefaultContextWindow is the num_ctx sent with streaming requests when the
// caller does not choose one.
const DefaultContextWindow = 8000

// FlattenMessages formats a chat history as a single prompt, one
// "role: content" line per message. An empty history yields "".
func FlattenMessages(messages []ChatMessage) string {
	lines := make([]string, len(messages))
	for i, m := range messages {
		lines[i] = fmt.Sprintf("%s: %s", m.Role, m.Content)
	}
	return strings.Join(lines, "\n")
}

func newGenerateRequest(model, prompt string) generateRequest {
	return generateRequest{Model: model, Stream: false, Prompt: prompt}
}

func newStreamRequest(model string, messages []ChatMessage, contextWindow int) generateRequest {
	if contextWindow <= 0 {
		contextWindow = DefaultContextWindow
	}
	return generateRequest{
		Model:   model,
		Stream:  true,
		Options: &generateOptions{NumCtx: contextWindow},
		Prompt:  FlattenMessages(messages),
	}
}

// newJSONRequest marshals body and builds a POST request for url.
func newJSONRequest(ctx context.Context, url string, body any) (*http.Request, []byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return req, data, nil
}
