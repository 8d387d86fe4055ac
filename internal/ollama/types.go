// Package ollama provides types for the Ollama API client.
package ollama

import "time"

// Role identifies the author of a chat message.
type Role string

// Roles understood by the prompt flattener.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	Role    Role
	Content string
}

// ChunkKind tells the caller which channel a Chunk belongs to.
type ChunkKind string

const (
	KindReasoning ChunkKind = "reasoning"
	KindAnswer    ChunkKind = "answer"
	KindFinal     ChunkKind = "final" // Aggregate of both channels, always last.
)

// Chunk is one unit of classified streaming output.
type Chunk struct {
	Kind      ChunkKind
	Reasoning string
	Answer    string
}

// Text returns the field matching the chunk's kind. For a final chunk it
// returns the full answer.
func (c Chunk) Text() string {
	if c.Kind == KindReasoning {
		return c.Reasoning
	}
	return c.Answer
}

// ModelInfo describes a locally available model.
type ModelInfo struct {
	Name       string    `json:"name"`
	ModifiedAt time.Time `json:"modified_at"`
	Size       int64     `json:"size"`
	Digest     string    `json:"digest"`
}

// generateRequest is the request body sent to /api/generate.
// Field order matches the wire layout: model, stream, options, prompt.
type generateRequest struct {
	Model   string           `json:"model"`
	Stream  bool             `json:"stream"`
	Options *generateOptions `json:"options,omitempty"`
	Prompt  string           `json:"prompt"`
}

// generateOptions controls generation parameters.
type generateOptions struct {
	NumCtx int `json:"num_ctx"`
}

// generateResponse is one response object from /api/generate. In streaming
// mode every line of the body is one of these.
type generateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// listModelsResponse is the response body from /api/tags.
type listModelsResponse struct {
	Models []ModelInfo `json:"models"`
}

// apiError is the error body the service returns on failure.
type apiError struct {
	Error string `json:"error"`
}
