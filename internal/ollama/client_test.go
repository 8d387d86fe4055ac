package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/arin/ollamalib/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOllama records the last /api/generate request and replies with status
// and body.
type fakeOllama struct {
	status   int
	body     string
	lastBody map[string]any
	lastType string
	calls    int
}

func (f *fakeOllama) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calls++
		if r.URL.Path != generatePath || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		f.lastType = r.Header.Get("Content-Type")
		data, _ := io.ReadAll(r.Body)
		f.lastBody = nil
		if err := json.Unmarshal(data, &f.lastBody); err != nil {
			t.Errorf("request body is not JSON: %v", err)
		}
		w.WriteHeader(f.status)
		io.WriteString(w, f.body)
	})
}

func newTestClient(t *testing.T, fake *fakeOllama) *Client {
	t.Helper()
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.BaseURL = srv.URL
	logger, _ := bufferLogger()
	return NewClient(cfg, WithLogger(logger))
}

func TestGenerateText_ReturnsResponseField(t *testing.T) {
	fake := &fakeOllama{status: http.StatusOK, body: `{"model":"meme_maker","response":"Climate memes","done":true}`}
	client := newTestClient(t, fake)

	text, err := client.GenerateText(context.Background(), "Climate Change", "meme_maker")
	require.NoError(t, err)
	assert.Equal(t, "Climate memes", text)

	assert.Equal(t, "application/json", fake.lastType)
	assert.Equal(t, map[string]any{"model": "meme_maker", "stream": false, "prompt": "Climate Change"}, fake.lastBody)
}

func TestGenerateText_MissingResponseFieldIsEmpty(t *testing.T) {
	client := newTestClient(t, &fakeOllama{status: http.StatusOK, body: `{"done":true}`})

	text, err := client.GenerateText(context.Background(), "hi", "m")
	require.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestGenerateText_BadRequestCarriesServiceMessage(t *testing.T) {
	client := newTestClient(t, &fakeOllama{status: http.StatusBadRequest, body: `{"error":"invalid options"}`})

	text, err := client.GenerateText(context.Background(), "hi", "m")
	require.Error(t, err)
	assert.Empty(t, text)

	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusBadRequest, te.StatusCode)
	assert.Equal(t, "invalid options", te.Message)
	assert.Equal(t, "generate", te.Op)
	assert.Contains(t, err.Error(), "status 400")
}

func TestGenerateText_ServerErrorWithPlainBody(t *testing.T) {
	client := newTestClient(t, &fakeOllama{status: http.StatusInternalServerError, body: "boom\n"})

	_, err := client.GenerateText(context.Background(), "hi", "m")
	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusInternalServerError, te.StatusCode)
	assert.Equal(t, "boom", te.Message)
	assert.False(t, errors.Is(err, ErrModelNotFound))
}

func TestGenerateText_ModelNotFound(t *testing.T) {
	client := newTestClient(t, &fakeOllama{status: http.StatusNotFound, body: `{"error":"model \"nope\" not found, try pulling it first"}`})

	_, err := client.GenerateText(context.Background(), "hi", "nope")
	assert.True(t, errors.Is(err, ErrModelNotFound))
}

func TestGenerateText_InvalidJSONBody(t *testing.T) {
	client := newTestClient(t, &fakeOllama{status: http.StatusOK, body: `<html>`})

	_, err := client.GenerateText(context.Background(), "hi", "m")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse response")
}

func TestGenerateText_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	cfg := config.Default()
	cfg.BaseURL = url
	client := NewClient(cfg)

	_, err := client.GenerateText(context.Background(), "hi", "m")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnreachable))

	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Zero(t, te.StatusCode)
}

func TestStreamCompletion_RequestShapeAndTokens(t *testing.T) {
	fake := &fakeOllama{status: http.StatusOK, body: ndjson("Once", " upon", " a time")}
	client := newTestClient(t, fake)

	history := []ChatMessage{
		{Role: RoleUser, Content: "Tell me a story in 100 words"},
		{Role: RoleAssistant, Content: "Sure."},
	}
	stream, err := client.StreamCompletion(context.Background(), history, "deepseek-r1:14b", 0)
	require.NoError(t, err)

	var full strings.Builder
	for text := range stream.All() {
		full.WriteString(text)
	}
	require.NoError(t, stream.Err())
	assert.Equal(t, "Once upon a time", full.String())

	assert.Equal(t, map[string]any{
		"model":   "deepseek-r1:14b",
		"stream":  true,
		"options": map[string]any{"num_ctx": float64(DefaultContextWindow)},
		"prompt":  "user: Tell me a story in 100 words\nassistant: Sure.",
	}, fake.lastBody)
}

func TestStreamCompletionWithReasoning_ClassifiesChunks(t *testing.T) {
	fake := &fakeOllama{status: http.StatusOK, body: ndjson("<think>", "2+3 is 5", "</think>", "5")}
	client := newTestClient(t, fake)

	msgs := []ChatMessage{{Role: RoleUser, Content: "What is 2+3"}}
	stream, err := client.StreamCompletionWithReasoning(context.Background(), msgs, "deepseek-r1:14b", 4096)
	require.NoError(t, err)

	var final Chunk
	var kinds []ChunkKind
	for c := range stream.All() {
		kinds = append(kinds, c.Kind)
		if c.Kind == KindFinal {
			final = c
		}
	}

	assert.Equal(t, []ChunkKind{KindReasoning, KindReasoning, KindReasoning, KindAnswer, KindFinal}, kinds)
	assert.Equal(t, "<think>2+3 is 5</think>", final.Reasoning)
	assert.Equal(t, "5", final.Answer)
	assert.Equal(t, float64(4096), fake.lastBody["options"].(map[string]any)["num_ctx"])
}

func TestStreamCompletionWithReasoning_EmptyHistorySendsEmptyPrompt(t *testing.T) {
	fake := &fakeOllama{status: http.StatusOK, body: ""}
	client := newTestClient(t, fake)

	stream, err := client.StreamCompletionWithReasoning(context.Background(), nil, "m", 0)
	require.NoError(t, err)

	var got []Chunk
	for c := range stream.All() {
		got = append(got, c)
	}
	assert.Equal(t, []Chunk{{Kind: KindFinal}}, got)

	prompt, ok := fake.lastBody["prompt"]
	require.True(t, ok, "prompt field must be present")
	assert.Equal(t, "", prompt)
}

func TestStreamCompletion_ErrorStatusFailsBeforeStreaming(t *testing.T) {
	client := newTestClient(t, &fakeOllama{status: http.StatusBadRequest, body: `{"error":"bad num_ctx"}`})

	stream, err := client.StreamCompletionWithReasoning(context.Background(), nil, "m", 0)
	assert.Nil(t, stream)

	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "stream", te.Op)
	assert.Equal(t, "bad num_ctx", te.Message)
}

func TestVerboseEchoesRequestAndResponse(t *testing.T) {
	fake := &fakeOllama{status: http.StatusOK, body: `{"response":"ok"}`}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	cfg := config.Default()
	cfg.BaseURL = srv.URL
	cfg.Verbose = true
	logger, logs := bufferLogger()
	client := NewClient(cfg, WithLogger(logger))

	_, err := client.GenerateText(context.Background(), "echo me", "m")
	require.NoError(t, err)

	out := logs.String()
	assert.Contains(t, out, "sending request")
	assert.Contains(t, out, "echo me")
	assert.Contains(t, out, "Content-Type")
	assert.Contains(t, out, "raw response")
	assert.Contains(t, out, "request_id=")
}

func TestQuietByDefault(t *testing.T) {
	fake := &fakeOllama{status: http.StatusOK, body: `{"response":"ok"}`}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	cfg := config.Default()
	cfg.BaseURL = srv.URL
	logger, logs := bufferLogger()
	client := NewClient(cfg, WithLogger(logger))

	_, err := client.GenerateText(context.Background(), "quiet", "m")
	require.NoError(t, err)
	assert.Empty(t, logs.String())
}

func TestListModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, tagsPath, r.URL.Path)
		io.WriteString(w, `{"models":[{"name":"deepseek-r1:14b","size":9000000000},{"name":"llama3.2:latest"}]}`)
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.BaseURL = srv.URL + "/"
	client := NewClient(cfg)

	models, err := client.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, "deepseek-r1:14b", models[0].Name)
	assert.Equal(t, int64(9000000000), models[0].Size)
}

func TestFlattenMessages(t *testing.T) {
	assert.Equal(t, "", FlattenMessages(nil))
	assert.Equal(t, "system: be brief\nuser: hi", FlattenMessages([]ChatMessage{
		{Role: RoleSystem, Content: "be brief"},
		{Role: RoleUser, Content: "hi"},
	}))
}
