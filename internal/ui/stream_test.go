package ui

import (
	"bytes"
	"slices"
	"strings"
	"testing"

	"github.com/arin/ollamalib/internal/ollama"
	"github.com/fatih/color"
)

func init() {
	color.NoColor = true
}

func TestRenderText_BasicTokens(t *testing.T) {
	var buf bytes.Buffer
	result := RenderText(&buf, slices.Values([]string{"hello", " world"}), "  ")

	if result != "hello world" {
		t.Errorf("expected 'hello world', got %q", result)
	}
	// Output should start with the prefix.
	if !strings.HasPrefix(buf.String(), "  hello") {
		t.Errorf("expected output to start with prefix, got %q", buf.String())
	}
}

func TestRenderText_EmptyPrefix(t *testing.T) {
	var buf bytes.Buffer
	result := RenderText(&buf, slices.Values([]string{"test"}), "")

	if result != "test" {
		t.Errorf("expected 'test', got %q", result)
	}
	if strings.HasPrefix(buf.String(), " ") {
		t.Error("empty prefix should not add leading space")
	}
}

func TestRenderText_SkipsEmptyTokens(t *testing.T) {
	var buf bytes.Buffer
	result := RenderText(&buf, slices.Values([]string{"", "hello", ""}), ">> ")

	if result != "hello" {
		t.Errorf("expected 'hello', got %q", result)
	}
	if buf.String() != ">> hello\n" {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestRenderText_EmptyStream(t *testing.T) {
	var buf bytes.Buffer
	result := RenderText(&buf, slices.Values([]string(nil)), ">> ")

	if result != "" {
		t.Errorf("expected empty result, got %q", result)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestRenderText_PreservesExistingNewline(t *testing.T) {
	var buf bytes.Buffer
	RenderText(&buf, slices.Values([]string{"ends with newline\n"}), "")

	// Should not double-newline.
	if buf.String() != "ends with newline\n" {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestRenderReasoning_HeadersOnKindChange(t *testing.T) {
	chunks := []ollama.Chunk{
		{Kind: ollama.KindReasoning, Reasoning: "<think>adding"},
		{Kind: ollama.KindReasoning, Reasoning: " numbers</think>"},
		{Kind: ollama.KindAnswer, Answer: "5"},
		{Kind: ollama.KindFinal, Reasoning: "<think>adding numbers</think>", Answer: "5"},
	}

	var buf bytes.Buffer
	final := RenderReasoning(&buf, slices.Values(chunks), true)

	want := "----- reasoning\n<think>adding numbers</think>\n----- answer\n5\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
	if final.Kind != ollama.KindFinal || final.Answer != "5" {
		t.Errorf("unexpected final chunk: %+v", final)
	}
}

func TestRenderReasoning_HidesReasoning(t *testing.T) {
	chunks := []ollama.Chunk{
		{Kind: ollama.KindReasoning, Reasoning: "<think>secret</think>"},
		{Kind: ollama.KindAnswer, Answer: "visible"},
		{Kind: ollama.KindFinal, Reasoning: "<think>secret</think>", Answer: "visible"},
	}

	var buf bytes.Buffer
	RenderReasoning(&buf, slices.Values(chunks), false)

	if strings.Contains(buf.String(), "secret") {
		t.Errorf("reasoning should be hidden, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("answer should be shown, got %q", buf.String())
	}
}

func TestRenderReasoning_NoFinalChunk(t *testing.T) {
	chunks := []ollama.Chunk{{Kind: ollama.KindAnswer, Answer: "cut off"}}

	var buf bytes.Buffer
	final := RenderReasoning(&buf, slices.Values(chunks), true)

	if final.Kind != "" {
		t.Errorf("expected zero chunk, got %+v", final)
	}
	if !strings.HasSuffix(buf.String(), "cut off\n") {
		t.Errorf("output should end with newline, got %q", buf.String())
	}
}

func TestRenderReasoning_SkipsEmptyPayloads(t *testing.T) {
	chunks := []ollama.Chunk{
		{Kind: ollama.KindAnswer, Answer: ""},
		{Kind: ollama.KindFinal},
	}

	var buf bytes.Buffer
	RenderReasoning(&buf, slices.Values(chunks), true)

	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}
