// Package ui: stream.go renders streaming completions to the terminal as
// they arrive.
package ui

import (
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/arin/ollamalib/internal/ollama"
	"github.com/fatih/color"
)

// RenderText writes tokens to w in real-time. It prepends prefix to the first
// token (e.g. "  ") for indentation. Returns the full concatenated text.
func RenderText(w io.Writer, tokens iter.Seq[string], prefix string) string {
	var full strings.Builder
	first := true

	for tok := range tokens {
		if tok == "" {
			continue
		}
		if first {
			fmt.Fprint(w, prefix)
			first = false
		}
		fmt.Fprint(w, tok)
		full.WriteString(tok)
	}

	endLine(w, full.String())
	return full.String()
}

// RenderReasoning writes classified chunks to w, printing a section header
// whenever the channel changes. Reasoning is dimmed when showReasoning is
// true and omitted otherwise. It returns the final aggregate chunk; the
// zero Chunk means the stream ended without one.
func RenderReasoning(w io.Writer, chunks iter.Seq[ollama.Chunk], showReasoning bool) ollama.Chunk {
	dim := color.New(color.FgHiBlack)
	header := color.New(color.FgCyan, color.Bold)

	var last ollama.ChunkKind
	var printed strings.Builder
	for c := range chunks {
		if c.Kind == ollama.KindFinal {
			endLine(w, printed.String())
			return c
		}
		text := c.Text()
		if text == "" || (c.Kind == ollama.KindReasoning && !showReasoning) {
			continue
		}

		if c.Kind != last {
			if printed.Len() > 0 {
				endLine(w, printed.String())
			}
			header.Fprintf(w, "----- %s\n", c.Kind)
			last = c.Kind
			printed.Reset()
		}

		if c.Kind == ollama.KindReasoning {
			dim.Fprint(w, text)
		} else {
			fmt.Fprint(w, text)
		}
		printed.WriteString(text)
	}

	endLine(w, printed.String())
	return ollama.Chunk{}
}

// endLine finishes the output with a newline unless it already ends in one.
func endLine(w io.Writer, printed string) {
	if printed != "" && !strings.HasSuffix(printed, "\n") {
		fmt.Fprintln(w)
	}
}
