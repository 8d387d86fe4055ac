// Package ollama: stream.go provides the pull-based streams returned by the
// streaming calls. Each stream owns its response body and releases it on
// exhaustion, on Close, and when a range over All stops early.
package ollama

import (
	"io"
	"iter"
	"log/slog"
	"sync"
)

// bodyCloser closes a response body exactly once.
type bodyCloser struct {
	once sync.Once
	body io.Closer
	err  error
}

func (b *bodyCloser) close() error {
	b.once.Do(func() {
		if b.body != nil {
			b.err = b.body.Close()
		}
	})
	return b.err
}

// TextStream yields raw incremental payloads, in order.
type TextStream struct {
	dec    *LineDecoder
	closer bodyCloser
	text   string
	done   bool
}

// NewTextStream wraps a newline-delimited JSON body. The stream takes
// ownership of body.
func NewTextStream(body io.ReadCloser, logger *slog.Logger) *TextStream {
	return &TextStream{
		dec:    NewLineDecoder(body, logger),
		closer: bodyCloser{body: body},
	}
}

// Next advances to the next payload. It returns false once the body is
// exhausted, a read error occurred, or the stream was closed.
func (s *TextStream) Next() bool {
	if s.done {
		return false
	}
	if s.dec.Next() {
		s.text = s.dec.Payload()
		return true
	}
	s.text = ""
	s.done = true
	s.closer.close()
	return false
}

// Text returns the payload produced by the last call to Next.
func (s *TextStream) Text() string {
	return s.text
}

// Err returns the read error that ended the stream, if any.
func (s *TextStream) Err() error {
	return s.dec.Err()
}

// Close releases the response body. It is safe to call more than once.
func (s *TextStream) Close() error {
	s.done = true
	return s.closer.close()
}

// All returns an iterator over the remaining payloads. The stream is closed
// when the loop ends, whether by exhaustion or break.
func (s *TextStream) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		defer s.Close()
		for s.Next() {
			if !yield(s.Text()) {
				return
			}
		}
	}
}

// ReasoningStream yields classified chunks followed by exactly one final
// chunk once the body is exhausted.
type ReasoningStream struct {
	dec    *LineDecoder
	closer bodyCloser
	state  ClassifierState
	chunk  Chunk
	done   bool
}

// NewReasoningStream wraps a newline-delimited JSON body. The stream takes
// ownership of body.
func NewReasoningStream(body io.ReadCloser, logger *slog.Logger) *ReasoningStream {
	return &ReasoningStream{
		dec:    NewLineDecoder(body, logger),
		closer: bodyCloser{body: body},
		state:  NewClassifierState(),
	}
}

// Next advances to the next chunk. After the last payload it yields the
// final chunk once, then returns false. A read error ends the stream without
// a final chunk.
func (s *ReasoningStream) Next() bool {
	if s.done {
		return false
	}
	if s.dec.Next() {
		s.state, s.chunk = Classify(s.state, s.dec.Payload())
		return true
	}

	s.done = true
	s.closer.close()
	if s.dec.Err() != nil {
		s.chunk = Chunk{}
		return false
	}
	s.chunk = Finalize(s.state)
	s.state = ClassifierState{}
	return true
}

// Chunk returns the chunk produced by the last call to Next.
func (s *ReasoningStream) Chunk() Chunk {
	return s.chunk
}

// Err returns the read error that ended the stream, if any.
func (s *ReasoningStream) Err() error {
	return s.dec.Err()
}

// Close releases the response body. It is safe to call more than once; a
// stream closed before exhaustion yields no final chunk.
func (s *ReasoningStream) Close() error {
	s.done = true
	return s.closer.close()
}

// All returns an iterator over the remaining chunks, final chunk included.
// The stream is closed when the loop ends, whether by exhaustion or break.
func (s *ReasoningStream) All() iter.Seq[Chunk] {
	return func(yield func(Chunk) bool) {
		defer s.Close()
		for s.Next() {
			if !yield(s.Chunk()) {
				return
			}
		}
	}
}
