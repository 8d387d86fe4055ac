package ollama

import "strings"

// Markers delimiting a reasoning segment in model output.
const (
	ThinkOpen  = "<think>"
	ThinkClose = "</think>"
)

// ClassifierState is the reasoning/answer state threaded through Classify.
// One stream owns one state for its whole lifetime.
type ClassifierState struct {
	Mode      ChunkKind // KindReasoning or KindAnswer
	Reasoning []string
	Answer    []string
}

// NewClassifierState returns the initial state. Text is treated as answer
// until an open marker is seen.
func NewClassifierState() ClassifierState {
	return ClassifierState{Mode: KindAnswer}
}

// Classify assigns payload to a channel and returns the updated state and the
// chunk to emit for it.
//
// Markers are detected by plain substring containment on each payload, open
// marker first:
//   - a payload containing "<think>" switches to reasoning and is reasoning;
//   - otherwise a payload containing "</think>" is reasoning (the closing
//     marker belongs to the trace) and switches back to answer;
//   - otherwise the payload goes to the current mode.
//
// The whole payload is classified; it is never split at a marker. A marker
// split across two payloads ("<thi", "nk>") is not detected, and a payload
// holding both markers only takes the open branch, leaving the mode in
// reasoning.
func Classify(s ClassifierState, payload string) (ClassifierState, Chunk) {
	kind := s.Mode
	switch {
	case strings.Contains(payload, ThinkOpen):
		s.Mode = KindReasoning
		kind = KindReasoning
	case strings.Contains(payload, ThinkClose):
		s.Mode = KindAnswer
		kind = KindReasoning
	}

	if kind == KindReasoning {
		s.Reasoning = append(s.Reasoning, payload)
		return s, Chunk{Kind: KindReasoning, Reasoning: payload}
	}
	s.Answer = append(s.Answer, payload)
	return s, Chunk{Kind: KindAnswer, Answer: payload}
}

// Finalize returns the aggregate chunk emitted after the last payload. It
// carries the full text of each channel in arrival order.
func Finalize(s ClassifierState) Chunk {
	return Chunk{
		Kind:      KindFinal,
		Reasoning: strings.Join(s.Reasoning, ""),
		Answer:    strings.Join(s.Answer, ""),
	}
}
