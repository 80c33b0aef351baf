package splitter

import (
	"log/slog"
	"strings"

	"github.com/w-h-a/minutes/tokenizer"
)

// Chunk is one token-bounded piece of a source document. Truncated marks the
// lossy fallback taken when no delimiter produced a viable split.
type Chunk struct {
	Text      string
	Truncated bool
}

// Splitter cuts arbitrary-length text into chunks that each fit the token
// budget, preferring natural boundaries and balancing token counts across
// the two halves of every split.
type Splitter struct {
	options   Options
	tokenizer tokenizer.Tokenizer
}

// Split returns the chunks of text in document order. Concatenating the
// chunk texts, re-inserting the delimiter consumed at each split point,
// reconstructs the input exactly unless a chunk is marked Truncated.
func (s *Splitter) Split(text string) []Chunk {
	return s.split(text, s.options.MaxDepth)
}

func (s *Splitter) split(text string, depth int) []Chunk {
	if s.tokenizer.Count(text) <= s.options.MaxTokens {
		return []Chunk{{Text: text}}
	}

	if depth <= 0 {
		return []Chunk{s.truncate(text)}
	}

	for _, delimiter := range s.options.Delimiters {
		left, right := s.halve(text, delimiter)
		if len(left) == 0 || len(right) == 0 {
			// delimiter absent or too lopsided; retry with a finer one
			continue
		}

		chunks := s.split(left, depth-1)
		chunks = append(chunks, s.split(right, depth-1)...)
		return chunks
	}

	return []Chunk{s.truncate(text)}
}

// halve splits text in two on delimiter, scanning segment boundaries for the
// point closest to half the total token count. The scan stops at the first
// boundary that no longer improves the distance to the halfway mark, so ties
// favor the earlier boundary. Either side may come back empty, which tells
// the caller this delimiter is unusable.
func (s *Splitter) halve(text string, delimiter string) (string, string) {
	segments := strings.Split(text, delimiter)

	if len(segments) == 1 {
		return text, ""
	}

	if len(segments) == 2 {
		return segments[0], segments[1]
	}

	halfway := s.tokenizer.Count(text) / 2
	bestDiff := halfway

	var i int
	for i = range segments {
		left := strings.Join(segments[:i+1], delimiter)
		diff := halfway - s.tokenizer.Count(left)
		if diff < 0 {
			diff = -diff
		}
		if diff >= bestDiff {
			break
		}
		bestDiff = diff
	}

	return strings.Join(segments[:i], delimiter), strings.Join(segments[i:], delimiter)
}

func (s *Splitter) truncate(text string) Chunk {
	cut, truncated := s.tokenizer.Truncate(text, s.options.MaxTokens)
	if truncated {
		slog.Warn(
			"no viable split found; chunk truncated to token budget",
			"max_tokens", s.options.MaxTokens,
			"original_tokens", s.tokenizer.Count(text),
		)
	}
	return Chunk{Text: cut, Truncated: truncated}
}

func New(tokenizer tokenizer.Tokenizer, opts ...Option) *Splitter {
	if tokenizer == nil {
		panic("tokenizer is required")
	}

	options := NewOptions(opts...)

	return &Splitter{
		options:   options,
		tokenizer: tokenizer,
	}
}
