package tokenizer

import "errors"

// ErrUnknownModel indicates the configured model identifier has no known
// vocabulary. Token counts are model-specific and not interchangeable, so
// there is no sensible fallback.
var ErrUnknownModel = errors.New("unknown model identifier")

type Tokenizer interface {
	// Count returns the number of tokens in text under this tokenizer's vocabulary.
	Count(text string) int
	// Truncate returns text cut to at most maxTokens tokens and reports
	// whether anything was actually cut.
	Truncate(text string, maxTokens int) (string, bool)
}
