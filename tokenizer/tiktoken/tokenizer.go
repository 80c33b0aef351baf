package tiktoken

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
	"github.com/w-h-a/minutes/tokenizer"
)

type tiktokenTokenizer struct {
	options  tokenizer.Options
	encoding *tiktoken.Tiktoken
}

func (t *tiktokenTokenizer) Count(text string) int {
	return len(t.encoding.Encode(text, nil, nil))
}

func (t *tiktokenTokenizer) Truncate(text string, maxTokens int) (string, bool) {
	if maxTokens < 0 {
		maxTokens = 0
	}

	tokens := t.encoding.Encode(text, nil, nil)
	if len(tokens) <= maxTokens {
		return text, false
	}

	return t.encoding.Decode(tokens[:maxTokens]), true
}

func NewTokenizer(opts ...tokenizer.Option) (tokenizer.Tokenizer, error) {
	options := tokenizer.NewOptions(opts...)

	encoding, err := tiktoken.EncodingForModel(options.Model)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", tokenizer.ErrUnknownModel, options.Model)
	}

	t := &tiktokenTokenizer{
		options:  options,
		encoding: encoding,
	}

	return t, nil
}
