package splitter

import "context"

type Option func(*Options)

type Options struct {
	MaxTokens  int
	MaxDepth   int
	Delimiters []string
	Context    context.Context
}

func WithMaxTokens(maxTokens int) Option {
	return func(o *Options) {
		o.MaxTokens = maxTokens
	}
}

func WithMaxDepth(maxDepth int) Option {
	return func(o *Options) {
		o.MaxDepth = maxDepth
	}
}

func WithDelimiters(delimiters ...string) Option {
	return func(o *Options) {
		o.Delimiters = delimiters
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		MaxTokens:  1600,
		MaxDepth:   5,
		Delimiters: []string{"\n\n", "\n", ". "},
		Context:    context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
