package composer

import "context"

type Option func(*Options)

type Options struct {
	TopN        int
	TokenBudget int
	Context     context.Context
}

func WithTopN(topN int) Option {
	return func(o *Options) {
		o.TopN = topN
	}
}

func WithTokenBudget(budget int) Option {
	return func(o *Options) {
		o.TokenBudget = budget
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		TopN:        1,
		TokenBudget: 4096 - 500,
		Context:     context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
