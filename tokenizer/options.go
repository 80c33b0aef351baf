package tokenizer

import "context"

type Option func(*Options)

type Options struct {
	Model   string
	Context context.Context
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Model:   "gpt-4o-mini",
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
