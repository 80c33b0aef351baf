package embedder

import "context"

type Option func(*Options)

type Options struct {
	ApiKey    string
	Model     string
	BatchSize int
	BaseURL   string
	Context   context.Context
}

func WithApiKey(apiKey string) Option {
	return func(o *Options) {
		o.ApiKey = apiKey
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithBatchSize(size int) Option {
	return func(o *Options) {
		o.BatchSize = size
	}
}

func WithBaseURL(baseURL string) Option {
	return func(o *Options) {
		o.BaseURL = baseURL
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Model:     "text-embedding-3-small",
		BatchSize: 1000,
		Context:   context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
