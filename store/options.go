package store

import "context"

type Option func(*Options)

type Options struct {
	Location string
	Context  context.Context
}

func WithLocation(loc string) Option {
	return func(o *Options) {
		o.Location = loc
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

type ListOption func(*ListOptions)

type ListOptions struct {
	ProjectId string
	Context   context.Context
}

func WithProjectId(projectId string) ListOption {
	return func(o *ListOptions) {
		o.ProjectId = projectId
	}
}

func NewListOptions(opts ...ListOption) ListOptions {
	options := ListOptions{
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
