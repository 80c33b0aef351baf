package generator

import (
	"context"
	"errors"
)

// ErrNoContent indicates the backend answered but produced no usable text.
var ErrNoContent = errors.New("no content in model response")

type Generator interface {
	// Generate issues one chat completion with a system instruction and a
	// user prompt. Retry policy belongs to the caller.
	Generate(ctx context.Context, system string, prompt string) (string, error)
}
