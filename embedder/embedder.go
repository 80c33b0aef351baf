package embedder

import (
	"context"
	"errors"
)

// ErrOutOfOrder reports a backing service returning batch results whose
// index does not match the request order. The caller must fail rather than
// silently reorder, since chunk order carries document order.
var ErrOutOfOrder = errors.New("embedding batch out of order")

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	// EmbedBatch returns one vector per input text, in input order. Inputs
	// beyond the provider batch cap are issued as sequential requests and
	// the results concatenated in request order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}
