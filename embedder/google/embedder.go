package google

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/w-h-a/minutes/embedder"
	genaiopt "google.golang.org/api/option"
)

type googleEmbedder struct {
	options embedder.Options
	client  *genai.Client
}

func (e *googleEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	model := e.client.EmbeddingModel(e.options.Model)
	rsp, err := model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, err
	}

	if rsp == nil || rsp.Embedding == nil || len(rsp.Embedding.Values) == 0 {
		return nil, errors.New("no response from Google")
	}

	return rsp.Embedding.Values, nil
}

func (e *googleEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	model := e.client.EmbeddingModel(e.options.Model)

	for start := 0; start < len(texts); start += e.options.BatchSize {
		end := min(start+e.options.BatchSize, len(texts))
		batch := texts[start:end]

		b := model.NewBatch()
		for _, text := range batch {
			b.AddContent(genai.Text(text))
		}

		rsp, err := model.BatchEmbedContents(ctx, b)
		if err != nil {
			return nil, err
		}

		// The batch API carries no per-item index, so a count mismatch is
		// the only detectable ordering violation.
		if rsp == nil || len(rsp.Embeddings) != len(batch) {
			got := 0
			if rsp != nil {
				got = len(rsp.Embeddings)
			}
			return nil, fmt.Errorf("%w: requested %d embeddings, got %d", embedder.ErrOutOfOrder, len(batch), got)
		}

		for _, item := range rsp.Embeddings {
			vectors = append(vectors, item.Values)
		}
	}

	return vectors, nil
}

func NewEmbedder(opts ...embedder.Option) embedder.Embedder {
	options := embedder.NewOptions(opts...)

	e := &googleEmbedder{
		options: options,
	}

	client, err := genai.NewClient(
		context.Background(),
		genaiopt.WithAPIKey(options.ApiKey),
	)
	if err != nil {
		panic(err)
	}

	e.client = client

	return e
}
