package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/minutes/embedder"
)

type embeddingItem struct {
	Object    string    `json:"object"`
	Index     int       `json:"index"`
	Embedding []float32 `json:"embedding"`
}

// newBackend fakes the embeddings endpoint. Each vector encodes the length
// of its input text so tests can verify positional correspondence.
func newBackend(t *testing.T, reorder bool, requests *int) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Input []string `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		if requests != nil {
			*requests++
		}

		data := make([]embeddingItem, len(req.Input))
		for i, text := range req.Input {
			data[i] = embeddingItem{
				Object:    "embedding",
				Index:     i,
				Embedding: []float32{float32(len(text))},
			}
		}

		if reorder && len(data) > 1 {
			data[0], data[1] = data[1], data[0]
		}

		json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"data":   data,
			"model":  "text-embedding-3-small",
		})
	}))
}

func TestEmbedBatchPreservesOrder(t *testing.T) {
	backend := newBackend(t, false, nil)
	defer backend.Close()

	e := NewEmbedder(
		embedder.WithApiKey("test"),
		embedder.WithBaseURL(backend.URL),
	)

	vectors, err := e.EmbedBatch(context.Background(), []string{"a", "bb", "ccc"})
	require.NoError(t, err)

	require.Len(t, vectors, 3)
	assert.Equal(t, []float32{1}, vectors[0])
	assert.Equal(t, []float32{2}, vectors[1])
	assert.Equal(t, []float32{3}, vectors[2])
}

func TestEmbedBatchRejectsOutOfOrderResponse(t *testing.T) {
	backend := newBackend(t, true, nil)
	defer backend.Close()

	e := NewEmbedder(
		embedder.WithApiKey("test"),
		embedder.WithBaseURL(backend.URL),
	)

	_, err := e.EmbedBatch(context.Background(), []string{"a", "bb"})
	require.Error(t, err)
	assert.ErrorIs(t, err, embedder.ErrOutOfOrder)
}

func TestEmbedBatchSplitsOversizedInput(t *testing.T) {
	var requests int
	backend := newBackend(t, false, &requests)
	defer backend.Close()

	e := NewEmbedder(
		embedder.WithApiKey("test"),
		embedder.WithBaseURL(backend.URL),
		embedder.WithBatchSize(2),
	)

	vectors, err := e.EmbedBatch(context.Background(), []string{"a", "bb", "ccc", "dddd", "eeeee"})
	require.NoError(t, err)

	assert.Equal(t, 3, requests)
	require.Len(t, vectors, 5)
	assert.Equal(t, []float32{5}, vectors[4])
}

func TestEmbedReturnsFirstVector(t *testing.T) {
	backend := newBackend(t, false, nil)
	defer backend.Close()

	e := NewEmbedder(
		embedder.WithApiKey("test"),
		embedder.WithBaseURL(backend.URL),
	)

	vector, err := e.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []float32{5}, vector)
}
