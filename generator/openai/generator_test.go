package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/minutes/generator"
)

// newBackend fakes the chat completions endpoint and captures the decoded
// request body so tests can inspect exactly what went over the wire.
func newBackend(t *testing.T, captured *map[string]any) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		*captured = req

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "ok"}},
			},
		})
	}))
}

func newTestGenerator(url string, opts ...generator.Option) generator.Generator {
	base := []generator.Option{
		generator.WithApiKey("test"),
		generator.WithModel("gpt-4o-mini"),
		generator.WithBaseURL(url),
	}
	return NewGenerator(append(base, opts...)...)
}

func TestGenerateSendsExplicitZeroTemperature(t *testing.T) {
	var captured map[string]any
	backend := newBackend(t, &captured)
	defer backend.Close()

	g := newTestGenerator(backend.URL, generator.WithTemperature(0))

	out, err := g.Generate(context.Background(), "be terse", "hello")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)

	// a configured zero must reach the API instead of being dropped by the
	// codec and silently replaced with the backend default
	temperature, present := captured["temperature"]
	require.True(t, present)
	assert.InDelta(t, 0, temperature.(float64), 1e-6)
}

func TestGenerateOmitsUnsetTemperature(t *testing.T) {
	var captured map[string]any
	backend := newBackend(t, &captured)
	defer backend.Close()

	g := newTestGenerator(backend.URL)

	_, err := g.Generate(context.Background(), "", "hello")
	require.NoError(t, err)

	_, present := captured["temperature"]
	assert.False(t, present)
}

func TestGenerateSendsSystemAndUserMessages(t *testing.T) {
	var captured map[string]any
	backend := newBackend(t, &captured)
	defer backend.Close()

	g := newTestGenerator(backend.URL)

	_, err := g.Generate(context.Background(), "be terse", "hello")
	require.NoError(t, err)

	messages, ok := captured["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)

	first := messages[0].(map[string]any)
	assert.Equal(t, "system", first["role"])
	assert.Equal(t, "be terse", first["content"])

	second := messages[1].(map[string]any)
	assert.Equal(t, "user", second["role"])
	assert.Equal(t, "hello", second["content"])
}
