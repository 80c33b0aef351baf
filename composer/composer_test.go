package composer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/minutes/retriever"
)

type stubEmbedder struct {
	vector []float32
	err    error
}

func (e *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return e.vector, e.err
}

func (e *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = e.vector
	}
	return vectors, e.err
}

type stubRetriever struct {
	teamId string
	limit  int
	docs   []retriever.Document
	err    error
}

func (r *stubRetriever) FindSimilar(ctx context.Context, teamId string, vector []float32, opts ...retriever.SearchOption) ([]retriever.Document, error) {
	options := retriever.NewSearchOptions(opts...)
	r.teamId = teamId
	r.limit = options.Limit
	return r.docs, r.err
}

type stubGenerator struct {
	calls  int
	system string
	prompt string
	output string
	err    error
}

func (g *stubGenerator) Generate(ctx context.Context, system string, prompt string) (string, error) {
	g.calls++
	g.system = system
	g.prompt = prompt
	return g.output, g.err
}

type wordTokenizer struct{}

func (wordTokenizer) Count(text string) int {
	return len(strings.Fields(text))
}

func (wordTokenizer) Truncate(text string, maxTokens int) (string, bool) {
	words := strings.Fields(text)
	if len(words) <= maxTokens {
		return text, false
	}
	return strings.Join(words[:maxTokens], " "), true
}

func TestAnswerEmptyRetrievalShortCircuits(t *testing.T) {
	gen := &stubGenerator{output: "should never be used"}
	c := New(&stubEmbedder{vector: []float32{1}}, &stubRetriever{}, gen, wordTokenizer{})

	answer, err := c.Answer(context.Background(), "team-1", "what was decided?")
	require.NoError(t, err)

	assert.Equal(t, FallbackAnswer, answer)
	assert.Zero(t, gen.calls)
}

func TestAnswerSingleDocumentUnderBudget(t *testing.T) {
	ret := &stubRetriever{docs: []retriever.Document{
		{MeetingId: "1", Content: "the budget review approved the new hire"},
	}}
	gen := &stubGenerator{output: "a new hire was approved"}
	c := New(&stubEmbedder{vector: []float32{1}}, ret, gen, wordTokenizer{}, WithTokenBudget(4096))

	answer, err := c.Answer(context.Background(), "team-1", "what was decided?")
	require.NoError(t, err)

	assert.Equal(t, "a new hire was approved", answer)
	assert.Equal(t, 1, gen.calls)
	assert.Contains(t, gen.prompt, introduction)
	assert.Contains(t, gen.prompt, "the budget review approved the new hire")
	assert.Contains(t, gen.prompt, "Question: what was decided?")
}

func TestAnswerThreadsTeamScopeAndTopN(t *testing.T) {
	ret := &stubRetriever{docs: []retriever.Document{{MeetingId: "1", Content: "notes"}}}
	c := New(&stubEmbedder{vector: []float32{1}}, ret, &stubGenerator{output: "ok"}, wordTokenizer{}, WithTopN(3))

	_, err := c.Answer(context.Background(), "team-42", "anything?")
	require.NoError(t, err)

	assert.Equal(t, "team-42", ret.teamId)
	assert.Equal(t, 3, ret.limit)
}

func TestComposeStopsAtBudget(t *testing.T) {
	tok := wordTokenizer{}

	docs := []retriever.Document{
		{MeetingId: "1", Content: strings.Repeat("alpha ", 10)},
		{MeetingId: "2", Content: strings.Repeat("bravo ", 10)},
		{MeetingId: "3", Content: strings.Repeat("charlie ", 10)},
	}

	intro := tok.Count(introduction)
	// enough for the first block and the question, not for a second block
	budget := intro + 20 + 10

	c := New(&stubEmbedder{vector: []float32{1}}, &stubRetriever{}, &stubGenerator{}, tok, WithTokenBudget(budget))

	prompt := c.compose("what happened?", docs)

	assert.LessOrEqual(t, tok.Count(prompt), budget)
	assert.Contains(t, prompt, "alpha")
	assert.NotContains(t, prompt, "bravo")
	assert.NotContains(t, prompt, "charlie")
	assert.True(t, strings.HasSuffix(prompt, "Question: what happened?"))
}

func TestComposeDropsOversizedFirstDocument(t *testing.T) {
	tok := wordTokenizer{}

	docs := []retriever.Document{
		{MeetingId: "1", Content: strings.Repeat("word ", 500)},
	}

	c := New(&stubEmbedder{vector: []float32{1}}, &stubRetriever{}, &stubGenerator{}, tok, WithTokenBudget(tok.Count(introduction)+10))

	prompt := c.compose("short question?", docs)

	// degrades to introduction + question only
	assert.NotContains(t, prompt, "word")
	assert.Contains(t, prompt, introduction)
	assert.True(t, strings.HasSuffix(prompt, "Question: short question?"))
}

func TestAnswerPropagatesEmbedFailure(t *testing.T) {
	c := New(&stubEmbedder{err: errors.New("backend down")}, &stubRetriever{}, &stubGenerator{}, wordTokenizer{})

	_, err := c.Answer(context.Background(), "team-1", "query")
	require.Error(t, err)
	assert.ErrorContains(t, err, "backend down")
}

func TestAnswerRejectsEmptyQuery(t *testing.T) {
	c := New(&stubEmbedder{vector: []float32{1}}, &stubRetriever{}, &stubGenerator{}, wordTokenizer{})

	_, err := c.Answer(context.Background(), "team-1", "  ")
	require.Error(t, err)
}
