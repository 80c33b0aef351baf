package composer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/w-h-a/minutes/embedder"
	"github.com/w-h-a/minutes/generator"
	"github.com/w-h-a/minutes/retriever"
	"github.com/w-h-a/minutes/tokenizer"
)

const (
	introduction = `Use the below minutes of meetings to answer the subsequent question. If the answer cannot be found in the summaries, write "I could not find an answer."`

	systemPrompt = "You answer questions about the minutes of meetings. Respond in Arabic."

	// FallbackAnswer is returned when retrieval finds nothing for the team.
	// Arabic per product policy; no generative call is made in that case.
	FallbackAnswer = "عذراً، لم أتمكن من العثور على معلومات ذات صلة بسؤالك في محاضر الاجتماعات."
)

// Composer answers free-text questions from retrieved meeting minutes under
// a hard prompt token budget.
type Composer struct {
	options   Options
	embedder  embedder.Embedder
	retriever retriever.Retriever
	generator generator.Generator
	tokenizer tokenizer.Tokenizer
}

func (c *Composer) Answer(ctx context.Context, teamId string, query string) (string, error) {
	if len(strings.TrimSpace(query)) == 0 {
		return "", errors.New("query is required")
	}

	vector, err := c.embedder.Embed(ctx, query)
	if err != nil {
		return "", fmt.Errorf("embed query: %w", err)
	}

	docs, err := c.retriever.FindSimilar(ctx, teamId, vector, retriever.WithLimit(c.options.TopN))
	if err != nil {
		return "", fmt.Errorf("find similar: %w", err)
	}

	if len(docs) == 0 {
		slog.InfoContext(ctx, "no relevant minutes found", "team_id", teamId)
		return FallbackAnswer, nil
	}

	answer, err := c.generator.Generate(ctx, systemPrompt, c.compose(query, docs))
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}

	return answer, nil
}

// compose packs retrieved documents into the prompt greedily in rank order.
// Before each append the total of message, candidate block, and trailing
// question is re-checked against the budget; the first overflow stops the
// packing and later documents are omitted.
func (c *Composer) compose(query string, docs []retriever.Document) string {
	question := "\n\nQuestion: " + query
	message := introduction

	for _, doc := range docs {
		block := fmt.Sprintf("\n\nMinutes of Meeting:\n\"\"\"\n%s\n\"\"\"", doc.Content)
		if c.tokenizer.Count(message+block+question) > c.options.TokenBudget {
			break
		}
		message += block
	}

	return message + question
}

func New(
	embedder embedder.Embedder,
	retriever retriever.Retriever,
	generator generator.Generator,
	tokenizer tokenizer.Tokenizer,
	opts ...Option,
) *Composer {
	if embedder == nil {
		panic("embedder is required")
	}

	if retriever == nil {
		panic("retriever is required")
	}

	if generator == nil {
		panic("generator is required")
	}

	if tokenizer == nil {
		panic("tokenizer is required")
	}

	options := NewOptions(opts...)

	return &Composer{
		options:   options,
		embedder:  embedder,
		retriever: retriever,
		generator: generator,
		tokenizer: tokenizer,
	}
}
