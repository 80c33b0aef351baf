package openai

import (
	"context"
	"math"

	"github.com/sashabaranov/go-openai"
	"github.com/w-h-a/minutes/generator"
)

type openAIGenerator struct {
	options generator.Options
	client  *openai.Client
}

func (g *openAIGenerator) Generate(ctx context.Context, system string, prompt string) (string, error) {
	messages := []openai.ChatCompletionMessage{}

	if len(system) > 0 {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}

	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	req := openai.ChatCompletionRequest{
		Model:    g.options.Model,
		Messages: messages,
	}

	if g.options.TemperatureSet {
		// the request codec drops a literal zero from the wire, so send the
		// smallest representable value instead; the backend rounds it back
		temperature := g.options.Temperature
		if temperature == 0 {
			temperature = math.SmallestNonzeroFloat32
		}
		req.Temperature = temperature
	}

	rsp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}

	if len(rsp.Choices) == 0 || len(rsp.Choices[0].Message.Content) == 0 {
		return "", generator.ErrNoContent
	}

	return rsp.Choices[0].Message.Content, nil
}

func NewGenerator(opts ...generator.Option) generator.Generator {
	options := generator.NewOptions(opts...)

	g := &openAIGenerator{
		options: options,
	}

	cfg := openai.DefaultConfig(options.ApiKey)
	if len(options.BaseURL) > 0 {
		cfg.BaseURL = options.BaseURL
	}

	g.client = openai.NewClientWithConfig(cfg)

	return g
}
