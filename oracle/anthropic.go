package oracle

import (
	"context"
	"fmt"
	"log"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "claude-sonnet-4-5-20250929"

const maxResponseTokens = 4096

// AnthropicGenerator implements StructuredGenerator against the Anthropic
// Messages API. When the primary model fails and a fallback model is set,
// the request is retried once on the fallback.
type AnthropicGenerator struct {
	client        anthropic.Client
	model         string
	fallbackModel string
}

// NewAnthropicGenerator creates a generator. model may be empty, in which
// case DefaultModel is used; fallbackModel may be empty to disable the
// retry.
func NewAnthropicGenerator(apiKey, model, fallbackModel string) *AnthropicGenerator {
	if model == "" {
		model = DefaultModel
	}
	return &AnthropicGenerator{
		client:        anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:         model,
		fallbackModel: fallbackModel,
	}
}

// GenerateStructuredJSON sends the prompt as a single user message and
// returns the first text block of the response.
func (g *AnthropicGenerator) GenerateStructuredJSON(ctx context.Context, prompt string) (string, error) {
	text, err := g.call(ctx, g.model, prompt)
	if err == nil {
		return text, nil
	}
	if g.fallbackModel == "" || g.fallbackModel == g.model {
		return "", err
	}

	log.Printf("oracle model=%s failed, retrying with fallback=%s: %v", g.model, g.fallbackModel, err)
	return g.call(ctx, g.fallbackModel, prompt)
}

func (g *AnthropicGenerator) call(ctx context.Context, model, prompt string) (string, error) {
	message, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: maxResponseTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic request: %w", err)
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in response from %s", model)
}
