package openai

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/perbu/faqchat/pkg/generator"
)

// DefaultModel is used when no model is configured
const DefaultModel = "gpt-4o-mini"

var _ generator.Generator = (*Generator)(nil)

// Generator uses the OpenAI chat completions API
type Generator struct {
	client    *openai.Client
	model     string
	maxTokens int
}

// New creates an OpenAI generator
func New(opts ...generator.Option) *Generator {
	options := generator.NewOptions(opts...)

	config := openai.DefaultConfig(options.ApiKey)
	if options.BaseURL != "" {
		config.BaseURL = options.BaseURL
	}

	model := options.Model
	if model == "" {
		model = DefaultModel
	}

	return &Generator{
		client:    openai.NewClientWithConfig(config),
		model:     model,
		maxTokens: options.MaxTokens,
	}
}

// Generate sends prompt as a single user message
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens: g.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: %w", generator.ErrEmptyResponse)
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// ModelInfo returns model information
func (g *Generator) ModelInfo() string {
	return "openai-" + g.model
}
