package gemini

import (
	"context"
	"fmt"
	"math"
	"strings"

	"google.golang.org/genai"

	"github.com/perbu/faqchat/pkg/generator"
)

const DefaultModel = "gemini-2.5-flash"

var _ generator.Generator = (*Generator)(nil)

// Generator uses the Gemini API through google.golang.org/genai
type Generator struct {
	client    *genai.Client
	model     string
	maxTokens int
}

// New creates a Gemini generator. Unlike the other providers the genai
// client is constructed eagerly and may fail.
func New(ctx context.Context, opts ...generator.Option) (*Generator, error) {
	options := generator.NewOptions(opts...)

	config := &genai.ClientConfig{
		APIKey:  options.ApiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if options.BaseURL != "" {
		config.HTTPOptions.BaseURL = options.BaseURL
	}

	client, err := genai.NewClient(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("gemini: creating client: %w", err)
	}

	model := options.Model
	if model == "" {
		model = DefaultModel
	}

	return &Generator{
		client:    client,
		model:     model,
		maxTokens: options.MaxTokens,
	}, nil
}

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	result, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		}},
		BuildConfig(g.maxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	if result == nil || len(result.Candidates) == 0 {
		return "", fmt.Errorf("gemini: %w", generator.ErrEmptyResponse)
	}

	return strings.TrimSpace(result.Text()), nil
}

// BuildConfig returns the GenerateContentConfig for a completion capped at
// maxTokens. Limits beyond what the API field holds are clamped.
func BuildConfig(maxTokens int) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		MaxOutputTokens: int32(min(maxTokens, math.MaxInt32)),
	}
}

// ModelInfo returns model information
func (g *Generator) ModelInfo() string {
	return "gemini-" + g.model
}
