package anthropic

import (
	"context"
	"fmt"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	anthropicopt "github.com/anthropics/anthropic-sdk-go/option"

	"github.com/perbu/faqchat/pkg/generator"
)

const DefaultModel = "claude-3-5-haiku-latest"

var _ generator.Generator = (*Generator)(nil)

// Generator uses the Anthropic messages API
type Generator struct {
	client    anthropic.Client
	model     string
	maxTokens int
}

func New(opts ...generator.Option) *Generator {
	options := generator.NewOptions(opts...)

	reqOpts := []anthropicopt.RequestOption{
		anthropicopt.WithAPIKey(options.ApiKey),
	}
	if options.BaseURL != "" {
		reqOpts = append(reqOpts, anthropicopt.WithBaseURL(options.BaseURL))
	}

	model := options.Model
	if model == "" {
		model = DefaultModel
	}

	return &Generator{
		client:    anthropic.NewClient(reqOpts...),
		model:     model,
		maxTokens: options.MaxTokens,
	}
}

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	rsp, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: int64(g.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic: %w", err)
	}

	if len(rsp.Content) == 0 {
		return "", fmt.Errorf("anthropic: %w", generator.ErrEmptyResponse)
	}

	var b strings.Builder
	for _, content := range rsp.Content {
		if text, ok := content.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(text.Text)
		}
	}

	return strings.TrimSpace(b.String()), nil
}

// ModelInfo returns model information
func (g *Generator) ModelInfo() string {
	return "anthropic-" + g.model
}
