package mock

import (
	"context"

	"github.com/perbu/faqchat/pkg/generator"
)

var _ generator.Generator = (*Generator)(nil)

// Generator is a mock implementation of generator.Generator.
type Generator struct {
	GenerateFn func(ctx context.Context, prompt string) (string, error)

	Calls   int
	Prompts []string
}

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	g.Calls++
	g.Prompts = append(g.Prompts, prompt)
	return g.GenerateFn(ctx, prompt)
}
