package generator

import (
	"context"
	"errors"
)

// DefaultMaxTokens caps the length of a completion
const DefaultMaxTokens = 250

// ErrEmptyResponse is returned when the service answers without any
// choice or content block. Blank text is not an error.
var ErrEmptyResponse = errors.New("empty completion")

// Generator turns a single user prompt into a text completion
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
