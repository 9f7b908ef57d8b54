package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/perbu/faqchat/pkg/assistant"
	"github.com/perbu/faqchat/pkg/faq"
	"github.com/perbu/faqchat/pkg/generator"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	FAQFile      string
	SupportEmail string
	Records      []faq.Record
	Generator    generator.Generator // nil when no API key is configured
}

// Assistant builds an assistant over the loaded records.
func (d *Dependencies) Assistant(opts ...assistant.Option) *assistant.Assistant {
	logger := d.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	opts = append([]assistant.Option{
		assistant.WithSupportEmail(d.SupportEmail),
		assistant.WithLogger(logger),
	}, opts...)
	return assistant.New(d.Records, d.Generator, opts...)
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	FAQFile      string `name:"faq-file" env:"FAQ_FILE" default:"faqs.txt" help:"Path to the FAQ file"`
	Provider     string `env:"FAQCHAT_PROVIDER" default:"openai" enum:"openai,anthropic,gemini" help:"Completion service for questions the FAQ does not cover"`
	APIKey       string `name:"api-key" env:"FAQCHAT_API_KEY" help:"API key for the completion service, defaults to the provider's usual variable"`
	Model        string `env:"FAQCHAT_MODEL" help:"Model name, provider default when empty"`
	BaseURL      string `name:"base-url" env:"FAQCHAT_BASE_URL" help:"Override the completion service endpoint"`
	MaxTokens    int    `name:"max-tokens" env:"FAQCHAT_MAX_TOKENS" default:"250" help:"Length limit of generated replies"`
	SupportEmail string `name:"support-email" env:"SUPPORT_EMAIL" default:"support@example.com" help:"Escalation contact"`
	LogLevel     string `name:"log-level" env:"LOG_LEVEL" default:"info" enum:"debug,info,warn,error" help:"Log level"`

	Serve ServeCmd `cmd:"" default:"withargs" help:"Serve the chat page"`
	Ask   AskCmd   `cmd:"" help:"Answer a single query from the command line"`
	List  ListCmd  `cmd:"" help:"List the FAQ records"`
	Lint  LintCmd  `cmd:"" help:"Check the FAQ file for problems"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr          string        `env:"FAQCHAT_ADDR" default:":8080" help:"Listen address"`
	Title         string        `default:"Support Assistant" help:"Page title"`
	SessionSecret string        `name:"session-secret" env:"SESSION_SECRET" default:"change-me-in-production-min-32-chars" help:"Secret for cookie encryption"`
	SessionIdle   time.Duration `name:"session-idle" default:"30m" help:"Drop conversations idle for this long"`
	AccessLog     bool          `name:"access-log" default:"true" negatable:"" help:"Log every request"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Query   []string `arg:"" help:"Question to answer"`
	Top     int      `default:"5" help:"Number of matching records to list"`
	Full    bool     `help:"Show full answers of all listed records"`
	Verbose bool     `help:"Enable verbose output for debugging"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct{}

// LintCmd is the "lint" subcommand.
type LintCmd struct{}
