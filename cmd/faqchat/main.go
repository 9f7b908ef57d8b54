package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/perbu/faqchat/pkg/generator"
	"github.com/perbu/faqchat/pkg/generator/anthropic"
	"github.com/perbu/faqchat/pkg/generator/gemini"
	"github.com/perbu/faqchat/pkg/generator/openai"
	"github.com/perbu/faqchat/pkg/loader"
)

func main() {
	// Load .env file if it exists (for API key)
	_ = godotenv.Load()

	m := NewMain()
	if err := m.Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// NewGenerator builds the completion client. Replaced in tests.
	NewGenerator func(ctx context.Context, provider string, opts ...generator.Option) (generator.Generator, error)
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		NewGenerator: newGenerator,
	}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("faqchat"),
		kong.Description("FAQ assistant with a language model fallback."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	for _, arg := range args {
		if arg == "--help" || arg == "-h" {
			_, _ = parser.Parse(args)
			return nil
		}
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	deps.Logger = newLogger(stderr, cli.LogLevel)
	deps.FAQFile = cli.FAQFile
	deps.SupportEmail = cli.SupportEmail

	// lint reads the file itself
	if kongCtx.Command() != "lint" {
		records, err := loader.LoadFile(cli.FAQFile)
		if err != nil {
			return fmt.Errorf("failed to load FAQs: %w", err)
		}
		if len(records) == 0 {
			deps.Logger.Info("no FAQ records loaded", "path", cli.FAQFile)
		}
		deps.Records = records

		apiKey := cli.APIKey
		if apiKey == "" {
			apiKey = os.Getenv(apiKeyEnv(cli.Provider))
		}
		if apiKey == "" {
			fmt.Fprintf(stderr, "Warning: %s API key not found. Put %s in .env to enable answers for questions outside the FAQ.\n", cli.Provider, apiKeyEnv(cli.Provider))
		} else {
			gen, err := m.NewGenerator(ctx, cli.Provider,
				generator.WithApiKey(apiKey),
				generator.WithModel(cli.Model),
				generator.WithMaxTokens(cli.MaxTokens),
				generator.WithBaseURL(cli.BaseURL),
			)
			if err != nil {
				return fmt.Errorf("failed to initialize %s client: %w", cli.Provider, err)
			}
			deps.Generator = gen
		}
	}

	return kongCtx.Run(deps)
}

func newGenerator(ctx context.Context, provider string, opts ...generator.Option) (generator.Generator, error) {
	switch provider {
	case "anthropic":
		return anthropic.New(opts...), nil
	case "gemini":
		g, err := gemini.New(ctx, opts...)
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		return openai.New(opts...), nil
	}
}

// apiKeyEnv returns the conventional environment variable for the
// provider's API key
func apiKeyEnv(provider string) string {
	switch provider {
	case "anthropic":
		return "ANTHROPIC_API_KEY"
	case "gemini":
		return "GEMINI_API_KEY"
	default:
		return "OPENAI_API_KEY"
	}
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
}
