package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/perbu/faqchat/pkg/chat"
	"github.com/perbu/faqchat/pkg/faq"
	"github.com/perbu/faqchat/pkg/generator"
	"github.com/perbu/faqchat/pkg/metrics"
	"github.com/perbu/faqchat/pkg/render"
)

// DefaultSupportEmail is the escalation contact used when none is configured
const DefaultSupportEmail = "support@example.com"

var ErrEmptyQuery = errors.New("query is empty")

// Assistant answers queries from the FAQ records and falls back to a
// Generator when none match
type Assistant struct {
	records      []faq.Record
	generator    generator.Generator
	supportEmail string
	metrics      *metrics.Recorder
	logger       *slog.Logger
	now          func() time.Time
}

type Option func(*Assistant)

func WithSupportEmail(email string) Option {
	return func(a *Assistant) {
		if email != "" {
			a.supportEmail = email
		}
	}
}

func WithMetrics(r *metrics.Recorder) Option {
	return func(a *Assistant) {
		a.metrics = r
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(a *Assistant) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithClock replaces time.Now for stamping turns
func WithClock(now func() time.Time) Option {
	return func(a *Assistant) {
		a.now = now
	}
}

// New creates an Assistant over records. gen may be nil, in which case
// unmatched queries get a notice instead of a completion.
func New(records []faq.Record, gen generator.Generator, opts ...Option) *Assistant {
	a := &Assistant{
		records:      records,
		generator:    gen,
		supportEmail: DefaultSupportEmail,
		logger:       slog.Default(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Respond answers query and appends the turn to session. When the
// completion service fails the error is returned and session is left as
// it was.
func (a *Assistant) Respond(ctx context.Context, session *chat.Session, query string) (chat.Turn, error) {
	if strings.TrimSpace(query) == "" {
		return chat.Turn{}, ErrEmptyQuery
	}

	turn := chat.Turn{
		Query: query,
		At:    a.now(),
	}

	matches := faq.Match(query, a.records)
	if best, ok := faq.Best(matches); ok {
		turn.Answer = render.FAQAnswer(best.Record)
		turn.Source = chat.SourceFAQ
		turn.Question = best.Record.Question
		turn.Score = best.Score
		a.logger.Debug("faq match", "session", session.ID(), "question", best.Record.Question, "score", best.Score, "matches", len(matches))
	} else if a.generator != nil {
		answer, err := a.fallback(ctx, query)
		if err != nil {
			a.metrics.Query(metrics.OutcomeError)
			a.logger.Error("completion failed", "session", session.ID(), "error", err)
			return chat.Turn{}, err
		}
		turn.Answer = answer
		turn.Source = chat.SourceFallback
	} else {
		turn.Answer = UnavailableAnswer(a.supportEmail)
		turn.Source = chat.SourceUnavailable
		a.logger.Warn("no faq match and no completion service configured", "session", session.ID())
	}

	session.Append(turn)
	a.metrics.Query(string(turn.Source))

	return turn, nil
}

func (a *Assistant) fallback(ctx context.Context, query string) (string, error) {
	begin := time.Now()
	answer, err := a.generator.Generate(ctx, BuildPrompt(query, a.supportEmail))
	a.metrics.Fallback(time.Since(begin))
	if err != nil {
		return "", fmt.Errorf("completion service: %w", err)
	}
	return answer, nil
}

// FallbackEnabled reports whether unmatched queries reach the completion service
func (a *Assistant) FallbackEnabled() bool {
	return a.generator != nil
}

// Records returns the FAQ records in file order
func (a *Assistant) Records() []faq.Record {
	return a.records
}

func (a *Assistant) SupportEmail() string {
	return a.supportEmail
}

// BuildPrompt builds the escalation prompt for a query no FAQ record matched
func BuildPrompt(query, supportEmail string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "User asked: %s.\n", query)
	sb.WriteString("No FAQ match found.\n")
	fmt.Fprintf(&sb, "Respond politely and escalate to support: %s", supportEmail)
	return sb.String()
}

// UnavailableAnswer is given for unmatched queries when no completion
// service is configured
func UnavailableAnswer(supportEmail string) string {
	return fmt.Sprintf("Sorry, I couldn't find an answer to that in our FAQ. Please contact %s and our team will help you.", supportEmail)
}
